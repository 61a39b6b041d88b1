// Package pbix reads the Power BI file container and exposes its model
// as loosely-typed listings. The parser package treats this as a black box:
// every accessor may return an empty listing or an error, and the caller is
// expected to tolerate both.
package pbix

// SchemaRow is one row of the pre-joined table/column schema view.
// IsKey and IsNullable stay nil when the container does not carry the flag.
type SchemaRow struct {
	TableName   string
	ColumnName  string
	DataType    string
	Description string
	IsKey       *bool
	IsNullable  *bool
}

type RelationshipRow struct {
	FromTable            string
	FromColumn           string
	ToTable              string
	ToColumn             string
	Cardinality          string
	CrossFilterDirection string
	IsActive             *bool
}

type MeasureRow struct {
	Name          string
	Table         string
	Expression    string
	Description   string
	DisplayFolder string
	FormatString  string
}

type CalcColumnRow struct {
	Name          string
	Table         string
	Expression    string
	Description   string
	DataType      string
	DisplayFolder string
}

// ParameterRow is an opaque upstream parameter record.
type ParameterRow map[string]any

// TableRow carries the per-table flags exposed alongside the name listing.
type TableRow struct {
	Name        string
	Description string
	Hidden      bool
}

// Model is the upstream model contract consumed by the parser. Listings may
// be empty, partially populated, or fail on access.
type Model interface {
	Tables() ([]TableRow, error)
	Schema() ([]SchemaRow, error)
	Relationships() ([]RelationshipRow, error)
	Measures() ([]MeasureRow, error)
	CalculatedColumns() ([]CalcColumnRow, error)
	PowerQuery() (string, error)
	Parameters() ([]ParameterRow, error)
	Metadata() (map[string]any, error)
}
