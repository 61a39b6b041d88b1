package pbix

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf16"
)

// Container reads the .pbix/.pbit zip container. Both parts are optional,
// but a file carrying neither is rejected as unrecognized:
//   - DataModelSchema: TMSL model JSON (UTF-16LE in files written by
//     Power BI Desktop, plain UTF-8 in repacked ones)
//   - DataMashup: binary part with a length-prefixed embedded zip holding
//     the M section (Formulas/Section1.m)
type Container struct {
	path   string
	schema *tmslFile
	mashup string
}

var _ Model = (*Container)(nil)

// Open reads the container parts into memory and closes the file. Failure
// here is the one fatal error of the whole extraction.
func Open(path string) (*Container, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open container %s: %w", filepath.Base(path), err)
	}
	defer zr.Close()

	c := &Container{path: path}
	found := false

	for _, f := range zr.File {
		switch f.Name {
		case "DataModelSchema":
			data, err := readZipFile(f)
			if err != nil {
				return nil, fmt.Errorf("failed to read DataModelSchema: %w", err)
			}
			var schema tmslFile
			if err := json.Unmarshal([]byte(decodeText(data)), &schema); err != nil {
				return nil, fmt.Errorf("failed to parse DataModelSchema: %w", err)
			}
			c.schema = &schema
			found = true
		case "DataMashup":
			data, err := readZipFile(f)
			if err != nil {
				return nil, fmt.Errorf("failed to read DataMashup: %w", err)
			}
			c.mashup = extractSection(data)
			found = true
		}
	}

	if !found {
		return nil, fmt.Errorf("%s is not a recognized pbix/pbit container (no DataModelSchema or DataMashup part)", filepath.Base(path))
	}
	return c, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Tables lists the model tables in schema order with their per-table flags.
func (c *Container) Tables() ([]TableRow, error) {
	if c.schema == nil {
		return nil, fmt.Errorf("container has no model schema part")
	}
	var rows []TableRow
	for _, t := range c.schema.Model.Tables {
		rows = append(rows, TableRow{
			Name:        t.Name,
			Description: t.Description,
			Hidden:      t.IsHidden,
		})
	}
	return rows, nil
}

// Schema returns the flat column view keyed by table name. Calculated
// columns are excluded here; they surface via CalculatedColumns.
func (c *Container) Schema() ([]SchemaRow, error) {
	if c.schema == nil {
		return nil, fmt.Errorf("container has no model schema part")
	}
	var rows []SchemaRow
	for _, t := range c.schema.Model.Tables {
		for _, col := range t.Columns {
			if col.Type == "calculated" {
				continue
			}
			rows = append(rows, SchemaRow{
				TableName:   t.Name,
				ColumnName:  col.Name,
				DataType:    col.DataType,
				Description: col.Description,
				IsKey:       col.IsKey,
				IsNullable:  col.IsNullable,
			})
		}
	}
	return rows, nil
}

func (c *Container) Relationships() ([]RelationshipRow, error) {
	if c.schema == nil {
		return nil, fmt.Errorf("container has no model schema part")
	}
	var rows []RelationshipRow
	for _, r := range c.schema.Model.Relationships {
		rows = append(rows, RelationshipRow{
			FromTable:            r.FromTable,
			FromColumn:           r.FromColumn,
			ToTable:              r.ToTable,
			ToColumn:             r.ToColumn,
			Cardinality:          cardinalityLabel(r.FromCardinality, r.ToCardinality),
			CrossFilterDirection: r.CrossFilteringBehavior,
			IsActive:             r.IsActive,
		})
	}
	return rows, nil
}

func (c *Container) Measures() ([]MeasureRow, error) {
	if c.schema == nil {
		return nil, fmt.Errorf("container has no model schema part")
	}
	var rows []MeasureRow
	for _, t := range c.schema.Model.Tables {
		for _, m := range t.Measures {
			rows = append(rows, MeasureRow{
				Name:          m.Name,
				Table:         t.Name,
				Expression:    string(m.Expression),
				Description:   m.Description,
				DisplayFolder: m.DisplayFolder,
				FormatString:  m.FormatString,
			})
		}
	}
	return rows, nil
}

func (c *Container) CalculatedColumns() ([]CalcColumnRow, error) {
	if c.schema == nil {
		return nil, fmt.Errorf("container has no model schema part")
	}
	var rows []CalcColumnRow
	for _, t := range c.schema.Model.Tables {
		for _, col := range t.Columns {
			if col.Type != "calculated" {
				continue
			}
			rows = append(rows, CalcColumnRow{
				Name:          col.Name,
				Table:         t.Name,
				Expression:    string(col.Expression),
				Description:   col.Description,
				DataType:      col.DataType,
				DisplayFolder: col.DisplayFolder,
			})
		}
	}
	return rows, nil
}

// PowerQuery returns the raw M section text, or "" when the container has
// no mashup part.
func (c *Container) PowerQuery() (string, error) {
	return c.mashup, nil
}

// Parameters is not yet exposed by the container parts we read.
func (c *Container) Parameters() ([]ParameterRow, error) {
	return nil, nil
}

func (c *Container) Metadata() (map[string]any, error) {
	if c.schema == nil {
		return nil, fmt.Errorf("container has no model schema part")
	}
	meta := map[string]any{}
	if c.schema.Name != "" {
		meta["name"] = c.schema.Name
	}
	if c.schema.CompatibilityLevel != 0 {
		meta["compatibility_level"] = c.schema.CompatibilityLevel
	}
	if c.schema.Model.Culture != "" {
		meta["culture"] = c.schema.Model.Culture
	}
	if c.schema.Model.DefaultMode != "" {
		meta["default_mode"] = c.schema.Model.DefaultMode
	}
	return meta, nil
}

// ---------------------------------------------------------------------
// TMSL model JSON
// ---------------------------------------------------------------------

type tmslFile struct {
	Name               string    `json:"name"`
	CompatibilityLevel int       `json:"compatibilityLevel"`
	Model              tmslModel `json:"model"`
}

type tmslModel struct {
	Culture       string             `json:"culture"`
	DefaultMode   string             `json:"defaultMode"`
	Tables        []tmslTable        `json:"tables"`
	Relationships []tmslRelationship `json:"relationships"`
}

type tmslTable struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	IsHidden    bool          `json:"isHidden"`
	Columns     []tmslColumn  `json:"columns"`
	Measures    []tmslMeasure `json:"measures"`
}

type tmslColumn struct {
	Name          string   `json:"name"`
	DataType      string   `json:"dataType"`
	Description   string   `json:"description"`
	Type          string   `json:"type"` // "calculated" for DAX columns
	Expression    exprText `json:"expression"`
	IsKey         *bool    `json:"isKey"`
	IsNullable    *bool    `json:"isNullable"`
	DisplayFolder string   `json:"displayFolder"`
}

type tmslMeasure struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Expression    exprText `json:"expression"`
	DisplayFolder string   `json:"displayFolder"`
	FormatString  string   `json:"formatString"`
}

type tmslRelationship struct {
	FromTable              string `json:"fromTable"`
	FromColumn             string `json:"fromColumn"`
	ToTable                string `json:"toTable"`
	ToColumn               string `json:"toColumn"`
	FromCardinality        string `json:"fromCardinality"`
	ToCardinality          string `json:"toCardinality"`
	CrossFilteringBehavior string `json:"crossFilteringBehavior"`
	IsActive               *bool  `json:"isActive"`
}

// exprText tolerates both TMSL expression encodings: a single string or an
// array of source lines.
type exprText string

func (e *exprText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*e = exprText(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(b, &lines); err != nil {
		return err
	}
	*e = exprText(strings.Join(lines, "\n"))
	return nil
}

// TMSL omits cardinality for the default many-to-one case.
func cardinalityLabel(from, to string) string {
	if from == "" {
		from = "many"
	}
	if to == "" {
		to = "one"
	}
	return from + "-to-" + to
}

// ---------------------------------------------------------------------
// Part decoding helpers
// ---------------------------------------------------------------------

// decodeText handles the BOM variants Power BI writes: UTF-16LE, UTF-16BE,
// UTF-8 with BOM, or plain UTF-8.
func decodeText(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFF && b[1] == 0xFE {
		return decodeUTF16(b[2:], binary.LittleEndian)
	}
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		return decodeUTF16(b[2:], binary.BigEndian)
	}
	return string(bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF}))
}

func decodeUTF16(b []byte, order binary.ByteOrder) string {
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, order.Uint16(b[i:]))
	}
	return string(utf16.Decode(units))
}

var zipSignature = []byte("PK\x03\x04")

// extractSection pulls the M section text out of the DataMashup part. The
// part starts with a 4-byte version and a 4-byte little-endian length of the
// embedded package zip; a signature scan covers layouts where the header
// deviates. Returns "" when no section is found (absent M code).
func extractSection(b []byte) string {
	if len(b) >= 8 {
		plen := binary.LittleEndian.Uint32(b[4:8])
		if end := 8 + int(plen); end <= len(b) {
			if text, ok := sectionFromZip(b[8:end]); ok {
				return text
			}
		}
	}

	// Fallback: scan for an embedded zip signature.
	for off := 0; off < len(b); {
		i := bytes.Index(b[off:], zipSignature)
		if i < 0 {
			break
		}
		start := off + i
		if text, ok := sectionFromZip(b[start:]); ok {
			return text
		}
		off = start + len(zipSignature)
	}
	return ""
}

func sectionFromZip(b []byte) (string, bool) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", false
	}
	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".m") {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			continue
		}
		return decodeText(data), true
	}
	return "", false
}
