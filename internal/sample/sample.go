// Package sample fabricates a realistic metadata document so the docs and
// web layers can be demoed without a real .pbix file.
package sample

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"pbnj/internal/model"
	"pbnj/internal/parser"
)

// 측정값 이름 템플릿 (분류 그룹이 골고루 나오도록)
var measureTemplates = []struct {
	format string
	expr   string
}{
	{"total_%s_amt", "SUM('%[1]s'[Amount])"},
	{"%s_cnt", "COUNTROWS('%[1]s')"},
	{"avg_%s_price", "AVERAGE('%[1]s'[UnitPrice])"},
	{"%s_margin_pct", "DIVIDE([total_%[1]s_amt] - [total_%[1]s_cost], [total_%[1]s_amt])"},
	{"ytd_%s_rev", "TOTALYTD([total_%[1]s_amt], 'Calendar'[Date])"},
}

var columnTypes = []string{"int64", "string", "decimal", "dateTime", "boolean"}

// Document fabricates a complete metadata document. The same seed always
// produces the same document.
func Document(seed int64, tableCount int) *model.Document {
	faker := gofakeit.New(seed)
	rng := rand.New(rand.NewSource(seed))

	if tableCount < 1 {
		tableCount = 4
	}

	tables := make([]model.Table, 0, tableCount)
	var measures []model.Measure
	var relationships []model.Relationship
	var rawParts []string

	for i := 0; i < tableCount; i++ {
		name := tableName(faker, i)

		colCount := 3 + rng.Intn(5)
		cols := make([]model.Column, 0, colCount)
		cols = append(cols, model.Column{
			Name:     name + "ID",
			DataType: "int64",
			IsKey:    true,
		})
		for c := 1; c < colCount; c++ {
			cols = append(cols, model.Column{
				Name:       capitalize(faker.Noun()),
				DataType:   columnTypes[rng.Intn(len(columnTypes))],
				IsNullable: true,
			})
		}

		tables = append(tables, model.Table{
			Name:        name,
			Type:        "Table",
			Description: faker.Sentence(6),
			Columns:     cols,
		})

		// 첫 테이블을 팩트로 보고 나머지는 차원 테이블로 연결
		if i > 0 {
			relationships = append(relationships, model.Relationship{
				FromTable:   tables[0].Name,
				FromColumn:  name + "ID",
				ToTable:     name,
				ToColumn:    name + "ID",
				Cardinality: "many-to-one",
				IsActive:    true,
			})
		}

		lower := strings.ToLower(name)
		tmpl := measureTemplates[i%len(measureTemplates)]
		measures = append(measures, model.Measure{
			Name:       fmt.Sprintf(tmpl.format, lower),
			Table:      name,
			Expression: fmt.Sprintf(tmpl.expr, name),
		})

		code := queryCode(faker, name, i)
		rawParts = append(rawParts, code)
	}

	raw := "section Section1;\n\n" + strings.Join(rawParts, "\n\n")
	queries := parser.SplitQueries(raw)

	sizeBytes := int64(1<<20 + rng.Intn(10<<20))
	return &model.Document{
		FileInfo: model.FileInfo{
			Name:      "sample.pbix",
			Path:      "sample.pbix",
			SizeBytes: sizeBytes,
		},
		Tables:            model.Ok(tables),
		Relationships:     model.Ok(relationships),
		Measures:          model.Ok(measures),
		CalculatedColumns: model.Ok([]model.CalculatedColumn{}),
		PowerQuery: model.PowerQuery{
			RawCode:    raw,
			Queries:    queries,
			Parameters: []model.Parameter{},
			Functions:  []model.Parameter{},
		},
		Parameters: model.Ok([]model.Parameter{}),
		ModelMetadata: model.Metadata{Values: map[string]any{
			"name":    faker.Company(),
			"culture": "ko-KR",
		}},
	}
}

func tableName(faker *gofakeit.Faker, i int) string {
	// 첫 테이블은 항상 팩트 테이블
	if i == 0 {
		return "Sales"
	}
	return capitalize(faker.NounCollectiveThing())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// queryCode alternates between Excel and SQL Server sources so the derived
// data-source insight has something to find.
func queryCode(faker *gofakeit.Faker, table string, i int) string {
	if i%2 == 0 {
		return fmt.Sprintf(
			"shared %s = let\n    Source = Excel.Workbook(File.Contents(\"%s.xlsx\")),\n    Data = Source{[Item=\"%s\",Kind=\"Sheet\"]}[Data]\nin\n    Data;",
			table, strings.ToLower(table), table)
	}
	return fmt.Sprintf(
		"shared %s = let\n    Source = Sql.Database(\"%s\", \"%s\"),\n    Data = Source{[Schema=\"dbo\",Item=\"%s\"]}[Data]\nin\n    Data;",
		table, strings.ToUpper(faker.LetterN(3))+"SQL01", table+"DW", table)
}
