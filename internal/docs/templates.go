package docs

import "text/template"

// 코드펜스는 raw string 안에 백틱을 못 쓰므로 함수로 주입
var tmpl = template.Must(template.New("docs").Funcs(template.FuncMap{
	"fence":    func() string { return "```" },
	"tick":     func() string { return "`" },
	"friendly": FriendlyLabel,
}).Parse(readmeTmpl + tablesTmpl + measuresTmpl + powerQueryTmpl +
	relationshipsTmpl + summaryTmpl + technicalTmpl + businessTmpl))

const readmeTmpl = `{{define "readme"}}# {{.Doc.FileInfo.Name}}

## Summary

- **File**: {{.Summary.FileName}}
- **Size**: {{printf "%.2f" .Summary.FileSizeMB}} MB
- **Tables**: {{.Summary.TableCount}}
- **Measures**: {{.Summary.MeasureCount}}
- **Relationships**: {{.Summary.RelationshipCount}}
- **Power Query Queries**: {{.Summary.PowerQueryCount}}

## Documentation

- [Tables](docs/tables.md)
- [Measures](docs/measures.md)
- [Power Query](docs/power_query.md)
- [Relationships](docs/relationships.md)
- [Executive Summary](docs/summary.md)
- [Technical Details](docs/technical.md)
- [Business Overview](docs/business.md)
{{end}}`

const tablesTmpl = `{{define "tables"}}# Tables
{{if .Doc.Tables.Failed}}
> {{.Doc.Tables.Err}}
{{else}}{{range .Doc.Tables.Items}}
## {{.Name}}

{{if .Description}}**Description**: {{.Description}}

{{end}}**Type**: {{.Type}}
**Hidden**: {{.Hidden}}
{{if .Columns}}
| Column | Data Type | Key | Nullable | Description |
|--------|-----------|-----|----------|-------------|
{{range .Columns}}| {{.Name}} | {{.DataType}} | {{.IsKey}} | {{.IsNullable}} | {{.Description}} |
{{end}}{{end}}{{end}}{{end}}{{end}}`

const measuresTmpl = `{{define "measures"}}# Measures
{{if .Doc.Measures.Failed}}
> {{.Doc.Measures.Err}}
{{else}}{{range .Doc.Measures.Items}}
## {{if .Name}}{{.Name}}{{else}}Unknown{{end}}

- **Table**: {{if .Table}}{{.Table}}{{else}}Unknown{{end}}
{{if .DisplayFolder}}- **Display Folder**: {{.DisplayFolder}}
{{end}}{{if .FormatString}}- **Format**: {{tick}}{{.FormatString}}{{tick}}
{{end}}{{if .Description}}- **Description**: {{.Description}}
{{end}}
{{fence}}dax
{{.Expression}}
{{fence}}
{{end}}{{end}}{{end}}`

const powerQueryTmpl = `{{define "power_query"}}# Power Query
{{if .Doc.PowerQuery.Failed}}
> {{.Doc.PowerQuery.Err}}
{{else}}
**Queries**: {{len .Doc.PowerQuery.Queries}}
{{range .Doc.PowerQuery.Queries}}
## {{.Name}}
{{if .Steps}}
### Steps

{{range .Steps}}- {{tick}}{{.}}{{tick}}
{{end}}{{end}}
### Code

{{fence}}powerquery
{{.Code}}
{{fence}}
{{end}}{{end}}{{end}}`

const relationshipsTmpl = `{{define "relationships"}}# Relationships
{{if .Doc.Relationships.Failed}}
> {{.Doc.Relationships.Err}}
{{else}}{{if .Doc.Relationships.Items}}
| From | To | Cardinality | Cross Filter | Active |
|------|----|-------------|--------------|--------|
{{range .Doc.Relationships.Items}}| {{.FromTable}}[{{.FromColumn}}] | {{.ToTable}}[{{.ToColumn}}] | {{.Cardinality}} | {{.CrossFilterDirection}} | {{.IsActive}} |
{{end}}{{else}}
No relationships defined.
{{end}}{{end}}{{end}}`

const summaryTmpl = `{{define "summary"}}# Executive Summary

**File**: {{.Summary.FileName}} ({{printf "%.2f" .Summary.FileSizeMB}} MB)

## Key Insights

- **Complexity Score**: {{.Insights.ComplexityScore}}
{{if .Insights.DataSources}}- **Data Sources**: {{range $i, $s := .Insights.DataSources}}{{if $i}}, {{end}}{{$s}}{{end}}
{{end}}{{if .Insights.KeyMetrics}}
## Key Metrics

{{range .Insights.KeyMetrics}}- {{.}}
{{end}}{{end}}{{end}}`

const technicalTmpl = `{{define "technical"}}# Technical Details

## File

- **Path**: {{.Doc.FileInfo.Path}}
- **Size**: {{.Doc.FileInfo.SizeBytes}} bytes

## Model Metadata
{{if .Doc.ModelMetadata.Failed}}
> {{.Doc.ModelMetadata.Err}}
{{else}}{{range $k, $v := .Doc.ModelMetadata.Values}}
- **{{$k}}**: {{$v}}{{end}}
{{end}}
## Calculated Columns
{{if .Doc.CalculatedColumns.Failed}}
> {{.Doc.CalculatedColumns.Err}}
{{else}}{{range .Doc.CalculatedColumns.Items}}
### {{.Table}}[{{.Name}}]

{{if .DataType}}- **Data Type**: {{.DataType}}
{{end}}{{if .Description}}- **Description**: {{.Description}}
{{end}}
{{fence}}dax
{{.Expression}}
{{fence}}
{{end}}{{end}}{{end}}`

const businessTmpl = `{{define "business"}}# Business Overview

{{.Business.Overview}}
{{range .Business.Groups}}
## {{.Label}}

{{range .Metrics}}- **{{friendly .Name}}**{{if .Table}} ({{.Table}}){{end}}
{{end}}{{end}}{{if .Insights.DataSources}}
## Data Sources

{{range .Insights.DataSources}}- {{.}}
{{end}}{{end}}{{end}}`
