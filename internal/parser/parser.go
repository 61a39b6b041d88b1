// Package parser turns one .pbix container into the canonical metadata
// document. Facet extraction is failure-isolated: a facet that cannot be
// read degrades to an inline error record while the rest of the document
// is still produced.
package parser

import (
	"fmt"
	"os"
	"path/filepath"

	"pbnj/internal/model"
	"pbnj/internal/pbix"
)

// Parser extracts and caches the metadata document for one file. The first
// ExtractMetadata call opens the container and runs every facet extractor
// exactly once; later calls return the cached document without touching the
// container or the filesystem again.
type Parser struct {
	path  string
	model pbix.Model
	doc   *model.Document
}

func New(path string) *Parser {
	return &Parser{path: path}
}

// NewFromModel injects an already-open model, for callers that manage the
// container themselves.
func NewFromModel(path string, m pbix.Model) *Parser {
	return &Parser{path: path, model: m}
}

func (p *Parser) loadModel() (pbix.Model, error) {
	if p.model == nil {
		m, err := pbix.Open(p.path)
		if err != nil {
			return nil, err
		}
		p.model = m
	}
	return p.model, nil
}

// ExtractMetadata assembles the full document. Only two failures are fatal:
// the filesystem stat and the container load. Everything downstream is
// isolated per facet.
func (p *Parser) ExtractMetadata() (*model.Document, error) {
	if p.doc != nil {
		return p.doc, nil
	}

	info, err := os.Stat(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source file: %w", err)
	}

	m, err := p.loadModel()
	if err != nil {
		return nil, err
	}

	p.doc = &model.Document{
		FileInfo: model.FileInfo{
			Name:      filepath.Base(p.path),
			Path:      p.path,
			SizeBytes: info.Size(),
		},
		Tables:            extractTables(m),
		Relationships:     extractRelationships(m),
		Measures:          extractMeasures(m),
		CalculatedColumns: extractCalculatedColumns(m),
		PowerQuery:        extractPowerQuery(m),
		Parameters:        extractParameters(m),
		ModelMetadata:     extractModelMetadata(m),
	}
	return p.doc, nil
}

// Summary extracts (or reuses) the document and returns its headline counts.
func (p *Parser) Summary() (model.Summary, error) {
	doc, err := p.ExtractMetadata()
	if err != nil {
		return model.Summary{}, err
	}
	return doc.Summarize(), nil
}

// SaveMetadata writes the document snapshot to path.
func (p *Parser) SaveMetadata(path string) error {
	doc, err := p.ExtractMetadata()
	if err != nil {
		return err
	}
	return model.Save(doc, path)
}

// ---------------------------------------------------------------------
// Facet extractors
// ---------------------------------------------------------------------

func extractTables(m pbix.Model) model.Facet[model.Table] {
	rows, err := m.Tables()
	if err != nil {
		return model.Fail[model.Table]("tables", err)
	}
	schema, err := m.Schema()
	if err != nil {
		return model.Fail[model.Table]("tables", err)
	}

	// 스키마 행을 테이블명 기준으로 묶는다
	colsByTable := make(map[string][]model.Column)
	for _, row := range schema {
		colsByTable[row.TableName] = append(colsByTable[row.TableName], model.Column{
			Name:        row.ColumnName,
			DataType:    row.DataType,
			IsKey:       boolOr(row.IsKey, false),
			IsNullable:  boolOr(row.IsNullable, true),
			Description: row.Description,
		})
	}

	var tables []model.Table
	for _, row := range rows {
		cols := colsByTable[row.Name]
		if cols == nil {
			cols = []model.Column{}
		}
		tables = append(tables, model.Table{
			Name:        row.Name,
			Type:        "Table",
			Description: row.Description,
			Hidden:      row.Hidden,
			Columns:     cols,
		})
	}
	return model.Ok(tables)
}

func extractRelationships(m pbix.Model) model.Facet[model.Relationship] {
	rows, err := m.Relationships()
	if err != nil {
		return model.Fail[model.Relationship]("relationships", err)
	}

	var rels []model.Relationship
	for _, row := range rows {
		rels = append(rels, model.Relationship{
			FromTable:            row.FromTable,
			FromColumn:           row.FromColumn,
			ToTable:              row.ToTable,
			ToColumn:             row.ToColumn,
			Cardinality:          row.Cardinality,
			CrossFilterDirection: row.CrossFilterDirection,
			IsActive:             boolOr(row.IsActive, true),
		})
	}
	return model.Ok(rels)
}

func extractMeasures(m pbix.Model) model.Facet[model.Measure] {
	rows, err := m.Measures()
	if err != nil {
		return model.Fail[model.Measure]("measures", err)
	}

	var measures []model.Measure
	for _, row := range rows {
		measures = append(measures, model.Measure{
			Name:          row.Name,
			Table:         row.Table,
			Expression:    row.Expression,
			Description:   row.Description,
			DisplayFolder: row.DisplayFolder,
			FormatString:  row.FormatString,
		})
	}
	return model.Ok(measures)
}

func extractCalculatedColumns(m pbix.Model) model.Facet[model.CalculatedColumn] {
	rows, err := m.CalculatedColumns()
	if err != nil {
		return model.Fail[model.CalculatedColumn]("calculated columns", err)
	}

	var cols []model.CalculatedColumn
	for _, row := range rows {
		cols = append(cols, model.CalculatedColumn{
			Name:          row.Name,
			Table:         row.Table,
			Expression:    row.Expression,
			Description:   row.Description,
			DataType:      row.DataType,
			DisplayFolder: row.DisplayFolder,
		})
	}
	return model.Ok(cols)
}

func extractPowerQuery(m pbix.Model) model.PowerQuery {
	raw, err := m.PowerQuery()
	if err != nil {
		return model.PowerQuery{Err: fmt.Sprintf("Failed to extract Power Query: %v", err)}
	}

	pq := model.PowerQuery{
		Queries:    []model.Query{},
		Parameters: []model.Parameter{},
		Functions:  []model.Parameter{},
	}
	if raw != "" {
		pq.RawCode = raw
		pq.Queries = SplitQueries(raw)
	}
	return pq
}

func extractParameters(m pbix.Model) model.Facet[model.Parameter] {
	rows, err := m.Parameters()
	if err != nil {
		return model.Fail[model.Parameter]("parameters", err)
	}

	params := []model.Parameter{}
	for _, row := range rows {
		params = append(params, model.Parameter(row))
	}
	return model.Ok(params)
}

func extractModelMetadata(m pbix.Model) model.Metadata {
	values, err := m.Metadata()
	if err != nil {
		return model.Metadata{Err: fmt.Sprintf("Failed to extract metadata: %v", err)}
	}
	return model.Metadata{Values: values}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
