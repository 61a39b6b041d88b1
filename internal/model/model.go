package model

import (
	"encoding/json"
	"fmt"
)

// FileInfo describes the source .pbix file itself.
type FileInfo struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

type Table struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Hidden      bool     `json:"hidden"`
	Columns     []Column `json:"columns"`
}

type Column struct {
	Name        string `json:"name"`
	DataType    string `json:"data_type"`
	IsKey       bool   `json:"is_key"`
	IsNullable  bool   `json:"is_nullable"`
	Description string `json:"description"`
}

type Relationship struct {
	FromTable            string `json:"from_table"`
	FromColumn           string `json:"from_column"`
	ToTable              string `json:"to_table"`
	ToColumn             string `json:"to_column"`
	Cardinality          string `json:"cardinality"`
	CrossFilterDirection string `json:"cross_filter_direction"`
	IsActive             bool   `json:"is_active"`
}

type Measure struct {
	Name          string `json:"name"`
	Table         string `json:"table"`
	Expression    string `json:"expression"`
	Description   string `json:"description"`
	DisplayFolder string `json:"display_folder"`
	FormatString  string `json:"format_string"`
}

type CalculatedColumn struct {
	Name          string `json:"name"`
	Table         string `json:"table"`
	Expression    string `json:"expression"`
	Description   string `json:"description"`
	DataType      string `json:"data_type"`
	DisplayFolder string `json:"display_folder"`
}

// Parameter is an opaque upstream record. The container does not normalize
// these beyond key/value pairs.
type Parameter map[string]any

// Query is one let-block split out of the raw M code. Names are positional
// (Query_1, Query_2, ...) and not stable across re-parses of changed source.
type Query struct {
	Name  string   `json:"name"`
	Code  string   `json:"code"`
	Steps []string `json:"steps"`
}

// Facet holds one extracted metadata facet: either its records or the error
// message captured when the upstream read failed. A failed facet never aborts
// the rest of the extraction.
type Facet[T any] struct {
	Items []T
	Err   string
}

func Ok[T any](items []T) Facet[T] {
	return Facet[T]{Items: items}
}

// Fail wraps an upstream error into the facet's inline error record.
func Fail[T any](facet string, err error) Facet[T] {
	return Facet[T]{Err: fmt.Sprintf("Failed to extract %s: %v", facet, err)}
}

func (f Facet[T]) Failed() bool {
	return f.Err != ""
}

// Count is 0 for a failed facet; the placeholder record does not count.
func (f Facet[T]) Count() int {
	if f.Err != "" {
		return 0
	}
	return len(f.Items)
}

// MarshalJSON keeps the snapshot shape of the original format: a failed facet
// serializes as the single-element [{"error": "..."}] placeholder.
func (f Facet[T]) MarshalJSON() ([]byte, error) {
	if f.Err != "" {
		return json.Marshal([]map[string]string{{"error": f.Err}})
	}
	if f.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(f.Items)
}

func (f *Facet[T]) UnmarshalJSON(b []byte) error {
	// 단일 error 레코드인지 먼저 확인
	var probe []struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(b, &probe); err == nil && len(probe) == 1 && probe[0].Error != nil {
		*f = Facet[T]{Err: *probe[0].Error}
		return nil
	}
	*f = Facet[T]{}
	return json.Unmarshal(b, &f.Items)
}

// PowerQuery is the parsed embedded query-language blob. Parameters and
// Functions stay empty until the container learns to expose them separately.
type PowerQuery struct {
	RawCode    string
	Queries    []Query
	Parameters []Parameter
	Functions  []Parameter
	Err        string
}

func (pq PowerQuery) Failed() bool {
	return pq.Err != ""
}

func (pq PowerQuery) QueryCount() int {
	if pq.Err != "" {
		return 0
	}
	return len(pq.Queries)
}

type powerQueryJSON struct {
	RawCode    string      `json:"raw_code,omitempty"`
	Queries    []Query     `json:"queries"`
	Parameters []Parameter `json:"parameters"`
	Functions  []Parameter `json:"functions"`
}

func (pq PowerQuery) MarshalJSON() ([]byte, error) {
	if pq.Err != "" {
		return json.Marshal(map[string]string{"error": pq.Err})
	}
	out := powerQueryJSON{
		RawCode:    pq.RawCode,
		Queries:    pq.Queries,
		Parameters: pq.Parameters,
		Functions:  pq.Functions,
	}
	if out.Queries == nil {
		out.Queries = []Query{}
	}
	if out.Parameters == nil {
		out.Parameters = []Parameter{}
	}
	if out.Functions == nil {
		out.Functions = []Parameter{}
	}
	return json.Marshal(out)
}

func (pq *PowerQuery) UnmarshalJSON(b []byte) error {
	var probe struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(b, &probe); err == nil && probe.Error != nil {
		*pq = PowerQuery{Err: *probe.Error}
		return nil
	}
	var raw powerQueryJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*pq = PowerQuery{
		RawCode:    raw.RawCode,
		Queries:    raw.Queries,
		Parameters: raw.Parameters,
		Functions:  raw.Functions,
	}
	return nil
}

// Metadata is the free-form model-level key/value facet.
type Metadata struct {
	Values map[string]any
	Err    string
}

func (m Metadata) Failed() bool {
	return m.Err != ""
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	if m.Err != "" {
		return json.Marshal(map[string]string{"error": m.Err})
	}
	if m.Values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m.Values)
}

func (m *Metadata) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if e, ok := raw["error"].(string); ok && len(raw) == 1 {
		*m = Metadata{Err: e}
		return nil
	}
	*m = Metadata{Values: raw}
	return nil
}

// Document is the canonical metadata document extracted from one .pbix file.
// Treat it as a value object: the owning parser caches it and callers must
// not mutate it in place.
type Document struct {
	FileInfo          FileInfo                `json:"file_info"`
	Tables            Facet[Table]            `json:"tables"`
	Relationships     Facet[Relationship]     `json:"relationships"`
	Measures          Facet[Measure]          `json:"measures"`
	CalculatedColumns Facet[CalculatedColumn] `json:"calculated_columns"`
	PowerQuery        PowerQuery              `json:"power_query"`
	Parameters        Facet[Parameter]        `json:"parameters"`
	ModelMetadata     Metadata                `json:"model_metadata"`
}

// 문서 헤더/리포트용 구조체
type Summary struct {
	FileName          string  `json:"file_name"`
	FileSizeMB        float64 `json:"file_size_mb"`
	TableCount        int     `json:"table_count"`
	MeasureCount      int     `json:"measure_count"`
	RelationshipCount int     `json:"relationship_count"`
	PowerQueryCount   int     `json:"power_query_count"`
}

// Summarize computes the per-document headline counts.
func (d *Document) Summarize() Summary {
	sizeMB := float64(d.FileInfo.SizeBytes) / (1024 * 1024)
	return Summary{
		FileName:          d.FileInfo.Name,
		FileSizeMB:        float64(int(sizeMB*100+0.5)) / 100,
		TableCount:        d.Tables.Count(),
		MeasureCount:      d.Measures.Count(),
		RelationshipCount: d.Relationships.Count(),
		PowerQueryCount:   d.PowerQuery.QueryCount(),
	}
}
