package model_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"pbnj/internal/model"
)

func sampleDocument() *model.Document {
	return &model.Document{
		FileInfo: model.FileInfo{
			Name:      "매출현황.pbix", // UTF-8 파일명 보존 확인용
			Path:      "/reports/매출현황.pbix",
			SizeBytes: 2 * 1024 * 1024,
		},
		Tables: model.Ok([]model.Table{
			{Name: "Sales", Type: "Table", Columns: []model.Column{
				{Name: "Amount", DataType: "decimal", IsNullable: true},
				{Name: "OrderID", DataType: "int64", IsKey: true},
			}},
			{Name: "Customers", Type: "Table", Hidden: true, Columns: []model.Column{}},
		}),
		Relationships: model.Ok([]model.Relationship{
			{FromTable: "Sales", FromColumn: "CustomerID", ToTable: "Customers",
				ToColumn: "ID", Cardinality: "many-to-one", IsActive: true},
		}),
		Measures: model.Ok([]model.Measure{
			{Name: "Total Sales", Table: "Sales", Expression: "SUM(Sales[Amount])"},
			{Name: "총매출", Table: "Sales", Expression: "SUM(Sales[Amount])"},
		}),
		CalculatedColumns: model.Ok([]model.CalculatedColumn{}),
		PowerQuery: model.PowerQuery{
			RawCode: "let\n    Source = Excel.Workbook(File.Contents(\"data.xlsx\"))\nin\n    Source",
			Queries: []model.Query{
				{Name: "Query_1", Code: "let\n    Source = Excel.Workbook(File.Contents(\"data.xlsx\"))\nin\n    Source",
					Steps: []string{"Source = Excel.Workbook(File.Contents(\"data.xlsx\"))"}},
			},
			Parameters: []model.Parameter{},
			Functions:  []model.Parameter{},
		},
		Parameters: model.Ok([]model.Parameter{}),
		ModelMetadata: model.Metadata{Values: map[string]any{
			"name":    "SalesModel",
			"culture": "ko-KR",
		}},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	doc := sampleDocument()
	path := filepath.Join(t.TempDir(), ".pbnj", model.SnapshotName)

	if err := model.Save(doc, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := model.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// 구조 비교는 정규화된 JSON으로 수행 (순서/키/값 동일성 확인)
	want, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal original: %v", err)
	}
	got, err := json.Marshal(loaded)
	if err != nil {
		t.Fatalf("marshal reloaded: %v", err)
	}
	if !bytes.Equal(want, got) {
		t.Errorf("round-trip mismatch:\nwant: %s\ngot:  %s", want, got)
	}

	if loaded.FileInfo.Name != "매출현황.pbix" {
		t.Errorf("UTF-8 filename not preserved: %q", loaded.FileInfo.Name)
	}
	if loaded.Tables.Count() != 2 || loaded.Tables.Items[0].Name != "Sales" {
		t.Errorf("table order not preserved: %+v", loaded.Tables.Items)
	}
}

func TestFacetErrorPlaceholder(t *testing.T) {
	doc := sampleDocument()
	doc.Measures = model.Facet[model.Measure]{Err: "Failed to extract measures: boom"}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"measures": [{"error":"Failed to extract measures: boom"}]`) &&
		!strings.Contains(string(data), `"measures":[{"error":"Failed to extract measures: boom"}]`) {
		t.Errorf("failed facet not serialized as placeholder: %s", data)
	}

	var back model.Document
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Measures.Failed() {
		t.Error("reloaded measures facet should be failed")
	}
	if back.Measures.Err != "Failed to extract measures: boom" {
		t.Errorf("unexpected facet error: %q", back.Measures.Err)
	}
	if back.Measures.Count() != 0 {
		t.Errorf("failed facet should count 0, got %d", back.Measures.Count())
	}
	// 다른 facet은 정상 유지
	if back.Tables.Count() != 2 {
		t.Errorf("tables should remain populated, got %d", back.Tables.Count())
	}
}

func TestSummarize(t *testing.T) {
	doc := sampleDocument()
	s := doc.Summarize()

	if s.TableCount != 2 || s.MeasureCount != 2 || s.RelationshipCount != 1 || s.PowerQueryCount != 1 {
		t.Errorf("unexpected summary counts: %+v", s)
	}
	if s.FileSizeMB != 2.0 {
		t.Errorf("expected 2.0 MB, got %v", s.FileSizeMB)
	}
	if s.FileName != "매출현황.pbix" {
		t.Errorf("unexpected file name: %s", s.FileName)
	}
}

func TestPowerQueryErrorShape(t *testing.T) {
	pq := model.PowerQuery{Err: "Failed to extract Power Query: access denied"}

	data, err := json.Marshal(pq)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"error":"Failed to extract Power Query: access denied"}` {
		t.Errorf("unexpected shape: %s", data)
	}

	var back model.PowerQuery
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Failed() || back.QueryCount() != 0 {
		t.Errorf("reloaded power query should be failed with 0 queries: %+v", back)
	}
}
