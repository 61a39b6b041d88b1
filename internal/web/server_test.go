package web

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pbnj/internal/model"
)

const testSchema = `{
	"name": "WebModel",
	"compatibilityLevel": 1550,
	"model": {
		"culture": "ko-KR",
		"tables": [
			{
				"name": "Sales",
				"columns": [
					{"name": "Amount", "dataType": "decimal"}
				],
				"measures": [
					{"name": "Total Sales", "expression": "SUM(Sales[Amount])"}
				]
			}
		],
		"relationships": []
	}
}`

const testMCode = "section Section1;\n\nshared Sales = let\n    Source = Excel.Workbook(File.Contents(\"sales.xlsx\"))\nin\n    Source;"

// buildPBIX returns the bytes of a minimal container fixture.
func buildPBIX(t *testing.T) []byte {
	t.Helper()

	var inner bytes.Buffer
	zw := zip.NewWriter(&inner)
	fw, err := zw.Create("Formulas/Section1.m")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(testMCode))
	zw.Close()

	var mashup bytes.Buffer
	mashup.Write([]byte{0, 0, 0, 0})
	binary.Write(&mashup, binary.LittleEndian, uint32(inner.Len()))
	mashup.Write(inner.Bytes())

	var container bytes.Buffer
	cw := zip.NewWriter(&container)
	sw, err := cw.Create("DataModelSchema")
	if err != nil {
		t.Fatal(err)
	}
	sw.Write([]byte(testSchema))
	mw, err := cw.Create("DataMashup")
	if err != nil {
		t.Fatal(err)
	}
	mw.Write(mashup.Bytes())
	cw.Close()

	return container.Bytes()
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mp := multipart.NewWriter(&body)
	fw, err := mp.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(content)
	mp.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mp.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", resp.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	srv := NewServer(0)
	resp := httptest.NewRecorder()
	srv.Router().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("unexpected health body: %v", body)
	}
}

func TestNoProjectLoaded(t *testing.T) {
	srv := NewServer(0)
	router := srv.Router()

	for _, path := range []string{
		"/api/project/info", "/api/project/metadata", "/api/tables",
		"/api/insights", "/api/export/json", "/api/documentation/readme",
	} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404 before upload, got %d", path, resp.Code)
		}
	}
}

func TestUploadAndInspect(t *testing.T) {
	srv := NewServer(0)
	srv.uploadDir = t.TempDir()
	router := srv.Router()

	content := buildPBIX(t)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "report.pbix", content))
	if resp.Code != http.StatusOK {
		t.Fatalf("upload failed: %d %s", resp.Code, resp.Body.String())
	}

	// Project info reflects the uploaded file.
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/project/info", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("project info: %d", resp.Code)
	}
	var info struct {
		Summary model.Summary `json:"summary"`
	}
	decodeBody(t, resp, &info)
	if info.Summary.TableCount != 1 || info.Summary.MeasureCount != 1 {
		t.Errorf("unexpected summary: %+v", info.Summary)
	}

	// Facet endpoint returns the raw tagged slice.
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/tables", nil))
	var tables []model.Table
	decodeBody(t, resp, &tables)
	if len(tables) != 1 || tables[0].Name != "Sales" {
		t.Errorf("unexpected tables: %+v", tables)
	}

	// Insights pick up the Excel source from the M code.
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/insights", nil))
	var report struct {
		DataSources []string `json:"data_sources"`
	}
	decodeBody(t, resp, &report)
	if len(report.DataSources) != 1 || report.DataSources[0] != "Excel" {
		t.Errorf("unexpected data sources: %v", report.DataSources)
	}
}

func TestUploadRejectsNonPBIX(t *testing.T) {
	srv := NewServer(0)
	resp := httptest.NewRecorder()
	srv.Router().ServeHTTP(resp, uploadRequest(t, "report.xlsx", []byte("junk")))
	if resp.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-pbix upload, got %d", resp.Code)
	}
}

func TestUploadRejectsCorruptContainer(t *testing.T) {
	srv := NewServer(0)
	srv.uploadDir = t.TempDir()
	resp := httptest.NewRecorder()
	srv.Router().ServeHTTP(resp, uploadRequest(t, "report.pbix", []byte("not a zip")))
	if resp.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for corrupt container, got %d", resp.Code)
	}
}

func loadedServer(t *testing.T) *Server {
	t.Helper()
	srv := NewServer(0)
	srv.LoadDocument(&model.Document{
		FileInfo: model.FileInfo{Name: "demo.pbix", SizeBytes: 2048},
		Tables: model.Ok([]model.Table{
			{Name: "Sales", Type: "Table", Columns: []model.Column{}},
		}),
		Relationships:     model.Ok([]model.Relationship{}),
		Measures:          model.Ok([]model.Measure{{Name: "Total", Table: "Sales", Expression: "1"}}),
		CalculatedColumns: model.Ok([]model.CalculatedColumn{}),
		PowerQuery:        model.PowerQuery{Queries: []model.Query{}, Parameters: []model.Parameter{}, Functions: []model.Parameter{}},
		Parameters:        model.Ok([]model.Parameter{}),
		ModelMetadata:     model.Metadata{Values: map[string]any{}},
	})
	return srv
}

func TestExportEndpoint(t *testing.T) {
	router := loadedServer(t).Router()

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/export/json", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("json export: %d %s", resp.Code, resp.Body.String())
	}
	var doc model.Document
	decodeBody(t, resp, &doc)
	if doc.FileInfo.Name != "demo.pbix" {
		t.Errorf("unexpected exported document: %+v", doc.FileInfo)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/export/markdown", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("markdown export: %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "# Tables") {
		t.Error("markdown export missing tables section")
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/export/pdf", nil))
	if resp.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown format, got %d", resp.Code)
	}
}

func TestDocumentationEndpoint(t *testing.T) {
	router := loadedServer(t).Router()

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/documentation/measures", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("documentation: %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "# Measures") {
		t.Errorf("unexpected document body:\n%s", resp.Body.String())
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/documentation/nonsense", nil))
	if resp.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown document, got %d", resp.Code)
	}
}
