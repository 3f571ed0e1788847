package documents_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"dms-backend/internal/documents"
	"dms-backend/internal/extract"
	"dms-backend/internal/search"
	"dms-backend/internal/shared/storage/object/local"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	idx, err := search.OpenMemory()
	if err != nil {
		t.Fatalf("open memory index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })

	blobs := local.New(t.TempDir())

	svc := &documents.Service{
		Blobs:     blobs,
		Repo:      documents.NewMemoryRepo(),
		Index:     idx,
		Extractor: extract.NewDispatcher(nil),
		Timeout:   5 * time.Second,
	}

	router := gin.New()
	api := router.Group("/api")
	documents.NewHandler(svc, 10<<20).RegisterRoutes(api)
	return router
}

func uploadFile(t *testing.T, router *gin.Engine, name, contentType, content string) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="document"; filename="`+name+`"`)
	header.Set("Content-Type", contentType)
	fileWriter, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create form part: %v", err)
	}
	if _, err := fileWriter.Write([]byte(content)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestUploadSearchAndDownload(t *testing.T) {
	router := newTestRouter(t)

	resp := uploadFile(t, router, "minutes.txt", "text/plain", "the quarterly kelvin review")
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body %s", resp.Code, resp.Body.String())
	}

	var created struct {
		ID            string `json:"id"`
		OriginalName  string `json:"originalName"`
		BlobKey       string `json:"blobKey"`
		ExtractedText string `json:"extractedText"`
		MediaType     string `json:"mediaType"`
		SizeBytes     int64  `json:"sizeBytes"`
		TextDegraded  bool   `json:"textDegraded"`
		IndexDegraded bool   `json:"indexDegraded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected document id")
	}
	if created.OriginalName != "minutes.txt" {
		t.Fatalf("originalName = %q", created.OriginalName)
	}
	if !strings.HasPrefix(created.BlobKey, "documents/") {
		t.Fatalf("blobKey = %q", created.BlobKey)
	}
	if created.ExtractedText != "the quarterly kelvin review" {
		t.Fatalf("extractedText = %q", created.ExtractedText)
	}
	if created.TextDegraded || created.IndexDegraded {
		t.Fatalf("unexpected degraded flags in %+v", created)
	}

	// Search finds the document by extracted text.
	reqSearch := httptest.NewRequest(http.MethodGet, "/api/documents/search?q=kelvin", nil)
	respSearch := httptest.NewRecorder()
	router.ServeHTTP(respSearch, reqSearch)
	if respSearch.Code != http.StatusOK {
		t.Fatalf("search status = %d, body %s", respSearch.Code, respSearch.Body.String())
	}

	var hits []struct {
		ID           string  `json:"id"`
		Score        float64 `json:"score"`
		OriginalName string  `json:"originalName"`
	}
	if err := json.NewDecoder(respSearch.Body).Decode(&hits); err != nil {
		t.Fatalf("decode search response: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != created.ID {
		t.Fatalf("hits = %+v, want single hit for %s", hits, created.ID)
	}
	if hits[0].Score <= 0 {
		t.Fatalf("score = %f, want > 0", hits[0].Score)
	}

	// Download returns the original bytes and headers.
	reqDL := httptest.NewRequest(http.MethodGet, "/api/documents/"+created.ID+"/download", nil)
	respDL := httptest.NewRecorder()
	router.ServeHTTP(respDL, reqDL)
	if respDL.Code != http.StatusOK {
		t.Fatalf("download status = %d", respDL.Code)
	}
	if respDL.Body.String() != "the quarterly kelvin review" {
		t.Fatalf("download body = %q", respDL.Body.String())
	}
	if got := respDL.Header().Get("Content-Type"); got != "text/plain" {
		t.Fatalf("Content-Type = %q", got)
	}
	if got := respDL.Header().Get("Content-Disposition"); !strings.Contains(got, `"minutes.txt"`) {
		t.Fatalf("Content-Disposition = %q", got)
	}
}

func TestListReturnsSummaries(t *testing.T) {
	router := newTestRouter(t)

	if resp := uploadFile(t, router, "a.txt", "text/plain", "alpha contents"); resp.Code != http.StatusCreated {
		t.Fatalf("upload status = %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("list status = %d", resp.Code)
	}

	var items []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len = %d, want 1", len(items))
	}
	if _, ok := items[0]["extractedText"]; ok {
		t.Fatal("listing must not include extractedText")
	}
	if items[0]["originalName"] != "a.txt" {
		t.Fatalf("originalName = %v", items[0]["originalName"])
	}
}

func TestUploadRequiresFile(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/documents/search", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestDownloadUnknownIDReturns404(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/documents/0b7c9d7e-aaaa-bbbb-cccc-000000000000/download", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Code)
	}
}
