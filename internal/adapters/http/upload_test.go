package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yeick81/ChatTiempoRealKonecta/internal/config"
)

func newUploadServer(t *testing.T) (*Uploader, *gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	up, err := NewUploader(&config.Config{UploadDir: dir, MaxUploadMB: 1})
	if err != nil {
		t.Fatalf("NewUploader: %v", err)
	}
	r := gin.New()
	r.POST("/upload", up.Handle)
	return up, r, dir
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func TestUploadStoresFileAndReturnsURL(t *testing.T) {
	_, r, dir := newUploadServer(t)

	body, contentType := multipartBody(t, "file", "notes.txt", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Host = "chat.example:3001"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response: %v", err)
	}
	if !strings.HasPrefix(resp.URL, "http://chat.example:3001/uploads/") {
		t.Errorf("url = %q", resp.URL)
	}
	if !strings.HasSuffix(resp.URL, ".txt") {
		t.Errorf("url %q lost the original extension", resp.URL)
	}

	stored := filepath.Base(resp.URL)
	data, err := os.ReadFile(filepath.Join(dir, stored))
	if err != nil {
		t.Fatalf("stored file: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("stored content = %q", data)
	}
}

func TestUploadUniqueNamesNeverCollide(t *testing.T) {
	_, r, dir := newUploadServer(t)

	for i := 0; i < 2; i++ {
		body, contentType := multipartBody(t, "file", "same.png", []byte{1, 2, 3})
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("upload %d: status %d", i, rec.Code)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("stored %d files for two uploads of the same name, want 2", len(entries))
	}
}

func TestUploadWithoutFileIs400(t *testing.T) {
	_, r, _ := newUploadServer(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(""))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUploadTooLargeIsRejected(t *testing.T) {
	_, r, _ := newUploadServer(t)

	big := make([]byte, (1<<20)+1)
	body, contentType := multipartBody(t, "file", "big.bin", big)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}
