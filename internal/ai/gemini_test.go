package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestSelectModel(t *testing.T) {
	models := []Model{
		{Name: "models/embedding-001", SupportedGenerationMethods: []string{"embedContent"}},
		{Name: "models/gemini-1.5-flash", SupportedGenerationMethods: []string{"generateContent", "countTokens"}},
		{Name: "models/gemini-1.5-pro", SupportedGenerationMethods: []string{"generateContent"}},
	}
	tests := []struct {
		name      string
		preferred string
		want      string
		wantErr   bool
		list      []Model
	}{
		{name: "first qualifying", want: "models/gemini-1.5-flash", list: models},
		{name: "preferred without prefix", preferred: "gemini-1.5-pro", want: "models/gemini-1.5-pro", list: models},
		{name: "preferred not capable", preferred: "embedding-001", want: "models/gemini-1.5-flash", list: models},
		{name: "none qualifies", list: models[:1], wantErr: true},
		{name: "empty list", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := SelectModel(tt.list, MethodGenerateContent, tt.preferred)
			if tt.wantErr {
				if !errors.Is(err, ErrNoModel) {
					t.Fatalf("want ErrNoModel, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectModel() error = %v", err)
			}
			if m.Name != tt.want {
				t.Fatalf("got %s want %s", m.Name, tt.want)
			}
		})
	}
}

func TestStatusErrorRateLimited(t *testing.T) {
	if !IsRateLimited(&StatusError{StatusCode: 429}) {
		t.Fatal("429 should be rate limited")
	}
	if IsRateLimited(&StatusError{StatusCode: 500}) {
		t.Fatal("500 is not rate limited")
	}
}

func TestGeminiUploadAndWait(t *testing.T) {
	var polls int32
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case r.URL.Path == "/upload/v1beta/files" && r.Header.Get("X-Goog-Upload-Command") == "start":
			if r.Header.Get("X-Goog-Upload-Header-Content-Type") != "application/pdf" {
				t.Errorf("missing content type header")
			}
			w.Header().Set("X-Goog-Upload-URL", srv.URL+"/resumable/1")
		case r.URL.Path == "/resumable/1":
			b, _ := io.ReadAll(r.Body)
			if string(b) != "%PDF-1.4 test" {
				t.Errorf("unexpected body %q", b)
			}
			_, _ = w.Write([]byte(`{"file":{"name":"files/abc","uri":"https://x/files/abc","mimeType":"application/pdf","state":"PROCESSING"}}`))
		case r.URL.Path == "/v1beta/files/abc":
			if atomic.AddInt32(&polls, 1) < 2 {
				_, _ = w.Write([]byte(`{"name":"files/abc","state":"PROCESSING"}`))
				return
			}
			_, _ = w.Write([]byte(`{"name":"files/abc","uri":"https://x/files/abc","state":"ACTIVE"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := filepath.Join(t.TempDir(), "book.pdf")
	if err := os.WriteFile(p, []byte("%PDF-1.4 test"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := NewGeminiClient("k", WithBaseURL(srv.URL))
	f, err := c.UploadFile(context.Background(), p, "application/pdf", "book")
	if err != nil {
		t.Fatalf("UploadFile() error = %v", err)
	}
	if f.State != StateProcessing {
		t.Fatalf("state = %s", f.State)
	}
	f, err = c.WaitForFile(context.Background(), f, time.Millisecond)
	if err != nil {
		t.Fatalf("WaitForFile() error = %v", err)
	}
	if f.State != StateActive || f.URI == "" {
		t.Fatalf("unexpected file %+v", f)
	}
	if atomic.LoadInt32(&polls) != 2 {
		t.Fatalf("polls = %d", polls)
	}
}

func TestGeminiWaitForFileFailed(t *testing.T) {
	c := NewGeminiClient("k")
	_, err := c.WaitForFile(context.Background(), File{Name: "files/x", State: StateFailed}, time.Millisecond)
	if !errors.Is(err, ErrFileFailed) {
		t.Fatalf("want ErrFileFailed, got %v", err)
	}
}

func TestGeminiListModelsPaging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageToken") == "" {
			_, _ = w.Write([]byte(`{"models":[{"name":"models/a","supportedGenerationMethods":["embedContent"]}],"nextPageToken":"p2"}`))
			return
		}
		_, _ = w.Write([]byte(`{"models":[{"name":"models/b","supportedGenerationMethods":["generateContent"]}]}`))
	}))
	defer srv.Close()

	models, err := NewGeminiClient("k", WithBaseURL(srv.URL)).ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("got %d models", len(models))
	}
	m, err := SelectModel(models, MethodGenerateContent, "")
	if err != nil || m.Name != "models/b" {
		t.Fatalf("SelectModel() = %v, %v", m, err)
	}
}

func TestGeminiGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-1.5-flash:generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		gc, _ := body["generationConfig"].(map[string]any)
		if gc["responseMimeType"] != "application/json" {
			t.Errorf("json mode not requested: %v", body)
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"a\":"},{"text":"1}"}]},"finishReason":"STOP"}],"usageMetadata":{"promptTokenCount":10,"candidatesTokenCount":3}}`))
	}))
	defer srv.Close()

	resp, err := NewGeminiClient("k", WithBaseURL(srv.URL)).Generate(context.Background(), Request{
		Model: "models/gemini-1.5-flash", Prompt: "p", FileURI: "u", FileMIME: "application/pdf", JSON: true,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Text != `{"a":1}` || resp.TokensIn != 10 || resp.TokensOut != 3 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestGeminiGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"blocked", 200, `{"promptFeedback":{"blockReason":"SAFETY"}}`, IsContentRefused},
		{"empty", 200, `{"candidates":[{"content":{"parts":[]},"finishReason":"MAX_TOKENS"}]}`, func(err error) bool { return errors.Is(err, ErrEmptyResponse) }},
		{"rate limited", 429, `{"error":"quota"}`, IsRateLimited},
		{"server", 503, `unavailable`, func(err error) bool {
			var se *StatusError
			return errors.As(err, &se) && se.StatusCode == 503 && strings.Contains(se.Body, "unavailable")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()
			_, err := NewGeminiClient("k", WithBaseURL(srv.URL)).Generate(context.Background(), Request{Model: "m", Prompt: "p"})
			if err == nil || !tt.check(err) {
				t.Fatalf("unexpected error %v", err)
			}
		})
	}
}
