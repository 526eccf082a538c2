package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// GeminiClient talks to the Gemini REST API (files, models, generateContent).
type GeminiClient struct {
	http    *http.Client
	apiKey  string
	baseURL string
}

// Option configures a GeminiClient.
type Option func(*GeminiClient)

// WithBaseURL points the client at another endpoint (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *GeminiClient) {
		if u != "" { c.baseURL = strings.TrimSuffix(u, "/") }
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *GeminiClient) {
		if h != nil { c.http = h }
	}
}

func NewGeminiClient(apiKey string, opts ...Option) *GeminiClient {
	c := &GeminiClient{http: &http.Client{Timeout: 5 * time.Minute}, apiKey: apiKey, baseURL: defaultGeminiBaseURL}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *GeminiClient) Name() string { return "gemini" }

// UploadFile sends a local document through the resumable upload protocol.
func (c *GeminiClient) UploadFile(ctx context.Context, path, mimeType, displayName string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil { return File{}, fmt.Errorf("read %s: %w", path, err) }

	meta, _ := json.Marshal(map[string]any{"file": map[string]string{"display_name": displayName}})
	startReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload/v1beta/files", bytes.NewReader(meta))
	if err != nil { return File{}, err }
	startReq.Header.Set("X-Goog-Upload-Protocol", "resumable")
	startReq.Header.Set("X-Goog-Upload-Command", "start")
	startReq.Header.Set("X-Goog-Upload-Header-Content-Length", strconv.Itoa(len(data)))
	startReq.Header.Set("X-Goog-Upload-Header-Content-Type", mimeType)
	startReq.Header.Set("Content-Type", "application/json")

	startResp, err := c.do(startReq)
	if err != nil { return File{}, fmt.Errorf("start upload: %w", err) }
	uploadURL := startResp.Header.Get("X-Goog-Upload-URL")
	drain(startResp)
	if uploadURL == "" { return File{}, errors.New("start upload: no upload url returned") }

	upReq, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil { return File{}, err }
	upReq.ContentLength = int64(len(data))
	upReq.Header.Set("X-Goog-Upload-Offset", "0")
	upReq.Header.Set("X-Goog-Upload-Command", "upload, finalize")

	upResp, err := c.do(upReq)
	if err != nil { return File{}, fmt.Errorf("upload bytes: %w", err) }
	defer upResp.Body.Close()
	var out struct{ File File `json:"file"` }
	if err := json.NewDecoder(upResp.Body).Decode(&out); err != nil {
		return File{}, fmt.Errorf("decode upload response: %w", err)
	}
	log.Info().Str("file", out.File.Name).Str("state", out.File.State).Int("bytes", len(data)).Msg("document uploaded")
	return out.File, nil
}

// GetFile fetches the current metadata of an uploaded file ("files/<id>").
func (c *GeminiClient) GetFile(ctx context.Context, name string) (File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1beta/"+name, nil)
	if err != nil { return File{}, err }
	resp, err := c.do(req)
	if err != nil { return File{}, err }
	defer resp.Body.Close()
	var f File
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return File{}, fmt.Errorf("decode file: %w", err)
	}
	return f, nil
}

// WaitForFile polls every interval until the file leaves PROCESSING.
// Any terminal state other than ACTIVE is reported as ErrFileFailed.
func (c *GeminiClient) WaitForFile(ctx context.Context, f File, interval time.Duration) (File, error) {
	if interval <= 0 { interval = 2 * time.Second }
	for f.State == StateProcessing {
		log.Info().Str("file", f.Name).Msg("document still processing")
		select {
		case <-ctx.Done():
			return f, ctx.Err()
		case <-time.After(interval):
		}
		next, err := c.GetFile(ctx, f.Name)
		if err != nil { return f, fmt.Errorf("poll %s: %w", f.Name, err) }
		f = next
	}
	if f.State != StateActive {
		msg := f.State
		if f.Error != nil && f.Error.Message != "" { msg += ": " + f.Error.Message }
		return f, fmt.Errorf("%w: %s %s", ErrFileFailed, f.Name, msg)
	}
	return f, nil
}

// ListModels walks every page of the model capability list.
func (c *GeminiClient) ListModels(ctx context.Context) ([]Model, error) {
	var all []Model
	token := ""
	for {
		q := url.Values{"pageSize": {"100"}}
		if token != "" { q.Set("pageToken", token) }
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1beta/models?"+q.Encode(), nil)
		if err != nil { return nil, err }
		resp, err := c.do(req)
		if err != nil { return nil, fmt.Errorf("list models: %w", err) }
		var page struct {
			Models        []Model `json:"models"`
			NextPageToken string  `json:"nextPageToken"`
		}
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil { return nil, fmt.Errorf("decode models: %w", err) }
		all = append(all, page.Models...)
		if page.NextPageToken == "" { return all, nil }
		token = page.NextPageToken
	}
}

type geminiPart struct {
	Text     string          `json:"text,omitempty"`
	FileData *geminiFileData `json:"fileData,omitempty"`
}

type geminiFileData struct {
	MIMEType string `json:"mimeType"`
	FileURI  string `json:"fileUri"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerateReq struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig *struct {
		ResponseMIMEType string `json:"responseMimeType,omitempty"`
	} `json:"generationConfig,omitempty"`
}

type geminiGenerateResp struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

// Generate issues one generateContent call referencing the uploaded document.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (Response, error) {
	if req.Model == "" { return Response{}, errors.New("gemini: model not selected") }
	var parts []geminiPart
	if req.FileURI != "" {
		parts = append(parts, geminiPart{FileData: &geminiFileData{MIMEType: req.FileMIME, FileURI: req.FileURI}})
	}
	parts = append(parts, geminiPart{Text: req.Prompt})
	payload := geminiGenerateReq{Contents: []geminiContent{{Role: "user", Parts: parts}}}
	if req.JSON {
		payload.GenerationConfig = &struct {
			ResponseMIMEType string `json:"responseMimeType,omitempty"`
		}{ResponseMIMEType: "application/json"}
	}

	body, _ := json.Marshal(payload)
	endpoint := fmt.Sprintf("%s/v1beta/%s:generateContent", c.baseURL, NormalizeModelName(req.Model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil { return Response{}, err }
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.do(httpReq)
	if err != nil { return Response{}, err }
	defer resp.Body.Close()

	var r geminiGenerateResp
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return Response{}, fmt.Errorf("decode generate response: %w", err)
	}
	if len(r.Candidates) == 0 {
		if r.PromptFeedback.BlockReason != "" {
			return Response{}, fmt.Errorf("%w: %s", ErrContentRefused, r.PromptFeedback.BlockReason)
		}
		return Response{}, ErrEmptyResponse
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return Response{}, fmt.Errorf("%w: finish reason %s", ErrEmptyResponse, r.Candidates[0].FinishReason)
	}
	return Response{
		Text:         sb.String(),
		FinishReason: r.Candidates[0].FinishReason,
		TokensIn:     r.UsageMetadata.PromptTokenCount,
		TokensOut:    r.UsageMetadata.CandidatesTokenCount,
	}, nil
}

// do attaches the key and converts non-2xx answers into *StatusError.
func (c *GeminiClient) do(req *http.Request) (*http.Response, error) {
	if c.apiKey == "" { return nil, errors.New("missing GEMINI_API_KEY") }
	req.Header.Set("x-goog-api-key", c.apiKey)
	resp, err := c.http.Do(req)
	if err != nil { return nil, err }
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()
		return nil, &StatusError{Provider: c.Name(), StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
