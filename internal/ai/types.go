package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Request is one text-generation call against an uploaded document.
type Request struct {
	Model    string
	Prompt   string
	FileURI  string
	FileMIME string
	JSON     bool // ask for application/json output
}

type Response struct {
	Text         string
	FinishReason string
	TokensIn     int
	TokensOut    int
}

// Client is a generative provider able to answer prompts about a document.
type Client interface {
	Name() string
	Generate(ctx context.Context, req Request) (Response, error)
}

// File is a document uploaded to the provider's file store.
type File struct {
	Name        string     `json:"name"`
	DisplayName string     `json:"displayName"`
	MIMEType    string     `json:"mimeType"`
	SizeBytes   string     `json:"sizeBytes"`
	URI         string     `json:"uri"`
	State       string     `json:"state"`
	Error       *FileError `json:"error,omitempty"`
}

type FileError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// File processing states.
const (
	StateProcessing = "PROCESSING"
	StateActive     = "ACTIVE"
	StateFailed     = "FAILED"
)

// Model is one entry of the provider's capability list.
type Model struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

// Supports reports whether the model lists method.
func (m Model) Supports(method string) bool {
	for _, s := range m.SupportedGenerationMethods {
		if s == method {
			return true
		}
	}
	return false
}

var (
	ErrRateLimited    = errors.New("rate_limited")
	ErrContentRefused = errors.New("content_refused")
	ErrEmptyResponse  = errors.New("empty_response")
	ErrFileFailed     = errors.New("file_processing_failed")
	ErrNoModel        = errors.New("no_model_supports_method")
)

func IsRateLimited(err error) bool    { return errors.Is(err, ErrRateLimited) }
func IsContentRefused(err error) bool { return errors.Is(err, ErrContentRefused) }

// StatusError is a non-2xx answer from the provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s: %s", e.StatusCode, e.Provider, e.Body)
}

// Is lets errors.Is(err, ErrRateLimited) match 429 answers.
func (e *StatusError) Is(target error) bool {
	return target == ErrRateLimited && e.StatusCode == http.StatusTooManyRequests
}
