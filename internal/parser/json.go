package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	// ErrNoPayload means the response holds no {...} block at all.
	ErrNoPayload = errors.New("no JSON object in response")
	// ErrMalformed matches any *MalformedError.
	ErrMalformed = errors.New("malformed JSON payload")
)

// MalformedError is a {...} block that could not be decoded.
type MalformedError struct {
	Payload string
	Err     error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed JSON payload (%d bytes): %v", len(e.Payload), e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }

// Options tunes the tolerance of ExtractJSON.
type Options struct {
	// RepairBackslashes doubles every backslash before decoding. Models often
	// emit raw backslashes inside strings; the pass is best-effort and the
	// untouched block is tried when the repaired one does not decode.
	// When the repaired block decodes, valid escapes such as \n or \u0C30 are
	// kept as literal text rather than decoded.
	RepairBackslashes bool
}

// ExtractJSON returns the text between the first '{' and the last '}' of raw.
func ExtractJSON(raw string, opts Options) (json.RawMessage, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return nil, ErrNoPayload
	}
	candidate := raw[start : end+1]

	var firstErr error
	if opts.RepairBackslashes && strings.Contains(candidate, `\`) {
		repaired := strings.ReplaceAll(candidate, `\`, `\\`)
		if err := validJSON(repaired); err == nil {
			log.Debug().Int("bytes", len(candidate)).Msg("decoded JSON payload with doubled backslashes")
			return json.RawMessage(repaired), nil
		} else {
			firstErr = err
		}
	}
	if err := validJSON(candidate); err != nil {
		if firstErr == nil { firstErr = err }
		return nil, &MalformedError{Payload: candidate, Err: firstErr}
	}
	return json.RawMessage(candidate), nil
}

func validJSON(s string) error {
	var v any
	return json.Unmarshal([]byte(s), &v)
}
