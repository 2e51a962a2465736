package docstore

import (
	"encoding/json"
	"fmt"

	"github.com/MrJamesThe3rd/caixa/internal/encoding"
)

// Outcome says how a document read ended.
type Outcome int

const (
	OutcomeOK Outcome = iota
	// OutcomeAbsent means the file does not exist or could not be opened.
	OutcomeAbsent
	// OutcomeCorrupt means the file exists but does not decode into the target type.
	OutcomeCorrupt
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeAbsent:
		return "absent"
	case OutcomeCorrupt:
		return "corrupt"
	}

	return "unknown"
}

// Result is the outcome of decoding a document. When Outcome is not OutcomeOK,
// Value holds the caller's default and Err the cause.
type Result[T any] struct {
	Value   T
	Outcome Outcome
	Err     error
}

// UseDefault reports whether the caller's default was substituted.
func (r Result[T]) UseDefault() bool {
	return r.Outcome != OutcomeOK
}

// Parse decodes raw JSON into T. Decoding never panics or fails outright: a
// malformed or null document yields def with OutcomeCorrupt.
func Parse[T any](raw []byte, def T) Result[T] {
	text, err := encoding.ToUTF8(raw)
	if err != nil {
		return Result[T]{Value: def, Outcome: OutcomeCorrupt, Err: err}
	}

	var shape json.RawMessage
	if err := json.Unmarshal(text, &shape); err != nil {
		return Result[T]{Value: def, Outcome: OutcomeCorrupt, Err: fmt.Errorf("decode json: %w", err)}
	}

	if string(shape) == "null" {
		return Result[T]{Value: def, Outcome: OutcomeCorrupt, Err: fmt.Errorf("document is null")}
	}

	var v T
	if err := json.Unmarshal(text, &v); err != nil {
		return Result[T]{Value: def, Outcome: OutcomeCorrupt, Err: fmt.Errorf("decode json: %w", err)}
	}

	return Result[T]{Value: v, Outcome: OutcomeOK}
}

func marshal(v any) ([]byte, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}

	return raw, nil
}
