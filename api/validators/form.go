package validators

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ReasonInvalidJSON is returned when a form body is not parseable JSON.
const ReasonInvalidJSON = "Invalid JSON"

// Result is the tagged outcome of decoding a form submission. When OK is false,
// Reason holds the client-facing rejection text and Err the underlying cause.
type Result[T any] struct {
	Value  T
	OK     bool
	Reason string
	Err    error
}

// DecodeForm parses and validates a form body. Malformed JSON yields
// ReasonInvalidJSON; well-formed JSON of the wrong shape or failing validation
// yields invalidReason. Unknown fields are ignored.
func DecodeForm[T any](r *http.Request, invalidReason string) Result[T] {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()

	var value T
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(&value); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Result[T]{Reason: invalidReason, Err: err}
		}
		return Result[T]{Reason: ReasonInvalidJSON, Err: err}
	}
	if err := expectEOF(decoder); err != nil {
		return Result[T]{Reason: ReasonInvalidJSON, Err: err}
	}
	return Check(value, invalidReason)
}

// expectEOF rejects anything but whitespace after the first JSON value.
func expectEOF(decoder *json.Decoder) error {
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

var errTrailingData = errors.New("unexpected data after JSON body")

// Check validates an already decoded value into a Result.
func Check[T any](value T, invalidReason string) Result[T] {
	if err := Struct(value); err != nil {
		return Result[T]{Value: value, Reason: invalidReason, Err: err}
	}
	return Result[T]{Value: value, OK: true}
}
