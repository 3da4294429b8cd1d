// Package must contains functions that panic on error. Only use them
// where a failure is a programmer error, e.g. inside test servers.
package must

import (
	"encoding/json"
	"io"

	"github.com/fieldops/franchise-client/internal/runtimex"
)

// MarshalJSON is like [json.Marshal] but calls
// [runtimex.PanicOnError] on failure.
func MarshalJSON(v any) []byte {
	data, err := json.Marshal(v)
	runtimex.PanicOnError(err, "json.Marshal failed")
	return data
}

// UnmarshalJSON is like [json.Unmarshal] but calls
// [runtimex.PanicOnError] on failure.
func UnmarshalJSON(data []byte, v any) {
	err := json.Unmarshal(data, v)
	runtimex.PanicOnError(err, "json.Unmarshal failed")
}

// ReadAll is like [io.ReadAll] but calls
// [runtimex.PanicOnError] on failure.
func ReadAll(r io.Reader) []byte {
	data, err := io.ReadAll(r)
	runtimex.PanicOnError(err, "io.ReadAll failed")
	return data
}
