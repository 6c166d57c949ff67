// Package iojson reads and writes JSON for the machine readable side of the
// CLI (--format json, -f payload files).
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Error is the JSON shape of a failed command.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// fallbackError builds the error document by hand for when marshalling itself
// failed, which means a value in Data cannot be encoded.
func fallbackError(msg string, cause error) string {
	msgBits, _ := json.Marshal(msg)
	causeBits, _ := json.Marshal(cause.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msgBits, causeBits)
}

// MarshalError renders an Error document.
func MarshalError(msg string, data map[string]any) string {
	bits, err := json.MarshalIndent(Error{Message: msg, Data: data}, "", "  ")
	if err != nil {
		return fallbackError(msg, err)
	}
	return string(bits)
}

// WriteError writes an Error document to w.
func WriteError(w io.Writer, msg string, data map[string]any) error {
	_, err := fmt.Fprintln(w, MarshalError(msg, data))
	return err
}

// WriteWith writes obj as indented JSON to w. Marshal failures are reported
// on ew as an Error document.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		if werr := WriteError(ew, "cannot encode output", map[string]any{"json_error": err.Error()}); werr != nil {
			return werr
		}
		return fmt.Errorf("encode output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// Write calls WriteWith with os.Stdout and os.Stderr.
func Write(obj any) error {
	return WriteWith(os.Stdout, os.Stderr, obj)
}
