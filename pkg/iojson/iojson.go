// Package iojson holds utilities for reading and writing JSON from a command
// line interface perspective.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Error is the standard error format written when a --json command fails.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func jsonError(msg string, jsonErr error) string {
	msgBytes, _ := json.Marshal(msg)
	errBytes, _ := json.Marshal(jsonErr.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msgBytes, errBytes)
}

// MarshalError builds the JSON error document. If marshaling data fails, a
// hand built document carrying the marshal error is returned instead.
func MarshalError(msg string, data map[string]any) string {
	resp := Error{Message: msg, Data: data}

	bits, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return jsonError(msg, err)
	}

	return string(bits)
}

// WriteErrorTo writes the JSON error document to w.
func WriteErrorTo(w io.Writer, msg string, data map[string]any) error {
	_, err := fmt.Fprintln(w, MarshalError(msg, data))
	return err
}

// WriteError writes the JSON error document to [os.Stderr].
func WriteError(msg string, data map[string]any) error {
	return WriteErrorTo(os.Stderr, msg, data)
}

// WriteWith writes obj as indented JSON to w. Marshal failures are reported
// on ew.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		errStr := jsonError("error marshaling in iojson.Write", err)
		_, err = fmt.Fprintln(ew, errStr)
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// Write calls WriteWith with [os.Stdout] and [os.Stderr].
func Write(obj any) error {
	return WriteWith(os.Stdout, os.Stderr, obj)
}

// WriteLine writes obj as a single compact JSON line, for streaming output.
func WriteLine(w io.Writer, obj any) error {
	return json.NewEncoder(w).Encode(obj)
}
