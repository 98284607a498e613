package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	WriteJSON(w, code, map[string]string{"error": message})
}

// WriteJSONRedirect reports an error together with the path the client
// should navigate to.
func WriteJSONRedirect(w http.ResponseWriter, message, redirect string, code int) {
	WriteJSON(w, code, map[string]string{"error": message, "redirect": redirect})
}

// DecodeStrict decodes a single JSON value and rejects unknown fields and
// trailing data.
func DecodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

func DecodeStrictBytes(data []byte, v any) error {
	return DecodeStrict(bytes.NewReader(data), v)
}
