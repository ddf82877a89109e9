package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSON writes room to w as JSON indented with two spaces.
// The output can be re-imported with [ReadJSON] or [FromStorageText].
func WriteJSON(room SerializedRoom, w io.Writer) error {
	room = room.normalized()
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(room); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes room to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(room SerializedRoom, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(room, f)
}
