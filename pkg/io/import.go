package io

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/roomkit/pkg/errors"
)

// ReadJSON decodes a room document from r.
//
// The input must be a JSON object with a "placed" array:
//
//	{"placed": [{"instanceId": "a", "catalogId": "chair_01",
//	             "position": [0, 0, 0], "rotation": [0, 0, 0]}]}
//
// Unlike [FromStorageText], which treats bad input as "nothing to restore",
// ReadJSON backs an explicit user action and reports why the document was
// rejected. The error carries [errors.ErrCodeInvalidFormat].
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (SerializedRoom, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return SerializedRoom{}, fmt.Errorf("read: %w", err)
	}
	if len(data) == 0 {
		return SerializedRoom{}, errors.New(errors.ErrCodeInvalidFormat, "empty document")
	}
	res := decodeRoom(data)
	switch res.Reason {
	case ReasonOK:
		return res.Room, nil
	case ReasonMissingPlaced:
		return SerializedRoom{}, errors.New(errors.ErrCodeInvalidFormat, "document has no \"placed\" array")
	default:
		return SerializedRoom{}, errors.Wrap(errors.ErrCodeInvalidFormat, res.Err, "malformed room document")
	}
}

// ImportJSON reads a room document from the file at path.
// This is a convenience wrapper around [ReadJSON] for file-based input.
func ImportJSON(path string) (SerializedRoom, error) {
	f, err := os.Open(path)
	if err != nil {
		return SerializedRoom{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
