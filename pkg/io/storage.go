package io

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ToStorageText encodes room as compact JSON.
func ToStorageText(room SerializedRoom) (string, error) {
	b, err := marshalCompact(room.normalized())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FromStorageText decodes storage text. It never returns an error: absent,
// malformed, or structurally wrong text yields a Result with OK == false.
func FromStorageText(text string) Result {
	if strings.TrimSpace(text) == "" {
		return failed(ReasonAbsent, nil)
	}
	return decodeRoom([]byte(text))
}

// ParseStorageText is FromStorageText reduced to a nullable room.
func ParseStorageText(text string) *SerializedRoom {
	res := FromStorageText(text)
	if !res.OK {
		return nil
	}
	return &res.Room
}

func decodeRoom(data []byte) Result {
	var envelope struct {
		Placed json.RawMessage `json:"placed"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return failed(ReasonMalformed, err)
	}
	raw := bytes.TrimSpace(envelope.Placed)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return failed(ReasonMissingPlaced, nil)
	}
	var room SerializedRoom
	if err := json.Unmarshal(raw, &room.Placed); err != nil {
		return failed(ReasonMalformed, err)
	}
	return ok(room)
}

// marshalCompact encodes v like JSON.stringify: no HTML escaping and no
// trailing newline.
func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
