package io

import (
	"encoding/json"

	"github.com/matzehuels/roomkit/pkg/placement"
)

// SerializedHistory holds undo and redo stacks as record snapshots. Past is
// oldest first; Future is next-to-redo first.
type SerializedHistory struct {
	Past   [][]placement.Record `json:"past"`
	Future [][]placement.Record `json:"future"`
}

// ToHistoryText encodes h as compact JSON.
func ToHistoryText(h SerializedHistory) (string, error) {
	if h.Past == nil {
		h.Past = [][]placement.Record{}
	}
	if h.Future == nil {
		h.Future = [][]placement.Record{}
	}
	b, err := marshalCompact(h)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FromHistoryText decodes history text. Absent or malformed text yields
// empty stacks and false.
func FromHistoryText(text string) (SerializedHistory, bool) {
	if text == "" {
		return SerializedHistory{}, false
	}
	var h SerializedHistory
	if err := json.Unmarshal([]byte(text), &h); err != nil {
		return SerializedHistory{}, false
	}
	return h, true
}
