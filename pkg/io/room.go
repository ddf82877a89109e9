package io

import (
	"github.com/matzehuels/roomkit/pkg/placement"
)

// StorageKey is the durable key holding the current room.
const StorageKey = "furniture-state"

// HistoryKey is the durable key holding undo/redo stacks for clients that
// persist history across processes.
const HistoryKey = "furniture-history"

// SerializedRoom is the durable form of a placed list.
type SerializedRoom struct {
	Placed []placement.Record `json:"placed"`
}

// Serialize maps each placed item to its record, dropping model references.
func Serialize(placed []placement.PlacedItem) SerializedRoom {
	return SerializedRoom{Placed: placement.Records(placed)}
}

// Reason explains a decoding outcome.
type Reason string

// Decoding outcomes.
const (
	ReasonOK            Reason = "ok"
	ReasonAbsent        Reason = "absent"
	ReasonMalformed     Reason = "malformed"
	ReasonMissingPlaced Reason = "missing_placed"
)

// Result is the outcome of decoding a room. Room is only meaningful when OK.
type Result struct {
	Room   SerializedRoom
	OK     bool
	Reason Reason
	Err    error // decoder error for ReasonMalformed
}

func ok(room SerializedRoom) Result {
	return Result{Room: room, OK: true, Reason: ReasonOK}
}

func failed(reason Reason, err error) Result {
	return Result{Reason: reason, Err: err}
}

// normalized returns room with a non-nil placed list so it encodes as [].
func (room SerializedRoom) normalized() SerializedRoom {
	if room.Placed == nil {
		room.Placed = []placement.Record{}
	}
	return room
}
