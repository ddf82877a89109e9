package engine

import (
	"context"
	"time"

	pkgio "github.com/matzehuels/roomkit/pkg/io"
	"github.com/matzehuels/roomkit/pkg/observability"
	"github.com/matzehuels/roomkit/pkg/room"
	"github.com/matzehuels/roomkit/pkg/storage"
)

// RestoreResult reports what Restore found in storage.
type RestoreResult struct {
	Reason     pkgio.Reason
	Loaded     int
	Fallbacks  []string // instance ids whose catalog id was unknown
	History    bool     // undo/redo stacks were restored
	Background bool     // a background was restored
	Err        error    // storage read error, if any
}

// persistKeys lists every durable key the engine writes.
var persistKeys = [...]string{pkgio.StorageKey, pkgio.HistoryKey, room.BackgroundKey}

// OK reports whether a layout was restored.
func (r RestoreResult) OK() bool { return r.Reason == pkgio.ReasonOK }

// Restore reads the durable layout once and installs it. Absent, malformed
// or unreadable state leaves the room empty; the reason is reported in the
// result and never returned as an error.
//
// ctx also bounds every later write-through, so cancelling it aborts
// writes for the rest of the session.
func (e *Engine) Restore(ctx context.Context) RestoreResult {
	var res RestoreResult
	e.ctx = ctx

	data, ok, err := e.store.Get(ctx, pkgio.StorageKey)
	switch {
	case err != nil:
		res.Reason = pkgio.ReasonAbsent
		res.Err = err
		e.logger.Warn("state unavailable", "key", pkgio.StorageKey, "err", err)
	case !ok:
		res.Reason = pkgio.ReasonAbsent
	default:
		decoded := pkgio.FromStorageText(string(data))
		res.Reason = decoded.Reason
		if decoded.OK {
			// The stored text is what we would write back; don't rewrite it.
			e.digests[pkgio.StorageKey] = storage.Digest(data)
			e.restoring = true
			lr := e.placement.Load(decoded.Room.Placed)
			e.restoring = false
			res.Loaded, res.Fallbacks = lr.Loaded, lr.Fallbacks
		} else {
			e.logger.Debug("ignoring stored state", "reason", decoded.Reason, "err", decoded.Err)
		}
	}
	observability.Storage().OnRestore(ctx, pkgio.StorageKey, string(res.Reason))

	if len(res.Fallbacks) > 0 {
		e.logger.Warn("unknown catalog ids in stored state", "instances", res.Fallbacks)
	}

	if e.persistHistory && res.OK() {
		res.History = e.restoreHistory(ctx)
	}
	res.Background = e.restoreBackground(ctx)

	e.logger.Debug("restored", "reason", res.Reason, "placed", res.Loaded,
		"history", res.History, "background", res.Background)
	return res
}

func (e *Engine) restoreHistory(ctx context.Context) bool {
	data, ok, err := e.store.Get(ctx, pkgio.HistoryKey)
	if err != nil || !ok {
		return false
	}
	h, ok := pkgio.FromHistoryText(string(data))
	if !ok {
		e.logger.Debug("ignoring stored history")
		return false
	}
	e.placement.RestoreHistory(h.Past, h.Future)
	e.digests[pkgio.HistoryKey] = storage.Digest(data)
	return true
}

func (e *Engine) restoreBackground(ctx context.Context) bool {
	data, ok, err := e.store.Get(ctx, room.BackgroundKey)
	if err != nil || !ok {
		return false
	}
	if err := e.background.UnmarshalText(data); err != nil {
		e.logger.Debug("ignoring stored background", "err", err)
		return false
	}
	e.digests[room.BackgroundKey] = storage.Digest(data)
	return true
}

func (e *Engine) onChange(op string) {
	if e.restoring {
		return
	}
	e.persistLayout()
}

// persistLayout writes the current layout, and the history when enabled.
// History is not written when the layout write fails, so the stored stacks
// never describe a layout that was not saved.
func (e *Engine) persistLayout() {
	text, err := pkgio.ToStorageText(e.Snapshot())
	if err != nil {
		e.recordPersistError(pkgio.StorageKey, err)
		return
	}
	if !e.write(pkgio.StorageKey, []byte(text)) || !e.persistHistory {
		return
	}
	past, future := e.placement.HistoryRecords()
	htext, err := pkgio.ToHistoryText(pkgio.SerializedHistory{Past: past, Future: future})
	if err != nil {
		e.recordPersistError(pkgio.HistoryKey, err)
		return
	}
	e.write(pkgio.HistoryKey, []byte(htext))
}

func (e *Engine) persistBackground() {
	data, err := e.background.MarshalText()
	if err != nil {
		e.recordPersistError(room.BackgroundKey, err)
		return
	}
	e.write(room.BackgroundKey, data)
}

// write stores data under key unless it equals the last payload written.
// It reports whether key now holds data.
func (e *Engine) write(key string, data []byte) bool {
	ctx, cancel := e.persistContext()
	defer cancel()

	digest := storage.Digest(data)
	if last, ok := e.digests[key]; ok && last == digest && e.persistErrs[key] == nil {
		observability.Storage().OnPersistSkipped(ctx, key)
		return true
	}

	start := time.Now()
	err := e.store.Set(ctx, key, data)
	observability.Storage().OnPersist(ctx, key, len(data), time.Since(start), err)
	if err != nil {
		e.recordPersistError(key, err)
		delete(e.digests, key)
		return false
	}
	e.digests[key] = digest
	delete(e.persistErrs, key)
	e.logger.Debug("persisted", "key", key, "bytes", len(data))
	return true
}

func (e *Engine) recordPersistError(key string, err error) {
	e.persistErrs[key] = err
	e.logger.Warn("persist failed", "key", key, "err", err)
}

// Flush rewrites the layout, history and background even if unchanged.
func (e *Engine) Flush() error {
	clear(e.digests)
	clear(e.persistErrs)
	e.persistLayout()
	e.persistBackground()
	return e.LastPersistError()
}

// Reset deletes every durable key and empties the in-memory state,
// including undo history.
func (e *Engine) Reset(ctx context.Context) error {
	for _, key := range persistKeys {
		if err := e.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	clear(e.digests)
	clear(e.persistErrs)
	e.restoring = true
	e.placement.Load(nil)
	e.placement.RestoreHistory(nil, nil)
	e.restoring = false
	e.background.Clear()
	e.selection.Clear()
	return nil
}
