// Package placement owns the furniture placed in a room and its undo/redo
// history. [Store] is the only component that mutates room content.
//
// Every direct mutation (Add, Remove, UpdateTransform, Clear) snapshots the
// pre-mutation list and discards redo history. Undo and Redo move single
// snapshots between the history stacks and the current list. Load installs a
// fresh baseline and is not undoable.
//
// Store is not safe for concurrent use; it is driven by one logical event
// loop.
package placement

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/matzehuels/roomkit/pkg/catalog"
	"github.com/matzehuels/roomkit/pkg/geom"
	"github.com/matzehuels/roomkit/pkg/history"
	"github.com/matzehuels/roomkit/pkg/observability"
)

// PlacedItem is one concrete occurrence of a catalog item in the room.
type PlacedItem struct {
	InstanceID string    `json:"instanceId"`
	CatalogID  string    `json:"catalogId"`
	ModelRef   string    `json:"-"`
	Position   geom.Vec3 `json:"position"`
	Rotation   geom.Vec3 `json:"rotation"`
}

// Record is the serializable form of a PlacedItem. The model reference is
// omitted and re-resolved from CatalogID on load.
type Record struct {
	InstanceID string    `json:"instanceId"`
	CatalogID  string    `json:"catalogId"`
	Position   geom.Vec3 `json:"position"`
	Rotation   geom.Vec3 `json:"rotation"`
}

// Record returns the serializable form of p.
func (p PlacedItem) Record() Record {
	return Record{
		InstanceID: p.InstanceID,
		CatalogID:  p.CatalogID,
		Position:   p.Position,
		Rotation:   p.Rotation,
	}
}

// Records converts a placed list to its serializable form.
func Records(placed []PlacedItem) []Record {
	out := make([]Record, len(placed))
	for i, p := range placed {
		out[i] = p.Record()
	}
	return out
}

// LoadResult reports how a serialized room was resolved.
type LoadResult struct {
	Loaded    int      // number of installed instances, always the input length
	Fallbacks []string // instance ids whose catalog id was unknown
}

// ChangeFunc is called after every change to the placed list.
type ChangeFunc func(op string)

// Store holds the placed list and its history.
type Store struct {
	catalog   *catalog.Registry
	placed    []PlacedItem
	history   *history.History[[]PlacedItem]
	newID     func() string
	listeners []ChangeFunc
}

// Option configures a Store.
type Option func(*storeConfig)

type storeConfig struct {
	newID        func() string
	historyLimit int
}

// WithIDGenerator overrides instance id generation (default: random UUIDs).
func WithIDGenerator(fn func() string) Option {
	return func(c *storeConfig) { c.newID = fn }
}

// WithHistoryLimit bounds the undo stack depth. Zero means unbounded.
func WithHistoryLimit(n int) Option {
	return func(c *storeConfig) { c.historyLimit = n }
}

// Sequence returns a generator producing prefix1, prefix2, ...
func Sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + strconv.Itoa(n)
	}
}

// NewStore creates an empty store resolving catalog ids against reg.
func NewStore(reg *catalog.Registry, opts ...Option) *Store {
	if reg == nil {
		reg = catalog.Default()
	}
	cfg := storeConfig{newID: uuid.NewString}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Store{
		catalog: reg,
		placed:  []PlacedItem{},
		history: history.New(clonePlaced, history.WithLimit[[]PlacedItem](cfg.historyLimit)),
		newID:   cfg.newID,
	}
}

func clonePlaced(p []PlacedItem) []PlacedItem {
	if p == nil {
		return []PlacedItem{}
	}
	return slices.Clone(p)
}

// Catalog returns the registry the store resolves against.
func (s *Store) Catalog() *catalog.Registry { return s.catalog }

// OnChange registers fn to be called after every change to the placed list,
// including undo, redo and load.
func (s *Store) OnChange(fn ChangeFunc) {
	if fn != nil {
		s.listeners = append(s.listeners, fn)
	}
}

func (s *Store) changed(op string) {
	for _, fn := range s.listeners {
		fn(op)
	}
}

func (s *Store) mutate(op string, next []PlacedItem) {
	s.history.Record(s.placed)
	s.placed = next
	observability.Engine().OnMutation(op, len(s.placed))
	s.changed(op)
}

// Add appends a new instance of item at the origin with a fresh instance id.
func (s *Store) Add(item catalog.Item) PlacedItem {
	p := PlacedItem{
		InstanceID: s.newID(),
		CatalogID:  item.ID,
		ModelRef:   item.ModelRef,
		Position:   geom.Origin,
		Rotation:   geom.Origin,
	}
	next := make([]PlacedItem, len(s.placed), len(s.placed)+1)
	copy(next, s.placed)
	s.mutate(observability.OpAdd, append(next, p))
	return p
}

// Remove deletes the instance with the given id. Unknown ids leave the list
// unchanged but are still recorded in history.
func (s *Store) Remove(instanceID string) {
	next := make([]PlacedItem, 0, len(s.placed))
	for _, p := range s.placed {
		if p.InstanceID != instanceID {
			next = append(next, p)
		}
	}
	s.mutate(observability.OpRemove, next)
}

// UpdateTransform replaces the position and rotation of an instance. Values
// are stored as given; callers apply snapping first. Unknown ids leave the
// list unchanged but are still recorded in history.
func (s *Store) UpdateTransform(instanceID string, position, rotation geom.Vec3) {
	next := slices.Clone(s.placed)
	for i := range next {
		if next[i].InstanceID == instanceID {
			next[i].Position = position
			next[i].Rotation = rotation
		}
	}
	s.mutate(observability.OpUpdate, next)
}

// Clear empties the room.
func (s *Store) Clear() {
	s.mutate(observability.OpClear, []PlacedItem{})
}

// Load replaces the placed list with records, resolving each catalog id.
// Unknown catalog ids fall back to the first catalog entry. History is not
// touched: the loaded list is a fresh baseline, not an undoable action.
func (s *Store) Load(records []Record) LoadResult {
	next, fallbacks := s.resolve(records)
	s.placed = next
	observability.Engine().OnMutation(observability.OpLoad, len(s.placed))
	s.changed(observability.OpLoad)
	return LoadResult{Loaded: len(next), Fallbacks: fallbacks}
}

func (s *Store) resolve(records []Record) ([]PlacedItem, []string) {
	out := make([]PlacedItem, len(records))
	var fallbacks []string
	for i, r := range records {
		res := s.catalog.Resolve(r.CatalogID)
		if res.Fallback {
			fallbacks = append(fallbacks, r.InstanceID)
		}
		out[i] = PlacedItem{
			InstanceID: r.InstanceID,
			CatalogID:  r.CatalogID,
			ModelRef:   res.Item.ModelRef,
			Position:   r.Position,
			Rotation:   r.Rotation,
		}
	}
	return out, fallbacks
}

// RestoreHistory replaces both history stacks with serialized snapshots.
// The current list is not changed.
func (s *Store) RestoreHistory(past, future [][]Record) {
	conv := func(snaps [][]Record) [][]PlacedItem {
		out := make([][]PlacedItem, len(snaps))
		for i, snap := range snaps {
			out[i], _ = s.resolve(snap)
		}
		return out
	}
	s.history.Restore(conv(past), conv(future))
}

// HistoryRecords returns both history stacks in serializable form.
func (s *Store) HistoryRecords() (past, future [][]Record) {
	conv := func(snaps [][]PlacedItem) [][]Record {
		out := make([][]Record, len(snaps))
		for i, snap := range snaps {
			out[i] = Records(snap)
		}
		return out
	}
	return conv(s.history.Past()), conv(s.history.Future())
}

// CanUndo reports whether there is a snapshot to undo to.
func (s *Store) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether there is a snapshot to redo to.
func (s *Store) CanRedo() bool { return s.history.CanRedo() }

// Undo restores the previous snapshot. It is a no-op when past is empty and
// reports whether anything changed.
func (s *Store) Undo() bool {
	prev, ok := s.history.Undo(s.placed)
	if !ok {
		return false
	}
	s.placed = prev
	past, future := s.history.Depth()
	observability.Engine().OnHistory(observability.OpUndo, past, future)
	s.changed(observability.OpUndo)
	return true
}

// Redo re-applies the next snapshot. It is a no-op when future is empty and
// reports whether anything changed.
func (s *Store) Redo() bool {
	next, ok := s.history.Redo(s.placed)
	if !ok {
		return false
	}
	s.placed = next
	past, future := s.history.Depth()
	observability.Engine().OnHistory(observability.OpRedo, past, future)
	s.changed(observability.OpRedo)
	return true
}

// Placed returns a copy of the current placed list.
func (s *Store) Placed() []PlacedItem { return clonePlaced(s.placed) }

// Len returns the number of placed instances.
func (s *Store) Len() int { return len(s.placed) }

// Get returns the instance with the given id.
func (s *Store) Get(instanceID string) (PlacedItem, bool) {
	for _, p := range s.placed {
		if p.InstanceID == instanceID {
			return p, true
		}
	}
	return PlacedItem{}, false
}

// Past returns copies of the past snapshots, oldest first.
func (s *Store) Past() [][]PlacedItem { return s.history.Past() }

// Future returns copies of the future snapshots, soonest first.
func (s *Store) Future() [][]PlacedItem { return s.history.Future() }

// String implements fmt.Stringer for debug logging.
func (s *Store) String() string {
	past, future := s.history.Depth()
	return fmt.Sprintf("placement.Store{placed: %d, past: %d, future: %d}", len(s.placed), past, future)
}
