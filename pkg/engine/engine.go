package engine

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/roomkit/pkg/actions"
	"github.com/matzehuels/roomkit/pkg/catalog"
	"github.com/matzehuels/roomkit/pkg/errors"
	"github.com/matzehuels/roomkit/pkg/geom"
	pkgio "github.com/matzehuels/roomkit/pkg/io"
	"github.com/matzehuels/roomkit/pkg/placement"
	"github.com/matzehuels/roomkit/pkg/room"
	"github.com/matzehuels/roomkit/pkg/selection"
	"github.com/matzehuels/roomkit/pkg/storage"
)

// DefaultPersistTimeout bounds a single write-through.
const DefaultPersistTimeout = 5 * time.Second

// Options configures an Engine. The zero value is usable: default catalog,
// default snap policy, unbounded history and no durable storage.
type Options struct {
	Catalog *catalog.Registry
	Store   storage.Store

	// Policy is the drag-end snap policy. Nil means geom.DefaultPolicy().
	Policy *geom.Policy

	HistoryLimit   int
	PersistHistory bool

	// ShareOrigin is used by ShareLink when no origin is passed.
	ShareOrigin string

	IDGenerator    func() string
	Logger         *log.Logger
	PersistTimeout time.Duration
}

// Engine is the room editor state container. It is not safe for
// concurrent use.
type Engine struct {
	store      storage.Store
	placement  *placement.Store
	selection  *selection.Coordinator
	actions    *actions.Registry
	background *room.State
	policy     geom.Policy
	logger     *log.Logger

	origin         string
	persistHistory bool
	timeout        time.Duration

	// ctx is the session context set by Restore; writes derive from it.
	ctx         context.Context
	digests     map[string]uint64
	persistErrs map[string]error
	restoring   bool
}

// New builds an engine from opts.
func New(opts Options) (*Engine, error) {
	policy := geom.DefaultPolicy()
	if opts.Policy != nil {
		policy = *opts.Policy
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if opts.ShareOrigin != "" {
		if err := errors.ValidateOrigin(opts.ShareOrigin); err != nil {
			return nil, err
		}
	}
	if opts.HistoryLimit < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "history limit cannot be negative")
	}

	store := opts.Store
	if store == nil {
		store = storage.NewNullStore()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	timeout := opts.PersistTimeout
	if timeout <= 0 {
		timeout = DefaultPersistTimeout
	}

	popts := []placement.Option{placement.WithHistoryLimit(opts.HistoryLimit)}
	if opts.IDGenerator != nil {
		popts = append(popts, placement.WithIDGenerator(opts.IDGenerator))
	}

	e := &Engine{
		store:          store,
		placement:      placement.NewStore(opts.Catalog, popts...),
		selection:      selection.New(),
		actions:        actions.NewRegistry(),
		background:     room.NewState(),
		policy:         policy,
		logger:         logger,
		origin:         opts.ShareOrigin,
		persistHistory: opts.PersistHistory,
		timeout:        timeout,
		ctx:            context.Background(),
		digests:        make(map[string]uint64),
		persistErrs:    make(map[string]error),
	}
	e.placement.OnChange(e.onChange)
	return e, nil
}

// Catalog returns the catalog registry.
func (e *Engine) Catalog() *catalog.Registry { return e.placement.Catalog() }

// Placement returns the placement store.
func (e *Engine) Placement() *placement.Store { return e.placement }

// Selection returns the selection coordinator.
func (e *Engine) Selection() *selection.Coordinator { return e.selection }

// Actions returns the view action registry.
func (e *Engine) Actions() *actions.Registry { return e.actions }

// Background returns the room background state. Use the SetBackground
// methods to change it durably.
func (e *Engine) Background() *room.State { return e.background }

// Policy returns the drag-end snap policy.
func (e *Engine) Policy() geom.Policy { return e.policy }

// Store returns the durable store.
func (e *Engine) Store() storage.Store { return e.store }

// Logger returns the engine logger.
func (e *Engine) Logger() *log.Logger { return e.logger }

// Placed returns a copy of the current placed list.
func (e *Engine) Placed() []placement.PlacedItem { return e.placement.Placed() }

// Get returns a placed instance by id.
func (e *Engine) Get(instanceID string) (placement.PlacedItem, bool) {
	return e.placement.Get(instanceID)
}

// Add places a new instance of the catalog item with the given id.
func (e *Engine) Add(catalogID string) (placement.PlacedItem, error) {
	item, err := e.Catalog().Get(catalogID)
	if err != nil {
		return placement.PlacedItem{}, err
	}
	return e.placement.Add(item), nil
}

// AddItem places a new instance of item.
func (e *Engine) AddItem(item catalog.Item) placement.PlacedItem {
	return e.placement.Add(item)
}

// Remove deletes an instance. Unknown ids are a recorded no-op.
func (e *Engine) Remove(instanceID string) { e.placement.Remove(instanceID) }

// UpdateTransform stores a transform as given, without snapping.
func (e *Engine) UpdateTransform(instanceID string, position, rotation geom.Vec3) {
	e.placement.UpdateTransform(instanceID, position, rotation)
}

// DragEnd commits the end of a drag: the raw position is snapped and
// clamped by the engine policy, then stored with rotation. It returns the
// committed position.
func (e *Engine) DragEnd(instanceID string, raw, rotation geom.Vec3) geom.Vec3 {
	pos := e.policy.Apply(raw)
	e.placement.UpdateTransform(instanceID, pos, rotation)
	return pos
}

// Clear empties the room.
func (e *Engine) Clear() { e.placement.Clear() }

// Undo restores the previous layout and reports whether anything changed.
func (e *Engine) Undo() bool { return e.placement.Undo() }

// Redo re-applies the next layout and reports whether anything changed.
func (e *Engine) Redo() bool { return e.placement.Redo() }

// CanUndo reports whether Undo would change anything.
func (e *Engine) CanUndo() bool { return e.placement.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (e *Engine) CanRedo() bool { return e.placement.CanRedo() }

// Select selects an instance; an empty id clears the selection.
func (e *Engine) Select(instanceID string) { e.selection.Select(instanceID) }

// Missed handles a click on empty space.
func (e *Engine) Missed() { e.selection.Missed() }

// HandleKey forwards a mode key to the selection coordinator.
func (e *Engine) HandleKey(key string) bool { return e.selection.HandleKey(key) }

// RemoveSelected removes the selected instance. The selection itself is
// kept, so it may refer to an instance that no longer exists.
func (e *Engine) RemoveSelected() bool {
	id, ok := e.selection.Selected()
	if !ok {
		return false
	}
	e.placement.Remove(id)
	return true
}

// Snapshot returns the serialized form of the current layout.
func (e *Engine) Snapshot() pkgio.SerializedRoom {
	return pkgio.Serialize(e.placement.Placed())
}

// LastPersistError returns an outstanding write error for the layout,
// history or background key, checked in that order. A key's error is cleared
// only by a later successful write of the same key.
func (e *Engine) LastPersistError() error {
	for _, key := range persistKeys {
		if err := e.persistErrs[key]; err != nil {
			return err
		}
	}
	return nil
}

// String implements fmt.Stringer for debug logging.
func (e *Engine) String() string { return e.placement.String() }

// persistContext returns the session context bounded by the persist timeout.
func (e *Engine) persistContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(e.ctx, e.timeout)
}
