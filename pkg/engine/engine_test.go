package engine

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/roomkit/pkg/catalog"
	"github.com/matzehuels/roomkit/pkg/errors"
	"github.com/matzehuels/roomkit/pkg/geom"
	pkgio "github.com/matzehuels/roomkit/pkg/io"
	"github.com/matzehuels/roomkit/pkg/placement"
	"github.com/matzehuels/roomkit/pkg/room"
	"github.com/matzehuels/roomkit/pkg/selection"
	"github.com/matzehuels/roomkit/pkg/storage"
)

// countingStore counts writes and can be told to fail them.
type countingStore struct {
	*storage.MemoryStore
	sets map[string]int
	fail error
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: storage.NewMemoryStore(), sets: map[string]int{}}
}

func (s *countingStore) Set(ctx context.Context, key string, data []byte) error {
	s.sets[key]++
	if s.fail != nil {
		return s.fail
	}
	return s.MemoryStore.Set(ctx, key, data)
}

func fixtureCatalog() *catalog.Registry {
	return catalog.MustNew([]catalog.Item{
		{ID: "chair_01", Name: "Modern Armchair", ModelRef: "chair", Price: 299},
		{ID: "table_01", Name: "Coffee Table", ModelRef: "table", Price: 189},
	})
}

func newEngine(t *testing.T, store storage.Store, mod ...func(*Options)) *Engine {
	t.Helper()
	opts := Options{
		Catalog:     fixtureCatalog(),
		Store:       store,
		IDGenerator: placement.Sequence("i"),
	}
	for _, m := range mod {
		m(&opts)
	}
	e, err := New(opts)
	require.NoError(t, err)
	return e
}

func stored(t *testing.T, s storage.Store, key string) string {
	t.Helper()
	data, ok, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok, "key %s not stored", key)
	return string(data)
}

func TestNewDefaults(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, geom.DefaultPolicy(), e.Policy())
	assert.Equal(t, 3, e.Catalog().Len())
	assert.IsType(t, &storage.NullStore{}, e.Store())

	p, err := e.Add("Sofa_01")
	require.NoError(t, err)
	assert.NotEmpty(t, p.InstanceID)
	assert.NoError(t, e.LastPersistError())
}

func TestNewRejectsBadOptions(t *testing.T) {
	bad := geom.Policy{GridSize: 1, Threshold: -1}
	_, err := New(Options{Policy: &bad})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)

	_, err = New(Options{ShareOrigin: "ftp://x"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidURL), "got %v", err)

	_, err = New(Options{HistoryLimit: -1})
	assert.Error(t, err)
}

func TestAddUnknownCatalogID(t *testing.T) {
	e := newEngine(t, nil)
	_, err := e.Add("lamp")
	assert.True(t, errors.Is(err, errors.ErrCodeCatalogNotFound), "got %v", err)
	assert.Empty(t, e.Placed())
	assert.False(t, e.CanUndo())
}

func TestWriteThrough(t *testing.T) {
	s := newCountingStore()
	e := newEngine(t, s)

	e.Add("chair_01")
	assert.Equal(t,
		`{"placed":[{"instanceId":"i1","catalogId":"chair_01","position":[0,0,0],"rotation":[0,0,0]}]}`,
		stored(t, s, pkgio.StorageKey))

	e.UpdateTransform("i1", geom.Vec3{2, 0, 1}, geom.Origin)
	assert.Contains(t, stored(t, s, pkgio.StorageKey), `"position":[2,0,1]`)

	e.Undo()
	assert.Contains(t, stored(t, s, pkgio.StorageKey), `"position":[0,0,0]`)

	e.Clear()
	assert.Equal(t, `{"placed":[]}`, stored(t, s, pkgio.StorageKey))
	assert.Equal(t, 4, s.sets[pkgio.StorageKey])

	_, ok, _ := s.Get(context.Background(), pkgio.HistoryKey)
	assert.False(t, ok, "history persisted without PersistHistory")
}

func TestWriteThroughSkipsIdenticalPayload(t *testing.T) {
	s := newCountingStore()
	e := newEngine(t, s)

	e.Add("chair_01")
	require.Equal(t, 1, s.sets[pkgio.StorageKey])

	// Unknown ids change history but not the layout.
	e.Remove("ghost")
	e.UpdateTransform("ghost", geom.Vec3{1, 1, 1}, geom.Origin)
	assert.Equal(t, 1, s.sets[pkgio.StorageKey])
	assert.True(t, e.CanUndo())

	require.NoError(t, e.Flush())
	assert.Equal(t, 2, s.sets[pkgio.StorageKey])
}

func TestPersistFailureIsSwallowed(t *testing.T) {
	s := newCountingStore()
	s.fail = stderrors.New("disk full")
	e := newEngine(t, s)

	p, err := e.Add("chair_01")
	require.NoError(t, err)
	assert.Len(t, e.Placed(), 1)
	assert.ErrorContains(t, e.LastPersistError(), "disk full")
	assert.Equal(t, p, e.Placed()[0])

	s.fail = nil
	e.Add("table_01")
	assert.NoError(t, e.LastPersistError())
	assert.Contains(t, stored(t, s, pkgio.StorageKey), "table_01")
}

// keyFailStore fails writes to the listed keys only.
type keyFailStore struct {
	*storage.MemoryStore
	failing map[string]error
}

func (s *keyFailStore) Set(ctx context.Context, key string, data []byte) error {
	if err := s.failing[key]; err != nil {
		return err
	}
	return s.MemoryStore.Set(ctx, key, data)
}

func TestLayoutFailureOutlivesOtherWrites(t *testing.T) {
	ctx := context.Background()
	s := &keyFailStore{
		MemoryStore: storage.NewMemoryStore(),
		failing:     map[string]error{pkgio.StorageKey: stderrors.New("quota exceeded")},
	}
	e := newEngine(t, s, func(o *Options) { o.PersistHistory = true })

	_, err := e.Add("chair_01")
	require.NoError(t, err)
	assert.ErrorContains(t, e.LastPersistError(), "quota exceeded")

	_, ok, _ := s.Get(ctx, pkgio.HistoryKey)
	assert.False(t, ok, "history written although the layout was not")

	// A successful background write must not hide the layout failure.
	require.NoError(t, e.SetBackgroundTemplate("living-room-1"))
	stored(t, s, room.BackgroundKey)
	assert.ErrorContains(t, e.LastPersistError(), "quota exceeded")

	delete(s.failing, pkgio.StorageKey)
	e.Add("table_01")
	assert.NoError(t, e.LastPersistError())
	assert.Contains(t, stored(t, s, pkgio.StorageKey), "table_01")
	assert.Contains(t, stored(t, s, pkgio.HistoryKey), "table_01")
}

func TestHistoryFailureReported(t *testing.T) {
	s := &keyFailStore{
		MemoryStore: storage.NewMemoryStore(),
		failing:     map[string]error{pkgio.HistoryKey: stderrors.New("read only")},
	}
	e := newEngine(t, s, func(o *Options) { o.PersistHistory = true })

	e.Add("chair_01")
	assert.Contains(t, stored(t, s, pkgio.StorageKey), "chair_01")
	assert.ErrorContains(t, e.LastPersistError(), "read only")

	// The layout is unchanged, so only the history is retried.
	e.Remove("ghost")
	assert.ErrorContains(t, e.LastPersistError(), "read only")

	delete(s.failing, pkgio.HistoryKey)
	assert.NoError(t, e.Flush())
}

// ctxStore fails writes whose context is already done.
type ctxStore struct{ *storage.MemoryStore }

func (s ctxStore) Set(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.MemoryStore.Set(ctx, key, data)
}

func TestWritesFollowSessionContext(t *testing.T) {
	s := ctxStore{storage.NewMemoryStore()}
	e := newEngine(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	e.Restore(ctx)
	e.Add("chair_01")
	require.NoError(t, e.LastPersistError())

	cancel()
	e.Add("table_01")
	assert.ErrorIs(t, e.LastPersistError(), context.Canceled)
	assert.NotContains(t, stored(t, s, pkgio.StorageKey), "table_01")
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStore()
	require.NoError(t, s.Set(ctx, pkgio.StorageKey, []byte(
		`{"placed":[{"instanceId":"a","catalogId":"table_01","position":[1,0,-2],"rotation":[0,1.5,0]},`+
			`{"instanceId":"b","catalogId":"lamp_09","position":[0,0,0],"rotation":[0,0,0]}]}`)))

	e := newEngine(t, s)
	res := e.Restore(ctx)
	assert.True(t, res.OK())
	assert.Equal(t, 2, res.Loaded)
	assert.Equal(t, []string{"b"}, res.Fallbacks)
	assert.False(t, e.CanUndo(), "restore must not be undoable")

	placed := e.Placed()
	require.Len(t, placed, 2)
	assert.Equal(t, "table", placed[0].ModelRef)
	assert.Equal(t, geom.Vec3{1, 0, -2}, placed[0].Position)
	assert.Equal(t, "lamp_09", placed[1].CatalogID)
	assert.Equal(t, "chair", placed[1].ModelRef, "unknown ids fall back to the first catalog entry")
}

func TestRestoreNothing(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		value string
		want  pkgio.Reason
	}{
		{"absent", "", pkgio.ReasonAbsent},
		{"malformed", "{oops", pkgio.ReasonMalformed},
		{"missing placed", `{"items":[]}`, pkgio.ReasonMissingPlaced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := storage.NewMemoryStore()
			if tt.value != "" {
				require.NoError(t, s.Set(ctx, pkgio.StorageKey, []byte(tt.value)))
			}
			e := newEngine(t, s)
			res := e.Restore(ctx)
			assert.Equal(t, tt.want, res.Reason)
			assert.False(t, res.OK())
			assert.Empty(t, e.Placed())
		})
	}
}

type brokenStore struct{ storage.NullStore }

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, stderrors.New("unreachable")
}

func TestRestoreStorageError(t *testing.T) {
	e := newEngine(t, brokenStore{})
	res := e.Restore(context.Background())
	assert.Equal(t, pkgio.ReasonAbsent, res.Reason)
	assert.Error(t, res.Err)
	assert.Empty(t, e.Placed())
}

func TestDragEndSnaps(t *testing.T) {
	e := newEngine(t, nil)
	p, _ := e.Add("chair_01")

	pos := e.DragEnd(p.InstanceID, geom.Vec3{1.05, 0.4, 2.9}, geom.Vec3{0, 0.5, 0})
	assert.Equal(t, geom.Vec3{1, 0.4, 3}, pos)

	got, ok := e.Get(p.InstanceID)
	require.True(t, ok)
	assert.Equal(t, geom.Vec3{1, 0.4, 3}, got.Position)
	assert.Equal(t, geom.Vec3{0, 0.5, 0}, got.Rotation)

	pos = e.DragEnd(p.InstanceID, geom.Vec3{9.5, 0, -7.3}, geom.Origin)
	assert.Equal(t, geom.Vec3{6, 0, -6}, pos, "clamped to bounds")
}

func TestDragEndLockY(t *testing.T) {
	policy := geom.DefaultPolicy()
	policy.LockY = true
	e := newEngine(t, nil, func(o *Options) { o.Policy = &policy })
	p, _ := e.Add("chair_01")
	assert.Equal(t, geom.Vec3{1, 0, 3}, e.DragEnd(p.InstanceID, geom.Vec3{1.05, 0.4, 2.9}, geom.Origin))
}

func TestSelectionDelegation(t *testing.T) {
	e := newEngine(t, nil)
	a, _ := e.Add("chair_01")
	b, _ := e.Add("table_01")

	assert.False(t, e.HandleKey("r"), "keys ignored without selection")
	e.Select(a.InstanceID)
	assert.True(t, e.HandleKey("r"))
	assert.Equal(t, selection.Rotate, e.Selection().Mode())

	e.Select(b.InstanceID)
	assert.Equal(t, selection.Translate, e.Selection().Mode())

	e.Missed()
	_, ok := e.Selection().Selected()
	assert.False(t, ok)
}

func TestRemoveSelectedKeepsSelection(t *testing.T) {
	e := newEngine(t, nil)
	assert.False(t, e.RemoveSelected())

	a, _ := e.Add("chair_01")
	e.Add("table_01")
	e.Select(a.InstanceID)
	require.True(t, e.RemoveSelected())

	assert.Len(t, e.Placed(), 1)
	id, ok := e.Selection().Selected()
	assert.True(t, ok)
	assert.Equal(t, a.InstanceID, id)
}

func TestPersistedHistoryAcrossEngines(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStore()
	withHistory := func(o *Options) { o.PersistHistory = true }

	first := newEngine(t, s, withHistory)
	first.Restore(ctx)
	first.Add("chair_01")
	first.Add("table_01")

	second := newEngine(t, s, withHistory)
	res := second.Restore(ctx)
	require.True(t, res.History)
	require.Len(t, second.Placed(), 2)
	require.True(t, second.Undo())

	third := newEngine(t, s, withHistory)
	third.Restore(ctx)
	require.Len(t, third.Placed(), 1)
	assert.True(t, third.CanRedo())
	require.True(t, third.Redo())
	assert.Len(t, third.Placed(), 2)
	assert.Equal(t, "table", third.Placed()[1].ModelRef)
}

func TestShareLinkRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newEngine(t, nil, func(o *Options) { o.ShareOrigin = "https://rooms.test" })
	p, _ := src.Add("chair_01")
	src.DragEnd(p.InstanceID, geom.Vec3{2.1, 0, -1.9}, geom.Origin)

	link, err := src.ShareLink("")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://rooms.test?s="))

	dst := newEngine(t, storage.NewMemoryStore())
	lr, err := dst.ImportShareLink(ctx, link)
	require.NoError(t, err)
	assert.Equal(t, 1, lr.Loaded)
	assert.Equal(t, src.Placed(), dst.Placed())
	assert.False(t, dst.CanUndo())

	_, err = dst.ImportShareLink(ctx, "https://rooms.test?s=nope")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "got %v", err)
	assert.Len(t, dst.Placed(), 1, "failed import changed the room")

	_, err = newEngine(t, nil).ShareLink("")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidURL), "got %v", err)
}

func TestBillOfMaterials(t *testing.T) {
	e := newEngine(t, nil)
	e.Add("chair_01")
	e.Add("table_01")
	assert.Equal(t,
		"\"Item\",\"Qty\",\"Unit Price\",\"Total\"\n"+
			"\"Modern Armchair\",\"1\",\"299\",\"299\"\n"+
			"\"Coffee Table\",\"1\",\"189\",\"189\"",
		e.BillOfMaterialsCSV())
	assert.Len(t, e.BillOfMaterials(), 2)
}

func TestExportImportJSON(t *testing.T) {
	src := newEngine(t, nil)
	src.Add("chair_01")
	src.Add("table_01")

	var buf bytes.Buffer
	require.NoError(t, src.ExportJSON(&buf))
	assert.Contains(t, buf.String(), "\n  \"placed\": [\n")

	s := newCountingStore()
	dst := newEngine(t, s)
	lr, err := dst.ImportJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, lr.Loaded)
	assert.Equal(t, src.Placed(), dst.Placed())
	assert.Equal(t, 1, s.sets[pkgio.StorageKey], "import persists")

	_, err = dst.ImportJSON(strings.NewReader("{}"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestBackgroundPersistence(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStore()

	e := newEngine(t, s)
	require.NoError(t, e.SetBackgroundTemplate("living-room-1"))
	assert.Error(t, e.SetBackgroundTemplate("castle"))
	assert.Error(t, e.SetBackgroundImage("nope"))

	again := newEngine(t, s)
	res := again.Restore(ctx)
	assert.True(t, res.Background)
	assert.Equal(t, room.KindTemplate, again.Background().Background().Kind)
	assert.Equal(t, "/assets/templates/OIP.jpg", again.Background().ResolveURL())

	again.ClearBackground()
	third := newEngine(t, s)
	third.Restore(ctx)
	assert.Equal(t, room.KindNone, third.Background().Background().Kind)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStore()
	e := newEngine(t, s, func(o *Options) { o.PersistHistory = true })
	a, _ := e.Add("chair_01")
	e.Select(a.InstanceID)
	require.NoError(t, e.SetBackgroundImage("/uploads/room.png"))

	require.NoError(t, e.Reset(ctx))
	assert.Empty(t, e.Placed())
	assert.False(t, e.CanUndo())
	_, selected := e.Selection().Selected()
	assert.False(t, selected)
	assert.Empty(t, s.Keys())

	e.Add("table_01")
	assert.Contains(t, stored(t, s, pkgio.StorageKey), "table_01")
}
