package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	e := NoopEngineHooks{}
	e.OnMutation(OpAdd, 1)
	e.OnHistory(OpUndo, 0, 1)

	s := NoopStorageHooks{}
	s.OnRestore(ctx, "furniture-state", "absent")
	s.OnPersist(ctx, "furniture-state", 128, time.Millisecond, errors.New("disk full"))
	s.OnPersistSkipped(ctx, "furniture-state")

	sh := NoopShareHooks{}
	sh.OnShareDecoded(ctx, "ok")
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Engine() should return NoopEngineHooks by default")
	}
	if _, ok := Storage().(NoopStorageHooks); !ok {
		t.Error("Storage() should return NoopStorageHooks by default")
	}
	if _, ok := Share().(NoopShareHooks); !ok {
		t.Error("Share() should return NoopShareHooks by default")
	}

	customEngine := &testEngineHooks{}
	SetEngineHooks(customEngine)
	if Engine() != customEngine {
		t.Error("SetEngineHooks should set custom hooks")
	}

	customStorage := &testStorageHooks{}
	SetStorageHooks(customStorage)
	if Storage() != customStorage {
		t.Error("SetStorageHooks should set custom hooks")
	}

	customShare := &testShareHooks{}
	SetShareHooks(customShare)
	if Share() != customShare {
		t.Error("SetShareHooks should set custom hooks")
	}

	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset() should restore NoopEngineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEngineHooks{}
	SetEngineHooks(custom)
	SetEngineHooks(nil)

	if Engine() != custom {
		t.Error("SetEngineHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testEngineHooks struct{ NoopEngineHooks }
type testStorageHooks struct{ NoopStorageHooks }
type testShareHooks struct{ NoopShareHooks }
