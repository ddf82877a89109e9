// Package engine ties the room-editing components into one explicit,
// constructible container.
//
// An [Engine] owns a catalog registry, the placement store with its undo
// history, the selection coordinator, the view action registry, the room
// background and a durable [storage.Store]. Nothing is global: tests and
// tools build as many independent engines as they need.
//
// # Persistence
//
// Every change to the placed list is written through to the store under
// [pkgio.StorageKey] as compact JSON. Consecutive identical payloads are
// skipped. Write failures never reach the caller: they are logged, reported
// to [observability.StorageHooks] and kept per key until that key is written
// again; see [Engine.LastPersistError]. Writes run under the context given to
// [Engine.Restore].
//
//	eng, err := engine.New(engine.Options{Store: store, Logger: logger})
//	if err != nil {
//	    return err
//	}
//	res := eng.Restore(ctx)
//	logger.Debug("restored", "reason", res.Reason, "placed", res.Loaded)
//
//	p, _ := eng.Add("chair_01")
//	eng.DragEnd(p.InstanceID, geom.Vec3{1.05, 0.4, 2.9}, geom.Origin)
//	eng.Undo()
//
// With PersistHistory set, the undo and redo stacks are stored as well so
// that separate processes (one CLI invocation per edit) share a history.
package engine
