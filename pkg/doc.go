// Package pkg provides the core libraries for Roomkit furniture placement.
//
// # Overview
//
// Roomkit arranges catalog furniture in a room: items are placed at the
// origin, moved and rotated, snapped to a grid when a drag ends, and every
// change can be undone. The layout is saved under a single durable key and
// can be exported as JSON, a share link or a CSV bill of materials. The pkg
// directory is organized into four main areas:
//
//  1. Domain - [catalog], [geom], [selection], [history], [placement], [room]
//  2. Serialization - [io] (storage text, share links, bill of materials)
//  3. Infrastructure - [storage], [observability], [errors], [buildinfo]
//  4. Orchestration - [engine] and [actions]
//
// # Architecture
//
// The typical data flow through Roomkit:
//
//	Catalog item
//	     ↓
//	[placement] package (add, transform, remove + undo history)
//	     ↓
//	[io] package (serialize the placed list)
//	     ↓
//	[storage] package (file, sqlite, redis, memory)
//
// [engine] wires these together: it restores the saved room once, writes
// through on every change and applies the [geom] snap policy on drag end.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/roomkit/pkg/engine"
//	    "github.com/matzehuels/roomkit/pkg/geom"
//	    "github.com/matzehuels/roomkit/pkg/storage"
//	)
//
//	store, _ := storage.NewFileStore("")
//	eng, _ := engine.New(engine.Options{Store: store, PersistHistory: true})
//	eng.Restore(context.Background())
//
//	chair, _ := eng.Add("chair_01")
//	eng.DragEnd(chair.InstanceID, geom.Vec3{2.1, 0, 3.15}, chair.Rotation) // snaps to (2, 0, 3)
//	eng.Undo()
//
//	link, _ := eng.ShareLink("https://rooms.example.com")
//	csv := eng.BillOfMaterialsCSV()
//
// # Main Packages
//
// [catalog] - Read-only registry of placeable furniture, built in or loaded
// from a TOML file. Unknown ids resolve to the first entry.
//
// [geom] - Vectors, grid snapping and the plane bounds clamp.
//
// [placement] - The placed list and its snapshot undo/redo history, built
// on the generic two-stack [history] package.
//
// [selection] - At most one selected instance with translate/rotate mode.
//
// [room] - Background image or room template selection.
//
// [actions] - Late-bound callback slots (capture, fit to scene, camera
// presets) for a rendering front end.
//
// [storage] - Durable key/value backends. FileStore for the CLI, SQLiteStore
// and RedisStore for shared setups, MemoryStore for tests.
//
// [observability] - Hook registry with no-op defaults; the prom subpackage
// exports Prometheus metrics.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/engine/...             # Specific package
//	ROOMKIT_TEST_REDIS_ADDR=localhost:6379 go test ./pkg/storage/...
package pkg
