// Package io converts room layouts to and from their durable and shareable
// forms.
//
// # JSON Format
//
// The durable shape stores only what cannot be re-derived. Model references
// are omitted and re-resolved from the catalog id on load:
//
//	{
//	  "placed": [
//	    {
//	      "instanceId": "8f1c2a4e-...",
//	      "catalogId": "chair_01",
//	      "position": [1, 0, 3],
//	      "rotation": [0, 1.5708, 0]
//	    }
//	  ]
//	}
//
// The same shape is used for three outputs:
//
//   - Storage text: compact JSON written to the [StorageKey] durable key
//     on every change and read once at startup ([ToStorageText],
//     [FromStorageText]).
//   - Share links: origin + "?s=" + percent-encoded compact JSON
//     ([ToShareLink], [FromShareLink]). Encoding matches JavaScript's
//     encodeURIComponent so links round-trip with browser clients.
//   - JSON download: the same document pretty-printed with a 2-space
//     indent ([WriteJSON], [ExportJSON]).
//
// # Decoding Never Fails
//
// Absent, malformed, or structurally wrong input is not an error: decoding
// returns a [Result] whose OK field is false and whose Reason says why.
// Callers treat that as "nothing to restore".
//
//	res := io.FromStorageText(text)
//	if !res.OK {
//	    log.Debug("no prior state", "reason", res.Reason)
//	    return
//	}
//	store.Load(res.Room.Placed)
//
// # Bill of Materials
//
// [BillOfMaterialsCSV] groups placed instances by catalog id and emits a
// quoted CSV with the columns Item, Qty, Unit Price and Total, one row per
// distinct catalog id in order of first appearance.
package io
