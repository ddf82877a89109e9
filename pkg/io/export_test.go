package io

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/roomkit/pkg/errors"
	"github.com/matzehuels/roomkit/pkg/geom"
	"github.com/matzehuels/roomkit/pkg/placement"
)

func TestWriteJSONIndent(t *testing.T) {
	var buf bytes.Buffer
	room := Serialize([]placement.PlacedItem{chairAt("i1", geom.Vec3{1, 0, 3})})
	if err := WriteJSON(room, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	want := `{
  "placed": [
    {
      "instanceId": "i1",
      "catalogId": "chair_01",
      "position": [
        1,
        0,
        3
      ],
      "rotation": [
        0,
        0,
        0
      ]
    }
  ]
}
`
	if buf.String() != want {
		t.Errorf("WriteJSON() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestExportImportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.json")
	room := Serialize([]placement.PlacedItem{
		chairAt("i1", geom.Vec3{-2, 0.4, 6}),
		{InstanceID: "i2", CatalogID: "Sofa_01", Rotation: geom.Vec3{0, 3.14, 0}},
	})
	if err := ExportJSON(room, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if !reflect.DeepEqual(got, room) {
		t.Errorf("ImportJSON() = %+v, want %+v", got, room)
	}
}

func TestReadJSONErrors(t *testing.T) {
	for _, in := range []string{
		"", "{", `{"nope":1}`, `{"placed":{}}`,
		`{"placed":[{"instanceId":"a","catalogId":"chair_01","position":[1,2,3,4],"rotation":[0,0,0]}]}`,
		`{"placed":[{"instanceId":"a","catalogId":"chair_01","position":[0,0,0],"rotation":[1]}]}`,
	} {
		_, err := ReadJSON(strings.NewReader(in))
		if !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ReadJSON(%q) err = %v, want INVALID_FORMAT", in, err)
		}
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ImportJSON(missing) returned nil error")
	}
}

func TestSampleRoomReexportsUnchanged(t *testing.T) {
	path := filepath.Join("..", "..", "examples", "room.json")
	room, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON(%s): %v", path, err)
	}
	if len(room.Placed) != 2 {
		t.Fatalf("placed = %d, want 2", len(room.Placed))
	}

	var buf bytes.Buffer
	if err := WriteJSON(room, &buf); err != nil {
		t.Fatal(err)
	}
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if buf.String() != string(want) {
		t.Errorf("re-export differs from %s:\n%s", path, buf.String())
	}
}
