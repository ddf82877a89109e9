package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/roomkit/pkg/errors"
)

func TestDefault(t *testing.T) {
	r := Default()
	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
	chair, ok := r.Lookup("chair_01")
	if !ok || chair.Name != "Modern Armchair" || chair.Price != 299 {
		t.Errorf("chair_01 = %+v", chair)
	}
	table, ok := r.Lookup("table_01")
	if !ok || table.Name != "Coffee Table" || table.Price != 189 {
		t.Errorf("table_01 = %+v", table)
	}
	if r.First().ID != "chair_01" {
		t.Errorf("First() = %q", r.First().ID)
	}
}

func TestNewRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
	}{
		{"empty", nil},
		{"duplicate", []Item{{ID: "a"}, {ID: "a"}}},
		{"empty id", []Item{{ID: ""}}},
		{"bad id", []Item{{ID: "a b"}}},
		{"negative price", []Item{{ID: "a", Price: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.items)
			if !errors.Is(err, errors.ErrCodeInvalidCatalog) {
				t.Errorf("New() error = %v, want INVALID_CATALOG", err)
			}
		})
	}
}

func TestNewDefaultsName(t *testing.T) {
	r := MustNew([]Item{{ID: "lamp_01"}})
	it, _ := r.Lookup("lamp_01")
	if it.Name != "lamp_01" {
		t.Errorf("Name = %q, want id fallback", it.Name)
	}
}

func TestItemsIsCopy(t *testing.T) {
	r := Default()
	items := r.Items()
	items[0].Name = "mutated"
	if r.First().Name == "mutated" {
		t.Error("Items() should return a copy")
	}
}

func TestResolve(t *testing.T) {
	r := Default()

	res := r.Resolve("table_01")
	if res.Fallback || res.Item.ModelRef != "table" {
		t.Errorf("Resolve(table_01) = %+v", res)
	}

	res = r.Resolve("unknown_id")
	if !res.Fallback {
		t.Error("Resolve(unknown_id) should report fallback")
	}
	if res.Item.ModelRef != r.First().ModelRef {
		t.Errorf("fallback model = %q, want %q", res.Item.ModelRef, r.First().ModelRef)
	}
}

func TestGet(t *testing.T) {
	r := Default()
	if _, err := r.Get("Sofa_01"); err != nil {
		t.Errorf("Get(Sofa_01) error = %v", err)
	}
	_, err := r.Get("bed_01")
	if !errors.Is(err, errors.ErrCodeCatalogNotFound) {
		t.Errorf("Get(bed_01) error = %v", err)
	}
}

const testCatalog = `
[[item]]
id = "lamp_01"
name = "Floor Lamp"
model = "lamp"
price = 59.5

[[item]]
id = "rug_01"
name = "Wool Rug"
image_url = "https://example.com/rug.png"
model = "rug"
price = 120
`

func TestRead(t *testing.T) {
	r, err := Read(strings.NewReader(testCatalog))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if r.Len() != 2 || r.First().ID != "lamp_01" {
		t.Fatalf("unexpected registry: %+v", r.Items())
	}
	rug, _ := r.Lookup("rug_01")
	if rug.ImageURL != "https://example.com/rug.png" || rug.Price != 120 || rug.ModelRef != "rug" {
		t.Errorf("rug_01 = %+v", rug)
	}
}

func TestReadMalformed(t *testing.T) {
	if _, err := Read(strings.NewReader("[[item]\nid=")); err == nil {
		t.Error("Read() should fail on malformed TOML")
	}
	if _, err := Read(strings.NewReader("")); !errors.Is(err, errors.ErrCodeInvalidCatalog) {
		t.Errorf("Read() of empty catalog error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	if err := os.WriteFile(path, []byte(testCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d", r.Len())
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load() of missing file should fail")
	}
}

func TestLoadSampleCatalog(t *testing.T) {
	r, err := Load(filepath.Join("..", "..", "examples", "catalog.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if r.First().ID != "chair_01" {
		t.Errorf("First() = %q", r.First().ID)
	}
	shelf, err := r.Get("shelf_01")
	if err != nil {
		t.Fatal(err)
	}
	if shelf.Name != `Shelf, 6" deep` || shelf.Price != 12.5 {
		t.Errorf("shelf = %+v", shelf)
	}
}
