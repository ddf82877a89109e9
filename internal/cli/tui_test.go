package cli

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/roomkit/pkg/engine"
	"github.com/matzehuels/roomkit/pkg/geom"
	"github.com/matzehuels/roomkit/pkg/placement"
	"github.com/matzehuels/roomkit/pkg/selection"
	"github.com/matzehuels/roomkit/pkg/storage"
)

func newTestEditor(t *testing.T) EditorModel {
	t.Helper()
	eng, err := engine.New(engine.Options{
		Store:       storage.NewMemoryStore(),
		IDGenerator: placement.Sequence("item-"),
	})
	if err != nil {
		t.Fatal(err)
	}
	return NewEditorModel(eng)
}

func press(m EditorModel, keys ...tea.KeyMsg) (EditorModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(EditorModel)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestEditorAddAndMove(t *testing.T) {
	m := newTestEditor(t)

	m, _ = press(m, runes("a"))
	if !m.Picking {
		t.Fatal("a should open the picker")
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Picking {
		t.Fatal("enter should close the picker")
	}
	p, ok := m.Engine.Get("item-1")
	if !ok || p.CatalogID != "table_01" {
		t.Fatalf("placed = %+v", m.Engine.Placed())
	}
	if id, _ := m.Engine.Selection().Selected(); id != "item-1" {
		t.Errorf("selected = %q", id)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyUp})
	p, _ = m.Engine.Get("item-1")
	if p.Position != (geom.Vec3{2, 0, -1}) {
		t.Errorf("position = %v", p.Position)
	}

	m, _ = press(m, runes("u"))
	p, _ = m.Engine.Get("item-1")
	if p.Position != (geom.Vec3{2, 0, 0}) {
		t.Errorf("position after undo = %v", p.Position)
	}
	m, _ = press(m, runes("U"))
	p, _ = m.Engine.Get("item-1")
	if p.Position != (geom.Vec3{2, 0, -1}) {
		t.Errorf("position after redo = %v", p.Position)
	}
}

func TestEditorMoveStopsAtBounds(t *testing.T) {
	m := newTestEditor(t)
	m, _ = press(m, runes("a"), tea.KeyMsg{Type: tea.KeyEnter})
	for i := 0; i < 10; i++ {
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	}
	p, _ := m.Engine.Get("item-1")
	if p.Position != (geom.Vec3{-6, 0, 0}) {
		t.Errorf("position = %v", p.Position)
	}
}

func TestEditorRotateMode(t *testing.T) {
	m := newTestEditor(t)
	m, _ = press(m, runes("a"), tea.KeyMsg{Type: tea.KeyEnter}, runes("r"))
	if m.Engine.Selection().Mode() != selection.Rotate {
		t.Fatalf("mode = %v", m.Engine.Selection().Mode())
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
	p, _ := m.Engine.Get("item-1")
	if math.Abs(p.Rotation[geom.Y]-rotateStep) > 1e-9 || p.Position != geom.Origin {
		t.Errorf("transform = %v %v", p.Position, p.Rotation)
	}
	if !strings.Contains(m.View(), "mode rotate") {
		t.Error("view should show rotate mode")
	}
}

func TestEditorCycleAndDelete(t *testing.T) {
	m := newTestEditor(t)
	m, _ = press(m, runes("a"), tea.KeyMsg{Type: tea.KeyEnter}, runes("a"), tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := m.Engine.Selection().Selected(); ok {
		t.Fatal("esc should clear the selection")
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if id, _ := m.Engine.Selection().Selected(); id != "item-1" {
		t.Errorf("tab selected %q", id)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if id, _ := m.Engine.Selection().Selected(); id != "item-2" {
		t.Errorf("tab selected %q", id)
	}

	m, _ = press(m, runes("d"))
	if _, ok := m.Engine.Get("item-2"); ok {
		t.Error("d should remove the selected instance")
	}
	if m.Engine.Placement().Len() != 1 {
		t.Errorf("placed = %d", m.Engine.Placement().Len())
	}
}

func TestEditorQuitAndEmptyView(t *testing.T) {
	m := newTestEditor(t)
	if !strings.Contains(m.View(), "empty room") {
		t.Errorf("view = %q", m.View())
	}
	if _, cmd := press(m, runes("q")); cmd == nil {
		t.Error("q should return a quit command")
	}
}
