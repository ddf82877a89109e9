// Package selection tracks which placed instance is active and whether it
// is being moved or rotated.
package selection

// Mode is the manipulation mode of the selected instance.
type Mode int

const (
	// Translate moves the selected instance.
	Translate Mode = iota
	// Rotate rotates the selected instance.
	Rotate
)

func (m Mode) String() string {
	if m == Rotate {
		return "rotate"
	}
	return "translate"
}

// Key triggers for mode changes.
const (
	KeyRotate    = "r"
	KeyTranslate = "m"
)

// Coordinator holds at most one selected instance id.
type Coordinator struct {
	selected string
	mode     Mode
}

// New returns an unselected coordinator.
func New() *Coordinator { return &Coordinator{} }

// Select makes id the selected instance, replacing any prior selection.
// Selecting a different id starts a fresh interaction in Translate mode.
// An empty id is equivalent to Clear.
func (c *Coordinator) Select(id string) {
	if id == "" {
		c.Clear()
		return
	}
	if id != c.selected {
		c.mode = Translate
	}
	c.selected = id
}

// Clear deselects.
func (c *Coordinator) Clear() {
	c.selected = ""
	c.mode = Translate
}

// Missed handles a pointer-down that hit no interactive object.
func (c *Coordinator) Missed() { c.Clear() }

// Selected returns the selected id and whether anything is selected.
func (c *Coordinator) Selected() (string, bool) {
	return c.selected, c.selected != ""
}

// IsSelected reports whether id is the selected instance.
func (c *Coordinator) IsSelected(id string) bool {
	return id != "" && c.selected == id
}

// Mode returns the current manipulation mode.
func (c *Coordinator) Mode() Mode { return c.mode }

// HandleKey applies a mode key trigger. Keys are ignored while nothing is
// selected. It reports whether the key was consumed.
func (c *Coordinator) HandleKey(key string) bool {
	if c.selected == "" {
		return false
	}
	switch key {
	case KeyRotate:
		c.mode = Rotate
	case KeyTranslate:
		c.mode = Translate
	default:
		return false
	}
	return true
}
