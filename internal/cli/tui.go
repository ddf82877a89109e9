package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/roomkit/pkg/engine"
	"github.com/matzehuels/roomkit/pkg/geom"
	"github.com/matzehuels/roomkit/pkg/selection"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// rotateStep is the yaw applied per key press in rotate mode.
const rotateStep = math.Pi / 12

// editCommand creates the "edit" command running the interactive editor.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Arrange furniture interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				p := tea.NewProgram(NewEditorModel(s.Engine),
					tea.WithContext(cmd.Context()),
					tea.WithInput(cmd.InOrStdin()),
					tea.WithOutput(cmd.OutOrStdout()),
					tea.WithAltScreen())
				_, err := p.Run()
				return err
			})
		},
	}
}

// =============================================================================
// EditorModel - Interactive room editor
// =============================================================================

// EditorModel is the bubbletea model for the room editor. Every change goes
// through the engine, so edits are snapped, recorded for undo and saved.
type EditorModel struct {
	Engine *engine.Engine

	// Picking is true while the catalog picker is open.
	Picking bool
	Cursor  int
	Status  string
}

// NewEditorModel creates an editor over eng.
func NewEditorModel(eng *engine.Engine) EditorModel {
	return EditorModel{Engine: eng}
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.Picking {
		return m.updatePicker(key.String())
	}
	m.Status = ""

	switch k := key.String(); k {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.Engine.Missed()
	case "tab":
		m.cycle(1)
	case "shift+tab":
		m.cycle(-1)
	case selection.KeyRotate, selection.KeyTranslate:
		m.Engine.HandleKey(k)
	case "a":
		m.Picking = true
		m.Cursor = 0
	case "d", "delete", "backspace":
		if id, ok := m.Engine.Selection().Selected(); ok && m.Engine.RemoveSelected() {
			m.Status = "removed " + id
		}
	case "u", "ctrl+z":
		if !m.Engine.Undo() {
			m.Status = "nothing to undo"
		}
	case "U", "ctrl+y":
		if !m.Engine.Redo() {
			m.Status = "nothing to redo"
		}
	case "left", "h":
		m.nudge(-1, 0, 0)
	case "right", "l":
		m.nudge(1, 0, 0)
	case "up", "k":
		m.nudge(0, 0, -1)
	case "down", "j":
		m.nudge(0, 0, 1)
	case "pgup":
		m.nudge(0, 1, 0)
	case "pgdown":
		m.nudge(0, -1, 0)
	}
	return m, nil
}

func (m EditorModel) updatePicker(key string) (tea.Model, tea.Cmd) {
	items := m.Engine.Catalog().Items()
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "q":
		m.Picking = false
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(items)-1 {
			m.Cursor++
		}
	case "enter":
		p := m.Engine.AddItem(items[m.Cursor])
		m.Engine.Select(p.InstanceID)
		m.Picking = false
		m.Status = "added " + p.InstanceID
	}
	return m, nil
}

// cycle moves the selection dir steps through the placed list.
func (m *EditorModel) cycle(dir int) {
	placed := m.Engine.Placed()
	if len(placed) == 0 {
		return
	}
	next := 0
	if id, ok := m.Engine.Selection().Selected(); ok {
		for i, p := range placed {
			if p.InstanceID == id {
				next = (i + dir + len(placed)) % len(placed)
				break
			}
		}
	} else if dir < 0 {
		next = len(placed) - 1
	}
	m.Engine.Select(placed[next].InstanceID)
}

// nudge moves the selected instance one grid step, or turns it about the
// vertical axis in rotate mode, and finishes like a drag release.
func (m *EditorModel) nudge(dx, dy, dz float64) {
	id, ok := m.Engine.Selection().Selected()
	if !ok {
		return
	}
	p, ok := m.Engine.Get(id)
	if !ok {
		return
	}
	if m.Engine.Selection().Mode() == selection.Rotate {
		if dx == 0 {
			return
		}
		rot := p.Rotation
		rot[geom.Y] += dx * rotateStep
		m.Engine.UpdateTransform(id, p.Position, rot)
		return
	}
	step := m.Engine.Policy().GridSize
	if step <= 0 {
		step = 0.1
	}
	raw := p.Position.Add(geom.Vec3{dx * step, dy * step, dz * step})
	m.Engine.DragEnd(id, raw, p.Rotation)
}

func (m EditorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Room Editor"))
	if url := m.Engine.Background().ResolveURL(); url != "" {
		b.WriteString("  " + listDimStyle.Render(url))
	}
	b.WriteString("\n")

	if m.Picking {
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ place  esc cancel"))
		b.WriteString("\n\n")
		for i, item := range m.Engine.Catalog().Items() {
			cursor := "  "
			style := listNormalStyle
			if i == m.Cursor {
				cursor = "▸ "
				style = listSelectedStyle
			}
			line := fmt.Sprintf("%s%-20s %s", cursor, item.Name, listDimStyle.Render(formatNumber(item.Price)))
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		return b.String()
	}

	b.WriteString(listDimStyle.Render("tab select  ←/→/↑/↓ move  r rotate  m move  a add  d delete  u undo  U redo  q quit"))
	b.WriteString("\n\n")

	placed := m.Engine.Placed()
	selected, _ := m.Engine.Selection().Selected()
	if len(placed) == 0 {
		b.WriteString(listDimStyle.Render("  empty room, press a to add furniture"))
	} else {
		b.WriteString(renderPlacedTable(placed, m.Engine.Catalog(), selected))
	}
	b.WriteString("\n\n")

	mode := "none"
	if selected != "" {
		mode = m.Engine.Selection().Mode().String()
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d placed · mode %s]", len(placed), mode)))
	if m.Status != "" {
		b.WriteString("  " + listNormalStyle.Render(m.Status))
	}
	if err := m.Engine.LastPersistError(); err != nil {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(colorRed).Render("  not saved: "+err.Error()))
	}
	b.WriteString("\n")
	return b.String()
}
