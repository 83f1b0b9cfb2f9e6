package cli

import (
	"bytes"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cropsignal/cropsignal/pkg/config"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	want := []string{"sweep", "serve", "zones", "history", "alert", "check", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}

	if root.Use != appName {
		t.Errorf("root use = %q, want %q", root.Use, appName)
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)

	c.SetLogLevel(LogDebug)
	if got := c.Logger.GetLevel(); got != LogDebug {
		t.Errorf("level = %v, want debug", got)
	}
}

func testZones() []config.Zone {
	return []config.Zone{
		{Name: "McLean, IL", Lat: 40.48, Lon: -88.99, Weight: 0.062},
		{Name: "Story, IA", Lat: 42.04, Lon: -93.46, Weight: 0.045},
		{Name: "Benton, IA", Lat: 42.08, Lon: -92.07, Weight: 0.028},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up", "down", "enter", "esc":
		types := map[string]tea.KeyType{
			"up":    tea.KeyUp,
			"down":  tea.KeyDown,
			"enter": tea.KeyEnter,
			"esc":   tea.KeyEsc,
		}
		return tea.KeyMsg{Type: types[s]}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestZoneListNavigation(t *testing.T) {
	m := NewZoneListModel(testZones())

	next, _ := m.Update(keyMsg("down"))
	m = next.(ZoneListModel)
	if m.Cursor != 1 {
		t.Errorf("cursor = %d after down, want 1", m.Cursor)
	}

	next, _ = m.Update(keyMsg("up"))
	m = next.(ZoneListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor = %d after up, want 0", m.Cursor)
	}

	// Up at the top stays put
	next, _ = m.Update(keyMsg("up"))
	m = next.(ZoneListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor = %d at top, want 0", m.Cursor)
	}
}

func TestZoneListSelect(t *testing.T) {
	m := NewZoneListModel(testZones())

	next, _ := m.Update(keyMsg("down"))
	m = next.(ZoneListModel)
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(ZoneListModel)

	if m.Selected == nil || m.Selected.Name != "Story, IA" {
		t.Errorf("unexpected selection: %+v", m.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestZoneListQuitWithoutSelection(t *testing.T) {
	m := NewZoneListModel(testZones())

	next, cmd := m.Update(keyMsg("esc"))
	m = next.(ZoneListModel)

	if m.Selected != nil {
		t.Errorf("esc should not select, got %+v", m.Selected)
	}
	if cmd == nil {
		t.Error("esc should quit the program")
	}
}
