package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down     key.Binding
	View         key.Binding
	West, East   key.Binding
	South, North key.Binding
	Rotate       key.Binding
	Zoom         key.Binding
	Save         key.Binding
	Quit         key.Binding

	rotLeft, rotRight, tiltUp, tiltDown key.Binding
	zoomIn, zoomOut                     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "prev model")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "next model")),
		View:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "view")),
		West:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h/l", "longitude")),
		East:  key.NewBinding(key.WithKeys("right", "l")),
		South: key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "latitude")),
		North: key.NewBinding(key.WithKeys("]")),
		// help-only entries; the keys themselves are bound below
		Rotate: key.NewBinding(key.WithKeys("a", "d", "w", "x"), key.WithHelp("a/d/w/x", "rotate")),
		Zoom:   key.NewBinding(key.WithKeys("+", "=", "-"), key.WithHelp("+/-", "zoom")),
		Save:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save svg")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),

		rotLeft:  key.NewBinding(key.WithKeys("a")),
		rotRight: key.NewBinding(key.WithKeys("d")),
		tiltUp:   key.NewBinding(key.WithKeys("w")),
		tiltDown: key.NewBinding(key.WithKeys("x")),
		zoomIn:   key.NewBinding(key.WithKeys("+", "=")),
		zoomOut:  key.NewBinding(key.WithKeys("-")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.View, k.West, k.South, k.Rotate, k.Zoom, k.Save, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.View},
		{k.West, k.South},
		{k.Rotate, k.Zoom, k.Save, k.Quit},
	}
}
