package settingsdialog

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Open    key.Binding // toolbar button, only while closed
	Toggle  key.Binding
	Save    key.Binding
	Clear   key.Binding
	Dismiss key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
		Toggle:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "toggle settings")),
		Save:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Clear:   key.NewBinding(key.WithKeys("c", "ctrl+d"), key.WithHelp("c", "clear")),
		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// forView enables exactly the bindings reachable from v.
func (k *KeyMap) forView(v View) {
	k.Open.SetEnabled(v == ViewButtonOnly)
	k.Save.SetEnabled(v == ViewForm)
	k.Clear.SetEnabled(v == ViewMasked)
	k.Dismiss.SetEnabled(v != ViewButtonOnly)
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Save, k.Clear, k.Dismiss, k.Toggle}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
