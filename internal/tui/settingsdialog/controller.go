// Package settingsdialog implements the inspector's settings dialog: a
// toolbar action that opens a modal for entering, viewing (masked) and
// clearing the OpenAI API token.
//
// Controller owns the dialog state machine and its sync with the settings
// store. Model hosts a Controller inside Bubble Tea and turns key presses
// into controller operations and controller state into a rendered modal.
package settingsdialog

import (
	"errors"

	"inspector/internal/logging"
	"inspector/internal/settings"
)

// MaskedValue is shown in place of a stored token.
const MaskedValue = "••••••••••••••••"

var (
	// ErrFormNotShown is returned by OnSave when the token form is not the
	// current view.
	ErrFormNotShown = errors.New("settings form is not shown")
	// ErrMaskedNotShown is returned by OnClear when the masked token view is
	// not the current view.
	ErrMaskedNotShown = errors.New("stored token is not shown")
)

// Store is the part of the settings store the dialog depends on.
type Store interface {
	Get() settings.Data
	Update(partial settings.Data) error
	Subscribe(fn func(settings.Data)) (unsubscribe func())
}

type Visibility int

const (
	Closed Visibility = iota
	Open
)

func (v Visibility) String() string {
	if v == Open {
		return "Open"
	}
	return "Closed"
}

// View is what the dialog shows for a given state.
type View int

const (
	// ViewButtonOnly: dialog closed, only the toolbar button.
	ViewButtonOnly View = iota
	// ViewMasked: dialog open with a stored token, masked value and Clear.
	ViewMasked
	// ViewForm: dialog open without a token, input form with Save/Cancel.
	ViewForm
)

func (v View) String() string {
	switch v {
	case ViewMasked:
		return "Masked"
	case ViewForm:
		return "Form"
	default:
		return "ButtonOnly"
	}
}

// Render maps dialog state to the view to show.
func Render(visibility Visibility, presence settings.TokenPresence) View {
	if visibility == Closed {
		return ViewButtonOnly
	}
	if presence == settings.Present {
		return ViewMasked
	}
	return ViewForm
}

type Controller struct {
	store  Store
	logger *logging.AppLogger

	visibility  Visibility
	token       string // mirrors the store, never rendered
	unsubscribe func()
}

func NewController(store Store, logger *logging.AppLogger) *Controller {
	return &Controller{
		store:      store,
		logger:     logger,
		visibility: Closed,
	}
}

// Mount subscribes to the store. Calling it again while mounted is a no-op.
func (c *Controller) Mount() {
	if c.unsubscribe != nil {
		return
	}
	c.unsubscribe = c.store.Subscribe(c.onStoreChange)
	c.logger.Debug("Settings dialog mounted")
}

// Unmount releases the store subscription. Safe to call when not mounted.
func (c *Controller) Unmount() {
	if c.unsubscribe == nil {
		return
	}
	c.unsubscribe()
	c.unsubscribe = nil
	c.logger.Debug("Settings dialog unmounted")
}

func (c *Controller) Mounted() bool {
	return c.unsubscribe != nil
}

func (c *Controller) onStoreChange(d settings.Data) {
	tok, _ := d.Settings.Token()
	before := c.Presence()
	c.token = tok
	if after := c.Presence(); after != before {
		c.logger.LogStateTransition("SettingsDialog.token", before.String(), after.String())
	}
}

// ToggleDialog flips between Closed and Open.
func (c *Controller) ToggleDialog() {
	if c.visibility == Open {
		c.setVisibility(Closed)
		return
	}
	c.setVisibility(Open)
}

// OnSave stores formToken over the current settings and closes the dialog.
// An empty formToken is stored as an empty, present key. The dialog closes
// even when persistence fails, because the store has already applied the
// change in memory; the error is returned for reporting.
func (c *Controller) OnSave(formToken string) error {
	if c.View() != ViewForm {
		return ErrFormNotShown
	}

	next := c.store.Get().Settings.WithToken(formToken)
	err := c.store.Update(settings.Data{Settings: next})

	c.setVisibility(Closed)
	return err
}

// OnClear removes the token from the store. The dialog stays open so a new
// token can be entered right away.
func (c *Controller) OnClear() error {
	if c.View() != ViewMasked {
		return ErrMaskedNotShown
	}

	next := c.store.Get().Settings.WithoutToken()
	return c.store.Update(settings.Data{Settings: next})
}

// OnDismiss closes the dialog without touching the store.
func (c *Controller) OnDismiss() {
	c.setVisibility(Closed)
}

func (c *Controller) setVisibility(v Visibility) {
	if v == c.visibility {
		return
	}
	c.logger.LogStateTransition("SettingsDialog", c.visibility.String(), v.String())
	c.visibility = v
}

func (c *Controller) Visibility() Visibility {
	return c.visibility
}

func (c *Controller) IsOpen() bool {
	return c.visibility == Open
}

// Presence reports whether the mirrored token is a non-empty string.
func (c *Controller) Presence() settings.TokenPresence {
	if c.token != "" {
		return settings.Present
	}
	return settings.Absent
}

func (c *Controller) View() View {
	return Render(c.visibility, c.Presence())
}
