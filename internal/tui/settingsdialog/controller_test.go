package settingsdialog

import (
	"errors"
	"testing"

	"inspector/internal/logging"
	"inspector/internal/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, initial settings.Settings) *settings.Store {
	t.Helper()
	logger, _ := logging.NewTestLogger()
	store, err := settings.NewStore(settings.NewMemoryBackend(settings.Data{Settings: initial}), logger)
	require.NoError(t, err)
	return store
}

func newMountedController(t *testing.T, store Store) *Controller {
	t.Helper()
	logger, _ := logging.NewTestLogger()
	c := NewController(store, logger)
	c.Mount()
	t.Cleanup(c.Unmount)
	return c
}

// stubStore records updates and can fail them.
type stubStore struct {
	data      settings.Data
	updates   []settings.Data
	updateErr error
	subs      []func(settings.Data)
}

func (s *stubStore) Get() settings.Data { return s.data.Clone() }

func (s *stubStore) Update(partial settings.Data) error {
	s.updates = append(s.updates, partial.Clone())
	if partial.Settings != nil {
		s.data.Settings = partial.Settings.Clone()
	}
	for _, fn := range s.subs {
		fn(s.data.Clone())
	}
	return s.updateErr
}

func (s *stubStore) Subscribe(fn func(settings.Data)) func() {
	s.subs = append(s.subs, fn)
	fn(s.data.Clone())
	return func() { s.subs = nil }
}

func TestRender(t *testing.T) {
	tests := []struct {
		visibility Visibility
		presence   settings.TokenPresence
		want       View
	}{
		{Closed, settings.Absent, ViewButtonOnly},
		{Closed, settings.Present, ViewButtonOnly},
		{Open, settings.Present, ViewMasked},
		{Open, settings.Absent, ViewForm},
	}

	for _, tt := range tests {
		t.Run(tt.visibility.String()+"/"+tt.presence.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.visibility, tt.presence))
		})
	}
}

func TestController_InitialState(t *testing.T) {
	c := newMountedController(t, newTestStore(t, nil))

	assert.Equal(t, Closed, c.Visibility())
	assert.Equal(t, settings.Absent, c.Presence())
	assert.Equal(t, ViewButtonOnly, c.View())
}

func TestController_MountMirrorsStoredToken(t *testing.T) {
	c := newMountedController(t, newTestStore(t, settings.Settings{settings.OpenAIAPITokenKey: "sk-abc123"}))

	assert.Equal(t, settings.Present, c.Presence())
	c.ToggleDialog()
	assert.Equal(t, ViewMasked, c.View())
}

func TestController_ToggleParity(t *testing.T) {
	c := newMountedController(t, newTestStore(t, nil))

	for n := 1; n <= 7; n++ {
		c.ToggleDialog()
		want := Closed
		if n%2 == 1 {
			want = Open
		}
		assert.Equal(t, want, c.Visibility(), "after %d toggles", n)
	}
}

func TestController_ToggleDoesNotTouchStore(t *testing.T) {
	store := &stubStore{}
	c := newMountedController(t, store)

	c.ToggleDialog()
	c.ToggleDialog()

	assert.Empty(t, store.updates)
}

func TestController_SaveStoresTokenAndCloses(t *testing.T) {
	store := newTestStore(t, settings.Settings{"theme": "dark"})
	c := newMountedController(t, store)
	c.ToggleDialog()

	require.NoError(t, c.OnSave("sk-abc123"))

	assert.Equal(t, Closed, c.Visibility())
	assert.Equal(t, settings.Settings{settings.OpenAIAPITokenKey: "sk-abc123", "theme": "dark"}, store.Get().Settings)
	assert.Equal(t, settings.Present, c.Presence())

	c.ToggleDialog()
	assert.Equal(t, ViewMasked, c.View(), "reopening after save shows the masked view")
}

func TestController_SaveOverridesEmptyStoredToken(t *testing.T) {
	store := newTestStore(t, settings.Settings{settings.OpenAIAPITokenKey: ""})
	c := newMountedController(t, store)
	c.ToggleDialog()
	require.Equal(t, ViewForm, c.View())

	require.NoError(t, c.OnSave("sk-new"))

	tok, _ := store.Get().Settings.Token()
	assert.Equal(t, "sk-new", tok)
}

func TestController_SaveEmptyStoresPresentEmptyKey(t *testing.T) {
	store := newTestStore(t, nil)
	c := newMountedController(t, store)
	c.ToggleDialog()

	require.NoError(t, c.OnSave(""))

	tok, ok := store.Get().Settings.Token()
	assert.True(t, ok, "empty token is kept as a key")
	assert.Equal(t, "", tok)
	assert.Equal(t, settings.Absent, c.Presence())

	c.ToggleDialog()
	assert.Equal(t, ViewForm, c.View())
}

func TestController_SaveOutsideFormIsRejected(t *testing.T) {
	store := &stubStore{data: settings.Data{Settings: settings.Settings{settings.OpenAIAPITokenKey: "sk-abc123"}}}
	c := newMountedController(t, store)

	assert.ErrorIs(t, c.OnSave("sk-other"), ErrFormNotShown, "closed dialog")

	c.ToggleDialog()
	assert.ErrorIs(t, c.OnSave("sk-other"), ErrFormNotShown, "masked view")
	assert.Empty(t, store.updates)
	assert.Equal(t, Open, c.Visibility())
}

func TestController_ClearRemovesTokenAndStaysOpen(t *testing.T) {
	store := newTestStore(t, settings.Settings{settings.OpenAIAPITokenKey: "sk-abc123", "theme": "dark"})
	c := newMountedController(t, store)
	c.ToggleDialog()

	require.NoError(t, c.OnClear())

	assert.Equal(t, Open, c.Visibility())
	assert.Equal(t, ViewForm, c.View())
	assert.Equal(t, settings.Settings{"theme": "dark"}, store.Get().Settings)
}

func TestController_ClearOutsideMaskedIsRejected(t *testing.T) {
	store := &stubStore{}
	c := newMountedController(t, store)

	assert.ErrorIs(t, c.OnClear(), ErrMaskedNotShown)
	c.ToggleDialog()
	assert.ErrorIs(t, c.OnClear(), ErrMaskedNotShown)
	assert.Empty(t, store.updates)
}

func TestController_OnlyOneHandlerReachablePerView(t *testing.T) {
	tests := []struct {
		name      string
		stored    settings.Settings
		wantSave  error
		wantClear error
	}{
		{"form view", nil, nil, ErrMaskedNotShown},
		{"masked view", settings.Settings{settings.OpenAIAPITokenKey: "sk-abc123"}, ErrFormNotShown, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Each handler gets its own controller so the first call cannot
			// change the view seen by the second.
			saveCtrl := newMountedController(t, &stubStore{data: settings.Data{Settings: tt.stored.Clone()}})
			saveCtrl.ToggleDialog()
			clearCtrl := newMountedController(t, &stubStore{data: settings.Data{Settings: tt.stored.Clone()}})
			clearCtrl.ToggleDialog()

			saveErr := saveCtrl.OnSave("sk-x")
			clearErr := clearCtrl.OnClear()

			if tt.wantSave == nil {
				assert.NoError(t, saveErr)
			} else {
				assert.ErrorIs(t, saveErr, tt.wantSave)
			}
			if tt.wantClear == nil {
				assert.NoError(t, clearErr)
			} else {
				assert.ErrorIs(t, clearErr, tt.wantClear)
			}
		})
	}
}

func TestController_DismissIsIdempotent(t *testing.T) {
	store := &stubStore{}
	c := newMountedController(t, store)
	c.ToggleDialog()

	c.OnDismiss()
	assert.Equal(t, Closed, c.Visibility())
	c.OnDismiss()
	assert.Equal(t, Closed, c.Visibility())
	assert.Empty(t, store.updates)
}

func TestController_StoreErrorStillCloses(t *testing.T) {
	boom := errors.New("keyring locked")
	store := &stubStore{updateErr: boom}
	c := newMountedController(t, store)
	c.ToggleDialog()

	err := c.OnSave("sk-abc123")

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Closed, c.Visibility())
	assert.Equal(t, settings.Present, c.Presence())
}

func TestController_FollowsExternalUpdates(t *testing.T) {
	store := newTestStore(t, nil)
	c := newMountedController(t, store)
	c.ToggleDialog()
	require.Equal(t, ViewForm, c.View())

	require.NoError(t, store.Update(settings.Data{Settings: settings.Settings{settings.OpenAIAPITokenKey: "sk-elsewhere"}}))

	assert.Equal(t, ViewMasked, c.View())
}

func TestController_UnmountReleasesSubscription(t *testing.T) {
	store := newTestStore(t, nil)
	logger, _ := logging.NewTestLogger()
	c := NewController(store, logger)

	c.Mount()
	c.Mount()
	assert.Equal(t, 1, store.Subscribers(), "mount is idempotent")
	assert.True(t, c.Mounted())

	c.Unmount()
	c.Unmount()
	assert.Equal(t, 0, store.Subscribers())
	assert.False(t, c.Mounted())

	require.NoError(t, store.Update(settings.Data{Settings: settings.Settings{settings.OpenAIAPITokenKey: "sk-abc123"}}))
	assert.Equal(t, settings.Absent, c.Presence(), "unmounted controller no longer follows the store")
}

// Walks the full session: empty store, save, reopen, clear.
func TestController_SaveReopenClearScenario(t *testing.T) {
	store := newTestStore(t, settings.Settings{})
	c := newMountedController(t, store)

	c.ToggleDialog()
	require.Equal(t, ViewForm, c.View())

	require.NoError(t, c.OnSave("sk-abc123"))
	assert.Equal(t, settings.Settings{settings.OpenAIAPITokenKey: "sk-abc123"}, store.Get().Settings)
	assert.Equal(t, Closed, c.Visibility())

	c.ToggleDialog()
	require.Equal(t, ViewMasked, c.View())

	require.NoError(t, c.OnClear())
	assert.Empty(t, store.Get().Settings)
	assert.Equal(t, Open, c.Visibility())
	assert.Equal(t, ViewForm, c.View())
}
