package settings

import (
	"errors"
	"testing"

	"inspector/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingBackend struct {
	MemoryBackend
	saveErr error
}

func (b *failingBackend) Save(Data) error { return b.saveErr }

func newTestStore(t *testing.T, initial Data) (*Store, *MemoryBackend) {
	t.Helper()
	logger, _ := logging.NewTestLogger()
	backend := NewMemoryBackend(initial)
	store, err := NewStore(backend, logger)
	require.NoError(t, err)
	return store, backend
}

func TestStore_GetReturnsSnapshot(t *testing.T) {
	store, _ := newTestStore(t, Data{Settings: Settings{"theme": "dark"}})

	snap := store.Get()
	snap.Settings["theme"] = "light"
	snap.Settings[OpenAIAPITokenKey] = "sk-leak"

	again := store.Get()
	assert.Equal(t, "dark", again.Settings["theme"])
	_, ok := again.Settings.Token()
	assert.False(t, ok, "mutating a snapshot must not reach the store")
}

func TestStore_UpdateReplacesSettingsSection(t *testing.T) {
	store, backend := newTestStore(t, Data{Settings: Settings{"theme": "dark", OpenAIAPITokenKey: "sk-old"}})

	require.NoError(t, store.Update(Data{Settings: Settings{"theme": "dark"}}))

	got := store.Get()
	assert.Equal(t, Settings{"theme": "dark"}, got.Settings)
	assert.Equal(t, 1, backend.Saves())

	persisted, _ := backend.Load()
	assert.Equal(t, got, persisted)
}

func TestStore_UpdateWithNilSectionKeepsSettings(t *testing.T) {
	store, _ := newTestStore(t, Data{Settings: Settings{"theme": "dark"}})

	require.NoError(t, store.Update(Data{}))

	assert.Equal(t, Settings{"theme": "dark"}, store.Get().Settings)
}

func TestStore_UpdateWithEmptySectionClearsSettings(t *testing.T) {
	store, _ := newTestStore(t, Data{Settings: Settings{OpenAIAPITokenKey: "sk-abc123"}})

	require.NoError(t, store.Update(Data{Settings: Settings{}}))

	assert.Empty(t, store.Get().Settings)
}

func TestStore_SubscribeDeliversImmediatelyAndOnUpdate(t *testing.T) {
	store, _ := newTestStore(t, Data{})

	var seen []TokenPresence
	unsubscribe := store.Subscribe(func(d Data) {
		seen = append(seen, PresenceOf(d.Settings))
	})
	defer unsubscribe()

	require.Equal(t, []TokenPresence{Absent}, seen, "subscribe must deliver the current state")

	require.NoError(t, store.Update(Data{Settings: Settings{OpenAIAPITokenKey: "sk-abc123"}}))
	assert.Equal(t, []TokenPresence{Absent, Present}, seen, "update must be observed before it returns")
}

func TestStore_BroadcastsToAllSubscribers(t *testing.T) {
	store, _ := newTestStore(t, Data{})

	counts := make([]int, 3)
	for i := range counts {
		i := i
		unsubscribe := store.Subscribe(func(Data) { counts[i]++ })
		defer unsubscribe()
	}

	require.NoError(t, store.Update(Data{Settings: Settings{"a": "b"}}))

	assert.Equal(t, []int{2, 2, 2}, counts)
	assert.Equal(t, 3, store.Subscribers())
}

func TestStore_UnsubscribeIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t, Data{})

	calls := 0
	unsubscribe := store.Subscribe(func(Data) { calls++ })
	other := store.Subscribe(func(Data) {})
	defer other()

	unsubscribe()
	unsubscribe()

	require.NoError(t, store.Update(Data{Settings: Settings{"a": "b"}}))
	assert.Equal(t, 1, calls, "only the initial delivery should have happened")
	assert.Equal(t, 1, store.Subscribers())
}

func TestStore_SubscriberReceivesIndependentCopy(t *testing.T) {
	store, _ := newTestStore(t, Data{Settings: Settings{"theme": "dark"}})

	unsubscribe := store.Subscribe(func(d Data) {
		d.Settings["theme"] = "mutated"
	})
	defer unsubscribe()

	assert.Equal(t, "dark", store.Get().Settings["theme"])
}

func TestStore_PersistErrorKeepsInMemoryUpdate(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	boom := errors.New("disk full")
	store, err := NewStore(&failingBackend{saveErr: boom}, logger)
	require.NoError(t, err)

	notified := false
	unsubscribe := store.Subscribe(func(d Data) {
		notified = PresenceOf(d.Settings) == Present
	})
	defer unsubscribe()

	err = store.Update(Data{Settings: Settings{OpenAIAPITokenKey: "sk-abc123"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, notified)
	assert.Equal(t, Present, PresenceOf(store.Get().Settings))
}

type loadErrBackend struct{ MemoryBackend }

func (*loadErrBackend) Load() (Data, error) { return Data{}, errors.New("unreadable") }

func TestNewStore_LoadError(t *testing.T) {
	logger, _ := logging.NewTestLogger()

	_, err := NewStore(&loadErrBackend{}, logger)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load settings")
}

func TestPresenceOf(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		want     TokenPresence
	}{
		{"nil settings", nil, Absent},
		{"no token key", Settings{"theme": "dark"}, Absent},
		{"empty token", Settings{OpenAIAPITokenKey: ""}, Absent},
		{"token set", Settings{OpenAIAPITokenKey: "sk-abc123"}, Present},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PresenceOf(tt.settings))
		})
	}
}

func TestSettings_Without(t *testing.T) {
	orig := Settings{OpenAIAPITokenKey: "sk-abc123", "theme": "dark"}

	out := orig.Without(OpenAIAPITokenKey)

	assert.Equal(t, Settings{"theme": "dark"}, out)
	assert.Len(t, orig, 2, "Without must not modify the receiver")
	assert.NotNil(t, Settings(nil).Without(OpenAIAPITokenKey))
}

func TestSettings_WithToken(t *testing.T) {
	tests := []struct {
		name  string
		orig  Settings
		token string
		want  Settings
	}{
		{"nil settings", nil, "sk-1", Settings{OpenAIAPITokenKey: "sk-1"}},
		{"keeps other keys", Settings{"theme": "dark"}, "sk-1", Settings{"theme": "dark", OpenAIAPITokenKey: "sk-1"}},
		{"new token wins", Settings{OpenAIAPITokenKey: "sk-old"}, "sk-new", Settings{OpenAIAPITokenKey: "sk-new"}},
		{"empty token is a present key", Settings{}, "", Settings{OpenAIAPITokenKey: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.orig.Clone()

			assert.Equal(t, tt.want, tt.orig.WithToken(tt.token))
			assert.Equal(t, before, tt.orig, "WithToken must not modify the receiver")
		})
	}
}

func TestSettings_WithoutToken(t *testing.T) {
	orig := Settings{OpenAIAPITokenKey: "sk-abc123", "theme": "dark"}

	assert.Equal(t, Settings{"theme": "dark"}, orig.WithoutToken())
	assert.Equal(t, Settings{}, Settings(nil).WithoutToken())
	assert.Len(t, orig, 2)
}
