package settings

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"inspector/internal/logging"
	"inspector/pkg/fileops"

	"gopkg.in/yaml.v3"
)

// Backend persists the settings document.
type Backend interface {
	Load() (Data, error)
	Save(Data) error
}

// MemoryBackend keeps the document in process memory.
type MemoryBackend struct {
	mu    sync.Mutex
	data  Data
	saves int
}

func NewMemoryBackend(initial Data) *MemoryBackend {
	return &MemoryBackend{data: initial.Clone()}
}

func (b *MemoryBackend) Load() (Data, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data.Clone(), nil
}

func (b *MemoryBackend) Save(d Data) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = d.Clone()
	b.saves++
	return nil
}

// Saves returns how many times Save has been called.
func (b *MemoryBackend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

// FileBackend stores the document as YAML. A missing file loads as an empty
// document.
type FileBackend struct {
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) Path() string {
	return b.path
}

func (b *FileBackend) Load() (Data, error) {
	raw, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return Data{}, nil
	}
	if err != nil {
		return Data{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Data{}, fmt.Errorf("failed to parse settings file %s: %w", b.path, err)
	}
	return d, nil
}

// Save replaces the document atomically so a crash never leaves a
// truncated file behind.
func (b *FileBackend) Save(d Data) error {
	raw, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := fileops.AtomicWriteFile(b.path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// KeyringBackend keeps the API token in the OS credential store and
// everything else in the wrapped backend. The token key never reaches the
// inner backend.
type KeyringBackend struct {
	inner Backend
	creds *CredentialManager
}

func NewKeyringBackend(inner Backend, creds *CredentialManager) *KeyringBackend {
	return &KeyringBackend{inner: inner, creds: creds}
}

func (b *KeyringBackend) Load() (Data, error) {
	d, err := b.inner.Load()
	if err != nil {
		return Data{}, err
	}
	// A token left in the file by an older, file-only setup is ignored in
	// favour of the keyring.
	d.Settings = d.Settings.WithoutToken()

	tok, found, err := b.creds.GetAPIToken()
	if err != nil {
		// No usable credential store: run without a token. Saves still
		// report the failure.
		logging.Warn("Credential store unavailable, loading settings without token", "error", err)
		return d, nil
	}
	if found {
		d.Settings[OpenAIAPITokenKey] = tok
	}
	return d, nil
}

// Save writes the non-secret settings first so a failed file write leaves
// the keyring untouched.
func (b *KeyringBackend) Save(d Data) error {
	rest := d.Clone()
	rest.Settings = d.Settings.WithoutToken()
	if err := b.inner.Save(rest); err != nil {
		return err
	}

	if tok, ok := d.Settings.Token(); ok {
		return b.creds.StoreAPIToken(tok)
	}
	return b.creds.DeleteAPIToken()
}
