package settings

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	// Service name for OS credential store
	credentialService = "inspector"
	// Keyring account holding the OpenAI API token
	apiTokenAccount = "openai_api_token"
)

// CredentialManager reads and writes the API token in the OS credential
// store. Values are stored verbatim; the inspector does not validate tokens.
type CredentialManager struct {
	service string
}

func NewCredentialManager() *CredentialManager {
	return &CredentialManager{service: credentialService}
}

// StoreAPIToken writes token to the credential store, replacing any
// existing value. An empty token is stored as-is.
func (cm *CredentialManager) StoreAPIToken(token string) error {
	if err := keyring.Set(cm.service, apiTokenAccount, token); err != nil {
		return fmt.Errorf("failed to store token in credential store: %w", err)
	}
	return nil
}

// GetAPIToken returns the stored token. found is false when nothing is
// stored, which is not an error.
func (cm *CredentialManager) GetAPIToken() (token string, found bool, err error) {
	token, err = keyring.Get(cm.service, apiTokenAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to retrieve token from credential store: %w", err)
	}
	return token, true, nil
}

// DeleteAPIToken removes the stored token. Deleting a missing token is not
// an error.
func (cm *CredentialManager) DeleteAPIToken() error {
	err := keyring.Delete(cm.service, apiTokenAccount)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from credential store: %w", err)
	}
	return nil
}

// HasAPIToken reports whether a token entry exists, without returning it.
func (cm *CredentialManager) HasAPIToken() bool {
	_, found, err := cm.GetAPIToken()
	return err == nil && found
}

// GetCredentialStoreStatus probes the credential store with a throwaway
// entry and reports whether set, get and delete all work.
func (cm *CredentialManager) GetCredentialStoreStatus() map[string]any {
	status := make(map[string]any)

	testKey := "inspector_probe"
	testValue := "probe_value"

	if err := keyring.Set(cm.service, testKey, testValue); err != nil {
		status["available"] = false
		status["error"] = err.Error()
		return status
	}

	got, err := keyring.Get(cm.service, testKey)
	if err != nil {
		status["available"] = false
		status["error"] = err.Error()
		keyring.Delete(cm.service, testKey)
		return status
	}
	if got != testValue {
		status["available"] = false
		status["error"] = "credential store corrupted - values don't match"
		keyring.Delete(cm.service, testKey)
		return status
	}

	if err := keyring.Delete(cm.service, testKey); err != nil {
		status["available"] = true
		status["warning"] = "credential store works but cleanup failed: " + err.Error()
		return status
	}

	status["available"] = true
	status["error"] = nil
	return status
}
