// Package settings holds the inspector's observable settings store.
//
// The store is a single-writer, broadcast-on-change key-value document:
// callers read a snapshot with Get, replace top-level sections with Update
// and receive every change through Subscribe. Persistence is delegated to a
// Backend so the same store runs against a YAML file, the OS keyring or
// plain memory in tests.
package settings

// OpenAIAPITokenKey is the settings key holding the OpenAI API token.
const OpenAIAPITokenKey = "openAIAPIToken"

// Settings maps a setting name to its value. An absent key means unset.
type Settings map[string]string

// Clone returns an independent copy. A nil Settings clones to nil.
func (s Settings) Clone() Settings {
	if s == nil {
		return nil
	}
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Without returns a copy with key removed. The result is never nil.
func (s Settings) Without(key string) Settings {
	out := s.Clone()
	if out == nil {
		out = Settings{}
	}
	delete(out, key)
	return out
}

// WithToken returns a copy of s with the API token set to token. Other
// keys are kept; the new token replaces any previous one.
func (s Settings) WithToken(token string) Settings {
	out := s.Without(OpenAIAPITokenKey)
	out[OpenAIAPITokenKey] = token
	return out
}

// WithoutToken returns a copy of s with the API token key removed.
func (s Settings) WithoutToken() Settings {
	return s.Without(OpenAIAPITokenKey)
}

// Token returns the stored API token and whether the key is present. A
// present key may hold an empty string.
func (s Settings) Token() (string, bool) {
	v, ok := s[OpenAIAPITokenKey]
	return v, ok
}

// Data is the document kept by the store. Update merges it one level deep:
// a nil section leaves the stored section alone, a non-nil one replaces it.
type Data struct {
	Settings Settings `yaml:"settings,omitempty"`
}

// Clone deep-copies every section.
func (d Data) Clone() Data {
	return Data{Settings: d.Settings.Clone()}
}

// merge applies partial over d.
func (d Data) merge(partial Data) Data {
	out := d.Clone()
	if partial.Settings != nil {
		out.Settings = partial.Settings.Clone()
	}
	return out
}

// TokenPresence is derived from the stored token on every read.
type TokenPresence int

const (
	Absent TokenPresence = iota
	Present
)

func (p TokenPresence) String() string {
	if p == Present {
		return "Present"
	}
	return "Absent"
}

// PresenceOf reports Present only for a non-empty token; an empty string
// stored under the key counts as Absent.
func PresenceOf(s Settings) TokenPresence {
	if tok, _ := s.Token(); tok != "" {
		return Present
	}
	return Absent
}
