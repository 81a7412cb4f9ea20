package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"partyline/internal/identity"
)

// identityPath returns the identity storage file path.
func identityPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "identity.json"), nil
}

// LoadIdentity returns the last accepted identity from disk. A missing or
// unreadable file yields a zero identity: the setup form simply starts blank.
func LoadIdentity() identity.Identity {
	p, err := identityPath()
	if err != nil {
		return identity.Identity{}
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return identity.Identity{}
	}
	var id identity.Identity
	if err := json.Unmarshal(b, &id); err != nil {
		return identity.Identity{}
	}
	if id.Nickname == "" || !identity.ValidColor(id.Color) {
		return identity.Identity{}
	}
	return id
}

// SaveIdentity persists the accepted identity as the next run's defaults.
func SaveIdentity(id identity.Identity) error {
	p, err := identityPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
