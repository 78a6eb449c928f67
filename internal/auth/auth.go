// Package auth keeps the Catalog API bearer token.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	credFileName = "credentials.json"
	// EnvToken overrides any saved token.
	EnvToken = "REMEDIA_TOKEN"
)

// Token sources.
const (
	SourceEnv  = "env"
	SourceFile = "file"
)

type TokenInfo struct {
	Token     string     `json:"token"`
	Source    string     `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the token carries an expiry that has passed.
func (ti *TokenInfo) Expired(now time.Time) bool {
	return ti != nil && ti.ExpiresAt != nil && !now.Before(*ti.ExpiresAt)
}

// Keyring reads and writes credentials under a data dir.
type Keyring struct {
	dir string
	now func() time.Time
}

func New(dataDir string) *Keyring {
	return &Keyring{dir: dataDir, now: time.Now}
}

func (k *Keyring) path() string {
	return filepath.Join(k.dir, credFileName)
}

// Get returns the active token: env first, then the credentials file.
// (nil, nil) means not logged in.
func (k *Keyring) Get() (*TokenInfo, error) {
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		return &TokenInfo{Token: stripBearer(env), Source: SourceEnv}, nil
	}

	b, err := os.ReadFile(k.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var ti TokenInfo
	if err := json.Unmarshal(b, &ti); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	ti.Token = stripBearer(ti.Token)
	ti.Source = SourceFile
	return &ti, nil
}

// Bearer is the token to send, or "" when none is usable.
func (k *Keyring) Bearer() string {
	ti, err := k.Get()
	if err != nil || ti == nil || ti.Expired(k.now()) {
		return ""
	}
	return ti.Token
}

// Set saves token owner-only. A "Bearer " prefix is dropped.
func (k *Keyring) Set(token string, expires *time.Time) error {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return fmt.Errorf("empty token")
	}
	if err := os.MkdirAll(k.dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	ti := TokenInfo{
		Token:     token,
		Source:    SourceFile,
		CreatedAt: k.now(),
		ExpiresAt: expires,
	}
	b, err := json.MarshalIndent(ti, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(k.path(), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Delete removes the saved token. Not logged in is fine.
func (k *Keyring) Delete() error {
	if err := os.Remove(k.path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
