package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const pepperLength = 32

var (
	pepperMu sync.RWMutex
	pepper   string
)

// LoadPepper reads the pepper from path, generating and persisting a new one
// when the file does not exist yet. It must run before any password is hashed.
func LoadPepper(path string) error {
	if path == "" {
		return errors.New("cryptox: pepper path is empty")
	}

	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("cryptox: create pepper dir: %w", err)
	}

	raw, err := os.ReadFile(path) // #nosec G304 - operator supplied path
	switch {
	case err == nil:
		value := strings.TrimSpace(string(raw))
		if value == "" {
			return fmt.Errorf("cryptox: pepper file %s is empty", path)
		}
		SetPepper(value)
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("cryptox: read pepper: %w", err)
	}

	buf := make([]byte, pepperLength)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("cryptox: generate pepper: %w", err)
	}
	value := base64.RawURLEncoding.EncodeToString(buf)

	if err := os.WriteFile(path, []byte(value), 0o600); err != nil {
		return fmt.Errorf("cryptox: write pepper: %w", err)
	}
	SetPepper(value)
	return nil
}

// SetPepper installs the pepper directly. Tests use it to avoid touching disk.
func SetPepper(value string) {
	pepperMu.Lock()
	pepper = value
	pepperMu.Unlock()
}

// Pepper returns the currently installed pepper.
func Pepper() string {
	pepperMu.RLock()
	defer pepperMu.RUnlock()
	return pepper
}
