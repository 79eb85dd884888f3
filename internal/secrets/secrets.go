// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the file contents (trimmed) are the value.
//
// The API server reads admin-token-hash, a bcrypt hash of the bearer token
// that guards the record administration routes.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pdiddy/risda/internal/logging"
)

// AdminTokenHashFile is the secret holding the admin token's bcrypt hash.
const AdminTokenHashFile = "admin-token-hash"

// ErrNoAdminToken is returned when no admin token hash is configured.
var ErrNoAdminToken = errors.New("admin token hash is not configured")

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logging.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// AdminTokenHash returns the configured admin token hash from dir.
func AdminTokenHash(dir string) (string, error) {
	s, err := Load(dir)
	if err != nil {
		return "", err
	}
	hash, ok := s[AdminTokenHashFile]
	if !ok {
		return "", fmt.Errorf("%w: create %s", ErrNoAdminToken, filepath.Join(dir, AdminTokenHashFile))
	}
	return hash, nil
}

// CheckToken reports whether token matches the bcrypt hash.
func CheckToken(hash, token string) bool {
	if hash == "" || token == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}

// IssueAdminToken generates a new admin token, writes its hash to
// dir/admin-token-hash and returns the plain token. The token is shown
// once; only the hash is stored.
func IssueAdminToken(dir string) (string, error) {
	token := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing admin token: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating secrets directory: %w", err)
	}
	path := filepath.Join(dir, AdminTokenHashFile)
	if err := os.WriteFile(path, append(hash, '\n'), 0o600); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return token, nil
}
