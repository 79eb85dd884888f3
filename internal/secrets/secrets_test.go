// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, AdminTokenHashFile, "  $2a$10$abc  \n")
				writeFile(t, dir, "import-url", "https://example.com/corpus.csv")
				return dir
			},
			want: map[string]string{
				AdminTokenHashFile: "$2a$10$abc",
				"import-url":       "https://example.com/corpus.csv",
			},
		},
		{
			name: "missing directory is empty",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips blank files, dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, AdminTokenHashFile, "hash")
				writeFile(t, dir, "empty", "")
				writeFile(t, dir, "blank", "   \n\t  ")
				writeFile(t, dir, ".gitkeep", "x")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{AdminTokenHashFile: "hash"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good", "value123")
	bad := filepath.Join(dir, "bad")
	require.NoError(t, os.WriteFile(bad, []byte("secret"), 0o000))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"good": "value123"}, got)
}

func TestAdminTokenHash(t *testing.T) {
	_, err := AdminTokenHash(t.TempDir())
	assert.ErrorIs(t, err, ErrNoAdminToken)

	dir := t.TempDir()
	writeFile(t, dir, AdminTokenHashFile, "hash\n")
	got, err := AdminTokenHash(dir)
	require.NoError(t, err)
	assert.Equal(t, "hash", got)
}

func TestIssueAndCheckAdminToken(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".secrets")

	token, err := IssueAdminToken(dir)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	hash, err := AdminTokenHash(dir)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)))

	assert.True(t, CheckToken(hash, token))
	assert.False(t, CheckToken(hash, token+"x"))
	assert.False(t, CheckToken(hash, ""))
	assert.False(t, CheckToken("", token))

	info, err := os.Stat(filepath.Join(dir, AdminTokenHashFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
