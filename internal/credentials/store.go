// Package credentials manages the on-disk token store for fstn.
//
// Tokens live in a TOML file under the user config directory, keyed first by
// server and then by user. Older single-level files that map a user straight
// to a token are still understood.
package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultConfigDir is the directory under the user config root that
	// holds fstn state.
	DefaultConfigDir = "fstn"
	// CredentialsFileName is the name of the credentials file.
	CredentialsFileName = "credentials"
	// FilePermissions for the credentials file (owner read/write only).
	FilePermissions = 0o600
	// DirPermissions for the config directory.
	DirPermissions = 0o700
)

var (
	// ErrNoToken indicates no token is stored for the server/user pair.
	ErrNoToken = errors.New("no token found - run 'fstn login' first")
	// ErrNoServer indicates the credentials file names no default server.
	ErrNoServer = errors.New("no default server configured")
)

// Store reads and writes the credentials file.
type Store struct {
	path  string
	table map[string]any
}

// NewStore opens the credentials file under the user config directory,
// creating the directory if needed. A missing file yields an empty store.
func NewStore() (*Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine config directory: %w", err)
	}
	dir := filepath.Join(configDir, DefaultConfigDir)
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return nil, fmt.Errorf("cannot create config directory: %w", err)
	}
	return Open(filepath.Join(dir, CredentialsFileName))
}

// Open opens a credentials file at an explicit path, bypassing the user
// config directory resolution.
func Open(path string) (*Store, error) {
	s := &Store{
		path:  path,
		table: make(map[string]any),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, &s.table); err != nil {
		return nil, fmt.Errorf("cannot parse credentials file %s: %w", path, err)
	}
	return s, nil
}

// Token returns the stored token for user at server. It first checks the
// server's table and then falls back to a top-level user entry.
func (s *Store) Token(server, user string) (string, error) {
	if serverTable, ok := s.table[server].(map[string]any); ok {
		if token, ok := serverTable[user].(string); ok {
			return token, nil
		}
	}
	if token, ok := s.table[user].(string); ok {
		return token, nil
	}
	return "", ErrNoToken
}

// Save stores token for user at server and writes the file back to disk.
func (s *Store) Save(server, user, token string) error {
	serverTable, ok := s.table[server].(map[string]any)
	if !ok {
		serverTable = make(map[string]any)
		s.table[server] = serverTable
	}
	serverTable[user] = token
	return s.write()
}

// DefaultServer returns the server named by the credentials file, checking
// [global].server first and a top-level server key second.
func (s *Store) DefaultServer() (string, error) {
	if global, ok := s.table["global"].(map[string]any); ok {
		if server, ok := global["server"].(string); ok {
			return server, nil
		}
	}
	if server, ok := s.table["server"].(string); ok {
		return server, nil
	}
	return "", ErrNoServer
}

func (s *Store) write() error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s.table); err != nil {
		return fmt.Errorf("cannot encode credentials: %w", err)
	}
	return os.WriteFile(s.path, buf.Bytes(), FilePermissions)
}
