package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/faasten/fstn/internal/client"
	"github.com/faasten/fstn/internal/credentials"
)

func storeWithContents(t *testing.T, contents string) *credentials.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials")
	if contents != "" {
		if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
			t.Fatalf("writing credentials file: %v", err)
		}
	}
	s, err := credentials.Open(path)
	if err != nil {
		t.Fatalf("opening credentials file: %v", err)
	}
	return s
}

func TestResolveIdentity(t *testing.T) {
	configured := storeWithContents(t, "[global]\nserver = \"https://stored.example.com\"\n")
	empty := storeWithContents(t, "")

	tests := []struct {
		name       string
		flagServer string
		flagUser   string
		env        client.Env
		creds      *credentials.Store
		wantServer string
		wantUser   string
	}{
		{
			name:       "flags win over everything",
			flagServer: "https://flag.example.com",
			flagUser:   "alice",
			env:        client.Env{Server: "https://env.example.com", User: "bob"},
			creds:      configured,
			wantServer: "https://flag.example.com",
			wantUser:   "alice",
		},
		{
			name:       "environment beats credentials file",
			env:        client.Env{Server: "https://env.example.com", User: "bob"},
			creds:      configured,
			wantServer: "https://env.example.com",
			wantUser:   "bob",
		},
		{
			name:       "credentials file default server",
			creds:      configured,
			wantServer: "https://stored.example.com",
			wantUser:   client.DefaultUser,
		},
		{
			name:       "built-in defaults",
			creds:      empty,
			wantServer: client.DefaultServer,
			wantUser:   client.DefaultUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, user := resolveIdentity(tt.flagServer, tt.flagUser, tt.env, tt.creds)
			if server != tt.wantServer {
				t.Errorf("server = %q, want %q", server, tt.wantServer)
			}
			if user != tt.wantUser {
				t.Errorf("user = %q, want %q", user, tt.wantUser)
			}
		})
	}
}

func TestRootCmdRegistersSubcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{
		"login", "whoami", "delegate", "invoke",
		"ping", "ping-scheduler", "fs", "mount",
	}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func TestFSCmdRegistersOperations(t *testing.T) {
	fsCmd := NewFSCmd()

	if fsCmd.PersistentFlags().Lookup("masquerade") == nil {
		t.Fatal("fs command is missing the masquerade flag")
	}

	want := []string{
		"ping", "ls", "unlink", "mkdir", "mkfile",
		"write", "read", "cat", "mkfaceted", "mkblob", "invoke",
	}
	for _, name := range want {
		found := false
		for _, sub := range fsCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("fs command is missing subcommand %q", name)
		}
	}
}
