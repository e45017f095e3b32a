package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/faasten/fstn/internal/client"
	"github.com/faasten/fstn/internal/credentials"
	"github.com/faasten/fstn/version"
)

// NewRootCmd creates and returns the root cobra command for the fstn CLI.
// It sets up all subcommands, command groups, and the persistent server and
// user flags shared by every gateway command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fstn",
		Short: "A CLI client for interacting with Faasten",
		Long: `fstn is a client for the Faasten serverless platform.

It invokes functions on a remote Faasten gateway, manages API tokens and
delegated privileges, drives the gateway-side filesystem through the fsutil
gate, and can mount a local in-memory scratch filesystem over FUSE.`,
		Version: version.GetFullVersion(),
	}

	rootCmd.PersistentFlags().StringP("server", "s", "", "Faasten gateway URL (defaults to FSTN_SERVER or the credentials file)")
	rootCmd.PersistentFlags().StringP("user", "u", "", "user identity (defaults to FSTN_USER)")

	groupGateway := "gateway"
	groupFilesystem := "filesystem"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupGateway,
		Title: "Gateway Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupFilesystem,
		Title: "Filesystem Operations",
	})

	loginCmd := NewLoginCmd()
	whoamiCmd := NewWhoamiCmd()
	delegateCmd := NewDelegateCmd()
	invokeCmd := NewInvokeCmd()
	pingCmd := NewPingCmd()
	pingSchedulerCmd := NewPingSchedulerCmd()
	fsCmd := NewFSCmd()
	mountCmd := NewMountCmd()

	loginCmd.GroupID = groupGateway
	whoamiCmd.GroupID = groupGateway
	delegateCmd.GroupID = groupGateway
	invokeCmd.GroupID = groupGateway
	pingCmd.GroupID = groupGateway
	pingSchedulerCmd.GroupID = groupGateway
	fsCmd.GroupID = groupFilesystem
	mountCmd.GroupID = groupFilesystem

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(delegateCmd)
	rootCmd.AddCommand(invokeCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(pingSchedulerCmd)
	rootCmd.AddCommand(fsCmd)
	rootCmd.AddCommand(mountCmd)

	return rootCmd
}

// resolveIdentity picks the gateway and user for a command: explicit flags
// win, then the environment, then the credentials file's default server, and
// finally the built-in defaults.
func resolveIdentity(flagServer, flagUser string, env client.Env, creds *credentials.Store) (server, user string) {
	server = flagServer
	if server == "" {
		server = env.Server
	}
	if server == "" {
		if s, err := creds.DefaultServer(); err == nil {
			server = s
		}
	}
	if server == "" {
		server = client.DefaultServer
	}

	user = flagUser
	if user == "" {
		user = env.User
	}
	if user == "" {
		user = client.DefaultUser
	}
	return server, user
}

// newClient builds a gateway client for the command's flags. Failures here
// mean the local environment is broken (unreadable credentials file, no home
// directory), not that the gateway is unreachable.
func newClient(cmd *cobra.Command) (*client.Client, error) {
	flagServer, _ := cmd.Flags().GetString("server")
	flagUser, _ := cmd.Flags().GetString("user")

	env, err := client.ReadEnv()
	if err != nil {
		return nil, err
	}
	creds, err := credentials.NewStore()
	if err != nil {
		return nil, err
	}

	server, user := resolveIdentity(flagServer, flagUser, env, creds)
	return client.New(server, user, creds), nil
}

// mustClient is newClient for commands that cannot proceed without one.
func mustClient(cmd *cobra.Command) *client.Client {
	c, err := newClient(cmd)
	if err != nil {
		log.Fatalf("Failed to set up client: %v", err)
	}
	return c
}
