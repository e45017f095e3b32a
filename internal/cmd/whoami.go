package cmd

import (
	"errors"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/faasten/fstn/internal/credentials"
)

// NewWhoamiCmd creates and returns the whoami subcommand for the fstn CLI.
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity behind the stored token",
		Args:  cobra.NoArgs,
		Run:   runWhoami,
	}
}

func runWhoami(cmd *cobra.Command, args []string) {
	c := mustClient(cmd)

	resp, err := c.Whoami(cmd.Context())
	if err != nil {
		if errors.Is(err, credentials.ErrNoToken) {
			status("Whoami", "you must first login")
			os.Exit(1)
		}
		log.Fatalf("Whoami failed: %v", err)
	}
	defer resp.Body.Close()

	io.Copy(os.Stdout, resp.Body)
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		status("Whoami", "OK")
	} else {
		status("Whoami", resp.Status)
		os.Exit(1)
	}
}
