package cmd

import (
	"errors"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/faasten/fstn/internal/credentials"
)

// NewDelegateCmd creates and returns the delegate subcommand for the fstn
// CLI. It asks the gateway to mint a token for a sub-privilege.
func NewDelegateCmd() *cobra.Command {
	var (
		save      bool
		bootstrap bool
		clearance string
	)

	cmd := &cobra.Command{
		Use:   "delegate PRIVILEGE",
		Short: "Delegate a privilege and receive a token for it",
		Long: `Ask the gateway to mint a token carrying the named privilege.

The new token is printed to stdout. With --save it is also stored in the
credentials file under the privilege name, so later commands can use it with
--user.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runDelegate(cmd, args[0], save, bootstrap, clearance)
		},
	}

	cmd.Flags().BoolVarP(&save, "save", "S", false, "Save the delegated token to the credentials file")
	cmd.Flags().BoolVarP(&bootstrap, "bootstrap", "b", false, "Request a bootstrap delegation")
	cmd.Flags().StringVarP(&clearance, "clearance", "c", "", "Clearance for a bootstrap delegation")

	cmd.MarkFlagsRequiredTogether("bootstrap", "clearance")

	return cmd
}

func runDelegate(cmd *cobra.Command, privilege string, save, bootstrap bool, clearance string) {
	c := mustClient(cmd)

	resp, err := c.Delegate(cmd.Context(), privilege, bootstrap, clearance)
	if err != nil {
		if errors.Is(err, credentials.ErrNoToken) {
			status("Delegate", "you must first login")
			os.Exit(1)
		}
		log.Fatalf("Delegate failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		status("Delegate", resp.Status)
		io.Copy(os.Stdout, resp.Body)
		os.Exit(1)
	}

	token, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read delegated token: %v", err)
	}
	os.Stdout.Write(token)

	if save {
		if err := c.SaveToken(privilege, string(token)); err != nil {
			log.Fatalf("Failed to save delegated token: %v", err)
		}
	}
	status("Delegate", "OK")
}
