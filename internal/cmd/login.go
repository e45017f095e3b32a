package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// NewLoginCmd creates and returns the login subcommand for the fstn CLI.
// It prompts for an API token and stores it in the credentials file.
func NewLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in to Faasten and save the API token",
		Long: `Save a Faasten API token for the selected gateway and user.

The token is obtained by logging in through the gateway's web flow; paste it
at the prompt and it will be written to the credentials file.`,
		Args: cobra.NoArgs,
		Run:  runLogin,
	}
}

func runLogin(cmd *cobra.Command, args []string) {
	c := mustClient(cmd)

	fmt.Printf("Please paste the API token found by logging in at %s/login/cas below\n> ", serverLabel(c.Server))
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return
	}
	token := strings.TrimSpace(scanner.Text())
	if token == "" {
		return
	}

	if err := c.SaveToken(c.User, token); err != nil {
		log.Fatalf("Failed to save credentials: %v", err)
	}
	status("Login", "saved")
}
