package cmd

import (
	"errors"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/faasten/fstn/internal/client"
	"github.com/faasten/fstn/internal/credentials"
)

// NewInvokeCmd creates and returns the invoke subcommand for the fstn CLI.
// It posts a payload to a named gateway function and streams the reply.
func NewInvokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invoke FUNCTION [PAYLOAD]",
		Short: "Invoke a gateway function",
		Long: `Invoke a function registered on the Faasten gateway.

The payload is taken from the second argument, or from stdin when omitted.
The function's reply is written to stdout.`,
		Args: cobra.RangeArgs(1, 2),
		Run:  runInvokeCmd,
	}
}

func runInvokeCmd(cmd *cobra.Command, args []string) {
	c := mustClient(cmd)

	var payload []byte
	if len(args) == 2 {
		payload = []byte(args[1])
	} else {
		var err error
		payload, err = io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("Failed to read payload from stdin: %v", err)
		}
	}

	resp, err := invoke(cmd, c, args[0], payload)
	if err != nil {
		log.Fatalf("Invoke failed: %v", err)
	}
	defer resp.Body.Close()
	io.Copy(os.Stdout, resp.Body)
}

// invoke posts payload to function, prints an Invoke status line, and hands
// back the response for the caller to consume. A missing token exits with a
// login hint, matching every other authenticated command.
func invoke(cmd *cobra.Command, c *client.Client, function string, payload []byte) (*http.Response, error) {
	r, err := c.Invoke(cmd.Context(), function, payload)
	if err != nil {
		if errors.Is(err, credentials.ErrNoToken) {
			status("Invoke", "you must first login")
			os.Exit(1)
		}
		return nil, err
	}
	if r.StatusCode >= 200 && r.StatusCode < 300 {
		status("Invoke", "OK")
	} else {
		status("Invoke", r.Status)
	}
	return r, nil
}
