package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/faasten/fstn/internal/client"
	"github.com/faasten/fstn/internal/credentials"
)

const defaultLabel = "T,T"

// NewFSCmd creates and returns the fs subcommand tree for the fstn CLI.
// Every subcommand is one operation against the gateway-side filesystem,
// executed by invoking the fsutil gate.
func NewFSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fs",
		Short: "Operate on the gateway-side filesystem",
		Long: `Operate on the Faasten gateway-side filesystem.

Paths are colon-separated, e.g. home:projects:notes.txt. All operations run
through the fsutil gate of the current user's home, or of another user's
home with --masquerade.`,
	}

	cmd.PersistentFlags().StringP("masquerade", "m", "", "operate on another user's home")

	cmd.AddCommand(
		newFSPingCmd(),
		newFSLsCmd(),
		newFSUnlinkCmd(),
		newFSMkdirCmd(),
		newFSMkfileCmd(),
		newFSWriteCmd(),
		newFSReadCmd(),
		newFSCatCmd(),
		newFSMkfacetedCmd(),
		newFSMkblobCmd(),
		newFSInvokeCmd(),
	)

	return cmd
}

// fsutilFunction resolves the gate to invoke from the masquerade flag.
func fsutilFunction(cmd *cobra.Command) string {
	masquerade, _ := cmd.Flags().GetString("masquerade")
	return client.Fsutil(masquerade)
}

// runFsOp invokes one fsutil operation and streams the raw reply to stdout.
func runFsOp(cmd *cobra.Command, op string, args any) {
	resp := invokeFsOp(cmd, op, args)
	defer resp.Body.Close()
	io.Copy(os.Stdout, resp.Body)
}

// invokeFsOp invokes one fsutil operation and hands back the response for
// the caller to consume.
func invokeFsOp(cmd *cobra.Command, op string, args any) *http.Response {
	c := mustClient(cmd)
	payload, err := client.EncodeOp(op, args)
	if err != nil {
		log.Fatalf("Failed to encode %s operation: %v", op, err)
	}
	resp, err := invoke(cmd, c, fsutilFunction(cmd), payload)
	if err != nil {
		log.Fatalf("%s failed: %v", op, err)
	}
	return resp
}

func newFSPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Measure the round trip through the fsutil gate",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			start := time.Now()
			resp := invokeFsOp(cmd, "ping", struct{}{})
			resp.Body.Close()
			fmt.Printf("%v\n", time.Since(start))
		},
	}
}

func newFSLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls PATH",
		Short: "List a directory",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runFsOp(cmd, "ls", client.PathArgs{Path: client.SplitPath(args[0])})
		},
	}
}

func newFSUnlinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink BASE NAME",
		Short: "Unlink an entry from a directory",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runFsOp(cmd, "unlink", client.BaseNameArgs{
				Base: client.SplitPath(args[0]),
				Name: args[1],
			})
		},
	}
}

func newFSMkdirCmd() *cobra.Command {
	var label string
	cmd := &cobra.Command{
		Use:   "mkdir BASE NAME",
		Short: "Create a directory",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runFsOp(cmd, "mkdir", client.LabeledArgs{
				Base:  client.SplitPath(args[0]),
				Name:  args[1],
				Label: label,
			})
		},
	}
	cmd.Flags().StringVarP(&label, "label", "l", defaultLabel, "information-flow label for the new directory")
	return cmd
}

func newFSMkfileCmd() *cobra.Command {
	var label string
	cmd := &cobra.Command{
		Use:   "mkfile BASE NAME",
		Short: "Create an empty file",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runFsOp(cmd, "mkfile", client.LabeledArgs{
				Base:  client.SplitPath(args[0]),
				Name:  args[1],
				Label: label,
			})
		},
	}
	cmd.Flags().StringVarP(&label, "label", "l", defaultLabel, "information-flow label for the new file")
	return cmd
}

func newFSWriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write PATH",
		Short: "Write stdin to a file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				log.Fatalf("Failed to read data from stdin: %v", err)
			}
			runFsOp(cmd, "write", client.WriteArgs{
				Path: client.SplitPath(args[0]),
				Data: data,
			})
		},
	}
}

func newFSReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read PATH",
		Short: "Read a file to stdout",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			resp := invokeFsOp(cmd, "read", client.PathArgs{Path: client.SplitPath(args[0])})
			defer resp.Body.Close()

			var result client.ReadResult
			if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
				log.Fatalf("Failed to decode read reply: %v", err)
			}
			if !result.Success {
				fmt.Fprintln(os.Stderr, "Not found")
				os.Exit(1)
			}
			os.Stdout.Write(result.Value)
		},
	}
}

func newFSCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat PATH",
		Short: "Print a file's raw read reply",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runFsOp(cmd, "cat", client.PathArgs{Path: client.SplitPath(args[0])})
		},
	}
}

func newFSMkfacetedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkfaceted BASE NAME",
		Short: "Create a faceted directory",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runFsOp(cmd, "mkfaceted", client.BaseNameArgs{
				Base: client.SplitPath(args[0]),
				Name: args[1],
			})
		},
	}
}

func newFSMkblobCmd() *cobra.Command {
	var label string
	cmd := &cobra.Command{
		Use:   "mkblob BASE FILE...",
		Short: "Upload local files as blobs",
		Args:  cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			c := mustClient(cmd)
			payload, err := client.EncodeOp("mkblob", client.BlobArgs{
				Label: label,
				Base:  client.SplitPath(args[0]),
			})
			if err != nil {
				log.Fatalf("Failed to encode mkblob operation: %v", err)
			}

			blobs := make([]client.Blob, 0, len(args)-1)
			for _, path := range args[1:] {
				blobs = append(blobs, client.Blob{Path: path})
			}

			resp, err := c.InvokeMultipart(cmd.Context(), fsutilFunction(cmd), payload, blobs)
			if err != nil {
				if errors.Is(err, credentials.ErrNoToken) {
					status("Invoke", "you must first login")
					os.Exit(1)
				}
				log.Fatalf("mkblob failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				status("Invoke", "OK")
				io.Copy(os.Stdout, resp.Body)
			} else {
				status("Invoke", resp.Status)
				io.Copy(os.Stderr, resp.Body)
				os.Exit(1)
			}
		},
	}
	cmd.Flags().StringVarP(&label, "label", "l", defaultLabel, "information-flow label for the new blobs")
	return cmd
}

func newFSInvokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invoke PATH [KEY=VALUE...]",
		Short: "Invoke a gate at a path",
		Long: `Invoke the gate at a gateway-side path.

The invocation payload is read from stdin. Remaining arguments become
KEY=VALUE parameters passed to the gate.`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			params := make(map[string]string, len(args)-1)
			for _, arg := range args[1:] {
				key, value, ok := strings.Cut(arg, "=")
				if !ok {
					log.Fatalf("argument %q must be of the form key=value", arg)
				}
				params[key] = value
			}

			payload, err := io.ReadAll(os.Stdin)
			if err != nil {
				log.Fatalf("Failed to read payload from stdin: %v", err)
			}

			resp := invokeFsOp(cmd, "invoke", client.InvokeGateArgs{
				Path:    client.SplitPath(args[0]),
				Sync:    true,
				Payload: payload,
				Params:  params,
			})
			defer resp.Body.Close()

			var result client.InvokeGateResult
			if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
				log.Fatalf("Failed to decode invoke reply: %v", err)
			}
			if result.Data != nil {
				os.Stdout.Write(result.Data)
			} else {
				os.Stderr.Write(result.Error)
				os.Exit(1)
			}
		},
	}
}
