package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	_ "bazil.org/fuse/fs/fstestutil"
	"github.com/spf13/cobra"

	"github.com/faasten/fstn/fstnfs"
	"github.com/faasten/fstn/version"
)

// NewMountCmd creates and returns the mount subcommand for the fstn CLI.
// It serves the in-memory fstn filesystem at the given mountpoint.
func NewMountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mount MOUNTPOINT",
		Short: "Mount the in-memory fstn filesystem",
		Long: `Mount the in-memory fstn filesystem at the specified mountpoint.

The filesystem lives entirely in process memory and starts out with a single
hello.txt in its root. Files and directories created under the mountpoint
exist until the process exits; nothing is persisted.`,
		Args: cobra.ExactArgs(1),
		Run:  runMount,
	}
}

func runMount(cmd *cobra.Command, args []string) {
	fmt.Printf("fstn %s starting...\n", version.GetFullVersion())

	mountpoint := args[0]

	store := fstnfs.NewStore()

	c, err := fuse.Mount(
		mountpoint,
		fuse.FSName("fstn"),
		fuse.Subtype("fstnfs"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		log.Println("Received interrupt signal, shutting down...")

		fuse.Unmount(mountpoint)
		c.Close()

		log.Println("Shutdown complete")
		os.Exit(0)
	}()

	log.Printf("fstn %s mounted at %s", version.GetVersion(), mountpoint)
	err = fs.Serve(c, fstnfs.New(store))
	if err != nil {
		log.Fatal(err)
	}
}
