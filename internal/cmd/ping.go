package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

// NewPingCmd creates and returns the ping subcommand for the fstn CLI.
func NewPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Measure the round trip to the gateway",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			c := mustClient(cmd)
			elapsed, err := c.Ping(cmd.Context())
			if err != nil {
				log.Fatalf("Ping failed: %v", err)
			}
			fmt.Printf("ping: %v elapsed\n", elapsed)
		},
	}
}

// NewPingSchedulerCmd creates and returns the ping-scheduler subcommand,
// which measures the round trip through the gateway to its scheduler.
func NewPingSchedulerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping-scheduler",
		Short: "Measure the round trip to the scheduler via the gateway",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			c := mustClient(cmd)
			elapsed, err := c.PingScheduler(cmd.Context())
			if err != nil {
				log.Fatalf("Ping failed: %v", err)
			}
			fmt.Printf("ping: %v elapsed\n", elapsed)
		},
	}
}
