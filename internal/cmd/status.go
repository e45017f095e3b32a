package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/taigrr/colorhash"
)

var statusColor = color.New(color.FgGreen, color.Bold)

// status prints a cargo-style progress line to stderr: a bold green
// right-aligned action label followed by a plain message.
func status(action, message string) {
	statusColor.Fprintf(os.Stderr, "%12s ", action)
	fmt.Fprintln(os.Stderr, message)
}

// serverPalette holds the colors a gateway URL can map to.
var serverPalette = []*color.Color{
	color.New(color.FgCyan),
	color.New(color.FgMagenta),
	color.New(color.FgYellow),
	color.New(color.FgBlue),
	color.New(color.FgHiCyan),
	color.New(color.FgHiMagenta),
}

// serverLabel colors a gateway URL with a stable color derived from its
// hash, so different gateways are easy to tell apart in status output.
func serverLabel(server string) string {
	c := serverPalette[colorhash.HashString(server)%len(serverPalette)]
	return c.Sprint(server)
}
