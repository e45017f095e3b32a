package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Fsutil returns the gateway function name that serves filesystem
// operations, optionally masquerading as another user's home.
func Fsutil(masquerade string) string {
	if masquerade != "" {
		return fmt.Sprintf("home:<%s,%s>:fsutil", masquerade, masquerade)
	}
	return "~:fsutil"
}

// SplitPath turns a colon-separated Faasten path into its components.
func SplitPath(path string) []string {
	return strings.Split(path, ":")
}

// EncodeOp wraps args in the {"op": ..., "args": ...} envelope fsutil
// consumes.
func EncodeOp(op string, args any) ([]byte, error) {
	return json.Marshal(struct {
		Op   string `json:"op"`
		Args any    `json:"args"`
	}{Op: op, Args: args})
}

// Argument shapes for fsutil operations. Byte fields ride the wire as
// base64, which Go's JSON encoding produces for []byte.

// PathArgs addresses a single path.
type PathArgs struct {
	Path []string `json:"path"`
}

// BaseNameArgs addresses an entry by its parent path and name.
type BaseNameArgs struct {
	Base []string `json:"base"`
	Name string   `json:"name"`
}

// LabeledArgs creates an entry with an information-flow label.
type LabeledArgs struct {
	Base  []string `json:"base"`
	Name  string   `json:"name"`
	Label string   `json:"label"`
}

// BlobArgs creates a blob under a labeled base.
type BlobArgs struct {
	Label string   `json:"label"`
	Base  []string `json:"base"`
}

// WriteArgs carries file contents to a path.
type WriteArgs struct {
	Path []string `json:"path"`
	Data []byte   `json:"data"`
}

// ReadResult is the reply to a read operation.
type ReadResult struct {
	Success bool   `json:"success"`
	Value   []byte `json:"value"`
}

// InvokeGateArgs invokes a gate at a path synchronously.
type InvokeGateArgs struct {
	Path    []string          `json:"path"`
	Sync    bool              `json:"sync"`
	Payload []byte            `json:"payload"`
	Params  map[string]string `json:"params"`
}

// InvokeGateResult is the reply to a gate invocation.
type InvokeGateResult struct {
	Success *bool           `json:"success"`
	Data    []byte          `json:"data"`
	Error   json.RawMessage `json:"error"`
}
