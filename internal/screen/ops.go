package screen

import (
	"context"
	"fmt"
)

// Kind identifies the remote mutation an Op performs.
type Kind int

const (
	// KindAdd writes a new city under its name.
	KindAdd Kind = iota
	// KindUpdate overwrites a city whose name did not change.
	KindUpdate
	// KindRename deletes the old document and creates the new one.
	KindRename
	// KindDelete removes a city by name.
	KindDelete
)

// String returns the lower-case name used in logs and traces.
func (k Kind) String() string {
	switch k {
	case KindAdd:
		return "add"
	case KindUpdate:
		return "update"
	case KindRename:
		return "rename"
	case KindDelete:
		return "delete"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result reports how a remote mutation went.
type Result struct {
	Kind Kind
	// Key is the document written or deleted. For a rename it is the old key.
	Key string
	// NewKey is set for renames.
	NewKey string
	Err    error
	// RestoreErr is set when a rename's create failed and putting the
	// original document back failed too.
	RestoreErr error
	// Restored is true when a failed rename put the original document back.
	Restored bool
}

// Failed reports whether the mutation did not complete.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Op is a deferred remote mutation. It must be run off the UI loop.
type Op func(ctx context.Context) Result
