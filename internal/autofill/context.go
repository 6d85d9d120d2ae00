package autofill

import (
	"sync/atomic"

	"github.com/jonathan/form-autofill/internal/types"
)

// Snapshot is the profile and résumé a fill pass reads. It is never mutated
// after being handed to a Context.
type Snapshot struct {
	Profile *types.UserProfile
	Resume  *types.ResumeRecord
}

// Context carries the current Snapshot between passes. Refresh replaces it
// wholesale, so a pass always sees one consistent snapshot.
type Context struct {
	current atomic.Pointer[Snapshot]
}

// NewContext creates a Context holding snap.
func NewContext(snap Snapshot) *Context {
	c := &Context{}
	c.Refresh(snap)
	return c
}

// Snapshot returns the current snapshot.
func (c *Context) Snapshot() Snapshot {
	if s := c.current.Load(); s != nil {
		return *s
	}
	return Snapshot{}
}

// Refresh installs a new snapshot for subsequent passes.
func (c *Context) Refresh(snap Snapshot) {
	c.current.Store(&snap)
}
