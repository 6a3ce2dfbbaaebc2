package trace

import (
	"fmt"
	"io"
	"sync"

	"github.com/sarchlab/cachesim/mem/cache"
)

// A Tracer is a cache hook that writes one text line per access and per
// eviction. Lines look like
//
//	access, 3, 0x00000010, 00000000000000000000000000010000, 0, 1, compulsory
//	evict, 5, 0, 1, 0x1, 0x2
type Tracer struct {
	lock sync.Mutex
	w    io.Writer
	err  error
}

// NewTracer creates a Tracer that writes to w.
func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

// Func writes the line of an access or an eviction.
func (t *Tracer) Func(ctx cache.HookCtx) {
	res, ok := ctx.Item.(cache.AccessResult)
	if !ok {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if t.err != nil {
		return
	}

	switch ctx.Pos {
	case cache.HookPosAccess:
		_, t.err = fmt.Fprintf(t.w, "access, %d, 0x%08x, %032b, %d, %d, %s\n",
			res.Stamp, res.Address, res.Address, res.SetID, res.WayID, res.Kind)
	case cache.HookPosEvict:
		_, t.err = fmt.Fprintf(t.w, "evict, %d, %d, %d, 0x%x, 0x%x\n",
			res.Stamp, res.SetID, res.WayID, res.EvictedTag, res.Tag)
	}
}

// Err returns the first error met while writing.
func (t *Tracer) Err() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.err
}
