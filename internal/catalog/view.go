package catalog

import (
	"context"
	"sync"
	"sync/atomic"
)

// Lister fetches one listing page. Implementations degrade failures to an
// empty page rather than returning an error.
type Lister interface {
	List(ctx context.Context, q Query) Page
}

// Snapshot is a query together with the page that answered it.
type Snapshot struct {
	Generation uint64
	Query      Query
	Page       Page
}

// View holds the currently displayed listing. Every Apply call is tagged with
// a generation number; a result is published only while its generation is the
// newest one issued, so a slow response never replaces a newer selection.
type View struct {
	lister Lister
	issued atomic.Uint64

	mu      sync.Mutex
	current Snapshot
	subs    []chan Snapshot
	closed  bool
}

func NewView(lister Lister) *View {
	return &View{lister: lister}
}

// Begin reserves the next generation. Callers that fetch asynchronously must
// call it when the selection changes, before starting the fetch, so generations
// follow the order of user actions rather than goroutine scheduling.
func (v *View) Begin() uint64 {
	return v.issued.Add(1)
}

// Apply fetches the page for q and publishes it unless a newer Apply was
// issued in the meantime. The returned bool reports whether it was published.
func (v *View) Apply(ctx context.Context, q Query) (Snapshot, bool) {
	return v.Finish(ctx, v.Begin(), q)
}

// Finish fetches the page for q under a generation obtained from Begin and
// publishes it only if gen is still the newest one.
func (v *View) Finish(ctx context.Context, gen uint64, q Query) (Snapshot, bool) {
	page := v.lister.List(ctx, q)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || gen != v.issued.Load() {
		return Snapshot{Generation: gen, Query: q, Page: page}, false
	}
	v.current = Snapshot{Generation: gen, Query: q, Page: page}
	for _, ch := range v.subs {
		// Subscribers only care about the latest snapshot.
		select {
		case <-ch:
		default:
		}
		ch <- v.current
	}
	return v.current, true
}

// Current returns the last published snapshot.
func (v *View) Current() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Subscribe returns a channel that receives each published snapshot. Slow
// readers see only the most recent one. The channel is closed by Close.
func (v *View) Subscribe() <-chan Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	ch := make(chan Snapshot, 1)
	if v.closed {
		close(ch)
		return ch
	}
	v.subs = append(v.subs, ch)
	return ch
}

// Close stops publishing and closes every subscription.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	for _, ch := range v.subs {
		close(ch)
	}
	v.subs = nil
}
