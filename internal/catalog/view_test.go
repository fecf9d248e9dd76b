package catalog

import (
	"context"
	"testing"
	"time"
)

type gatedLister struct {
	started chan int
	gates   map[int]chan struct{}
}

func (l *gatedLister) List(_ context.Context, q Query) Page {
	l.started <- q.Page
	if gate, ok := l.gates[q.Page]; ok {
		<-gate
	}
	return NewPage(q, nil, q.Page)
}

func TestViewApply_DropsSupersededResult(t *testing.T) {
	lister := &gatedLister{
		started: make(chan int, 2),
		gates:   map[int]chan struct{}{1: make(chan struct{})},
	}
	view := NewView(lister)
	ctx := context.Background()

	type outcome struct {
		snap    Snapshot
		applied bool
	}
	slow := make(chan outcome, 1)
	go func() {
		snap, applied := view.Apply(ctx, BuildQuery(Params{Page: 1}, 12))
		slow <- outcome{snap, applied}
	}()
	<-lister.started

	if _, applied := view.Apply(ctx, BuildQuery(Params{Page: 2}, 12)); !applied {
		t.Fatalf("expected newest query to be applied")
	}
	<-lister.started

	close(lister.gates[1])
	select {
	case res := <-slow:
		if res.applied {
			t.Fatalf("stale result must not be applied")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("slow apply did not return")
	}

	if got := view.Current().Query.Page; got != 2 {
		t.Fatalf("expected page 2 to stay displayed, got %d", got)
	}
}

func TestViewFinish_GenerationFollowsIssueOrder(t *testing.T) {
	lister := &gatedLister{started: make(chan int, 2), gates: map[int]chan struct{}{}}
	view := NewView(lister)
	ctx := context.Background()

	older := view.Begin()
	newer := view.Begin()

	// The newer selection completes first; the older one must not replace it.
	if _, applied := view.Finish(ctx, newer, BuildQuery(Params{Page: 2}, 12)); !applied {
		t.Fatalf("expected newest generation to be applied")
	}
	if _, applied := view.Finish(ctx, older, BuildQuery(Params{Page: 1}, 12)); applied {
		t.Fatalf("older generation must be dropped")
	}
	if got := view.Current(); got.Query.Page != 2 || got.Generation != newer {
		t.Fatalf("expected page 2 on display, got %+v", got)
	}
}

func TestViewFinish_ConcurrentFetchesKeepLastIssued(t *testing.T) {
	lister := &gatedLister{started: make(chan int, 64), gates: map[int]chan struct{}{}}
	for round := 0; round < 50; round++ {
		view := NewView(lister)
		done := make(chan struct{}, 8)
		for page := 1; page <= 8; page++ {
			gen := view.Begin()
			go func(gen uint64, page int) {
				view.Finish(context.Background(), gen, BuildQuery(Params{Page: page}, 12))
				done <- struct{}{}
			}(gen, page)
		}
		for range 8 {
			<-done
			<-lister.started
		}
		if got := view.Current().Query.Page; got != 8 {
			t.Fatalf("round %d: expected last issued page 8, got %d", round, got)
		}
	}
}

func TestViewSubscribe_ReceivesLatest(t *testing.T) {
	lister := &gatedLister{started: make(chan int, 4), gates: map[int]chan struct{}{}}
	view := NewView(lister)
	sub := view.Subscribe()

	for page := 1; page <= 3; page++ {
		view.Apply(context.Background(), BuildQuery(Params{Page: page}, 12))
	}

	snap := <-sub
	if snap.Query.Page != 3 || snap.Generation != 3 {
		t.Fatalf("expected latest snapshot, got %+v", snap)
	}

	view.Close()
	if _, ok := <-sub; ok {
		t.Fatalf("expected subscription closed")
	}
	if _, applied := view.Apply(context.Background(), BuildQuery(Params{}, 12)); applied {
		t.Fatalf("closed view must not publish")
	}
}
