// Package sortmerge implements the bounded-memory external polyphase
// merge spec.md §5 describes for secondary-index bulk building: each key
// producer sorts its shard on its own goroutine, a supervisor tracks how
// many are still running under a mutex/condition-variable pair, and a
// container/heap-ordered k-way merge streams the combined, ordered
// output without holding any table-level lock. Grounded on
// _examples/original_source/storage/myisam/sort.cc (the
// threads_running/pthread_cond supervisor shape and the MIN_SORT_MEMORY
// floor). Stdlib concurrency primitives only — no pack example ships an
// external-merge-sort library, and the algorithm is a closed structural
// match for container/heap plus goroutines.
package sortmerge

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
)

// MinSortMemory is the hard floor spec.md §5 calls out: "falling below a
// floor (e.g., 4 KiB) is a hard error." Mirrors sort.cc's MIN_SORT_MEMORY.
const MinSortMemory = 4096

// Comparator orders two records for the merge; it is the per-index
// comparator spec.md §5 says the priority queue is ordered by.
type Comparator func(a, b []byte) int

// Run yields records in ascending order (per Comparator) from one
// producer's shard, whether held in memory or spilled to a temporary
// file under the caller's memory budget. Close must be safe to call
// multiple times and on every exit path, including after a partial Next
// error (§5: "scoped temporary files released on all exit paths, even
// on error").
type Run interface {
	Next() (rec []byte, ok bool, err error)
	Close() error
}

// Producer sorts one shard of input and hands back a Run. Implementations
// decide internally whether memoryBudget is enough to sort in memory or
// whether to spill to a temporary file; this package only enforces the
// MinSortMemory floor before any Producer runs.
type Producer interface {
	Produce(ctx context.Context, memoryBudget int) (Run, error)
}

// supervisor tracks how many producer goroutines are still running,
// mirroring sort_info->threads_running/mutex/cond in the original.
type supervisor struct {
	mu      sync.Mutex
	cond    *sync.Cond
	running int
}

func newSupervisor(n int) *supervisor {
	s := &supervisor{running: n}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *supervisor) done() {
	s.mu.Lock()
	s.running--
	if s.running == 0 {
		s.cond.Signal()
	}
	s.mu.Unlock()
}

func (s *supervisor) wait() {
	s.mu.Lock()
	for s.running > 0 {
		s.cond.Wait()
	}
	s.mu.Unlock()
}

// runProducers launches one goroutine per producer, each sorting its
// shard independently (§5: "Each key producer runs on its own thread").
// It blocks until every producer has returned (ctx is only passed on to
// Produce). If any producer failed, it closes every Run that was
// produced, so a partial failure never leaks a temp file, and returns
// only the first error; otherwise it returns every Run.
func runProducers(ctx context.Context, producers []Producer, memoryBudget int) ([]Run, error) {
	n := len(producers)
	runs := make([]Run, n)
	errs := make([]error, n)
	sup := newSupervisor(n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i, p := range producers {
		go func(i int, p Producer) {
			defer wg.Done()
			defer sup.done()
			run, err := p.Produce(ctx, memoryBudget)
			runs[i] = run
			errs[i] = err
		}(i, p)
	}
	sup.wait()
	wg.Wait()

	var firstErr error
	for _, err := range errs {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		for _, r := range runs {
			if r != nil {
				_ = r.Close()
			}
		}
		return nil, firstErr
	}
	return runs, nil
}

// heapEntry is one live Run's current head record, the unit
// container/heap orders (§5: "The merge step uses a priority queue
// ordered by the per-index comparator").
type heapEntry struct {
	run  Run
	head []byte
}

type runHeap struct {
	entries []*heapEntry
	cmp     Comparator
}

func (h *runHeap) Len() int { return len(h.entries) }
func (h *runHeap) Less(i, j int) bool {
	return h.cmp(h.entries[i].head, h.entries[j].head) < 0
}
func (h *runHeap) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }
func (h *runHeap) Push(x any)    { h.entries = append(h.entries, x.(*heapEntry)) }
func (h *runHeap) Pop() any {
	old := h.entries
	n := len(old)
	item := old[n-1]
	h.entries = old[:n-1]
	return item
}

// Merger streams the combined, ascending output of every producer's run.
// Close releases every underlying Run (and any temp file it holds) and
// is safe to call more than once or after Next has returned an error.
type Merger struct {
	h      *runHeap
	closed bool
}

// Merge sorts every producer's shard concurrently (one goroutine each)
// and returns a Merger that streams the k-way merged result in ascending
// order without ever materializing the whole combined set in memory.
// memoryBudget below MinSortMemory is a hard error before any producer
// runs, per §5.
func Merge(ctx context.Context, producers []Producer, cmp Comparator, memoryBudget int) (*Merger, error) {
	if memoryBudget < MinSortMemory {
		return nil, fmt.Errorf("sortmerge: memory budget %d below floor %d", memoryBudget, MinSortMemory)
	}
	if len(producers) == 0 {
		return &Merger{h: &runHeap{cmp: cmp}}, nil
	}

	runs, err := runProducers(ctx, producers, memoryBudget)
	if err != nil {
		return nil, err
	}

	h := &runHeap{cmp: cmp}
	for _, r := range runs {
		rec, ok, err := r.Next()
		if err != nil {
			// Close every run (including this one) before surfacing the
			// error — no exit path may leak a producer's temp file.
			_ = r.Close()
			for _, other := range runs {
				if other != r {
					_ = other.Close()
				}
			}
			return nil, err
		}
		if !ok {
			_ = r.Close()
			continue
		}
		h.entries = append(h.entries, &heapEntry{run: r, head: rec})
	}
	heap.Init(h)

	return &Merger{h: h}, nil
}

// Next returns the next record in ascending order across every run, or
// ok=false once every run is exhausted.
func (m *Merger) Next(ctx context.Context) (rec []byte, ok bool, err error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if m.h.Len() == 0 {
		return nil, false, nil
	}

	top := heap.Pop(m.h).(*heapEntry)
	out := top.head

	next, hasNext, err := top.run.Next()
	if err != nil {
		_ = top.run.Close()
		return nil, false, err
	}
	if hasNext {
		heap.Push(m.h, &heapEntry{run: top.run, head: next})
	} else {
		_ = top.run.Close()
	}
	return out, true, nil
}

// Close releases every run still held by the merger (the ones not yet
// exhausted by Next), on any exit path including an abandoned merge.
func (m *Merger) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	var firstErr error
	for _, e := range m.h.entries {
		if err := e.run.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.h.entries = nil
	return firstErr
}
