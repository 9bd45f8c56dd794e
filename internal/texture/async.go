package texture

import (
	"context"
	"image"
	"sync"
)

// Result is the outcome of one asynchronous load.
type Result struct {
	Gen uint64
	Ref string
	Img *image.NRGBA
	Err error
}

// Loader runs one image load at a time off the render loop. Starting a new
// load cancels the previous one, and results from superseded loads are
// discarded by Poll, so a slow load for an old card can never replace the
// current card's texture.
type Loader struct {
	resolver Resolver

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	results chan Result
}

// NewLoader wraps r.
func NewLoader(r Resolver) *Loader {
	return &Loader{resolver: r, results: make(chan Result, 8)}
}

// Load starts loading ref and returns the generation that identifies it.
func (l *Loader) Load(ref string) uint64 {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.mu.Unlock()

	go func() {
		img, err := l.resolver.Resolve(ctx, ref)
		res := Result{Gen: gen, Ref: ref, Img: img, Err: err}
		select {
		case l.results <- res:
		case <-ctx.Done():
		}
	}()
	return gen
}

// Cancel abandons the in-flight load, if any.
func (l *Loader) Cancel() {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
	l.mu.Unlock()
}

// Current returns the generation of the latest Load or Cancel.
func (l *Loader) Current() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

// Poll returns the result of the current load if it has finished. It never
// blocks. Stale results are dropped.
func (l *Loader) Poll() (Result, bool) {
	for {
		select {
		case res := <-l.results:
			if res.Gen == l.Current() {
				l.finish()
				return res, true
			}
		default:
			return Result{}, false
		}
	}
}

// Wait blocks until the current load finishes or ctx is done.
func (l *Loader) Wait(ctx context.Context) (Result, error) {
	for {
		select {
		case res := <-l.results:
			if res.Gen == l.Current() {
				l.finish()
				return res, nil
			}
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
}

func (l *Loader) finish() {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.mu.Unlock()
}
