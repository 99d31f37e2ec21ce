// Package suggest turns cart changes into at most one recommendation
// fetch per settle point. Edits within the debounce window supersede the
// pending fetch; a late response for an old cart state is dropped.
package suggest

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/pemafoods/pdv/internal/catalog"
	"github.com/pemafoods/pdv/internal/history"
)

const DefaultDebounce = 500 * time.Millisecond

// Lookup resolves a suggested code against the catalog.
type Lookup interface {
	GetByCode(ctx context.Context, code string) (*catalog.Product, error)
}

// Resolved is a suggestion whose code matched an active catalog product.
type Resolved struct {
	Product    catalog.Product `json:"product"`
	Confidence float64         `json:"confidence"`
}

type Pipeline struct {
	rec      Recommender
	catalog  Lookup
	history  history.Store
	debounce time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	seq      uint64 // bumped on every cart change; fetches carry the seq they were issued for
	cancel   context.CancelFunc
	current  *Resolved
	fetching bool
}

func NewPipeline(rec Recommender, lookup Lookup, hist history.Store, debounce time.Duration) *Pipeline {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Pipeline{rec: rec, catalog: lookup, history: hist, debounce: debounce}
}

// CartChanged supersedes whatever fetch is pending or in flight. An empty
// cart clears the suggestion immediately and issues no fetch.
func (p *Pipeline) CartChanged(codes []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	if len(codes) == 0 {
		p.current = nil
		p.fetching = false
		return
	}

	p.fetching = true
	seq := p.seq
	snapshot := append([]string(nil), codes...)
	p.timer = time.AfterFunc(p.debounce, func() { p.fetch(seq, snapshot) })
}

func (p *Pipeline) fetch(seq uint64, codes []string) {
	p.mu.Lock()
	if seq != p.seq {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.mu.Unlock()

	res := p.resolve(ctx, codes)

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.seq {
		return // cart moved on while we were out; result is stale
	}
	p.current = res
	p.fetching = false
	p.cancel = nil
}

// resolve swallows every collaborator failure into "no suggestion".
func (p *Pipeline) resolve(ctx context.Context, codes []string) *Resolved {
	hist, err := p.history.Load(ctx)
	if err != nil {
		log.Printf("[suggest] history load failed: %v", err)
		hist = nil
	}
	s, err := p.rec.SuggestNext(ctx, codes, hist)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("[suggest] fetch failed: %v", err)
		}
		return nil
	}
	prod, err := p.catalog.GetByCode(ctx, s.ProductCode)
	if err != nil || !prod.Active {
		return nil // stale or inactive code from the model
	}
	return &Resolved{Product: *prod, Confidence: s.Confidence}
}

// Current returns the latest resolved suggestion, if any, and whether a
// fetch is pending or in flight.
func (p *Pipeline) Current() (*Resolved, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.fetching
}

func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}
