// Package feed drives infinite-scroll lists: pages append to the
// accumulated items, and a generation counter discards responses that
// were superseded by a filter change before they resolved.
package feed

import (
	"math"
	"sync"

	"github.com/foodieshq/foodies-client/api"
)

// PageSize matches the backend's fixed page length.
const PageSize = 20

// Pager accumulates one filtered, paged list.
type Pager[T any] struct {
	mu         sync.Mutex
	items      []T
	page       int
	totalPages int
	generation uint64
	filters    api.ListFilters
}

func NewPager[T any]() *Pager[T] {
	return &Pager[T]{}
}

// SetFilters replaces the filter set, clears the accumulated items and
// starts a new generation, so in-flight responses for the old filters
// are dropped on arrival.
func (p *Pager[T]) SetFilters(searchKey, rating, prepTime, cookTime string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filters = api.ListFilters{
		SearchKey: searchKey,
		Rating:    rating,
		PrepTime:  prepTime,
		CookTime:  cookTime,
	}
	p.items = nil
	p.page = 0
	p.totalPages = 0
	p.generation++
}

// NextPage returns the request parameters for the next page and the
// generation the response must echo back to Apply. ok is false when
// every page has been fetched.
func (p *Pager[T]) NextPage() (gen uint64, filters api.ListFilters, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.page > 0 && p.page >= p.totalPages {
		return 0, api.ListFilters{}, false
	}
	filters = p.filters
	filters.Page = p.page + 1
	return p.generation, filters, true
}

// Apply records one resolved page. Page 1 replaces the list; later pages
// append. A response from a superseded generation is discarded and Apply
// reports false.
func (p *Pager[T]) Apply(gen uint64, page int, items []T, total int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		return false
	}
	if page == 1 {
		p.items = append([]T(nil), items...)
	} else {
		p.items = append(p.items, items...)
	}
	p.page = page
	p.totalPages = int(math.Ceil(float64(total) / float64(PageSize)))
	return true
}

// Items returns the accumulated list.
func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// Page reports the last applied page number.
func (p *Pager[T]) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// TotalPages reports ceil(total/PageSize) from the last applied response.
func (p *Pager[T]) TotalPages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalPages
}

// HasMore reports whether another page remains to fetch.
func (p *Pager[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page == 0 || p.page < p.totalPages
}
