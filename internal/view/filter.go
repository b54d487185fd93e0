package view

import (
	"strings"
	"sync"

	"massimos/storefront/internal/domain"
)

// CategoryAll is the sentinel matching every category.
const CategoryAll = "all"

// FilterState drives the visible-item projection. Transient, never persisted.
type FilterState struct {
	Category string
	Query    string
}

// Filters holds the current FilterState behind a mutex. The input loop and
// the debounce timer goroutines both touch it, so every access goes through
// a method. Setters return the updated state for immediate rendering.
type Filters struct {
	mu    sync.Mutex
	state FilterState
}

func NewFilters() *Filters {
	return &Filters{state: FilterState{Category: CategoryAll}}
}

func (f *Filters) SetCategory(category string) FilterState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Category = category
	return f.state
}

func (f *Filters) SetQuery(query string) FilterState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Query = query
	return f.state
}

func (f *Filters) Snapshot() FilterState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Visible projects the item list through availability, category and
// case-insensitive free-text filters. Pure; recomputed on demand.
func Visible(items []domain.MenuItem, filters FilterState) []domain.MenuItem {
	query := strings.ToLower(strings.TrimSpace(filters.Query))

	visible := make([]domain.MenuItem, 0, len(items))
	for _, item := range items {
		if !item.Available {
			continue
		}
		if filters.Category != "" && filters.Category != CategoryAll && item.Category != filters.Category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(item.Name), query) &&
			!strings.Contains(strings.ToLower(item.Description), query) {
			continue
		}
		visible = append(visible, item)
	}
	return visible
}
