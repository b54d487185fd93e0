package cart

import (
	"context"
	"sync"

	"massimos/storefront/internal/domain"
	"massimos/storefront/internal/notify"
	"massimos/storefront/internal/state"

	log "github.com/sirupsen/logrus"
)

// Engine owns the ordered cart lines. Operations never surface errors to
// callers: invalid addressing is a silent no-op and a failed persist
// degrades to in-memory state for the rest of the session.
//
// Lines are addressed either positionally or by SKU. SKU addressing is only
// unambiguous for uncustomized products; customized rows must be addressed
// by index.
type Engine struct {
	store    state.Store
	notifier notify.Notifier

	mu    sync.Mutex
	lines []domain.CartLine
}

func NewEngine(store state.Store, notifier notify.Notifier) *Engine {
	return &Engine{store: store, notifier: notifier}
}

// Load reads the persisted cart at cold start. An unreadable cart starts
// the session empty rather than failing.
func (e *Engine) Load(ctx context.Context) {
	lines, err := e.store.LoadCart(ctx)
	if err != nil {
		log.Warnf("⚠️ Failed to load cart, starting empty: %v", err)
		return
	}

	e.mu.Lock()
	e.lines = lines
	e.mu.Unlock()
}

// Reload unconditionally replaces in-memory state with the persisted cart.
// Called when another execution context writes the cart; last writer wins.
func (e *Engine) Reload(ctx context.Context) {
	lines, err := e.store.LoadCart(ctx)
	if err != nil {
		log.Warnf("⚠️ Failed to reload cart after external change: %v", err)
		return
	}

	e.mu.Lock()
	e.lines = lines
	e.mu.Unlock()
	log.Debug("Cart reloaded after external change")
}

// Add appends a line for the product, folding the option prices into the
// unit price. An existing line with the same SKU and a structurally equal
// option set is incremented instead.
func (e *Engine) Add(ctx context.Context, product domain.MenuItem, options []domain.Option) {
	unit := product.Price
	for _, option := range options {
		unit += option.Price
	}

	e.mu.Lock()
	merged := false
	for i := range e.lines {
		if e.lines[i].SKU == product.SKU && domain.OptionsEqual(e.lines[i].Options, options) {
			e.lines[i].Qty++
			merged = true
			break
		}
	}
	if !merged {
		e.lines = append(e.lines, domain.CartLine{
			SKU:      product.SKU,
			Name:     product.Name,
			Price:    unit,
			Qty:      1,
			Category: product.Category,
			Options:  append([]domain.Option(nil), options...),
		})
	}
	e.persistLocked(ctx)
	e.mu.Unlock()

	e.notifier.Notify("Añadido al carrito")
	e.notifier.Announce(product.Name + " añadido al carrito")
}

// UpdateQuantityAt sets the quantity of the line at index. A quantity of
// zero or less removes the line; the cart never stores qty <= 0.
func (e *Engine) UpdateQuantityAt(ctx context.Context, index, qty int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.lines) {
		return
	}
	if qty <= 0 {
		e.lines = append(e.lines[:index], e.lines[index+1:]...)
	} else {
		e.lines[index].Qty = qty
	}
	e.persistLocked(ctx)
}

// UpdateQuantityBySKU updates the first line with the SKU. A quantity of
// zero or less removes every line with the SKU.
func (e *Engine) UpdateQuantityBySKU(ctx context.Context, sku string, qty int) {
	if qty <= 0 {
		e.RemoveBySKU(ctx, sku)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.lines {
		if e.lines[i].SKU == sku {
			e.lines[i].Qty = qty
			e.persistLocked(ctx)
			return
		}
	}
}

// SetNotesAt replaces the notes of the line at index verbatim.
func (e *Engine) SetNotesAt(ctx context.Context, index int, notes string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.lines) {
		return
	}
	e.lines[index].Notes = notes
	e.persistLocked(ctx)
}

// SetNotesBySKU replaces the notes of the first line with the SKU.
func (e *Engine) SetNotesBySKU(ctx context.Context, sku, notes string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.lines {
		if e.lines[i].SKU == sku {
			e.lines[i].Notes = notes
			e.persistLocked(ctx)
			return
		}
	}
}

// RemoveAt deletes the line at index.
func (e *Engine) RemoveAt(ctx context.Context, index int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.lines) {
		return
	}
	e.lines = append(e.lines[:index], e.lines[index+1:]...)
	e.persistLocked(ctx)
}

// RemoveBySKU deletes every line with the SKU, customized or not.
func (e *Engine) RemoveBySKU(ctx context.Context, sku string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.lines[:0]
	for _, line := range e.lines {
		if line.SKU != sku {
			kept = append(kept, line)
		}
	}
	e.lines = kept
	e.persistLocked(ctx)
}

// Clear empties the cart.
func (e *Engine) Clear(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lines = nil
	e.persistLocked(ctx)
}

// Lines returns a copy of the current cart lines in order.
func (e *Engine) Lines() []domain.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.CartLine(nil), e.lines...)
}

// Len returns the number of lines.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lines)
}

// Count returns the summed quantity across lines, the cart badge number.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := 0
	for _, line := range e.lines {
		count += line.Qty
	}
	return count
}

// Total sums unit price times quantity over all lines. Option prices are
// already part of each line's unit price.
func (e *Engine) Total() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := 0.0
	for _, line := range e.lines {
		total += line.LineTotal()
	}
	return total
}

func (e *Engine) persistLocked(ctx context.Context) {
	if err := e.store.SaveCart(ctx, e.lines); err != nil {
		log.Warnf("⚠️ Cart save failed, continuing in memory: %v", err)
	}
}
