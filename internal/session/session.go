package session

import (
	"context"
	"strings"
	"sync"

	"massimos/storefront/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Cart is the slice of the cart engine a session needs to commit.
type Cart interface {
	Add(ctx context.Context, product domain.MenuItem, options []domain.Option)
	SetNotesAt(ctx context.Context, index int, notes string)
	Len() int
}

// Session stages one line item's option set before it is committed: at most
// one chosen variant plus any subset of extras.
type Session struct {
	product domain.MenuItem
	variant *domain.Option
	extras  []domain.Option
}

func newSession(product domain.MenuItem) *Session {
	s := &Session{product: product}
	if len(product.Variants) > 0 {
		// First variant is the base/default selection.
		s.variant = &product.Variants[0]
	}
	return s
}

// Product returns the item being customized.
func (s *Session) Product() domain.MenuItem {
	return s.product
}

// Variant returns the currently selected variant, if any.
func (s *Session) Variant() *domain.Option {
	return s.variant
}

// Extras returns the selected extras in selection order.
func (s *Session) Extras() []domain.Option {
	return append([]domain.Option(nil), s.extras...)
}

// SelectVariant replaces the selected variant with the i-th one. Variants
// are mutually exclusive. Out-of-range indexes are ignored.
func (s *Session) SelectVariant(i int) {
	if i < 0 || i >= len(s.product.Variants) {
		return
	}
	s.variant = &s.product.Variants[i]
}

// ToggleExtra adds the extra, or removes it when already selected (matched
// by name). Any subset of extras is valid, including none.
func (s *Session) ToggleExtra(extra domain.Option) {
	for i, selected := range s.extras {
		if selected.Name == extra.Name {
			s.extras = append(s.extras[:i], s.extras[i+1:]...)
			return
		}
	}
	s.extras = append(s.extras, extra)
}

// RunningTotal is the base price plus the selected variant and extras.
func (s *Session) RunningTotal() float64 {
	total := s.product.Price
	if s.variant != nil {
		total += s.variant.Price
	}
	for _, extra := range s.extras {
		total += extra.Price
	}
	return total
}

// options builds the frozen option sequence for the cart line. A zero-priced
// variant is the base choice and is not recorded, so it cannot fragment
// otherwise-identical lines.
func (s *Session) options() []domain.Option {
	var options []domain.Option
	if s.variant != nil && s.variant.Price > 0 {
		options = append(options, *s.variant)
	}
	options = append(options, s.extras...)
	return options
}

// Manager enforces the single-active-session rule: beginning a new session
// discards any uncommitted one.
type Manager struct {
	mu     sync.Mutex
	active *Session
}

func NewManager() *Manager {
	return &Manager{}
}

// Begin starts a session for the product, discarding any prior session.
func (m *Manager) Begin(product domain.MenuItem) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		log.Debugf("Discarding uncommitted customization of %s", m.active.product.Name)
	}
	m.active = newSession(product)
	return m.active
}

// Active returns the current session, or nil when none is in progress.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Commit freezes the staged options into a new cart line, applies non-blank
// notes to the just-appended line, and discards the session. Without an
// active session it is a no-op.
func (m *Manager) Commit(ctx context.Context, cart Cart, notes string) {
	m.mu.Lock()
	s := m.active
	m.active = nil
	m.mu.Unlock()

	if s == nil {
		return
	}

	cart.Add(ctx, s.product, s.options())
	if strings.TrimSpace(notes) != "" {
		cart.SetNotesAt(ctx, cart.Len()-1, notes)
	}
}

// Cancel discards the session without touching the cart.
func (m *Manager) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = nil
}
