package domain

import "strings"

// CartLine is one cart entry. Price is the unit price snapshotted when the
// line was created and already includes the line's option prices; later
// catalog changes do not touch existing lines.
type CartLine struct {
	SKU      string   `json:"sku"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Qty      int      `json:"qty"`
	Notes    string   `json:"notes"`
	Category string   `json:"category"`
	Options  []Option `json:"options"`
}

// OptionsEqual reports whether two option sets are structurally identical:
// same members in the same order. Two additions of the same SKU merge into
// one line only when this holds.
func OptionsEqual(a, b []Option) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// DisplayName renders "name (opt1, opt2)" for customized lines.
func (l CartLine) DisplayName() string {
	if len(l.Options) == 0 {
		return l.Name
	}
	names := make([]string, len(l.Options))
	for i, o := range l.Options {
		names[i] = o.Name
	}
	return l.Name + " (" + strings.Join(names, ", ") + ")"
}

// LineTotal is the line's contribution to the cart total.
func (l CartLine) LineTotal() float64 {
	return l.Price * float64(l.Qty)
}
