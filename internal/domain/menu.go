package domain

// Option is one priced choice attached to a product: a size variant or a
// toggleable extra.
type Option struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CategoryUnknown labels items whose source row carries no category.
const CategoryUnknown = "Uncategorized"

// MenuItem is the canonical product record produced by normalization.
// Items are immutable once built; a successful refresh replaces the whole
// snapshot, never individual fields.
type MenuItem struct {
	SKU         string   `json:"sku"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Available   bool     `json:"available"`
	Variants    []Option `json:"variants,omitempty"`
	Extras      []Option `json:"extras,omitempty"`
}

// Customizable reports whether the item offers any variant or extra and
// therefore goes through a customization session instead of a direct add.
func (m MenuItem) Customizable() bool {
	return len(m.Variants) > 0 || len(m.Extras) > 0
}
