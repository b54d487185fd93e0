package client

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"massimos/storefront/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Spreadsheet columns arrive under English or Spanish headers depending on
// which sheet tab the store edits. Canonical key first, then known aliases.
var fieldAliases = map[string][]string{
	"sku":         {"sku", "id", "codigo", "código", "ref"},
	"name":        {"name", "nombre", "titulo", "título"},
	"description": {"description", "descripcion", "descripción", "desc"},
	"price":       {"price", "precio"},
	"category":    {"category", "categoria", "categoría"},
	"available":   {"available", "disponible"},
	"variants":    {"variants", "variantes", "tamanos", "tamaños"},
	"extras":      {"extras", "adicionales"},
}

type menuParser struct{}

func newMenuParser() *menuParser {
	return &menuParser{}
}

// Normalize maps raw spreadsheet records into canonical menu items. It is
// total: every record yields an item in the same position, and malformed
// fields fall back to defaults instead of failing the row.
func (p *menuParser) Normalize(records []map[string]any) []domain.MenuItem {
	items := make([]domain.MenuItem, 0, len(records))
	seen := make(map[string]int, len(records))

	for i, record := range records {
		item := p.normalizeRecord(record, i)
		item.SKU = uniqueSKU(item.SKU, seen)
		items = append(items, item)
	}

	return items
}

func (p *menuParser) normalizeRecord(record map[string]any, index int) domain.MenuItem {
	item := domain.MenuItem{
		Name:        stringField(record, "name"),
		Description: stringField(record, "description"),
		Price:       priceField(record, "price"),
		Category:    stringField(record, "category"),
		Available:   availableField(record),
		Variants:    optionsField(record, "variants"),
		Extras:      optionsField(record, "extras"),
	}

	if item.Category == "" {
		item.Category = domain.CategoryUnknown
	}

	item.SKU = stringField(record, "sku")
	if item.SKU == "" {
		item.SKU = synthesizeSKU(item.Name, index)
	}

	return item
}

func resolveField(record map[string]any, field string) (any, bool) {
	for _, key := range fieldAliases[field] {
		if value, ok := record[key]; ok {
			return value, true
		}
	}
	return nil, false
}

func stringField(record map[string]any, field string) string {
	value, ok := resolveField(record, field)
	if !ok {
		return ""
	}

	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// priceField coerces numbers and numeric strings; anything invalid or
// negative yields 0. Spanish sheets occasionally use a comma decimal.
func priceField(record map[string]any, field string) float64 {
	value, ok := resolveField(record, field)
	if !ok {
		return 0
	}
	return coercePrice(value)
}

func coercePrice(value any) float64 {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0
		}
		return v
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil || parsed < 0 {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// availableField defaults to true when the column is absent entirely. Only
// the encodings true, "true", 1 and "1" count as available.
func availableField(record map[string]any) bool {
	value, ok := resolveField(record, "available")
	if !ok {
		return true
	}

	switch v := value.(type) {
	case bool:
		return v
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "true" || s == "1"
	case float64:
		return v == 1
	default:
		return false
	}
}

// optionsField accepts the sub-field either already structured or as a
// JSON-encoded string. A decode failure yields an empty list, not an error.
func optionsField(record map[string]any, field string) []domain.Option {
	value, ok := resolveField(record, field)
	if !ok {
		return nil
	}

	switch v := value.(type) {
	case []any:
		return decodeOptions(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		var raw []map[string]any
		if err := json.Unmarshal([]byte(v), &raw); err != nil {
			log.Debugf("Discarding unparseable %s field: %v", field, err)
			return nil
		}
		entries := make([]any, len(raw))
		for i, entry := range raw {
			entries[i] = entry
		}
		return decodeOptions(entries)
	default:
		return nil
	}
}

func decodeOptions(entries []any) []domain.Option {
	options := make([]domain.Option, 0, len(entries))
	for _, entry := range entries {
		record, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		options = append(options, domain.Option{
			Name:  stringField(record, "name"),
			Price: priceField(record, "price"),
		})
	}
	if len(options) == 0 {
		return nil
	}
	return options
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// synthesizeSKU derives a stable identifier for rows without one.
func synthesizeSKU(name string, index int) string {
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		return fmt.Sprintf("item-%d", index+1)
	}
	return slug
}

// uniqueSKU enforces snapshot-wide uniqueness by suffixing duplicates.
func uniqueSKU(sku string, seen map[string]int) string {
	count := seen[sku]
	seen[sku] = count + 1
	if count == 0 {
		return sku
	}
	return fmt.Sprintf("%s-%d", sku, count+1)
}
