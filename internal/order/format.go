package order

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"massimos/storefront/internal/config"
	"massimos/storefront/internal/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatPrice renders an amount in the store currency with locale digit
// grouping, e.g. €1,234.50.
func FormatPrice(amount float64) string {
	return printer.Sprintf("€%.2f", amount)
}

// Escape makes arbitrary text safe for embedding in markup.
func Escape(s string) string {
	return html.EscapeString(s)
}

// BuildMessage formats the human-readable pre-order handed to the
// messaging deep-link: header, one bullet per line with options and line
// total, per-line notes, grand total and the confirmation footer.
func BuildMessage(store config.StoreConfig, lines []domain.CartLine, total float64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🍕 *Nuevo Pedido - %s*\n", store.Name)
	fmt.Fprintf(&b, "📍 %s\n", store.Location)
	b.WriteString("---------------------------\n\n")
	b.WriteString("*PEDIDO:*\n")

	for _, line := range lines {
		fmt.Fprintf(&b, "• %dx %s — %s\n", line.Qty, line.DisplayName(), FormatPrice(line.LineTotal()))
		if notes := strings.TrimSpace(line.Notes); notes != "" {
			fmt.Fprintf(&b, "   ↳ Nota: %s\n", notes)
		}
	}

	fmt.Fprintf(&b, "\n*TOTAL: %s*\n", FormatPrice(total))
	b.WriteString("---------------------------\n\n")
	b.WriteString("💬 Por favor, confirma disponibilidad y tiempo de preparación.\n")
	fmt.Fprintf(&b, "🌐 Pedido realizado desde: %s", store.SiteURL)

	return b.String()
}

var nonDigits = regexp.MustCompile(`[^0-9]`)

// WhatsAppLink builds the wa.me deep link with the message percent-encoded.
// Fire-and-forget; there is no response contract.
func WhatsAppLink(number, msg string) string {
	return "https://wa.me/" + nonDigits.ReplaceAllString(number, "") + "?text=" + url.QueryEscape(msg)
}
