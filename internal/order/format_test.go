package order

import (
	"net/url"
	"strings"
	"testing"

	"massimos/storefront/internal/config"
	"massimos/storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "€8.00", FormatPrice(8))
	assert.Equal(t, "€12.50", FormatPrice(12.5))
	assert.Equal(t, "€0.00", FormatPrice(0))
	assert.Equal(t, "€1,234.50", FormatPrice(1234.5))
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;pizza&lt;/b&gt;", Escape("<b>pizza</b>"))
	assert.Equal(t, "plain", Escape("plain"))
}

func storeFixture() config.StoreConfig {
	return config.StoreConfig{
		Name:     "Massimo's Pizza",
		Location: "Magaluf, Mallorca",
		WhatsApp: "+34 611 260 259",
		SiteURL:  "https://example.test/menu",
	}
}

func TestBuildMessage(t *testing.T) {
	lines := []domain.CartLine{
		{SKU: "margherita", Name: "Margherita", Price: 8, Qty: 2},
		{
			SKU:     "custom-pizza",
			Name:    "Custom Pizza",
			Price:   14,
			Qty:     1,
			Notes:   "extra crispy",
			Options: []domain.Option{{Name: "Large", Price: 3}, {Name: "Cheese", Price: 1}},
		},
	}

	msg := BuildMessage(storeFixture(), lines, 30)

	assert.Contains(t, msg, "Nuevo Pedido - Massimo's Pizza")
	assert.Contains(t, msg, "📍 Magaluf, Mallorca")
	assert.Contains(t, msg, "• 2x Margherita — €16.00")
	assert.Contains(t, msg, "• 1x Custom Pizza (Large, Cheese) — €14.00")
	assert.Contains(t, msg, "↳ Nota: extra crispy")
	assert.Contains(t, msg, "*TOTAL: €30.00*")
	assert.Contains(t, msg, "https://example.test/menu")

	// Notes only appear under their own line.
	assert.Equal(t, 1, strings.Count(msg, "↳ Nota:"))
}

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("+34 611-260-259", "hola pizza & co")

	assert.True(t, strings.HasPrefix(link, "https://wa.me/34611260259?text="), link)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "hola pizza & co", parsed.Query().Get("text"))
}
