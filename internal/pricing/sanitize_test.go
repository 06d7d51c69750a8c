package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/pricing"
)

func sampleDocument() map[string]interface{} {
	return map[string]interface{}{
		"name":              "Everest Base Camp Lodge",
		"sellPrice":         120.0,
		"costPrice":         80.0,
		"costDouble":        95.0,
		"marginPercent":     20.0,
		"commissionPercent": 10.0,
		"creditLimit":       50000.0,
		"lineItems": []interface{}{
			map[string]interface{}{
				"serviceType": "hotel",
				"unitPrice":   240.0,
				"subtotal":    480.0,
				"costRate":    80.0,
				"quantity":    2.0,
			},
		},
		"meta": map[string]interface{}{
			"Cost_Breakdown": map[string]interface{}{"fuel": 10.0},
			"currency":       "USD",
		},
	}
}

func TestSanitize_RetailHidesCostAndMarginFamilies(t *testing.T) {
	out, ok := pricing.Sanitize(sampleDocument(), domain.ChannelRetail).(map[string]interface{})
	require.True(t, ok)

	assert.NotContains(t, out, "costPrice")
	assert.NotContains(t, out, "costDouble")
	assert.NotContains(t, out, "marginPercent")
	assert.NotContains(t, out, "commissionPercent")
	assert.NotContains(t, out, "creditLimit")

	// Retail keeps public sell fields.
	assert.Contains(t, out, "sellPrice")
	assert.Contains(t, out, "name")

	items, ok := out["lineItems"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.NotContains(t, item, "costRate")
	assert.Contains(t, item, "unitPrice")
	assert.Contains(t, item, "subtotal")
}

func TestSanitize_AgencyAlsoHidesRetailSellFields(t *testing.T) {
	out, ok := pricing.Sanitize(sampleDocument(), domain.ChannelAgency).(map[string]interface{})
	require.True(t, ok)

	assert.NotContains(t, out, "sellPrice")
	assert.NotContains(t, out, "costPrice")
	assert.Contains(t, out, "name")

	items := out["lineItems"].([]interface{})
	item := items[0].(map[string]interface{})
	assert.NotContains(t, item, "unitPrice")
	assert.NotContains(t, item, "subtotal")
	assert.NotContains(t, item, "costRate")
	assert.Contains(t, item, "quantity")
}

func TestSanitize_MatchingIsCaseInsensitiveAtAnyDepth(t *testing.T) {
	out := pricing.Sanitize(sampleDocument(), domain.ChannelRetail).(map[string]interface{})

	meta, ok := out["meta"].(map[string]interface{})
	require.True(t, ok)
	assert.NotContains(t, meta, "Cost_Breakdown")
	assert.Contains(t, meta, "currency")
}

func TestSanitize_InternalIsIdentity(t *testing.T) {
	doc := sampleDocument()
	out := pricing.Sanitize(doc, domain.ChannelInternal).(map[string]interface{})
	assert.Equal(t, doc, out)
	assert.Contains(t, out, "costPrice")
}

func TestSanitize_NeverMutatesInput(t *testing.T) {
	doc := sampleDocument()
	pricing.Sanitize(doc, domain.ChannelRetail)

	assert.Contains(t, doc, "costPrice")
	item := doc["lineItems"].([]interface{})[0].(map[string]interface{})
	assert.Contains(t, item, "costRate")
}

func TestSanitize_Idempotent(t *testing.T) {
	once := pricing.Sanitize(sampleDocument(), domain.ChannelAgency)
	twice := pricing.Sanitize(once, domain.ChannelAgency)
	assert.Equal(t, once, twice)
}

func TestSanitizeDocument_RoundTripsDTOs(t *testing.T) {
	cost := 80.0
	sell := 120.0
	quote := domain.QuoteDTO{
		LineItems: []domain.QuoteLineItemDTO{{
			ServiceType: domain.ServiceTypeHotel,
			Name:        "Namche Lodge",
			UnitRate:    120,
			Quantity:    4,
			Unit:        "per room per night",
			Subtotal:    480,
			CostRate:    &cost,
			SellRate:    &sell,
		}},
		NumberOfPax:    4,
		Channel:        domain.ChannelRetail,
		GrandTotal:     480,
		PerPersonTotal: 120,
		Currency:       "USD",
	}

	out, err := pricing.SanitizeDocument(quote, domain.ChannelRetail)
	require.NoError(t, err)

	doc, ok := out.(map[string]interface{})
	require.True(t, ok)
	items := doc["lineItems"].([]interface{})
	item := items[0].(map[string]interface{})
	assert.NotContains(t, item, "costRate")
	assert.Contains(t, item, "unitRate")

	// Internal documents come back untouched, original type included.
	same, err := pricing.SanitizeDocument(quote, domain.ChannelInternal)
	require.NoError(t, err)
	assert.Equal(t, quote, same)
}
