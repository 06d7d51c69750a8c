package pricing

import (
	"encoding/json"
	"strings"

	"github.com/summittrails/pricing-api/internal/domain"
)

// visibilityPolicy says which field names a channel must never receive.
// Matching is case-insensitive; prefixes cover whole field families so a
// newly added costX column is hidden without touching this table.
type visibilityPolicy struct {
	hiddenPrefixes []string
	hiddenFields   map[string]struct{}
}

func fieldSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}

// The cost/margin family is hidden from every external channel. Agencies
// additionally lose the retail sell fields: they are quoted the wholesale
// rate computed for them and must never see the catalog sell price.
var channelPolicies = map[domain.Channel]*visibilityPolicy{
	domain.ChannelAgency: {
		hiddenPrefixes: []string{"cost", "margin"},
		hiddenFields: fieldSet(
			"totalCostPrice",
			"commissionPercent",
			"creditLimit",
			"sellPrice",
			"sellSingle",
			"sellDouble",
			"sellTriple",
			"sellExtraBed",
			"sellChildWithBed",
			"sellChildNoBed",
			"sellPerDay",
			"sellPerSeat",
			"sellPerCharter",
			"sellRate",
			"unitPrice",
			"subtotal",
			"priceTiers",
			"singleSupplement",
		),
	},
	domain.ChannelRetail: {
		hiddenPrefixes: []string{"cost", "margin"},
		hiddenFields: fieldSet(
			"totalCostPrice",
			"commissionPercent",
			"creditLimit",
		),
	},
}

func (p *visibilityPolicy) hides(field string) bool {
	lower := strings.ToLower(field)
	if _, ok := p.hiddenFields[lower]; ok {
		return true
	}
	for _, prefix := range p.hiddenPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// Sanitize strips channel-restricted fields from an arbitrarily nested
// map/slice structure. The internal channel sees everything; agency and
// retail results never contain a hidden key at any depth. The input is
// never mutated and the transform is idempotent.
func Sanitize(value interface{}, channel domain.Channel) interface{} {
	if channel == domain.ChannelInternal {
		return value
	}
	policy, ok := channelPolicies[channel]
	if !ok {
		return value
	}
	return sanitizeValue(value, policy)
}

func sanitizeValue(value interface{}, policy *visibilityPolicy) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, nested := range v {
			if policy.hides(key) {
				continue
			}
			out[key] = sanitizeValue(nested, policy)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = sanitizeValue(item, policy)
		}
		return out
	default:
		return v
	}
}

// SanitizeDocument applies the channel policy to any JSON-encodable value
// (typically a response DTO) by round-tripping it through its JSON shape.
// Internal-channel values are returned untouched.
func SanitizeDocument(value interface{}, channel domain.Channel) (interface{}, error) {
	if channel == domain.ChannelInternal {
		return value, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return Sanitize(generic, channel), nil
}
