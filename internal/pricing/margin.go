package pricing

import (
	"time"

	"github.com/summittrails/pricing-api/internal/domain"
)

// DefaultMarginPercent is the platform wholesale margin applied when an
// agency has no override of its own.
const DefaultMarginPercent = 20.0

// ResolveMarginPercent picks the wholesale margin for one service type out
// of an agency's overrides. Precedence is strictly by specificity: a
// service-specific override valid on the date beats a general override
// (nil service type) even when the general one is newer or longer-lived;
// the platform default applies only when neither matches. Overrides are
// considered in slice order within each specificity level, so callers
// control recency by how they order the list.
func ResolveMarginPercent(overrides []domain.MarginOverride, serviceType domain.ServiceType, date time.Time, defaultPercent float64) float64 {
	for i := range overrides {
		o := &overrides[i]
		if o.ServiceType != nil && *o.ServiceType == serviceType && o.ValidOn(date) {
			return o.MarginPercent
		}
	}
	for i := range overrides {
		o := &overrides[i]
		if o.ServiceType == nil && o.ValidOn(date) {
			return o.MarginPercent
		}
	}
	return defaultPercent
}

// MarginMultiplier resolves the multiplier applied to a supplier cost to
// derive the channel rate. Only the agency channel carries a wholesale
// margin; internal sees raw values and retail uses the catalog sell price
// as-is.
func MarginMultiplier(channel domain.Channel, overrides []domain.MarginOverride, serviceType domain.ServiceType, date time.Time, defaultPercent float64) float64 {
	if channel != domain.ChannelAgency {
		return 1.0
	}
	return 1 + ResolveMarginPercent(overrides, serviceType, date, defaultPercent)/100
}
