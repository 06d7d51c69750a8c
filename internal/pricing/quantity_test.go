package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/pricing"
)

func intPtr(v int) *int { return &v }

func TestResolveQuantity(t *testing.T) {
	cases := []struct {
		name        string
		serviceType domain.ServiceType
		pax         int
		occupancy   domain.OccupancyType
		quantity    *int
		nights      *int
		expected    int
	}{
		{"hotel double occupancy rounds rooms up", domain.ServiceTypeHotel, 5, domain.OccupancyDouble, nil, intPtr(3), 9},
		{"hotel single occupancy one room each", domain.ServiceTypeHotel, 3, domain.OccupancySingle, nil, intPtr(2), 6},
		{"hotel defaults to one night", domain.ServiceTypeHotel, 4, domain.OccupancyDouble, nil, nil, 2},
		{"guide bills headcount by day", domain.ServiceTypeGuide, 8, domain.OccupancyDouble, intPtr(2), intPtr(5), 10},
		{"porter defaults to one per day", domain.ServiceTypePorter, 8, domain.OccupancyDouble, nil, intPtr(12), 12},
		{"vehicle bills per unit", domain.ServiceTypeTransportation, 10, domain.OccupancyDouble, intPtr(3), nil, 3},
		{"charter bills per aircraft", domain.ServiceTypeHeliCharter, 10, domain.OccupancyDouble, intPtr(2), intPtr(4), 2},
		{"flight bills per person", domain.ServiceTypeFlight, 6, domain.OccupancyDouble, intPtr(99), nil, 6},
		{"permit bills per person", domain.ServiceTypePermit, 6, domain.OccupancyDouble, nil, nil, 6},
		{"package bills per person", domain.ServiceTypePackage, 6, domain.OccupancyDouble, nil, nil, 6},
		{"heli seat bills per person", domain.ServiceTypeHeliSharing, 5, domain.OccupancyDouble, intPtr(1), nil, 5},
		{"miscellaneous falls back to quantity", domain.ServiceTypeMiscellaneous, 6, domain.OccupancyDouble, intPtr(4), nil, 4},
		{"zero quantity treated as one", domain.ServiceTypeMiscellaneous, 6, domain.OccupancyDouble, intPtr(0), nil, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := pricing.ResolveQuantity(tc.serviceType, tc.pax, tc.occupancy, tc.quantity, tc.nights)
			assert.Equal(t, tc.expected, got)
		})
	}
}
