package domain

import "fmt"

// RatePrice is the variant-resolved price pair for a service rate.
// Cost is the supplier cost, Sell the retail catalog price, Unit the
// human-readable quantity unit for quote line items.
type RatePrice struct {
	Cost float64
	Sell float64
	Unit string
}

// PriceFields resolves the price-unit family for the rate's service type.
// Hotel rates additionally depend on the requested occupancy. This is the
// only supported way to read cost/sell values off a ServiceRate; the variant
// fields themselves are storage detail.
func (r *ServiceRate) PriceFields(occupancy OccupancyType) (RatePrice, error) {
	switch r.ServiceType {
	case ServiceTypeHotel:
		if occupancy == OccupancySingle {
			return RatePrice{Cost: r.CostSingle, Sell: r.SellSingle, Unit: "per room/night"}, nil
		}
		return RatePrice{Cost: r.CostDouble, Sell: r.SellDouble, Unit: "per room/night"}, nil
	case ServiceTypeGuide, ServiceTypePorter:
		return RatePrice{Cost: r.CostPerDay, Sell: r.SellPerDay, Unit: "per day"}, nil
	case ServiceTypeFlight, ServiceTypePermit, ServiceTypePackage:
		return RatePrice{Cost: r.CostPrice, Sell: r.SellPrice, Unit: "per person"}, nil
	case ServiceTypeTransportation:
		return RatePrice{Cost: r.CostPrice, Sell: r.SellPrice, Unit: "per vehicle"}, nil
	case ServiceTypeHeliSharing:
		return RatePrice{Cost: r.CostPerSeat, Sell: r.SellPerSeat, Unit: "per seat"}, nil
	case ServiceTypeHeliCharter:
		return RatePrice{Cost: r.CostPerCharter, Sell: r.SellPerCharter, Unit: "per charter"}, nil
	case ServiceTypeMiscellaneous:
		return RatePrice{Cost: r.CostPrice, Sell: r.SellPrice, Unit: "per unit"}, nil
	default:
		return RatePrice{}, fmt.Errorf("unknown service type %q", r.ServiceType)
	}
}
