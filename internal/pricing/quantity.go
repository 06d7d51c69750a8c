package pricing

import (
	"math"

	"github.com/summittrails/pricing-api/internal/domain"
)

// ResolveQuantity turns a requested service into a billable quantity.
// Hotels bill rooms multiplied by nights, where the room count derives from
// the group size and occupancy; guides and porters bill headcount by day;
// vehicles and charters bill per unit; flights, permits, packages and
// helicopter seats bill per person.
func ResolveQuantity(serviceType domain.ServiceType, numberOfPax int, occupancy domain.OccupancyType, quantity, nights *int) int {
	qty := 1
	if quantity != nil && *quantity > 0 {
		qty = *quantity
	}
	days := 1
	if nights != nil && *nights > 0 {
		days = *nights
	}

	switch serviceType {
	case domain.ServiceTypeHotel:
		rooms := int(math.Ceil(float64(numberOfPax) / float64(occupancy.CapacityPerRoom())))
		return rooms * days
	case domain.ServiceTypeGuide, domain.ServiceTypePorter:
		return qty * days
	case domain.ServiceTypeTransportation, domain.ServiceTypeHeliCharter:
		return qty
	case domain.ServiceTypeFlight, domain.ServiceTypePermit, domain.ServiceTypePackage, domain.ServiceTypeHeliSharing:
		return numberOfPax
	default:
		return qty
	}
}
