package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns a uuid so inserts work the same on every driver
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ServiceType classifies a bookable travel service
type ServiceType string

const (
	ServiceTypeHotel          ServiceType = "hotel"
	ServiceTypeTransportation ServiceType = "transportation"
	ServiceTypeGuide          ServiceType = "guide"
	ServiceTypePorter         ServiceType = "porter"
	ServiceTypeFlight         ServiceType = "flight"
	ServiceTypeHeliSharing    ServiceType = "helicopter_sharing"
	ServiceTypeHeliCharter    ServiceType = "helicopter_charter"
	ServiceTypePermit         ServiceType = "permit"
	ServiceTypePackage        ServiceType = "package"
	ServiceTypeMiscellaneous  ServiceType = "miscellaneous"
)

// AllServiceTypes lists every valid service type
var AllServiceTypes = []ServiceType{
	ServiceTypeHotel,
	ServiceTypeTransportation,
	ServiceTypeGuide,
	ServiceTypePorter,
	ServiceTypeFlight,
	ServiceTypeHeliSharing,
	ServiceTypeHeliCharter,
	ServiceTypePermit,
	ServiceTypePackage,
	ServiceTypeMiscellaneous,
}

// IsValid checks if the service type is a known value
func (s ServiceType) IsValid() bool {
	for _, t := range AllServiceTypes {
		if s == t {
			return true
		}
	}
	return false
}

// Channel represents the viewing context of a price
type Channel string

const (
	ChannelInternal Channel = "internal"
	ChannelAgency   Channel = "agency"
	ChannelRetail   Channel = "retail"
)

// IsValid checks if the channel is a known value
func (c Channel) IsValid() bool {
	switch c {
	case ChannelInternal, ChannelAgency, ChannelRetail:
		return true
	}
	return false
}

// OccupancyType represents hotel room occupancy
type OccupancyType string

const (
	OccupancySingle OccupancyType = "single"
	OccupancyDouble OccupancyType = "double"
)

// CapacityPerRoom returns how many guests share one room
func (o OccupancyType) CapacityPerRoom() int {
	if o == OccupancySingle {
		return 1
	}
	return 2
}

// LoyaltyTier represents the loyalty program level of a client
type LoyaltyTier string

const (
	LoyaltyTierBronze   LoyaltyTier = "bronze"
	LoyaltyTierSilver   LoyaltyTier = "silver"
	LoyaltyTierGold     LoyaltyTier = "gold"
	LoyaltyTierPlatinum LoyaltyTier = "platinum"
)

// RuleType classifies a pricing rule
type RuleType string

const (
	RuleTypeSeasonal    RuleType = "seasonal"
	RuleTypeDemand      RuleType = "demand"
	RuleTypeEarlyBird   RuleType = "early_bird"
	RuleTypeLastMinute  RuleType = "last_minute"
	RuleTypeGroup       RuleType = "group"
	RuleTypeLoyalty     RuleType = "loyalty"
	RuleTypePromotional RuleType = "promotional"
	RuleTypeWeekend     RuleType = "weekend"
	RuleTypePeakDay     RuleType = "peak_day"
)

// IsValid checks if the rule type is a known value
func (r RuleType) IsValid() bool {
	switch r {
	case RuleTypeSeasonal, RuleTypeDemand, RuleTypeEarlyBird, RuleTypeLastMinute,
		RuleTypeGroup, RuleTypeLoyalty, RuleTypePromotional, RuleTypeWeekend, RuleTypePeakDay:
		return true
	}
	return false
}

// AdjustmentType describes how a rule modifies the running price
type AdjustmentType string

const (
	AdjustmentPercentage  AdjustmentType = "percentage"
	AdjustmentFixedAmount AdjustmentType = "fixed_amount"
)

// IsValid checks if the adjustment type is a known value
func (a AdjustmentType) IsValid() bool {
	return a == AdjustmentPercentage || a == AdjustmentFixedAmount
}

// ServiceRate is a catalog record holding cost and sell prices for one
// service. Each service type populates exactly one price-unit family;
// callers go through PriceFields and never read variant fields directly.
type ServiceRate struct {
	BaseModel
	ServiceType ServiceType `gorm:"type:varchar(50);not null;index;column:service_type"`
	Name        string      `gorm:"type:varchar(200);not null;index"`
	SupplierRef string      `gorm:"type:varchar(200);column:supplier_ref"`
	Currency    string      `gorm:"type:varchar(3);not null;default:'USD'"`

	// hotel (per room per night, by occupancy)
	CostSingle       float64 `gorm:"column:cost_single"`
	CostDouble       float64 `gorm:"column:cost_double"`
	CostTriple       float64 `gorm:"column:cost_triple"`
	CostExtraBed     float64 `gorm:"column:cost_extra_bed"`
	CostChildWithBed float64 `gorm:"column:cost_child_with_bed"`
	CostChildNoBed   float64 `gorm:"column:cost_child_no_bed"`
	SellSingle       float64 `gorm:"column:sell_single"`
	SellDouble       float64 `gorm:"column:sell_double"`
	SellTriple       float64 `gorm:"column:sell_triple"`
	SellExtraBed     float64 `gorm:"column:sell_extra_bed"`
	SellChildWithBed float64 `gorm:"column:sell_child_with_bed"`
	SellChildNoBed   float64 `gorm:"column:sell_child_no_bed"`

	// guide, porter (per day)
	CostPerDay float64 `gorm:"column:cost_per_day"`
	SellPerDay float64 `gorm:"column:sell_per_day"`

	// flight, permit, package, transportation, miscellaneous (flat)
	CostPrice float64 `gorm:"column:cost_price"`
	SellPrice float64 `gorm:"column:sell_price"`

	// helicopter_sharing (per seat)
	CostPerSeat float64 `gorm:"column:cost_per_seat"`
	SellPerSeat float64 `gorm:"column:sell_per_seat"`

	// helicopter_charter (whole aircraft)
	CostPerCharter float64 `gorm:"column:cost_per_charter"`
	SellPerCharter float64 `gorm:"column:sell_per_charter"`

	IsActive  bool       `gorm:"not null;default:true;column:is_active;index"`
	ValidFrom *time.Time `gorm:"column:valid_from"`
	ValidTo   *time.Time `gorm:"column:valid_to"`
}

// ValidOn reports whether the rate's validity window covers the given date.
// A missing bound is unbounded on that side.
func (r *ServiceRate) ValidOn(date time.Time) bool {
	if r.ValidFrom != nil && date.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidTo != nil && date.After(*r.ValidTo) {
		return false
	}
	return true
}

// PricingRule adjusts a running price when its conditions match.
// All matching rules stack in priority order; none is exclusive.
type PricingRule struct {
	BaseModel
	Name            string         `gorm:"type:varchar(200);not null"`
	RuleType        RuleType       `gorm:"type:varchar(50);not null;column:rule_type;index"`
	ServiceType     *ServiceType   `gorm:"type:varchar(50);column:service_type;index"` // nil = all service types
	AdjustmentType  AdjustmentType `gorm:"type:varchar(50);not null;column:adjustment_type"`
	AdjustmentValue float64        `gorm:"not null;column:adjustment_value"`
	MinPrice        *float64       `gorm:"column:min_price"`
	MaxPrice        *float64       `gorm:"column:max_price"`
	ValidFrom       *time.Time     `gorm:"column:valid_from"`
	ValidTo         *time.Time     `gorm:"column:valid_to"`
	Priority        int            `gorm:"not null;default:0;index"`
	IsActive        bool           `gorm:"not null;default:true;column:is_active;index"`
}

// ValidOn reports whether the rule's validity window covers the given date
func (r *PricingRule) ValidOn(date time.Time) bool {
	if r.ValidFrom != nil && date.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidTo != nil && date.After(*r.ValidTo) {
		return false
	}
	return true
}

// AppliesTo reports whether the rule targets the given service type.
// A nil ServiceType is a wildcard.
func (r *PricingRule) AppliesTo(serviceType ServiceType) bool {
	return r.ServiceType == nil || *r.ServiceType == serviceType
}

// DemandMetric is an aggregated activity score for one date and service type
type DemandMetric struct {
	BaseModel
	Date        time.Time    `gorm:"type:date;not null;index:idx_demand_date_type"`
	ServiceType *ServiceType `gorm:"type:varchar(50);column:service_type;index:idx_demand_date_type"` // nil = all service types
	DemandScore float64      `gorm:"not null;column:demand_score"`                                    // 0..100
	SearchCount int          `gorm:"not null;default:0;column:search_count"`
	QuoteCount  int          `gorm:"not null;default:0;column:quote_count"`
}

// UsageCounter is a fire-and-forget activity counter folded into demand
// metrics by a background job. It never participates in price computation.
type UsageCounter struct {
	BaseModel
	Date        time.Time    `gorm:"type:date;not null;index"`
	ServiceType *ServiceType `gorm:"type:varchar(50);column:service_type"`
	Kind        string       `gorm:"type:varchar(50);not null"` // "search", "quote"
	Count       int          `gorm:"not null;default:1"`
}

// Agency is a B2B partner buying at wholesale rates
type Agency struct {
	BaseModel
	Name              string  `gorm:"type:varchar(200);not null;index"`
	Code              string  `gorm:"type:varchar(50);uniqueIndex"`
	Email             string  `gorm:"type:varchar(255);not null"`
	Phone             string  `gorm:"type:varchar(50)"`
	Country           string  `gorm:"type:varchar(100)"`
	CommissionPercent float64 `gorm:"column:commission_percent"`
	CreditLimit       float64 `gorm:"column:credit_limit"`
	IsActive          bool    `gorm:"not null;default:true;column:is_active"`

	MarginOverrides []MarginOverride `gorm:"foreignKey:AgencyID;constraint:OnDelete:CASCADE"`
}

// MarginOverride customizes the wholesale margin for one agency, either for
// a single service type or generally (nil ServiceType).
type MarginOverride struct {
	BaseModel
	AgencyID      uuid.UUID    `gorm:"type:uuid;not null;column:agency_id;index"`
	Agency        *Agency      `gorm:"foreignKey:AgencyID"`
	ServiceType   *ServiceType `gorm:"type:varchar(50);column:service_type;index"` // nil = general override
	MarginPercent float64      `gorm:"not null;column:margin_percent"`
	ValidFrom     *time.Time   `gorm:"column:valid_from"`
	ValidTo       *time.Time   `gorm:"column:valid_to"`
}

// ValidOn reports whether the override covers the given date
func (m *MarginOverride) ValidOn(date time.Time) bool {
	if m.ValidFrom != nil && date.Before(*m.ValidFrom) {
		return false
	}
	if m.ValidTo != nil && date.After(*m.ValidTo) {
		return false
	}
	return true
}

// UserRoleType represents platform roles
type UserRoleType string

const (
	RoleAdmin      UserRoleType = "admin"
	RoleStaff      UserRoleType = "staff"
	RoleAgencyUser UserRoleType = "agency_user"
)

// User is a platform account. Agency users carry an AgencyID and are priced
// on the agency channel; staff see internal prices.
type User struct {
	BaseModel
	Email       string       `gorm:"type:varchar(255);not null;uniqueIndex"`
	DisplayName string       `gorm:"type:varchar(200);not null;column:display_name"`
	Role        UserRoleType `gorm:"type:varchar(50);not null;default:'staff'"`
	AgencyID    *uuid.UUID   `gorm:"type:uuid;column:agency_id;index"`
	Agency      *Agency      `gorm:"foreignKey:AgencyID"`
	IsActive    bool         `gorm:"not null;default:true;column:is_active"`
}

// AuditLog records a mutating admin action
type AuditLog struct {
	BaseModel
	UserID     *uuid.UUID `gorm:"type:uuid;column:user_id;index"`
	UserEmail  string     `gorm:"type:varchar(255);column:user_email"`
	Action     string     `gorm:"type:varchar(50);not null"` // create, update, delete
	EntityType string     `gorm:"type:varchar(100);not null;column:entity_type;index"`
	EntityID   string     `gorm:"type:varchar(100);column:entity_id;index"`
	Detail     string     `gorm:"type:text"`
	RequestID  string     `gorm:"type:varchar(100);column:request_id"`
}
