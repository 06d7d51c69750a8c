package domain

import (
	"time"

	"github.com/google/uuid"
)

// ---- Pricing ----

// PricingContext carries the booking context that drives automatic rules
type PricingContext struct {
	PaxCount    int          `json:"paxCount" validate:"omitempty,min=1"`
	LoyaltyTier *LoyaltyTier `json:"loyaltyTier,omitempty" validate:"omitempty,oneof=bronze silver gold platinum"`
}

// SimulatePriceRequest asks for a price projection over a date range
type SimulatePriceRequest struct {
	ServiceType ServiceType    `json:"serviceType" validate:"required"`
	BasePrice   float64        `json:"basePrice" validate:"required,gt=0"`
	StartDate   string         `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string         `json:"endDate" validate:"required,datetime=2006-01-02"`
	Context     PricingContext `json:"context"`
	// AsOf fixes "now" for lead-time computation; defaults to the current time
	AsOf *time.Time `json:"asOf,omitempty"`
}

// AppliedRuleDTO is one entry of a rule evaluation trace
type AppliedRuleDTO struct {
	RuleName        string         `json:"ruleName"`
	RuleType        RuleType       `json:"ruleType"`
	AdjustmentType  AdjustmentType `json:"adjustmentType"`
	AdjustmentValue float64        `json:"adjustmentValue"`
	PriceAfterRule  float64        `json:"priceAfterRule"`
}

// SimulatedPriceDTO is the evaluation result for a single date
type SimulatedPriceDTO struct {
	Date         string           `json:"date"` // 2006-01-02
	BasePrice    float64          `json:"basePrice"`
	FinalPrice   float64          `json:"finalPrice"`
	AppliedRules []AppliedRuleDTO `json:"appliedRules"`
	DemandScore  *float64         `json:"demandScore,omitempty"`
}

// ---- Quotes ----

// QuoteServiceRequest selects one service to be priced into a quote
type QuoteServiceRequest struct {
	ServiceType ServiceType `json:"serviceType" validate:"required"`
	ServiceID   uuid.UUID   `json:"serviceId" validate:"required"`
	Quantity    *int        `json:"quantity,omitempty" validate:"omitempty,min=1"`
	Nights      *int        `json:"nights,omitempty" validate:"omitempty,min=1"`
	// Date enables date-based rule pricing for retail quotes
	Date *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// CalculateQuoteRequest aggregates services into a trip quote
type CalculateQuoteRequest struct {
	Services      []QuoteServiceRequest `json:"services" validate:"required,min=1,dive"`
	NumberOfPax   int                   `json:"numberOfPax" validate:"required,min=1"`
	OccupancyType OccupancyType         `json:"occupancyType,omitempty" validate:"omitempty,oneof=single double"`
}

// QuoteLineItemDTO is one priced, quantity-resolved service in a quote.
// CostRate and SellRate are internal-channel fields; the sanitizer strips
// them before the quote crosses an agency or retail boundary.
type QuoteLineItemDTO struct {
	ServiceType ServiceType `json:"serviceType"`
	ServiceID   uuid.UUID   `json:"serviceId"`
	Name        string      `json:"name"`
	UnitRate    float64     `json:"unitRate"`
	Quantity    int         `json:"quantity"`
	Unit        string      `json:"unit"`
	Subtotal    float64     `json:"subtotal"`
	CostRate    *float64    `json:"costRate,omitempty"`
	SellRate    *float64    `json:"sellRate,omitempty"`
}

// QuoteDTO is a complete trip quote
type QuoteDTO struct {
	LineItems      []QuoteLineItemDTO `json:"lineItems"`
	NumberOfPax    int                `json:"numberOfPax"`
	OccupancyType  OccupancyType      `json:"occupancyType"`
	Channel        Channel            `json:"channel"`
	GrandTotal     float64            `json:"grandTotal"`
	PerPersonTotal float64            `json:"perPersonTotal"`
	Currency       string             `json:"currency"`
	CreatedAt      string             `json:"createdAt"` // ISO 8601
}

// ---- Rate catalog ----

// CreateServiceRateRequest creates a catalog rate. The variant price fields
// relevant to ServiceType must be supplied; the rest stay zero.
type CreateServiceRateRequest struct {
	ServiceType ServiceType `json:"serviceType" validate:"required"`
	Name        string      `json:"name" validate:"required,max=200"`
	SupplierRef string      `json:"supplierRef,omitempty" validate:"omitempty,max=200"`
	Currency    string      `json:"currency,omitempty" validate:"omitempty,len=3"`

	CostSingle       float64 `json:"costSingle,omitempty" validate:"omitempty,gte=0"`
	CostDouble       float64 `json:"costDouble,omitempty" validate:"omitempty,gte=0"`
	CostTriple       float64 `json:"costTriple,omitempty" validate:"omitempty,gte=0"`
	CostExtraBed     float64 `json:"costExtraBed,omitempty" validate:"omitempty,gte=0"`
	CostChildWithBed float64 `json:"costChildWithBed,omitempty" validate:"omitempty,gte=0"`
	CostChildNoBed   float64 `json:"costChildNoBed,omitempty" validate:"omitempty,gte=0"`
	SellSingle       float64 `json:"sellSingle,omitempty" validate:"omitempty,gte=0"`
	SellDouble       float64 `json:"sellDouble,omitempty" validate:"omitempty,gte=0"`
	SellTriple       float64 `json:"sellTriple,omitempty" validate:"omitempty,gte=0"`
	SellExtraBed     float64 `json:"sellExtraBed,omitempty" validate:"omitempty,gte=0"`
	SellChildWithBed float64 `json:"sellChildWithBed,omitempty" validate:"omitempty,gte=0"`
	SellChildNoBed   float64 `json:"sellChildNoBed,omitempty" validate:"omitempty,gte=0"`
	CostPerDay       float64 `json:"costPerDay,omitempty" validate:"omitempty,gte=0"`
	SellPerDay       float64 `json:"sellPerDay,omitempty" validate:"omitempty,gte=0"`
	CostPrice        float64 `json:"costPrice,omitempty" validate:"omitempty,gte=0"`
	SellPrice        float64 `json:"sellPrice,omitempty" validate:"omitempty,gte=0"`
	CostPerSeat      float64 `json:"costPerSeat,omitempty" validate:"omitempty,gte=0"`
	SellPerSeat      float64 `json:"sellPerSeat,omitempty" validate:"omitempty,gte=0"`
	CostPerCharter   float64 `json:"costPerCharter,omitempty" validate:"omitempty,gte=0"`
	SellPerCharter   float64 `json:"sellPerCharter,omitempty" validate:"omitempty,gte=0"`

	ValidFrom *time.Time `json:"validFrom,omitempty"`
	ValidTo   *time.Time `json:"validTo,omitempty"`
}

// UpdateServiceRateRequest updates mutable fields of a catalog rate
type UpdateServiceRateRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	SupplierRef *string `json:"supplierRef,omitempty" validate:"omitempty,max=200"`
	Currency    *string `json:"currency,omitempty" validate:"omitempty,len=3"`

	CostSingle       *float64 `json:"costSingle,omitempty" validate:"omitempty,gte=0"`
	CostDouble       *float64 `json:"costDouble,omitempty" validate:"omitempty,gte=0"`
	CostTriple       *float64 `json:"costTriple,omitempty" validate:"omitempty,gte=0"`
	CostExtraBed     *float64 `json:"costExtraBed,omitempty" validate:"omitempty,gte=0"`
	CostChildWithBed *float64 `json:"costChildWithBed,omitempty" validate:"omitempty,gte=0"`
	CostChildNoBed   *float64 `json:"costChildNoBed,omitempty" validate:"omitempty,gte=0"`
	SellSingle       *float64 `json:"sellSingle,omitempty" validate:"omitempty,gte=0"`
	SellDouble       *float64 `json:"sellDouble,omitempty" validate:"omitempty,gte=0"`
	SellTriple       *float64 `json:"sellTriple,omitempty" validate:"omitempty,gte=0"`
	SellExtraBed     *float64 `json:"sellExtraBed,omitempty" validate:"omitempty,gte=0"`
	SellChildWithBed *float64 `json:"sellChildWithBed,omitempty" validate:"omitempty,gte=0"`
	SellChildNoBed   *float64 `json:"sellChildNoBed,omitempty" validate:"omitempty,gte=0"`
	CostPerDay       *float64 `json:"costPerDay,omitempty" validate:"omitempty,gte=0"`
	SellPerDay       *float64 `json:"sellPerDay,omitempty" validate:"omitempty,gte=0"`
	CostPrice        *float64 `json:"costPrice,omitempty" validate:"omitempty,gte=0"`
	SellPrice        *float64 `json:"sellPrice,omitempty" validate:"omitempty,gte=0"`
	CostPerSeat      *float64 `json:"costPerSeat,omitempty" validate:"omitempty,gte=0"`
	SellPerSeat      *float64 `json:"sellPerSeat,omitempty" validate:"omitempty,gte=0"`
	CostPerCharter   *float64 `json:"costPerCharter,omitempty" validate:"omitempty,gte=0"`
	SellPerCharter   *float64 `json:"sellPerCharter,omitempty" validate:"omitempty,gte=0"`

	IsActive  *bool      `json:"isActive,omitempty"`
	ValidFrom *time.Time `json:"validFrom,omitempty"`
	ValidTo   *time.Time `json:"validTo,omitempty"`
}

// ServiceRateDTO is the API shape of a catalog rate (internal channel)
type ServiceRateDTO struct {
	ID          uuid.UUID   `json:"id"`
	ServiceType ServiceType `json:"serviceType"`
	Name        string      `json:"name"`
	SupplierRef string      `json:"supplierRef,omitempty"`
	Currency    string      `json:"currency"`

	CostSingle       float64 `json:"costSingle,omitempty"`
	CostDouble       float64 `json:"costDouble,omitempty"`
	CostTriple       float64 `json:"costTriple,omitempty"`
	CostExtraBed     float64 `json:"costExtraBed,omitempty"`
	CostChildWithBed float64 `json:"costChildWithBed,omitempty"`
	CostChildNoBed   float64 `json:"costChildNoBed,omitempty"`
	SellSingle       float64 `json:"sellSingle,omitempty"`
	SellDouble       float64 `json:"sellDouble,omitempty"`
	SellTriple       float64 `json:"sellTriple,omitempty"`
	SellExtraBed     float64 `json:"sellExtraBed,omitempty"`
	SellChildWithBed float64 `json:"sellChildWithBed,omitempty"`
	SellChildNoBed   float64 `json:"sellChildNoBed,omitempty"`
	CostPerDay       float64 `json:"costPerDay,omitempty"`
	SellPerDay       float64 `json:"sellPerDay,omitempty"`
	CostPrice        float64 `json:"costPrice,omitempty"`
	SellPrice        float64 `json:"sellPrice,omitempty"`
	CostPerSeat      float64 `json:"costPerSeat,omitempty"`
	SellPerSeat      float64 `json:"sellPerSeat,omitempty"`
	CostPerCharter   float64 `json:"costPerCharter,omitempty"`
	SellPerCharter   float64 `json:"sellPerCharter,omitempty"`

	IsActive  bool    `json:"isActive"`
	ValidFrom *string `json:"validFrom,omitempty"` // ISO 8601
	ValidTo   *string `json:"validTo,omitempty"`   // ISO 8601
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// ---- Pricing rules ----

// CreatePricingRuleRequest creates a custom pricing rule
type CreatePricingRuleRequest struct {
	Name            string         `json:"name" validate:"required,max=200"`
	RuleType        RuleType       `json:"ruleType" validate:"required"`
	ServiceType     *ServiceType   `json:"serviceType,omitempty"`
	AdjustmentType  AdjustmentType `json:"adjustmentType" validate:"required,oneof=percentage fixed_amount"`
	AdjustmentValue float64        `json:"adjustmentValue" validate:"required"`
	MinPrice        *float64       `json:"minPrice,omitempty" validate:"omitempty,gte=0"`
	MaxPrice        *float64       `json:"maxPrice,omitempty" validate:"omitempty,gte=0"`
	ValidFrom       *time.Time     `json:"validFrom,omitempty"`
	ValidTo         *time.Time     `json:"validTo,omitempty"`
	Priority        int            `json:"priority,omitempty"`
}

// UpdatePricingRuleRequest updates mutable fields of a pricing rule
type UpdatePricingRuleRequest struct {
	Name            *string         `json:"name,omitempty" validate:"omitempty,max=200"`
	AdjustmentType  *AdjustmentType `json:"adjustmentType,omitempty" validate:"omitempty,oneof=percentage fixed_amount"`
	AdjustmentValue *float64        `json:"adjustmentValue,omitempty"`
	MinPrice        *float64        `json:"minPrice,omitempty" validate:"omitempty,gte=0"`
	MaxPrice        *float64        `json:"maxPrice,omitempty" validate:"omitempty,gte=0"`
	ValidFrom       *time.Time      `json:"validFrom,omitempty"`
	ValidTo         *time.Time      `json:"validTo,omitempty"`
	Priority        *int            `json:"priority,omitempty"`
	IsActive        *bool           `json:"isActive,omitempty"`
}

// PricingRuleDTO is the API shape of a pricing rule
type PricingRuleDTO struct {
	ID              uuid.UUID      `json:"id"`
	Name            string         `json:"name"`
	RuleType        RuleType       `json:"ruleType"`
	ServiceType     *ServiceType   `json:"serviceType,omitempty"`
	AdjustmentType  AdjustmentType `json:"adjustmentType"`
	AdjustmentValue float64        `json:"adjustmentValue"`
	MinPrice        *float64       `json:"minPrice,omitempty"`
	MaxPrice        *float64       `json:"maxPrice,omitempty"`
	ValidFrom       *string        `json:"validFrom,omitempty"`
	ValidTo         *string        `json:"validTo,omitempty"`
	Priority        int            `json:"priority"`
	IsActive        bool           `json:"isActive"`
	CreatedAt       string         `json:"createdAt"`
	UpdatedAt       string         `json:"updatedAt"`
}

// ---- Agencies & margin overrides ----

// CreateAgencyRequest registers a B2B agency
type CreateAgencyRequest struct {
	Name              string  `json:"name" validate:"required,max=200"`
	Code              string  `json:"code" validate:"required,max=50,alphanum"`
	Email             string  `json:"email" validate:"required,email"`
	Phone             string  `json:"phone,omitempty" validate:"omitempty,max=50"`
	Country           string  `json:"country,omitempty" validate:"omitempty,max=100"`
	CommissionPercent float64 `json:"commissionPercent,omitempty" validate:"omitempty,gte=0,lte=100"`
	CreditLimit       float64 `json:"creditLimit,omitempty" validate:"omitempty,gte=0"`
}

// UpdateAgencyRequest updates mutable agency fields
type UpdateAgencyRequest struct {
	Name              *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Email             *string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone             *string  `json:"phone,omitempty" validate:"omitempty,max=50"`
	Country           *string  `json:"country,omitempty" validate:"omitempty,max=100"`
	CommissionPercent *float64 `json:"commissionPercent,omitempty" validate:"omitempty,gte=0,lte=100"`
	CreditLimit       *float64 `json:"creditLimit,omitempty" validate:"omitempty,gte=0"`
	IsActive          *bool    `json:"isActive,omitempty"`
}

// AgencyDTO is the API shape of an agency (internal channel)
type AgencyDTO struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Code              string    `json:"code"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone,omitempty"`
	Country           string    `json:"country,omitempty"`
	CommissionPercent float64   `json:"commissionPercent"`
	CreditLimit       float64   `json:"creditLimit"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         string    `json:"createdAt"`
	UpdatedAt         string    `json:"updatedAt"`
}

// CreateMarginOverrideRequest sets a wholesale margin for an agency
type CreateMarginOverrideRequest struct {
	AgencyID      uuid.UUID    `json:"agencyId" validate:"required"`
	ServiceType   *ServiceType `json:"serviceType,omitempty"`
	MarginPercent float64      `json:"marginPercent" validate:"required,gte=0,lte=100"`
	ValidFrom     *time.Time   `json:"validFrom,omitempty"`
	ValidTo       *time.Time   `json:"validTo,omitempty"`
}

// MarginOverrideDTO is the API shape of a margin override
type MarginOverrideDTO struct {
	ID            uuid.UUID    `json:"id"`
	AgencyID      uuid.UUID    `json:"agencyId"`
	AgencyName    string       `json:"agencyName,omitempty"`
	ServiceType   *ServiceType `json:"serviceType,omitempty"`
	MarginPercent float64      `json:"marginPercent"`
	ValidFrom     *string      `json:"validFrom,omitempty"`
	ValidTo       *string      `json:"validTo,omitempty"`
	CreatedAt     string       `json:"createdAt"`
}

// ---- Demand ----

// DemandMetricDTO is the API shape of a demand metric
type DemandMetricDTO struct {
	Date        string       `json:"date"` // 2006-01-02
	ServiceType *ServiceType `json:"serviceType,omitempty"`
	DemandScore float64      `json:"demandScore"`
	SearchCount int          `json:"searchCount"`
	QuoteCount  int          `json:"quoteCount"`
}

// ---- Audit ----

// AuditLogDTO is the API shape of an audit entry
type AuditLogDTO struct {
	ID         uuid.UUID `json:"id"`
	UserEmail  string    `json:"userEmail,omitempty"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	RequestID  string    `json:"requestId,omitempty"`
	CreatedAt  string    `json:"createdAt"`
}

// ---- Shared wrappers ----

// PaginatedResponse wraps paginated list results
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// APIResponse wraps simple success payloads
type APIResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
}
