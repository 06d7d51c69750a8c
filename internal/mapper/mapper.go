package mapper

import (
	"time"

	"github.com/summittrails/pricing-api/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// ToServiceRateDTO converts ServiceRate to ServiceRateDTO
func ToServiceRateDTO(rate *domain.ServiceRate) domain.ServiceRateDTO {
	return domain.ServiceRateDTO{
		ID:          rate.ID,
		ServiceType: rate.ServiceType,
		Name:        rate.Name,
		SupplierRef: rate.SupplierRef,
		Currency:    rate.Currency,

		CostSingle:       rate.CostSingle,
		CostDouble:       rate.CostDouble,
		CostTriple:       rate.CostTriple,
		CostExtraBed:     rate.CostExtraBed,
		CostChildWithBed: rate.CostChildWithBed,
		CostChildNoBed:   rate.CostChildNoBed,
		SellSingle:       rate.SellSingle,
		SellDouble:       rate.SellDouble,
		SellTriple:       rate.SellTriple,
		SellExtraBed:     rate.SellExtraBed,
		SellChildWithBed: rate.SellChildWithBed,
		SellChildNoBed:   rate.SellChildNoBed,
		CostPerDay:       rate.CostPerDay,
		SellPerDay:       rate.SellPerDay,
		CostPrice:        rate.CostPrice,
		SellPrice:        rate.SellPrice,
		CostPerSeat:      rate.CostPerSeat,
		SellPerSeat:      rate.SellPerSeat,
		CostPerCharter:   rate.CostPerCharter,
		SellPerCharter:   rate.SellPerCharter,

		IsActive:  rate.IsActive,
		ValidFrom: formatTimePtr(rate.ValidFrom),
		ValidTo:   formatTimePtr(rate.ValidTo),
		CreatedAt: formatTime(rate.CreatedAt),
		UpdatedAt: formatTime(rate.UpdatedAt),
	}
}

// ToPricingRuleDTO converts PricingRule to PricingRuleDTO
func ToPricingRuleDTO(rule *domain.PricingRule) domain.PricingRuleDTO {
	return domain.PricingRuleDTO{
		ID:              rule.ID,
		Name:            rule.Name,
		RuleType:        rule.RuleType,
		ServiceType:     rule.ServiceType,
		AdjustmentType:  rule.AdjustmentType,
		AdjustmentValue: rule.AdjustmentValue,
		MinPrice:        rule.MinPrice,
		MaxPrice:        rule.MaxPrice,
		ValidFrom:       formatTimePtr(rule.ValidFrom),
		ValidTo:         formatTimePtr(rule.ValidTo),
		Priority:        rule.Priority,
		IsActive:        rule.IsActive,
		CreatedAt:       formatTime(rule.CreatedAt),
		UpdatedAt:       formatTime(rule.UpdatedAt),
	}
}

// ToAgencyDTO converts Agency to AgencyDTO
func ToAgencyDTO(agency *domain.Agency) domain.AgencyDTO {
	return domain.AgencyDTO{
		ID:                agency.ID,
		Name:              agency.Name,
		Code:              agency.Code,
		Email:             agency.Email,
		Phone:             agency.Phone,
		Country:           agency.Country,
		CommissionPercent: agency.CommissionPercent,
		CreditLimit:       agency.CreditLimit,
		IsActive:          agency.IsActive,
		CreatedAt:         formatTime(agency.CreatedAt),
		UpdatedAt:         formatTime(agency.UpdatedAt),
	}
}

// ToMarginOverrideDTO converts MarginOverride to MarginOverrideDTO
func ToMarginOverrideDTO(override *domain.MarginOverride) domain.MarginOverrideDTO {
	dto := domain.MarginOverrideDTO{
		ID:            override.ID,
		AgencyID:      override.AgencyID,
		ServiceType:   override.ServiceType,
		MarginPercent: override.MarginPercent,
		ValidFrom:     formatTimePtr(override.ValidFrom),
		ValidTo:       formatTimePtr(override.ValidTo),
		CreatedAt:     formatTime(override.CreatedAt),
	}
	if override.Agency != nil {
		dto.AgencyName = override.Agency.Name
	}
	return dto
}

// ToDemandMetricDTO converts DemandMetric to DemandMetricDTO
func ToDemandMetricDTO(metric *domain.DemandMetric) domain.DemandMetricDTO {
	return domain.DemandMetricDTO{
		Date:        metric.Date.Format("2006-01-02"),
		ServiceType: metric.ServiceType,
		DemandScore: metric.DemandScore,
		SearchCount: metric.SearchCount,
		QuoteCount:  metric.QuoteCount,
	}
}

// ToAuditLogDTO converts AuditLog to AuditLogDTO
func ToAuditLogDTO(entry *domain.AuditLog) domain.AuditLogDTO {
	return domain.AuditLogDTO{
		ID:         entry.ID,
		UserEmail:  entry.UserEmail,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Detail:     entry.Detail,
		RequestID:  entry.RequestID,
		CreatedAt:  formatTime(entry.CreatedAt),
	}
}
