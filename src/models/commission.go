package models

import "github.com/shopspring/decimal"

var (
	// PREAFeeRate is the regulatory levy deducted from gross commission
	PREAFeeRate = decimal.RequireFromString("0.03")
	// AgentShareRate is the agent's part of commission after the PREA fee
	AgentShareRate = decimal.RequireFromString("0.6")
	// AgencyShareRate is the agency's part of commission after the PREA fee
	AgencyShareRate = decimal.RequireFromString("0.4")
)

// CommissionBreakdown is the split of one payment amount
// All fields come from a single computation and are never set independently
type CommissionBreakdown struct {
	TotalCommission decimal.Decimal `json:"total_commission"`
	PREAFee         decimal.Decimal `json:"prea_fee"`
	AgentShare      decimal.Decimal `json:"agent_share"`
	AgencyShare     decimal.Decimal `json:"agency_share"`
	OwnerAmount     decimal.Decimal `json:"owner_amount"`
}

// Add returns the field-wise sum of two breakdowns
func (c CommissionBreakdown) Add(other CommissionBreakdown) CommissionBreakdown {
	return CommissionBreakdown{
		TotalCommission: c.TotalCommission.Add(other.TotalCommission),
		PREAFee:         c.PREAFee.Add(other.PREAFee),
		AgentShare:      c.AgentShare.Add(other.AgentShare),
		AgencyShare:     c.AgencyShare.Add(other.AgencyShare),
		OwnerAmount:     c.OwnerAmount.Add(other.OwnerAmount),
	}
}
