package models

type CampaignStatus string
type CampaignType string

const (
	StatusDraft     CampaignStatus = "Draft"
	StatusSubmitted CampaignStatus = "Submitted"
	StatusValidated CampaignStatus = "Validated"
	StatusActive    CampaignStatus = "Active"
	StatusCompleted CampaignStatus = "Completed"
	StatusReturned  CampaignStatus = "Returned"
)

// CampaignStatuses lists every workflow status in display order.
var CampaignStatuses = []CampaignStatus{
	StatusDraft,
	StatusSubmitted,
	StatusValidated,
	StatusActive,
	StatusCompleted,
	StatusReturned,
}

const (
	TypeLazadaCampaign CampaignType = "Lazada Campaign"
	TypeShopeeCampaign CampaignType = "Shopee Campaign"
	TypeTiktokCampaign CampaignType = "Tiktok Campaign"
	TypeGWPFreebies    CampaignType = "GWP Freebies"
	TypeGWPSKUs        CampaignType = "GWP SKUs"
	TypeBundleDeals    CampaignType = "Bundle Deals"
	TypeFakePricing    CampaignType = "Fake Pricing"
	TypeVouchers       CampaignType = "Vouchers"
	TypeDirectCampaign CampaignType = "Direct Campaign"
)

// CampaignTypes is the fixed set of campaign types accepted on create/update.
var CampaignTypes = []CampaignType{
	TypeLazadaCampaign,
	TypeShopeeCampaign,
	TypeTiktokCampaign,
	TypeGWPFreebies,
	TypeGWPSKUs,
	TypeBundleDeals,
	TypeFakePricing,
	TypeVouchers,
	TypeDirectCampaign,
}

// ValidCampaignType reports whether t is one of the fixed campaign types.
func ValidCampaignType(t CampaignType) bool {
	for _, ct := range CampaignTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known workflow status.
func ValidStatus(s CampaignStatus) bool {
	for _, st := range CampaignStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// ProductPromotion is one promoted product line item inside a campaign.
// Ordering is meaningful for display only; items carry no identity of
// their own.
type ProductPromotion struct {
	Barcode            string   `json:"barcode"`
	ProductName        string   `json:"productName"`
	SRP                float64  `json:"srp"`
	DiscountedPrice    *float64 `json:"discountedPrice,omitempty"`
	DiscountValue      *float64 `json:"discountValue,omitempty"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
}

// EnsureDiscounts fills the derived discount fields when both SRP and the
// discounted price are known. Already-present values are never overwritten,
// which also makes the derivation idempotent.
func (p *ProductPromotion) EnsureDiscounts() {
	if p.DiscountedPrice == nil {
		return
	}
	if p.DiscountValue == nil {
		v := p.SRP - *p.DiscountedPrice
		p.DiscountValue = &v
	}
	if p.DiscountPercentage == nil {
		var pct float64
		if p.SRP > 0 {
			pct = (p.SRP - *p.DiscountedPrice) / p.SRP * 100
		}
		p.DiscountPercentage = &pct
	}
}

// Campaign is one promotional program tracked through the approval and
// operations workflow. Dates are calendar dates in YYYY-MM-DD form. The
// trade-letter attachment itself is stored separately and only referenced
// by campaign id; it never affects workflow logic.
type Campaign struct {
	ID           string         `json:"id"`
	ProgramName  string         `json:"programName"`
	BrandName    string         `json:"brandName,omitempty"`
	CampaignType CampaignType   `json:"campaignType"`
	StartDate    string         `json:"startDate"`
	EndDate      string         `json:"endDate"`
	Objectives   string         `json:"objectives"`
	Status       CampaignStatus `json:"status"`
	Remarks      string         `json:"remarks,omitempty"`
	CreatedBy    string         `json:"createdBy"`
	CreatedAt    string         `json:"createdAt"`
	ApprovedBy   string         `json:"approvedBy,omitempty"`
	DateApproved string         `json:"dateApproved,omitempty"`

	// Fields sourced from a scanned trade letter.
	TradeLetterDate   string             `json:"tradeLetterDate,omitempty"`
	Distributor       string             `json:"distributor,omitempty"`
	PromotionDuration string             `json:"promotionDuration,omitempty"`
	Website           string             `json:"website,omitempty"`
	ExtractedRemarks  string             `json:"extractedRemarks,omitempty"`
	Promotions        []ProductPromotion `json:"promotions,omitempty"`
	Approvers         []string           `json:"approvers,omitempty"`
}
