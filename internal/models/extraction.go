package models

// ExtractionResult carries the best-effort fields proposed from a scanned
// trade letter. Every field is optional; the values only seed a draft form
// and a human finalizes them.
type ExtractionResult struct {
	ProgramName       string             `json:"programName,omitempty"`
	BrandName         string             `json:"brandName,omitempty"`
	TradeLetterDate   string             `json:"tradeLetterDate,omitempty"`
	Distributor       string             `json:"distributor,omitempty"`
	PromotionDuration string             `json:"promotionDuration,omitempty"`
	StartDate         string             `json:"startDate,omitempty"`
	EndDate           string             `json:"endDate,omitempty"`
	Website           string             `json:"website,omitempty"`
	Remarks           string             `json:"remarks,omitempty"`
	Promotions        []ProductPromotion `json:"promotions,omitempty"`
	Approvers         []string           `json:"approvers,omitempty"`
}
