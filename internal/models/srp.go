package models

// SKUItem is one row of the SRP masterlist. Every attribute except the row
// id is optional; values are carried verbatim from the uploaded CSV. Row ids
// are unique within one version snapshot only; a re-upload reassigns them.
type SKUItem struct {
	ID                string `json:"id"`
	Platform          string `json:"platform,omitempty"`
	SKU               string `json:"sku,omitempty"`
	ProductName       string `json:"productName,omitempty"`
	BusinessUnit      string `json:"businessUnit,omitempty"`
	Brand             string `json:"brand,omitempty"`
	SubBrand          string `json:"subBrand,omitempty"`
	CaseConfiguration string `json:"caseConfiguration,omitempty"`
	UnitOfMeasure     string `json:"unitOfMeasure,omitempty"`
	SrpPerCaseVatin   string `json:"srpPerCaseVatin,omitempty"`
	SrpPerCaseVatex   string `json:"srpPerCaseVatex,omitempty"`
	SrpPerPieceVatin  string `json:"srpPerPieceVatin,omitempty"`
	SrpPerPieceVatex  string `json:"srpPerPieceVatex,omitempty"`
	DateStart         string `json:"dateStart,omitempty"`
	DateEnd           string `json:"dateEnd,omitempty"`
	TimeStart         string `json:"timeStart,omitempty"`
	TimeEnd           string `json:"timeEnd,omitempty"`
	Remarks           string `json:"remarks,omitempty"`
	LazadaShopSku     string `json:"lazadaShopSku,omitempty"`
	ShopeeProductId   string `json:"shopeeProductId,omitempty"`
	ShopeeVariationId string `json:"shopeeVariationId,omitempty"`
}

// SrpVersion is one immutable snapshot of the full SKU item collection.
// Versions are never mutated or deleted once saved; the current masterlist
// is always the snapshot with the highest version number.
type SrpVersion struct {
	Version          int       `json:"version"`
	Timestamp        string    `json:"timestamp"`
	Reason           string    `json:"reason"`
	User             string    `json:"user"`
	Data             []SKUItem `json:"data"`
	OriginalFileName string    `json:"originalFileName,omitempty"`
}
