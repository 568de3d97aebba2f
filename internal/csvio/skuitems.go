// Package csvio reads and writes the CSV representations used by the SRP
// masterlist and the campaign export. Import is header-driven and
// order-independent: arbitrary column headers are matched against a
// case-insensitive, whitespace-trimmed alias table; unrecognized columns are
// ignored.
package csvio

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/promodesk/promodesk_api/internal/models"
)

// skuField binds one canonical masterlist column to its header label, its
// accepted import aliases, and the SKUItem field it maps to.
type skuField struct {
	label   string
	aliases []string
	get     func(*models.SKUItem) string
	set     func(*models.SKUItem, string)
}

// skuFields is the canonical column set, in export order.
var skuFields = []skuField{
	{"Platform", []string{"platform"},
		func(i *models.SKUItem) string { return i.Platform },
		func(i *models.SKUItem, v string) { i.Platform = v }},
	{"SKU", []string{"sku"},
		func(i *models.SKUItem) string { return i.SKU },
		func(i *models.SKUItem, v string) { i.SKU = v }},
	{"Product Name", []string{"product name", "productname"},
		func(i *models.SKUItem) string { return i.ProductName },
		func(i *models.SKUItem, v string) { i.ProductName = v }},
	{"Business Unit", []string{"business unit", "businessunit"},
		func(i *models.SKUItem) string { return i.BusinessUnit },
		func(i *models.SKUItem, v string) { i.BusinessUnit = v }},
	{"Brand", []string{"brand"},
		func(i *models.SKUItem) string { return i.Brand },
		func(i *models.SKUItem, v string) { i.Brand = v }},
	{"Sub-Brand", []string{"sub-brand", "sub brand", "subbrand"},
		func(i *models.SKUItem) string { return i.SubBrand },
		func(i *models.SKUItem, v string) { i.SubBrand = v }},
	{"Case Configuration", []string{"case configuration", "caseconfiguration"},
		func(i *models.SKUItem) string { return i.CaseConfiguration },
		func(i *models.SKUItem, v string) { i.CaseConfiguration = v }},
	{"Unit of Measure", []string{"unit of measure", "unitofmeasure", "uom"},
		func(i *models.SKUItem) string { return i.UnitOfMeasure },
		func(i *models.SKUItem, v string) { i.UnitOfMeasure = v }},
	{"SRP per Case (VATIN)", []string{"srp per case (vatin)", "srppercasevatin", "srp/case (vatin)"},
		func(i *models.SKUItem) string { return i.SrpPerCaseVatin },
		func(i *models.SKUItem, v string) { i.SrpPerCaseVatin = v }},
	{"SRP per Case (VATEX)", []string{"srp per case (vatex)", "srppercasevatex", "srp/case (vatex)"},
		func(i *models.SKUItem) string { return i.SrpPerCaseVatex },
		func(i *models.SKUItem, v string) { i.SrpPerCaseVatex = v }},
	{"SRP per Piece (VATIN)", []string{"srp per piece (vatin)", "srpperpiecevatin", "srp/pc (vatin)"},
		func(i *models.SKUItem) string { return i.SrpPerPieceVatin },
		func(i *models.SKUItem, v string) { i.SrpPerPieceVatin = v }},
	{"SRP per Piece (VATEX)", []string{"srp per piece (vatex)", "srpperpiecevatex", "srp/pc (vatex)"},
		func(i *models.SKUItem) string { return i.SrpPerPieceVatex },
		func(i *models.SKUItem, v string) { i.SrpPerPieceVatex = v }},
	{"Date Start", []string{"date start", "datestart", "start date"},
		func(i *models.SKUItem) string { return i.DateStart },
		func(i *models.SKUItem, v string) { i.DateStart = v }},
	{"Date End", []string{"date end", "dateend", "end date"},
		func(i *models.SKUItem) string { return i.DateEnd },
		func(i *models.SKUItem, v string) { i.DateEnd = v }},
	{"Time Start", []string{"time start", "timestart", "start time"},
		func(i *models.SKUItem) string { return i.TimeStart },
		func(i *models.SKUItem, v string) { i.TimeStart = v }},
	{"Time End", []string{"time end", "timeend", "end time"},
		func(i *models.SKUItem) string { return i.TimeEnd },
		func(i *models.SKUItem, v string) { i.TimeEnd = v }},
	{"Remarks", []string{"remarks if any", "remarks"},
		func(i *models.SKUItem) string { return i.Remarks },
		func(i *models.SKUItem, v string) { i.Remarks = v }},
	{"Lazada Shop SKU", []string{"lazada shop sku", "lazadashopsku"},
		func(i *models.SKUItem) string { return i.LazadaShopSku },
		func(i *models.SKUItem, v string) { i.LazadaShopSku = v }},
	{"Shopee Product ID", []string{"shopee product id", "shopeeproductid"},
		func(i *models.SKUItem) string { return i.ShopeeProductId },
		func(i *models.SKUItem, v string) { i.ShopeeProductId = v }},
	{"Shopee Variation ID", []string{"shopee variation id", "shopeevariationid"},
		func(i *models.SKUItem) string { return i.ShopeeVariationId },
		func(i *models.SKUItem, v string) { i.ShopeeVariationId = v }},
}

// aliasIndex maps every normalized alias (and canonical label) to its field.
var aliasIndex = func() map[string]int {
	m := make(map[string]int)
	for idx, f := range skuFields {
		m[normalizeHeader(f.label)] = idx
		for _, a := range f.aliases {
			m[normalizeHeader(a)] = idx
		}
	}
	return m
}()

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// ParseSKUItems reads header-driven CSV into SKU items. Recognized columns
// missing from the file leave the field empty on every row; when two raw
// headers normalize to the same canonical field, the later column in the row
// wins. Row identifiers are not assigned here. The second return value
// reports how many header columns were recognized.
func ParseSKUItems(r io.Reader) ([]models.SKUItem, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	// Column position -> field index, in file order.
	colField := make([]int, len(header))
	mapped := 0
	for col, raw := range header {
		if idx, ok := aliasIndex[normalizeHeader(raw)]; ok {
			colField[col] = idx
			mapped++
		} else {
			colField[col] = -1
		}
	}

	var items []models.SKUItem
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, mapped, err
		}
		if isEmptyRecord(record) {
			continue
		}
		var item models.SKUItem
		for col, value := range record {
			if col >= len(colField) || colField[col] < 0 {
				continue
			}
			skuFields[colField[col]].set(&item, value)
		}
		items = append(items, item)
	}
	return items, mapped, nil
}

// WriteSKUItems serializes items using the canonical column set and order.
func WriteSKUItems(w io.Writer, items []models.SKUItem) error {
	writer := csv.NewWriter(w)

	header := make([]string, len(skuFields))
	for i, f := range skuFields {
		header[i] = f.label
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	row := make([]string, len(skuFields))
	for i := range items {
		for j, f := range skuFields {
			row[j] = f.get(&items[i])
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func isEmptyRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
