package csvio

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/promodesk/promodesk_api/internal/models"
)

var campaignExportHeader = []string{
	"Campaign ID",
	"Program Name",
	"Brand Name",
	"Campaign Type",
	"Start Date",
	"End Date",
	"Status",
	"Created By",
	"Approved By",
	"Product Name",
	"Barcode",
	"SRP",
	"Discounted Price",
	"Discount Value",
	"Discount %",
}

// WriteCampaigns exports campaigns one row per promotion line item. A
// campaign without promotions still exports one row, with N/A in the
// promotion columns. Dates render as MM/DD/YY.
func WriteCampaigns(w io.Writer, campaigns []models.Campaign) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(campaignExportHeader); err != nil {
		return err
	}

	for i := range campaigns {
		c := &campaigns[i]
		base := []string{
			c.ID,
			c.ProgramName,
			orNA(c.BrandName),
			string(c.CampaignType),
			shortDate(c.StartDate),
			shortDate(c.EndDate),
			string(c.Status),
			c.CreatedBy,
			orNA(c.ApprovedBy),
		}
		if len(c.Promotions) == 0 {
			row := append(append([]string{}, base...), "N/A", "N/A", "N/A", "N/A", "N/A", "N/A")
			if err := writer.Write(row); err != nil {
				return err
			}
			continue
		}
		for j := range c.Promotions {
			p := &c.Promotions[j]
			row := append(append([]string{}, base...),
				orNA(p.ProductName),
				orNA(p.Barcode),
				formatPrice(p.SRP),
				formatOptPrice(p.DiscountedPrice),
				formatOptPrice(p.DiscountValue),
				formatPercent(p.DiscountPercentage),
			)
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// shortDate renders a YYYY-MM-DD calendar date as MM/DD/YY. Values that do
// not parse pass through unchanged.
func shortDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("01/02/06")
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatOptPrice(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return formatPrice(*v)
}

func formatPercent(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64) + "%"
}
