package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rekognitiontypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/rs/zerolog/log"

	"github.com/promodesk/promodesk_api/internal/config"
	"github.com/promodesk/promodesk_api/internal/models"
	"github.com/promodesk/promodesk_api/pkg/groq"
)

// chatCompleter is the slice of the Groq client the scan service needs.
type chatCompleter interface {
	ChatJSON(ctx context.Context, model, prompt string) (string, error)
	ChatVisionJSON(ctx context.Context, model, prompt, mimeType string, document []byte) (string, error)
}

// textDetector extracts plain text from an image.
type textDetector interface {
	DetectText(ctx context.Context, image []byte) (string, error)
}

// ScanService turns an uploaded trade letter into a best-effort field
// proposal. Images go through Rekognition text detection and a text parse;
// PDFs and anything else go straight to the vision model. Every returned
// field is optional and untrusted.
type ScanService struct {
	chat     chatCompleter
	detector textDetector
	cfg      *config.ScannerConfig
}

// NewScanService creates a scan service with real Groq and Rekognition
// clients.
func NewScanService(cfg *config.ScannerConfig) (*ScanService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.RekognitionRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &ScanService{
		chat:     groq.NewClient(cfg.GroqAPIKey),
		detector: &rekognitionDetector{client: rekognition.NewFromConfig(awsCfg)},
		cfg:      cfg,
	}, nil
}

// newScanServiceWith wires explicit collaborators, used by tests.
func newScanServiceWith(chat chatCompleter, detector textDetector, cfg *config.ScannerConfig) *ScanService {
	return &ScanService{chat: chat, detector: detector, cfg: cfg}
}

const extractionPrompt = `You are reading a trade letter announcing a promotional campaign.
Extract the fields below. Use null for anything not present in the document.
Dates must be yyyy-MM-dd. Prices are plain numbers without currency symbols.

{
  "programName": "promotion or program title",
  "brandName": "brand being promoted",
  "tradeLetterDate": "yyyy-MM-dd",
  "distributor": "distributor or partner name",
  "promotionDuration": "duration as written",
  "startDate": "yyyy-MM-dd",
  "endDate": "yyyy-MM-dd",
  "website": "website or platform mentioned",
  "remarks": "mechanics, terms, or other remarks",
  "promotions": [
    {"productName": "", "barcode": "", "srp": 0, "discountedPrice": 0, "discountValue": null, "discountPercentage": null}
  ],
  "approvers": ["names listed as approvers or signatories"]
}

Return ONLY valid JSON.`

// Extract proposes campaign fields from a document. The result is
// best-effort: numeric fields that fail coercion are absent, and discounts
// are derived only for promotions whose SRP is known.
func (s *ScanService) Extract(ctx context.Context, document []byte, mimeType string) (*models.ExtractionResult, error) {
	var (
		response string
		err      error
	)
	if strings.HasPrefix(mimeType, "image/") {
		response, err = s.extractFromImage(ctx, document, mimeType)
	} else {
		response, err = s.chat.ChatVisionJSON(ctx, s.cfg.GroqVisionModel, extractionPrompt, mimeType, document)
	}
	if err != nil {
		return nil, err
	}

	var raw rawExtraction
	if err := json.Unmarshal([]byte(response), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	return raw.toResult(), nil
}

// extractFromImage runs text detection first and parses the text; an image
// with no detectable text falls through to the vision model.
func (s *ScanService) extractFromImage(ctx context.Context, image []byte, mimeType string) (string, error) {
	text, err := s.detector.DetectText(ctx, image)
	if err != nil {
		log.Warn().Err(err).Msg("Text detection failed, falling back to vision model")
		return s.chat.ChatVisionJSON(ctx, s.cfg.GroqVisionModel, extractionPrompt, mimeType, image)
	}
	if strings.TrimSpace(text) == "" {
		return s.chat.ChatVisionJSON(ctx, s.cfg.GroqVisionModel, extractionPrompt, mimeType, image)
	}

	prompt := fmt.Sprintf("%s\n\n===TRADE LETTER TEXT===\n%s\n===END===", extractionPrompt, text)
	return s.chat.ChatJSON(ctx, s.cfg.GroqModel, prompt)
}

// rekognitionDetector adapts the Rekognition client to textDetector.
type rekognitionDetector struct {
	client *rekognition.Client
}

// DetectText joins detected lines top to bottom into one text block.
func (d *rekognitionDetector) DetectText(ctx context.Context, image []byte) (string, error) {
	out, err := d.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &rekognitiontypes.Image{Bytes: image},
	})
	if err != nil {
		return "", err
	}

	var lines []string
	for _, det := range out.TextDetections {
		if det.Type == rekognitiontypes.TextTypesLine && det.DetectedText != nil {
			lines = append(lines, *det.DetectedText)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// rawExtraction mirrors ExtractionResult with loosely typed numerics, since
// the model sometimes returns numbers as strings or with currency noise.
type rawExtraction struct {
	ProgramName       string         `json:"programName"`
	BrandName         string         `json:"brandName"`
	TradeLetterDate   string         `json:"tradeLetterDate"`
	Distributor       string         `json:"distributor"`
	PromotionDuration string         `json:"promotionDuration"`
	StartDate         string         `json:"startDate"`
	EndDate           string         `json:"endDate"`
	Website           string         `json:"website"`
	Remarks           string         `json:"remarks"`
	Promotions        []rawPromotion `json:"promotions"`
	Approvers         []string       `json:"approvers"`
}

type rawPromotion struct {
	ProductName        string      `json:"productName"`
	Barcode            interface{} `json:"barcode"`
	Srp                interface{} `json:"srp"`
	DiscountedPrice    interface{} `json:"discountedPrice"`
	DiscountValue      interface{} `json:"discountValue"`
	DiscountPercentage interface{} `json:"discountPercentage"`
}

func (r *rawExtraction) toResult() *models.ExtractionResult {
	result := &models.ExtractionResult{
		ProgramName:       r.ProgramName,
		BrandName:         r.BrandName,
		TradeLetterDate:   r.TradeLetterDate,
		Distributor:       r.Distributor,
		PromotionDuration: r.PromotionDuration,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		Website:           r.Website,
		Remarks:           r.Remarks,
		Approvers:         r.Approvers,
	}
	for _, rp := range r.Promotions {
		if strings.TrimSpace(rp.ProductName) == "" && coerceString(rp.Barcode) == "" {
			continue
		}
		p := models.ProductPromotion{
			ProductName:        rp.ProductName,
			Barcode:            coerceString(rp.Barcode),
			DiscountedPrice:    coerceFloat(rp.DiscountedPrice),
			DiscountValue:      coerceFloat(rp.DiscountValue),
			DiscountPercentage: coerceFloat(rp.DiscountPercentage),
		}
		// Derivation needs a known SRP; a price the model omitted or that
		// failed coercion leaves the discount fields as extracted.
		if srp := coerceFloat(rp.Srp); srp != nil && *srp >= 0 {
			p.SRP = *srp
			p.EnsureDiscounts()
		}
		result.Promotions = append(result.Promotions, p)
	}
	return result
}

// coerceFloat turns a loosely typed value into a number, or nil when it
// cannot be read as one.
func coerceFloat(v interface{}) *float64 {
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		return &n
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(n, ",", ""))
		cleaned = strings.TrimLeft(cleaned, "$₱Pp ")
		if cleaned == "" {
			return nil
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// coerceString renders a loosely typed value as a string. Whole numbers
// (barcodes the model returned as numerics) render without a decimal part.
func coerceString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}
