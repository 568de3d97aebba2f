package handler

import (
	"encoding/base64"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/promodesk/promodesk_api/internal/models"
	"github.com/promodesk/promodesk_api/internal/service"
	"github.com/promodesk/promodesk_api/internal/utils"
)

// ScanHandler exposes the trade letter extraction endpoint.
type ScanHandler struct {
	scanService *service.ScanService
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(scanService *service.ScanService) *ScanHandler {
	return &ScanHandler{scanService: scanService}
}

// ScanTradeLetter handles POST /v1/scan/trade-letter. The document arrives
// as a multipart upload or as base64 JSON. Extraction is best-effort: a
// failed extraction still returns 200 with an empty proposal and a warning,
// so the client can fall back to manual entry.
func (h *ScanHandler) ScanTradeLetter(c *gin.Context) {
	data, mimeType, fileName, ok := readScanDocument(c)
	if !ok {
		return
	}

	result, err := h.scanService.Extract(c.Request.Context(), data, mimeType)
	if err != nil {
		log.Warn().Err(err).Str("file", fileName).Msg("Trade letter extraction failed")
		utils.SuccessWithWarning(c, 200, "Extraction unavailable",
			"Could not read the document; please fill the form manually",
			&models.ExtractionResult{})
		return
	}

	utils.Success(c, 200, "Trade letter scanned", result)
}

// readScanDocument reads the document from a multipart "file" part, or from
// a JSON body with base64 data when the request is not multipart. On failure
// it writes the error response and returns ok=false.
func readScanDocument(c *gin.Context) (data []byte, mimeType, fileName string, ok bool) {
	contentType := c.GetHeader("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			utils.Error(c, 400, "INVALID_REQUEST", "Missing file upload")
			return nil, "", "", false
		}
		if fileHeader.Size > maxTradeLetterSize {
			utils.Error(c, 400, "FILE_TOO_LARGE", "Trade letter exceeds 10MB limit")
			return nil, "", "", false
		}

		f, err := fileHeader.Open()
		if err != nil {
			respondError(c, err)
			return nil, "", "", false
		}
		defer f.Close()

		data, err = io.ReadAll(f)
		if err != nil {
			respondError(c, err)
			return nil, "", "", false
		}
		return data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename, true
	}

	var req struct {
		FileName    string `json:"fileName"`
		ContentType string `json:"contentType" binding:"required"`
		Data        string `json:"data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return nil, "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Document data is not valid base64")
		return nil, "", "", false
	}
	if len(decoded) > maxTradeLetterSize {
		utils.Error(c, 400, "FILE_TOO_LARGE", "Trade letter exceeds 10MB limit")
		return nil, "", "", false
	}
	return decoded, req.ContentType, req.FileName, true
}
