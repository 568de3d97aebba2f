package handler

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/promodesk/promodesk_api/internal/middleware"
	"github.com/promodesk/promodesk_api/internal/models"
	"github.com/promodesk/promodesk_api/internal/service"
	"github.com/promodesk/promodesk_api/internal/utils"
)

// maxTradeLetterSize caps uploaded trade letters at 10MB.
const maxTradeLetterSize = 10 * 1024 * 1024

// CampaignHandler exposes the campaign workflow endpoints.
type CampaignHandler struct {
	campaignService *service.CampaignService
}

// NewCampaignHandler creates a new CampaignHandler.
func NewCampaignHandler(campaignService *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// List handles GET /v1/campaigns
func (h *CampaignHandler) List(c *gin.Context) {
	session := middleware.GetSession(c)
	campaigns, err := h.campaignService.ListVisible(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Campaigns retrieved", campaigns)
}

// Get handles GET /v1/campaigns/:id
func (h *CampaignHandler) Get(c *gin.Context) {
	session := middleware.GetSession(c)
	campaign, err := h.campaignService.Get(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Campaign retrieved", campaign)
}

// Create handles POST /v1/campaigns
func (h *CampaignHandler) Create(c *gin.Context) {
	var input service.CampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	session := middleware.GetSession(c)
	campaign, err := h.campaignService.Create(c.Request.Context(), session, input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Campaign created", campaign)
}

// Update handles PUT /v1/campaigns/:id
func (h *CampaignHandler) Update(c *gin.Context) {
	var input service.CampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	session := middleware.GetSession(c)
	campaign, err := h.campaignService.Update(c.Request.Context(), session, c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Campaign updated", campaign)
}

// Delete handles DELETE /v1/campaigns/:id
func (h *CampaignHandler) Delete(c *gin.Context) {
	session := middleware.GetSession(c)
	if err := h.campaignService.Delete(c.Request.Context(), session, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Campaign deleted", nil)
}

// Transition handles POST /v1/campaigns/:id/transition
func (h *CampaignHandler) Transition(c *gin.Context) {
	var req struct {
		Status  models.CampaignStatus `json:"status" binding:"required"`
		Remarks string                `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	session := middleware.GetSession(c)
	campaign, err := h.campaignService.Transition(c.Request.Context(), session, c.Param("id"), req.Status, req.Remarks)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Campaign transitioned", campaign)
}

// BulkTransition handles POST /v1/campaigns/transitions
func (h *CampaignHandler) BulkTransition(c *gin.Context) {
	var req struct {
		IDs     []string              `json:"ids" binding:"required"`
		Status  models.CampaignStatus `json:"status" binding:"required"`
		Remarks string                `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	session := middleware.GetSession(c)
	result, err := h.campaignService.BulkTransition(c.Request.Context(), session, req.IDs, req.Status, req.Remarks)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Bulk transition applied", result)
}

// Export handles GET /v1/campaigns/export
func (h *CampaignHandler) Export(c *gin.Context) {
	session := middleware.GetSession(c)

	var buf bytes.Buffer
	if err := h.campaignService.ExportCSV(c.Request.Context(), session, &buf); err != nil {
		respondError(c, err)
		return
	}

	fileName := fmt.Sprintf("campaigns-%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, fileName))
	c.Data(200, "text/csv; charset=utf-8", buf.Bytes())
}

// UploadTradeLetter handles POST /v1/campaigns/:id/trade-letter
func (h *CampaignHandler) UploadTradeLetter(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Missing file upload")
		return
	}
	if fileHeader.Size > maxTradeLetterSize {
		utils.Error(c, 400, "FILE_TOO_LARGE", "Trade letter exceeds 10MB limit")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, err)
		return
	}

	session := middleware.GetSession(c)
	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.campaignService.AttachTradeLetter(c.Request.Context(), session, c.Param("id"), fileHeader.Filename, contentType, data); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Trade letter stored", gin.H{
		"campaignId": c.Param("id"),
		"fileName":   fileHeader.Filename,
	})
}

// DownloadTradeLetter handles GET /v1/campaigns/:id/trade-letter
func (h *CampaignHandler) DownloadTradeLetter(c *gin.Context) {
	session := middleware.GetSession(c)
	attachment, err := h.campaignService.TradeLetter(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, attachment.FileName))
	contentType := attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(200, contentType, attachment.Data)
}
