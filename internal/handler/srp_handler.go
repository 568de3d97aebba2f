package handler

import (
	"bytes"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/promodesk/promodesk_api/internal/middleware"
	"github.com/promodesk/promodesk_api/internal/models"
	"github.com/promodesk/promodesk_api/internal/service"
	"github.com/promodesk/promodesk_api/internal/utils"
)

// SrpHandler exposes the SRP masterlist endpoints.
type SrpHandler struct {
	srpService *service.SrpService
}

// NewSrpHandler creates a new SrpHandler.
func NewSrpHandler(srpService *service.SrpService) *SrpHandler {
	return &SrpHandler{srpService: srpService}
}

// Current handles GET /v1/srp/current
func (h *SrpHandler) Current(c *gin.Context) {
	rows, err := h.srpService.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Current masterlist retrieved", rows)
}

// History handles GET /v1/srp/history
func (h *SrpHandler) History(c *gin.Context) {
	history, err := h.srpService.History(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Masterlist history retrieved", history)
}

// Preview handles POST /v1/srp/preview. It maps an uploaded CSV into
// canonical rows without committing anything.
func (h *SrpHandler) Preview(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Missing file upload")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	rows, err := h.srpService.ProposeUpload(f)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Upload mapped", gin.H{
		"rows":             rows,
		"originalFileName": fileHeader.Filename,
	})
}

// Commit handles POST /v1/srp/versions
func (h *SrpHandler) Commit(c *gin.Context) {
	var req struct {
		Rows             []models.SKUItem `json:"rows"`
		Reason           string           `json:"reason"`
		OriginalFileName string           `json:"originalFileName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	session := middleware.GetSession(c)
	version, err := h.srpService.Commit(c.Request.Context(), session, req.Rows, req.Reason, req.OriginalFileName)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Masterlist version saved", version)
}

// EditRow handles PUT /v1/srp/rows/:id
func (h *SrpHandler) EditRow(c *gin.Context) {
	var req struct {
		Row    models.SKUItem `json:"row"`
		Reason string         `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	session := middleware.GetSession(c)
	version, err := h.srpService.EditRow(c.Request.Context(), session, c.Param("id"), req.Row, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Row updated in new version", version)
}

// Export handles GET /v1/srp/export. It serializes the current masterlist;
// before the first commit this is a header-only file.
func (h *SrpHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.srpService.ExportCurrentCSV(c.Request.Context(), &buf); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="srp-masterlist.csv"`)
	c.Data(200, "text/csv; charset=utf-8", buf.Bytes())
}

// Download handles GET /v1/srp/versions/:version/download
func (h *SrpHandler) Download(c *gin.Context) {
	var uri struct {
		Version int `uri:"version" binding:"required"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Version must be a number")
		return
	}

	var buf bytes.Buffer
	version, err := h.srpService.DownloadCSV(c.Request.Context(), uri.Version, &buf)
	if err != nil {
		respondError(c, err)
		return
	}

	fileName := fmt.Sprintf("srp-masterlist-v%d.csv", version.Version)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, fileName))
	c.Data(200, "text/csv; charset=utf-8", buf.Bytes())
}
