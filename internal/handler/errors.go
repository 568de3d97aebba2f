package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/promodesk/promodesk_api/internal/utils"
)

// respondError maps service errors onto the response envelope. Validation
// failures name the precondition that failed so the client can surface it
// inline.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrCampaignNotFound):
		utils.Error(c, 404, err.Error(), "Campaign not found")
	case errors.Is(err, utils.ErrVersionNotFound):
		utils.Error(c, 404, err.Error(), "Masterlist version not found")
	case errors.Is(err, utils.ErrRowNotFound):
		utils.Error(c, 404, err.Error(), "Row not found in current masterlist")
	case errors.Is(err, utils.ErrAttachmentNotFound):
		utils.Error(c, 404, err.Error(), "No trade letter stored for this campaign")
	case errors.Is(err, utils.ErrInvalidTransition):
		utils.Error(c, 409, err.Error(), "Transition not allowed from the current status for this role")
	case errors.Is(err, utils.ErrRemarksRequired):
		utils.Error(c, 400, err.Error(), "Returning a campaign requires remarks")
	case errors.Is(err, utils.ErrReasonRequired):
		utils.Error(c, 400, err.Error(), "A save reason is required")
	case errors.Is(err, utils.ErrProgramNameRequired):
		utils.Error(c, 400, err.Error(), "Program name is required")
	case errors.Is(err, utils.ErrInvalidCampaignType):
		utils.Error(c, 400, err.Error(), "Unknown campaign type")
	case errors.Is(err, utils.ErrInvalidRole):
		utils.Error(c, 400, err.Error(), "Unknown role")
	case errors.Is(err, utils.ErrNoMappedColumns):
		utils.Error(c, 400, err.Error(), "No recognizable columns in uploaded file")
	case errors.Is(err, utils.ErrForbidden):
		utils.Error(c, 403, err.Error(), "This role may not perform the operation")
	default:
		log.Error().Err(err).Msg("Unhandled service error")
		utils.Error(c, 500, "INTERNAL_ERROR", "Something went wrong")
	}
}
