package utils

import "errors"

// Common application errors used across services.
var (
	ErrCampaignNotFound    = errors.New("CAMPAIGN_NOT_FOUND")
	ErrVersionNotFound     = errors.New("VERSION_NOT_FOUND")
	ErrRowNotFound         = errors.New("ROW_NOT_FOUND")
	ErrInvalidTransition   = errors.New("INVALID_TRANSITION")
	ErrRemarksRequired     = errors.New("REMARKS_REQUIRED")
	ErrReasonRequired      = errors.New("REASON_REQUIRED")
	ErrProgramNameRequired = errors.New("PROGRAM_NAME_REQUIRED")
	ErrForbidden           = errors.New("FORBIDDEN")
	ErrInvalidRole         = errors.New("INVALID_ROLE")
	ErrInvalidCampaignType = errors.New("INVALID_CAMPAIGN_TYPE")
	ErrNoMappedColumns     = errors.New("NO_MAPPED_COLUMNS")
	ErrAttachmentNotFound  = errors.New("ATTACHMENT_NOT_FOUND")
)
