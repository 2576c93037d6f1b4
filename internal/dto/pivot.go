package dto

import "encoding/json"

// CreatePivotTemplateRequest saves a named pivot configuration.
type CreatePivotTemplateRequest struct {
	Name   string          `json:"name" binding:"required"`
	Config json.RawMessage `json:"report" binding:"required"`
}

// PivotTemplateResponse is one template in the listing (without its config).
type PivotTemplateResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedBy string `json:"created_by"`
}
