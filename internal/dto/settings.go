package dto

import "encoding/json"

// UpsertSettingRequest stores one settings value under its key.
type UpsertSettingRequest struct {
	Key   string          `json:"key" binding:"required"`
	Value json.RawMessage `json:"value" binding:"required"`
}
