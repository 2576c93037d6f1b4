package repositories

import (
	"context"
	"encoding/json"
)

// SettingsRepositoryFacade is the key-value settings store. Values are JSON
// documents; unknown keys return apperrors.ErrNotFound.
type SettingsRepositoryFacade interface {
	GetSetting(ctx context.Context, key string) (json.RawMessage, error)
	ListSettings(ctx context.Context) (map[string]json.RawMessage, error)
	UpsertSetting(ctx context.Context, key string, value json.RawMessage) error
}
