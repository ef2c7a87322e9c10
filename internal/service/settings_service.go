package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/artikelin/api/internal/model"
	"github.com/artikelin/api/internal/store"
)

// productKnowledgeDisabled is the only value that turns product knowledge off
const productKnowledgeDisabled = "disabled"

// SettingsService reads and writes admin settings
type SettingsService struct {
	store *store.Store
}

func NewSettingsService(s *store.Store) *SettingsService {
	return &SettingsService{store: s}
}

// Get returns the setting stored under key. A missing setting is returned
// with an empty value.
func (s *SettingsService) Get(ctx context.Context, key string) (*model.Setting, error) {
	setting, err := s.store.Settings.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return &model.Setting{Key: key, Value: ""}, nil
	}
	if err != nil {
		return nil, PersistenceError("failed to read setting", err)
	}
	return setting, nil
}

// Put creates or replaces a setting
func (s *SettingsService) Put(ctx context.Context, key, value string) (*model.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ValidationError("Setting key is required")
	}
	if len(key) > 100 {
		return nil, ValidationError("Setting key is too long")
	}

	setting, err := s.store.Settings.Upsert(ctx, key, value)
	if err != nil {
		return nil, PersistenceError("failed to save setting", err)
	}
	return setting, nil
}

// ProductKnowledge returns the product knowledge text to feed the provider,
// or "" when the feature is disabled or nothing is stored.
func (s *SettingsService) ProductKnowledge(ctx context.Context) (string, error) {
	enabled, err := s.Get(ctx, model.SettingEnableProductKnowledge)
	if err != nil {
		return "", err
	}
	if enabled.Value == productKnowledgeDisabled {
		return "", nil
	}

	knowledge, err := s.Get(ctx, model.SettingProductKnowledge)
	if err != nil {
		return "", err
	}
	return knowledge.Value, nil
}

// AIProvider returns the provider selected in the admin settings. The value
// is either a plain name, a JSON string, or an object with a provider field.
// An empty result means no preference.
func (s *SettingsService) AIProvider(ctx context.Context) (string, error) {
	setting, err := s.Get(ctx, model.SettingAIProvider)
	if err != nil {
		return "", err
	}
	return parseProviderSetting(setting.Value), nil
}

func parseProviderSetting(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	var name string
	if err := json.Unmarshal([]byte(value), &name); err == nil {
		return strings.TrimSpace(name)
	}

	var obj struct {
		Provider string `json:"provider"`
	}
	if err := json.Unmarshal([]byte(value), &obj); err == nil {
		return strings.TrimSpace(obj.Provider)
	}

	return value
}
