package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"aiteam/internal/assets"
	"aiteam/internal/models"
)

// ModelCatalog lists the completion models shipped with the application.
type ModelCatalog interface {
	ListModelGroups() []models.LLMModelGroup
	GetModel(modelKey string) (*models.LLMModel, error)
	DefaultModel(provider string) (*models.LLMModel, error)
}

type modelCatalog struct {
	mu            sync.RWMutex
	providerOrder []string
	providerNames map[string]string
	models        map[string]models.LLMModel
}

type rawModelFile struct {
	Providers []rawProvider `json:"providers"`
}

type rawProvider struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"displayName"`
	Models      []rawModel `json:"models"`
}

type rawModel struct {
	DisplayName string `json:"displayName"`
	APIName     string `json:"apiName"`
	Default     bool   `json:"default,omitempty"`
}

// NewModelCatalog parses the embedded catalog.
func NewModelCatalog() (ModelCatalog, error) {
	return parseModelCatalog(assets.ModelsData)
}

func parseModelCatalog(data []byte) (*modelCatalog, error) {
	var parsed rawModelFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse models asset: %w", err)
	}

	c := &modelCatalog{
		providerNames: make(map[string]string),
		models:        make(map[string]models.LLMModel),
	}
	for _, provider := range parsed.Providers {
		providerID := strings.TrimSpace(provider.ID)
		if providerID == "" {
			continue
		}
		providerName := strings.TrimSpace(provider.DisplayName)
		if providerName == "" {
			providerName = providerID
		}
		c.providerNames[providerID] = providerName
		c.providerOrder = append(c.providerOrder, providerID)
		for _, mdl := range provider.Models {
			apiName := strings.TrimSpace(mdl.APIName)
			if apiName == "" {
				continue
			}
			key := modelKey(providerID, apiName)
			c.models[key] = models.LLMModel{
				Key:          key,
				DisplayName:  strings.TrimSpace(mdl.DisplayName),
				APIName:      apiName,
				ProviderID:   providerID,
				ProviderName: providerName,
				Default:      mdl.Default,
			}
		}
	}
	return c, nil
}

func (c *modelCatalog) ListModelGroups() []models.LLMModelGroup {
	c.mu.RLock()
	defer c.mu.RUnlock()

	groups := make([]models.LLMModelGroup, 0, len(c.providerOrder))
	for _, providerID := range c.providerOrder {
		groups = append(groups, models.LLMModelGroup{
			ProviderID:   providerID,
			ProviderName: c.providerNames[providerID],
			Models:       c.providerModels(providerID),
		})
	}
	return groups
}

func (c *modelCatalog) GetModel(key string) (*models.LLMModel, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("model key is required")
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	mdl, ok := c.models[key]
	if !ok {
		return nil, fmt.Errorf("model %s not found", key)
	}
	return &mdl, nil
}

// DefaultModel returns the provider's default model, or its first model
// when none is marked.
func (c *modelCatalog) DefaultModel(provider string) (*models.LLMModel, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return nil, fmt.Errorf("provider is required")
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	list := c.providerModels(provider)
	if len(list) == 0 {
		return nil, fmt.Errorf("no models for provider %s", provider)
	}
	for _, mdl := range list {
		if mdl.Default {
			return &mdl, nil
		}
	}
	return &list[0], nil
}

func (c *modelCatalog) providerModels(providerID string) []models.LLMModel {
	var out []models.LLMModel
	for _, mdl := range c.models {
		if mdl.ProviderID == providerID {
			out = append(out, mdl)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].DisplayName) < strings.ToLower(out[j].DisplayName)
	})
	return out
}

func modelKey(providerID, apiName string) string {
	return providerID + "|" + apiName
}
