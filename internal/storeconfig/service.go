package storeconfig

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agimports/storefront-backend/internal/checkout"
	"github.com/agimports/storefront-backend/pkg/config"
	"github.com/agimports/storefront-backend/pkg/db/models"
	pkgerrors "github.com/agimports/storefront-backend/pkg/errors"
)

// BrandingDTO is the public slice of the store settings. The contact number
// stays server-side; the storefront only needs whether checkout is possible.
type BrandingDTO struct {
	StoreName       string  `json:"store_name"`
	LogoURL         *string `json:"logo_url,omitempty"`
	CheckoutEnabled bool    `json:"checkout_enabled"`
}

// SettingsDTO is the full settings view for admins.
type SettingsDTO struct {
	StoreName      string    `json:"store_name"`
	WhatsAppNumber *string   `json:"whatsapp_number,omitempty"`
	LogoURL        *string   `json:"logo_url,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UpdateRequest replaces the editable settings fields.
type UpdateRequest struct {
	StoreName      string  `json:"store_name" validate:"required,min=1,max=120"`
	WhatsAppNumber *string `json:"whatsapp_number,omitempty"`
	LogoURL        *string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

// Service manages the singleton store configuration.
type Service interface {
	Branding(ctx context.Context) (*BrandingDTO, error)
	Settings(ctx context.Context) (*SettingsDTO, error)
	Update(ctx context.Context, req UpdateRequest) (*SettingsDTO, error)
}

type settingsRepository interface {
	Get(ctx context.Context) (*models.StoreSettings, error)
	Save(ctx context.Context, settings *models.StoreSettings) error
}

// ServiceParams groups dependencies for the store settings service.
type ServiceParams struct {
	SettingsRepo settingsRepository
	Checkout     config.CheckoutConfig
}

type service struct {
	settings settingsRepository
	checkout config.CheckoutConfig
}

// NewService builds a store settings service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.SettingsRepo == nil {
		return nil, fmt.Errorf("settings repository is required")
	}
	return &service{
		settings: params.SettingsRepo,
		checkout: params.Checkout,
	}, nil
}

// Branding returns the public storefront branding.
func (s *service) Branding(ctx context.Context) (*BrandingDTO, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return &BrandingDTO{
		StoreName:       settings.StoreName,
		LogoURL:         settings.LogoURL,
		CheckoutEnabled: settings.WhatsAppNumber != nil && *settings.WhatsAppNumber != "",
	}, nil
}

// Settings returns the full settings row for the admin screen.
func (s *service) Settings(ctx context.Context) (*SettingsDTO, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return settingsToDTO(settings), nil
}

// Update replaces the editable fields. The contact number is sanitized with
// the checkout rules up front so a broken number fails here, not at checkout.
func (s *service) Update(ctx context.Context, req UpdateRequest) (*SettingsDTO, error) {
	name := strings.TrimSpace(req.StoreName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}

	number := req.WhatsAppNumber
	if number != nil && *number != "" {
		sanitized, err := checkout.SanitizePhone(*number, s.checkout.CountryCallingCode)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid contact number")
		}
		number = &sanitized
	}

	settings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	settings.StoreName = name
	settings.WhatsAppNumber = number
	settings.LogoURL = req.LogoURL

	if err := s.settings.Save(ctx, settings); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save store settings")
	}
	return settingsToDTO(settings), nil
}

func (s *service) load(ctx context.Context) (*models.StoreSettings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store settings")
	}
	return settings, nil
}

func settingsToDTO(settings *models.StoreSettings) *SettingsDTO {
	return &SettingsDTO{
		StoreName:      settings.StoreName,
		WhatsAppNumber: settings.WhatsAppNumber,
		LogoURL:        settings.LogoURL,
		UpdatedAt:      settings.UpdatedAt,
	}
}
