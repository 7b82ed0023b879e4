package storeconfig

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agimports/storefront-backend/pkg/config"
	"github.com/agimports/storefront-backend/pkg/db/models"
	pkgerrors "github.com/agimports/storefront-backend/pkg/errors"
)

type fakeSettingsRepo struct {
	settings models.StoreSettings
	saved    bool
}

func (f *fakeSettingsRepo) Get(ctx context.Context) (*models.StoreSettings, error) {
	copied := f.settings
	return &copied, nil
}

func (f *fakeSettingsRepo) Save(ctx context.Context, settings *models.StoreSettings) error {
	f.settings = *settings
	f.saved = true
	return nil
}

func strptr(s string) *string { return &s }

func newStoreService(t *testing.T, repo *fakeSettingsRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		SettingsRepo: repo,
		Checkout: config.CheckoutConfig{
			MessagingScheme:    "whatsapp",
			CountryCallingCode: "55",
		},
	})
	require.NoError(t, err)
	return svc
}

func TestBrandingReportsCheckoutAvailability(t *testing.T) {
	repo := &fakeSettingsRepo{settings: models.StoreSettings{
		ID:        models.StoreSettingsID,
		StoreName: "A&G Imports",
	}}
	svc := newStoreService(t, repo)

	branding, err := svc.Branding(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A&G Imports", branding.StoreName)
	assert.False(t, branding.CheckoutEnabled)

	repo.settings.WhatsAppNumber = strptr("5511987654321")
	branding, err = svc.Branding(context.Background())
	require.NoError(t, err)
	assert.True(t, branding.CheckoutEnabled)
}

func TestUpdateSanitizesContactNumber(t *testing.T) {
	repo := &fakeSettingsRepo{settings: models.StoreSettings{
		ID:        models.StoreSettingsID,
		StoreName: "A&G Imports",
	}}
	svc := newStoreService(t, repo)

	updated, err := svc.Update(context.Background(), UpdateRequest{
		StoreName:      "A&G Imports",
		WhatsAppNumber: strptr("(11) 98765-4321"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.WhatsAppNumber)
	assert.Equal(t, "5511987654321", *updated.WhatsAppNumber)
	assert.True(t, repo.saved)
}

func TestUpdateRejectsBadInput(t *testing.T) {
	repo := &fakeSettingsRepo{settings: models.StoreSettings{StoreName: "A&G Imports"}}
	svc := newStoreService(t, repo)

	var coded *pkgerrors.Error
	_, err := svc.Update(context.Background(), UpdateRequest{StoreName: "  "})
	coded = pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())

	_, err = svc.Update(context.Background(), UpdateRequest{
		StoreName:      "A&G Imports",
		WhatsAppNumber: strptr("123"),
	})
	coded = pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
	assert.False(t, repo.saved)
}
