package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/agimports/storefront-backend/pkg/config"
	"github.com/agimports/storefront-backend/pkg/db/models"
	pkgerrors "github.com/agimports/storefront-backend/pkg/errors"
	"github.com/agimports/storefront-backend/pkg/observe"
)

type fakeSettings struct {
	settings *models.StoreSettings
	err      error
}

func (f *fakeSettings) Get(ctx context.Context) (*models.StoreSettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.settings, nil
}

type fakeCheckoutCart struct {
	lines   []models.CartLine
	cleared bool
	listErr error
}

func (f *fakeCheckoutCart) ListLines(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.lines, nil
}

func (f *fakeCheckoutCart) DeleteAll(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	f.cleared = true
	return nil
}

type fakeOrderWriter struct {
	created *models.Order
	err     error
}

func (f *fakeOrderWriter) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	if f.err != nil {
		return f.err
	}
	f.created = order
	return nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func cartLine(name, team, price string, qty int, size string) models.CartLine {
	return models.CartLine{
		ID:        uuid.New(),
		ProductID: uuid.New(),
		SizeID:    uuid.New(),
		Quantity:  qty,
		Product: &models.Product{
			Name:     name,
			TeamName: team,
			Price:    decimal.RequireFromString(price),
		},
		Size: &models.Size{Label: size},
	}
}

func strptr(s string) *string { return &s }

func newCheckoutService(t *testing.T, settings *fakeSettings, cart *fakeCheckoutCart, orders *fakeOrderWriter, hub *observe.Hub) Service {
	t.Helper()
	params := ServiceParams{
		Settings: settings,
		CartRepo: cart,
		Orders:   orders,
		Tx:       fakeTxRunner{},
		Config: config.CheckoutConfig{
			MessagingScheme:    "whatsapp",
			CountryCallingCode: "55",
		},
	}
	if hub != nil {
		params.Hub = hub
	}
	svc, err := NewService(params)
	require.NoError(t, err)
	return svc
}

func TestSanitizePhone(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "national number gets calling code", raw: "(11) 98765-4321", want: "5511987654321"},
		{name: "ten digit landline gets calling code", raw: "11 3456-7890", want: "551134567890"},
		{name: "already prefixed stays put", raw: "+55 11 98765-4321", want: "5511987654321"},
		{name: "international number kept as is", raw: "+1 415 555 0100", want: "14155550100"},
		{name: "too short rejected", raw: "9876", wantErr: true},
		{name: "empty rejected", raw: "--", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SanitizePhone(tc.raw, "55")
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCheckoutBuildsMessageAndLink(t *testing.T) {
	settings := &fakeSettings{settings: &models.StoreSettings{
		StoreName:      "A&G Imports",
		WhatsAppNumber: strptr("(11) 98765-4321"),
	}}
	cart := &fakeCheckoutCart{lines: []models.CartLine{
		cartLine("Flamengo Home 24/25", "Flamengo", "100.00", 2, "M"),
		cartLine("Santos Retro 1962", "Santos", "50.00", 1, "G"),
	}}
	orders := &fakeOrderWriter{}
	svc := newCheckoutService(t, settings, cart, orders, nil)

	result, err := svc.Checkout(context.Background(), uuid.New())
	require.NoError(t, err)
	require.True(t, result.LinkOpened)

	prefix := "whatsapp://5511987654321?text="
	require.True(t, strings.HasPrefix(result.Link, prefix), result.Link)

	body, err := url.QueryUnescape(strings.TrimPrefix(result.Link, prefix))
	require.NoError(t, err)
	assert.Contains(t, body, "1. Flamengo Home 24/25 - Flamengo - R$ 100.00 x2 = R$ 200.00")
	assert.Contains(t, body, "2. Santos Retro 1962 - Santos - R$ 50.00 x1 = R$ 50.00")
	assert.Contains(t, body, "Total: R$ 250.00")

	lineIdx := strings.Index(body, "1. Flamengo")
	totalIdx := strings.Index(body, "Total:")
	require.Greater(t, lineIdx, 0, "header precedes the first line item")
	require.Greater(t, totalIdx, lineIdx)
	require.Less(t, totalIdx, len(body)-len("Total: R$ 250.00"), "closing line follows the total")

	assert.True(t, cart.cleared, "cart is cleared after the order is persisted")
	require.NotNil(t, orders.created)
	assert.Equal(t, 3, orders.created.ItemCount)
	assert.Equal(t, "250.00", orders.created.Total.StringFixed(2))
	require.Len(t, orders.created.Items, 2)
	assert.Equal(t, 1, orders.created.Items[0].Position)
	assert.Equal(t, "M", orders.created.Items[0].SizeLabel)
	assert.Equal(t, "5511987654321", orders.created.ContactNumber)
	assert.Equal(t, body, orders.created.MessageBody)
}

func TestCheckoutMissingPhoneKeepsCart(t *testing.T) {
	settings := &fakeSettings{settings: &models.StoreSettings{StoreName: "A&G Imports"}}
	cart := &fakeCheckoutCart{lines: []models.CartLine{cartLine("Shirt", "Team", "10.00", 1, "M")}}
	orders := &fakeOrderWriter{}
	svc := newCheckoutService(t, settings, cart, orders, nil)

	_, err := svc.Checkout(context.Background(), uuid.New())
		coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
	assert.False(t, cart.cleared, "failure must not clear the cart")
	assert.Nil(t, orders.created)
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	settings := &fakeSettings{settings: &models.StoreSettings{WhatsAppNumber: strptr("11987654321")}}
	cart := &fakeCheckoutCart{}
	svc := newCheckoutService(t, settings, cart, &fakeOrderWriter{}, nil)

	_, err := svc.Checkout(context.Background(), uuid.New())
		coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
}

func TestCheckoutOrderFailureKeepsCart(t *testing.T) {
	settings := &fakeSettings{settings: &models.StoreSettings{WhatsAppNumber: strptr("11987654321")}}
	cart := &fakeCheckoutCart{lines: []models.CartLine{cartLine("Shirt", "Team", "10.00", 1, "M")}}
	orders := &fakeOrderWriter{err: fmt.Errorf("insert failed")}
	svc := newCheckoutService(t, settings, cart, orders, nil)

	_, err := svc.Checkout(context.Background(), uuid.New())
		coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeDependency, coded.Code())
}

func TestCheckoutPublishesZeroBadge(t *testing.T) {
	settings := &fakeSettings{settings: &models.StoreSettings{WhatsAppNumber: strptr("11987654321")}}
	cart := &fakeCheckoutCart{lines: []models.CartLine{cartLine("Shirt", "Team", "10.00", 2, "M")}}
	hub := observe.NewHub()
	defer hub.Close()
	svc := newCheckoutService(t, settings, cart, &fakeOrderWriter{}, hub)

	events, cancel := hub.Subscribe(observe.TopicCartBadge)
	defer cancel()

	userID := uuid.New()
	_, err := svc.Checkout(context.Background(), userID)
	require.NoError(t, err)

	event := <-events
	assert.Equal(t, userID, event.UserID)
	assert.Equal(t, 0, event.Count)
}
