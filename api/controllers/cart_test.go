package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agimports/storefront-backend/api/middleware"
	cartsvc "github.com/agimports/storefront-backend/internal/cart"
	pkgerrors "github.com/agimports/storefront-backend/pkg/errors"
)

type fakeCartService struct {
	added   bool
	updated int
	removed uuid.UUID
	cleared bool
	addErr  error
}

func (f *fakeCartService) AddToCart(_ context.Context, _, _, _ uuid.UUID, qty int) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = true
	return nil
}

func (f *fakeCartService) UpdateQuantity(_ context.Context, _, _ uuid.UUID, qty int) error {
	f.updated = qty
	return nil
}

func (f *fakeCartService) Remove(_ context.Context, _, lineID uuid.UUID) error {
	f.removed = lineID
	return nil
}

func (f *fakeCartService) Clear(_ context.Context, _ uuid.UUID) error {
	f.cleared = true
	return nil
}

func (f *fakeCartService) Items(_ context.Context, _ uuid.UUID) ([]cartsvc.ItemDTO, error) {
	return nil, nil
}

func (f *fakeCartService) Count(_ context.Context, _ uuid.UUID) int { return 3 }

func (f *fakeCartService) Total(_ context.Context, _ uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (f *fakeCartService) Summary(_ context.Context, _ uuid.UUID) (*cartsvc.SummaryDTO, error) {
	return &cartsvc.SummaryDTO{Items: []cartsvc.ItemDTO{}, Count: 3, Total: decimal.Zero}, nil
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestCartAddReturnsSummary(t *testing.T) {
	svc := &fakeCartService{}
	handler := CartAdd(svc, nil)

	body := `{"product_id":"` + uuid.NewString() + `","size_id":"` + uuid.NewString() + `","quantity":2}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if !svc.added {
		t.Fatal("expected service add call")
	}

	var payload struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.Count != 3 {
		t.Fatalf("expected count 3 got %d", payload.Data.Count)
	}
}

func TestCartAddRequiresAuthenticatedUser(t *testing.T) {
	svc := &fakeCartService{}
	handler := CartAdd(svc, nil)

	body := `{"product_id":"` + uuid.NewString() + `","size_id":"` + uuid.NewString() + `","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if svc.added {
		t.Fatal("service should not be reached")
	}
}

func TestCartAddRejectsInvalidPayload(t *testing.T) {
	svc := &fakeCartService{}
	handler := CartAdd(svc, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/cart/items", `{"quantity":0}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCartAddSurfacesServiceErrors(t *testing.T) {
	svc := &fakeCartService{addErr: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := CartAdd(svc, nil)

	body := `{"product_id":"` + uuid.NewString() + `","size_id":"` + uuid.NewString() + `","quantity":1}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestCartUpdateLineParsesParam(t *testing.T) {
	svc := &fakeCartService{}
	handler := CartUpdateLine(svc, nil)

	lineID := uuid.New()
	req := withURLParam(authedRequest(http.MethodPatch, "/api/v1/cart/items/"+lineID.String(), `{"quantity":5}`), "lineID", lineID.String())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.updated != 5 {
		t.Fatalf("expected quantity 5 got %d", svc.updated)
	}
}

func TestCartUpdateLineRejectsBadID(t *testing.T) {
	svc := &fakeCartService{}
	handler := CartUpdateLine(svc, nil)

	req := withURLParam(authedRequest(http.MethodPatch, "/api/v1/cart/items/nope", `{"quantity":5}`), "lineID", "nope")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCartClear(t *testing.T) {
	svc := &fakeCartService{}
	handler := CartClear(svc, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/v1/cart", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !svc.cleared {
		t.Fatal("expected clear call")
	}
}
