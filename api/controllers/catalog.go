package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/agimports/storefront-backend/api/middleware"
	"github.com/agimports/storefront-backend/api/responses"
	"github.com/agimports/storefront-backend/api/validators"
	"github.com/agimports/storefront-backend/internal/catalog"
	"github.com/agimports/storefront-backend/pkg/enums"
	pkgerrors "github.com/agimports/storefront-backend/pkg/errors"
	"github.com/agimports/storefront-backend/pkg/logger"
)

const maxSearchLength = 120

// CatalogList serves the storefront grid with filtering, sorting, and the
// load-more window. Hidden products are excluded for signed-in callers.
func CatalogList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query, err := parseCatalogQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var userID *uuid.UUID
		if id := middleware.UserUUIDFromContext(r.Context()); id != uuid.Nil {
			userID = &id
		}

		page, err := svc.ListProducts(r.Context(), userID, *query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func CatalogFilterOptions(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		options, err := svc.GetFilterOptions(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, options)
	}
}

func CatalogProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func parseCatalogQuery(r *http.Request) (*catalog.Query, error) {
	specialOnly, err := validators.ParseQueryBool(r, "special_edition")
	if err != nil {
		return nil, err
	}
	minPrice, err := validators.ParseQueryDecimal(r, "min_price")
	if err != nil {
		return nil, err
	}
	maxPrice, err := validators.ParseQueryDecimal(r, "max_price")
	if err != nil {
		return nil, err
	}
	pages, err := validators.ParseQueryInt(r, "pages", 1, 1, 500)
	if err != nil {
		return nil, err
	}

	query := &catalog.Query{
		Search:             validators.SanitizeString(r.URL.Query().Get("search"), maxSearchLength),
		LeagueName:         validators.SanitizeString(r.URL.Query().Get("league"), maxSearchLength),
		NationalityName:    validators.SanitizeString(r.URL.Query().Get("nationality"), maxSearchLength),
		Season:             validators.SanitizeString(r.URL.Query().Get("season"), maxSearchLength),
		SpecialEditionOnly: specialOnly,
		MinPrice:           minPrice,
		MaxPrice:           maxPrice,
		Pages:              pages,
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("sort")); raw != "" {
		key := enums.SortKey(strings.ToLower(raw))
		if !key.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort key")
		}
		query.SortKey = key
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("dir")); raw != "" {
		dir := enums.SortDirection(strings.ToLower(raw))
		if !dir.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort direction")
		}
		query.SortDirection = dir
	}

	return query, nil
}
