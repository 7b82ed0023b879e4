package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agimports/storefront-backend/pkg/db/models"
	"github.com/agimports/storefront-backend/pkg/enums"
	pkgerrors "github.com/agimports/storefront-backend/pkg/errors"
)

// Query carries the catalog listing parameters from the API layer.
type Query struct {
	Search             string
	LeagueName         string
	NationalityName    string
	Season             string
	SpecialEditionOnly bool
	MinPrice           *decimal.Decimal
	MaxPrice           *decimal.Decimal
	SortKey            enums.SortKey
	SortDirection      enums.SortDirection
	// Pages counts load-more steps; 1 shows the first window.
	Pages int
}

// Service exposes catalog behavior for the public and admin controllers.
type Service interface {
	ListProducts(ctx context.Context, userID *uuid.UUID, query Query) (*ProductPageDTO, error)
	GetFilterOptions(ctx context.Context) (*FilterOptionsDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error)

	CreateProduct(ctx context.Context, req UpsertProductRequest) (*ProductView, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req UpsertProductRequest) (*ProductView, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	CreateLeague(ctx context.Context, req UpsertLeagueRequest) (*LeagueDTO, error)
	UpdateLeague(ctx context.Context, id uuid.UUID, req UpsertLeagueRequest) (*LeagueDTO, error)
	DeleteLeague(ctx context.Context, id uuid.UUID) error

	CreateNationality(ctx context.Context, req UpsertNationalityRequest) (*NationalityDTO, error)
	UpdateNationality(ctx context.Context, id uuid.UUID, req UpsertNationalityRequest) (*NationalityDTO, error)
	DeleteNationality(ctx context.Context, id uuid.UUID) error
}

// UpsertProductRequest is the admin payload for creating or replacing a product.
type UpsertProductRequest struct {
	Name                string     `json:"name" validate:"required,min=2,max=160"`
	TeamName            string     `json:"team_name" validate:"required,min=2,max=120"`
	Description         *string    `json:"description,omitempty"`
	Price               string     `json:"price" validate:"required"`
	PromoPrice          *string    `json:"promo_price,omitempty"`
	ImageURL            *string    `json:"image_url,omitempty" validate:"omitempty,url"`
	LeagueID            *uuid.UUID `json:"league_id,omitempty"`
	NationalityID       *uuid.UUID `json:"nationality_id,omitempty"`
	Season              *string    `json:"season,omitempty"`
	SpecialEdition      bool       `json:"special_edition"`
	SpecialEditionNotes *string    `json:"special_edition_notes,omitempty"`
	IsActive            *bool      `json:"is_active,omitempty"`
	StockQty            int        `json:"stock_qty" validate:"gte=0"`
	AvailableSizes      []string   `json:"available_sizes" validate:"required,min=1,dive,required"`
}

// UpsertLeagueRequest is the admin payload for league maintenance.
type UpsertLeagueRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=120"`
	Country *string `json:"country,omitempty"`
}

// UpsertNationalityRequest is the admin payload for nationality maintenance.
type UpsertNationalityRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=120"`
	FlagURL *string `json:"flag_url,omitempty" validate:"omitempty,url"`
}

type productRepository interface {
	ListActive(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListSeasons(ctx context.Context) ([]string, error)
}

type taxonomyRepository interface {
	ListLeagues(ctx context.Context) ([]models.League, error)
	CreateLeague(ctx context.Context, league *models.League) error
	UpdateLeague(ctx context.Context, league *models.League) error
	DeleteLeague(ctx context.Context, id uuid.UUID) error
	FindLeagueByID(ctx context.Context, id uuid.UUID) (*models.League, error)
	ListNationalities(ctx context.Context) ([]models.Nationality, error)
	CreateNationality(ctx context.Context, nationality *models.Nationality) error
	UpdateNationality(ctx context.Context, nationality *models.Nationality) error
	DeleteNationality(ctx context.Context, id uuid.UUID) error
	FindNationalityByID(ctx context.Context, id uuid.UUID) (*models.Nationality, error)
	ListSizes(ctx context.Context) ([]models.Size, error)
}

type hiddenProductsReader interface {
	HiddenProducts(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error)
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	ProductRepo  productRepository
	TaxonomyRepo taxonomyRepository
	HiddenReader hiddenProductsReader
}

type service struct {
	products productRepository
	taxonomy taxonomyRepository
	hidden   hiddenProductsReader
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.TaxonomyRepo == nil {
		return nil, fmt.Errorf("taxonomy repository is required")
	}
	return &service{
		products: params.ProductRepo,
		taxonomy: params.TaxonomyRepo,
		hidden:   params.HiddenReader,
	}, nil
}

// ListProducts loads active products and runs the filter/sort/window pipeline.
// When a user is known their hidden-products set is applied first.
func (s *service) ListProducts(ctx context.Context, userID *uuid.UUID, query Query) (*ProductPageDTO, error) {
	rows, err := s.products.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog")
	}

	views := make([]ProductView, 0, len(rows))
	for _, row := range rows {
		views = append(views, ViewFromModel(row))
	}

	criteria := Criteria{
		Search:             query.Search,
		LeagueName:         query.LeagueName,
		NationalityName:    query.NationalityName,
		Season:             query.Season,
		SpecialEditionOnly: query.SpecialEditionOnly,
		MinPrice:           query.MinPrice,
		MaxPrice:           query.MaxPrice,
	}
	if userID != nil && s.hidden != nil {
		hidden, err := s.hidden.HiddenProducts(ctx, *userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load hidden products")
		}
		criteria.Hidden = hidden
	}

	window := NewWindow()
	for i := 1; i < query.Pages; i++ {
		window = window.Grow()
	}

	items, total := Run(views, criteria, SortSpec{Key: query.SortKey, Direction: query.SortDirection}, window)
	return &ProductPageDTO{
		Items:      items,
		TotalMatch: total,
		Limit:      window.Limit(),
		HasMore:    total > len(items),
	}, nil
}

// GetFilterOptions loads the league, nationality, season, and size dropdown
// values in turn; the options are only reported when every lookup succeeds.
func (s *service) GetFilterOptions(ctx context.Context) (*FilterOptionsDTO, error) {
	leagues, err := s.taxonomy.ListLeagues(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load leagues")
	}
	nationalities, err := s.taxonomy.ListNationalities(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load nationalities")
	}
	seasons, err := s.products.ListSeasons(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seasons")
	}
	sizes, err := s.taxonomy.ListSizes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sizes")
	}

	dto := &FilterOptionsDTO{
		Leagues:       make([]LeagueDTO, 0, len(leagues)),
		Nationalities: make([]NationalityDTO, 0, len(nationalities)),
		Seasons:       seasons,
		Sizes:         make([]SizeDTO, 0, len(sizes)),
	}
	for _, league := range leagues {
		dto.Leagues = append(dto.Leagues, LeagueDTO{ID: league.ID, Name: league.Name, Country: league.Country})
	}
	for _, nationality := range nationalities {
		dto.Nationalities = append(dto.Nationalities, NationalityDTO{ID: nationality.ID, Name: nationality.Name, FlagURL: nationality.FlagURL})
	}
	for _, size := range sizes {
		dto.Sizes = append(dto.Sizes, SizeDTO{ID: size.ID, Label: size.Label})
	}
	return dto, nil
}

// GetProduct loads a single product for the detail page.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	view := ViewFromModel(*product)
	return &view, nil
}

// CreateProduct persists a new catalog entry from the admin payload.
func (s *service) CreateProduct(ctx context.Context, req UpsertProductRequest) (*ProductView, error) {
	product := &models.Product{}
	if err := s.applyProductRequest(ctx, product, req); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return s.GetProduct(ctx, product.ID)
}

// UpdateProduct replaces an existing catalog entry.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, req UpsertProductRequest) (*ProductView, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProductRequest(ctx, product, req); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return s.GetProduct(ctx, product.ID)
}

// DeleteProduct removes a product permanently.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findProduct(ctx, id); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// CreateLeague inserts a league for the filter drawer.
func (s *service) CreateLeague(ctx context.Context, req UpsertLeagueRequest) (*LeagueDTO, error) {
	league := &models.League{Name: req.Name, Country: req.Country}
	if err := s.taxonomy.CreateLeague(ctx, league); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create league")
	}
	return &LeagueDTO{ID: league.ID, Name: league.Name, Country: league.Country}, nil
}

// UpdateLeague renames an existing league.
func (s *service) UpdateLeague(ctx context.Context, id uuid.UUID, req UpsertLeagueRequest) (*LeagueDTO, error) {
	league, err := s.taxonomy.FindLeagueByID(ctx, id)
	if err != nil {
		return nil, s.wrapLookup(err, "league")
	}
	league.Name = req.Name
	league.Country = req.Country
	if err := s.taxonomy.UpdateLeague(ctx, league); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update league")
	}
	return &LeagueDTO{ID: league.ID, Name: league.Name, Country: league.Country}, nil
}

// DeleteLeague removes a league.
func (s *service) DeleteLeague(ctx context.Context, id uuid.UUID) error {
	if _, err := s.taxonomy.FindLeagueByID(ctx, id); err != nil {
		return s.wrapLookup(err, "league")
	}
	if err := s.taxonomy.DeleteLeague(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete league")
	}
	return nil
}

// CreateNationality inserts a nationality for the filter drawer.
func (s *service) CreateNationality(ctx context.Context, req UpsertNationalityRequest) (*NationalityDTO, error) {
	nationality := &models.Nationality{Name: req.Name, FlagURL: req.FlagURL}
	if err := s.taxonomy.CreateNationality(ctx, nationality); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create nationality")
	}
	return &NationalityDTO{ID: nationality.ID, Name: nationality.Name, FlagURL: nationality.FlagURL}, nil
}

// UpdateNationality renames an existing nationality.
func (s *service) UpdateNationality(ctx context.Context, id uuid.UUID, req UpsertNationalityRequest) (*NationalityDTO, error) {
	nationality, err := s.taxonomy.FindNationalityByID(ctx, id)
	if err != nil {
		return nil, s.wrapLookup(err, "nationality")
	}
	nationality.Name = req.Name
	nationality.FlagURL = req.FlagURL
	if err := s.taxonomy.UpdateNationality(ctx, nationality); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update nationality")
	}
	return &NationalityDTO{ID: nationality.ID, Name: nationality.Name, FlagURL: nationality.FlagURL}, nil
}

// DeleteNationality removes a nationality.
func (s *service) DeleteNationality(ctx context.Context, id uuid.UUID) error {
	if _, err := s.taxonomy.FindNationalityByID(ctx, id); err != nil {
		return s.wrapLookup(err, "nationality")
	}
	if err := s.taxonomy.DeleteNationality(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete nationality")
	}
	return nil
}

func (s *service) findProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, s.wrapLookup(err, "product")
	}
	return product, nil
}

func (s *service) wrapLookup(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, entity+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+entity)
}

func (s *service) applyProductRequest(ctx context.Context, product *models.Product, req UpsertProductRequest) error {
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be a non-negative decimal")
	}

	var promo *decimal.Decimal
	if req.PromoPrice != nil {
		parsed, err := decimal.NewFromString(*req.PromoPrice)
		if err != nil || parsed.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "promo price must be a non-negative decimal")
		}
		promo = &parsed
	}

	if req.LeagueID != nil {
		if _, err := s.taxonomy.FindLeagueByID(ctx, *req.LeagueID); err != nil {
			return s.wrapLookup(err, "league")
		}
	}
	if req.NationalityID != nil {
		if _, err := s.taxonomy.FindNationalityByID(ctx, *req.NationalityID); err != nil {
			return s.wrapLookup(err, "nationality")
		}
	}

	product.Name = req.Name
	product.TeamName = req.TeamName
	product.Description = req.Description
	product.Price = price
	product.PromoPrice = promo
	product.ImageURL = req.ImageURL
	product.LeagueID = req.LeagueID
	product.NationalityID = req.NationalityID
	product.Season = req.Season
	product.SpecialEdition = req.SpecialEdition
	product.SpecialEditionNotes = req.SpecialEditionNotes
	product.StockQty = req.StockQty
	product.AvailableSizes = pq.StringArray(req.AvailableSizes)
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	} else {
		product.IsActive = true
	}
	return nil
}
