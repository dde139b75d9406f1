package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"grocery-store/models"
	"grocery-store/repositories"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	catalogCacheTTL    = 5 * time.Minute
	catalogCachePrefix = "products:"
)

type ProductStore interface {
	List(ctx context.Context, f repositories.ProductFilter) ([]models.Product, int, error)
	FindByID(ctx context.Context, id int) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	UpdateImage(ctx context.Context, id int, url, publicID string) error
	Deactivate(ctx context.Context, id int) error
	ListLowStock(ctx context.Context) ([]models.Product, error)
}

// Cache is satisfied by *libs.Cache.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) bool
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
	DeletePattern(ctx context.Context, pattern string)
}

type ProductService struct {
	productRepo ProductStore
	cache       Cache
	images      *ImageService
}

func NewProductService(productRepo ProductStore, cache Cache, images *ImageService) *ProductService {
	return &ProductService{productRepo: productRepo, cache: cache, images: images}
}

type catalogPage struct {
	Products []models.ProductView `json:"products"`
	Total    int                  `json:"total"`
}

func (s *ProductService) GetAllProducts(ctx context.Context, productType, search string, page, limit int) (*models.PaginationResponse, error) {
	if productType != "" && !models.ValidProductType(productType) {
		return nil, validationError("unknown product type %q", productType)
	}

	key := fmt.Sprintf("%s%s:%s:%d:%d", catalogCachePrefix, productType, strings.ToLower(search), page, limit)

	var cached catalogPage
	if !s.cache.GetJSON(ctx, key, &cached) {
		products, total, err := s.productRepo.List(ctx, repositories.ProductFilter{
			Type:   productType,
			Search: search,
			Page:   page,
			Limit:  limit,
		})
		if err != nil {
			return nil, err
		}

		cached = catalogPage{Products: s.views(products), Total: total}
		s.cache.SetJSON(ctx, key, cached, catalogCacheTTL)
	}

	return &models.PaginationResponse{
		Success: true,
		Message: "Products retrieved successfully",
		Data:    cached.Products,
		Meta:    models.NewMetaData(page, limit, cached.Total),
	}, nil
}

// GetProductByID returns a product. Deactivated products are only visible
// when includeInactive is set, which the owner routes do.
func (s *ProductService) GetProductByID(ctx context.Context, id int, includeInactive bool) (*models.ProductView, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive && !includeInactive {
		return nil, models.ErrNotFound
	}
	view := s.view(*product)
	return &view, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.ProductView, error) {
	product := &models.Product{
		Name:      strings.TrimSpace(req.Name),
		Type:      req.Type,
		Price:     req.Price,
		Stock:     req.Stock,
		Threshold: req.Threshold,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.InvalidateCatalog(ctx)

	log.Info().Int("product_id", product.ID).Str("name", product.Name).Msg("product created")
	view := s.view(*product)
	return &view, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id int, req models.UpdateProductRequest) (*models.ProductView, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		product.Name = strings.TrimSpace(req.Name)
	}
	if req.Type != "" {
		product.Type = req.Type
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Threshold != nil {
		product.Threshold = *req.Threshold
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.InvalidateCatalog(ctx)

	view := s.view(*product)
	return &view, nil
}

// DeleteProduct hides a product from the catalog. Rows stay for order history.
func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.productRepo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.InvalidateCatalog(ctx)
	return nil
}

func (s *ProductService) LowStock(ctx context.Context) ([]models.ProductView, error) {
	products, err := s.productRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(products), nil
}

// InvalidateCatalog drops every cached catalog page. Stock changes made
// outside ProductService must call it too.
func (s *ProductService) InvalidateCatalog(ctx context.Context) {
	s.cache.DeletePattern(ctx, catalogCachePrefix+"*")
}

func (s *ProductService) view(p models.Product) models.ProductView {
	if s.images != nil {
		p.ImageURL = s.images.DisplayURL(p.ImageURL)
	}
	return models.NewProductView(p)
}

func (s *ProductService) views(products []models.Product) []models.ProductView {
	out := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, s.view(p))
	}
	return out
}

func validateProduct(p *models.Product) error {
	switch {
	case p.Name == "":
		return validationError("name is required")
	case !models.ValidProductType(p.Type):
		return validationError("type must be vegetable or fruit")
	case !p.Price.IsPositive():
		return validationError("price must be greater than zero")
	case p.Stock.LessThan(decimal.Zero):
		return validationError("stock cannot be negative")
	case p.Threshold.LessThan(decimal.Zero):
		return validationError("threshold cannot be negative")
	}
	return nil
}
