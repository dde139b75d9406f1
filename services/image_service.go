package services

import (
	"context"
	"io"

	"grocery-store/models"
	"grocery-store/utils"

	"github.com/rs/zerolog/log"
)

const DefaultPlaceholderImage = "/static/placeholder.svg"

// ImageStore is implemented by libs.CloudinaryStore and utils.LocalImageStore.
type ImageStore interface {
	Upload(ctx context.Context, file io.Reader, filename string) (url string, publicID string, err error)
	Delete(ctx context.Context, publicID string) error
}

// ImageService loads and replaces product images.
type ImageService struct {
	store       ImageStore
	productRepo ProductStore
	cache       Cache
	maxSize     int64
	placeholder string
}

func NewImageService(store ImageStore, productRepo ProductStore, cache Cache, maxSize int64, placeholder string) *ImageService {
	if placeholder == "" {
		placeholder = DefaultPlaceholderImage
	}
	return &ImageService{
		store:       store,
		productRepo: productRepo,
		cache:       cache,
		maxSize:     maxSize,
		placeholder: placeholder,
	}
}

// UploadProductImage stores a new image for the product and removes the one
// it replaces.
func (s *ImageService) UploadProductImage(ctx context.Context, productID int, file io.Reader, filename string, size int64) (*models.Product, error) {
	if err := utils.ValidateImage(filename, size, s.maxSize); err != nil {
		return nil, validationError("%s", err.Error())
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	url, publicID, err := s.store.Upload(ctx, file, filename)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.UpdateImage(ctx, productID, url, publicID); err != nil {
		if delErr := s.store.Delete(ctx, publicID); delErr != nil {
			log.Warn().Err(delErr).Str("public_id", publicID).Msg("failed to clean up uploaded image")
		}
		return nil, err
	}

	if product.ImagePublicID != "" {
		if err := s.store.Delete(ctx, product.ImagePublicID); err != nil {
			log.Warn().Err(err).Str("public_id", product.ImagePublicID).Msg("failed to delete old product image")
		}
	}
	s.cache.DeletePattern(ctx, catalogCachePrefix+"*")

	product.ImageURL = url
	product.ImagePublicID = publicID
	return product, nil
}

// DisplayURL returns url, or the placeholder when the product has no image.
func (s *ImageService) DisplayURL(url string) string {
	if url == "" {
		return s.placeholder
	}
	return url
}
