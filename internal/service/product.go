package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"

	"jumewears/internal/model"
	"jumewears/internal/repository"
)

// ProductService handles catalog sections and the products JSON API.
type ProductService struct {
	repo  repository.ProductRepository
	media *MediaService
}

func NewProductService(repo repository.ProductRepository, media *MediaService) *ProductService {
	return &ProductService{
		repo:  repo,
		media: media,
	}
}

// GetSection returns the collapsed or expanded window of a catalog section
// for the load-more fragment.
func (s *ProductService) GetSection(ctx context.Context, productType, categorySlug string, expanded bool) (*model.ProductSection, error) {
	if !model.ValidProductType(productType) {
		return nil, model.ErrUnknownSection
	}

	limit := model.SectionCollapsedSize
	if expanded {
		limit = model.SectionExpandedSize
	}

	products, hasMore, err := s.repo.ListSection(ctx, productType, categorySlug, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list section: %w", err)
	}

	return &model.ProductSection{
		Type:     productType,
		Expanded: expanded,
		Category: categorySlug,
		Products: products,
		HasMore:  hasMore,
	}, nil
}

// GetByID fetches one product within its type.
func (s *ProductService) GetByID(ctx context.Context, productType string, id uuid.UUID) (*model.Product, error) {
	if !model.ValidProductType(productType) {
		return nil, model.ErrProductNotFound
	}
	return s.repo.GetByID(ctx, productType, id)
}

// Search backs GET /api/products/.
func (s *ProductService) Search(ctx context.Context, productType, categorySlug, query string) ([]model.Product, error) {
	if productType != "" && !model.ValidProductType(productType) {
		return nil, model.ErrUnknownSection
	}
	products, err := s.repo.Search(ctx, productType, categorySlug, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// UploadImage stores a product image plus thumbnail and updates the record.
func (s *ProductService) UploadImage(ctx context.Context, productType string, id uuid.UUID, file multipart.File, header *multipart.FileHeader) (*model.ProductImageResult, error) {
	if _, err := s.GetByID(ctx, productType, id); err != nil {
		return nil, err
	}

	result, err := s.media.UploadProductImage(ctx, file, header)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateImage(ctx, id, result.Image.URL, result.Thumbnail.URL); err != nil {
		return nil, fmt.Errorf("failed to store image URLs: %w", err)
	}

	return result, nil
}
