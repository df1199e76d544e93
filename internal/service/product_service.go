package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shopfront/internal/model"
	"shopfront/internal/repository"
	"shopfront/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	images      storage.ImageStore
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, images storage.ImageStore, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		images:      images,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll lists products, optionally restricted to one category.
func (s *productService) GetAll(ctx context.Context, category string) ([]model.Product, error) {
	var (
		products []model.Product
		err      error
	)
	if category = strings.TrimSpace(category); category != "" {
		products, err = s.productRepo.GetByCategoryName(ctx, category)
	} else {
		products, err = s.productRepo.GetAll(ctx)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("category", category).Msg("failed to get products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Str("category", category).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id.String()).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// validateProduct normalises in and checks it. The price is rounded to cents
// before the check, as that is what gets stored.
func validateProduct(in *model.ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Price = in.Price.Round(2)

	var details []string
	if in.Name == "" {
		details = append(details, "name is required")
	}
	if !in.Price.IsPositive() {
		details = append(details, "price must be greater than zero")
	}
	if in.CategoryID == uuid.Nil {
		details = append(details, "categoryId is required")
	}
	if len(details) > 0 {
		return model.NewValidationError(details...)
	}
	return nil
}

// Create stores the image first so the product row can point at it. The
// image is removed again if the row cannot be written.
func (s *productService) Create(ctx context.Context, in *model.ProductInput, image *model.ImageUpload) (*model.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}

	product := &model.Product{
		ID:          uuid.New(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		CreatedAt:   time.Now().UTC(),
	}

	imageName, err := s.saveImage(ctx, image)
	if err != nil {
		return nil, err
	}
	if imageName != "" {
		product.ImageURL = storage.URL(imageName)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.discardImage(ctx, imageName)
		return nil, err
	}

	s.logger.Info().
		Str("product_id", product.ID.String()).
		Str("name", product.Name).
		Msg("product created")

	return s.GetByID(ctx, product.ID)
}

// Update replaces the product fields. When a new image is supplied the old
// one is deleted after the row is updated.
func (s *productService) Update(ctx context.Context, id uuid.UUID, in *model.ProductInput, image *model.ImageUpload) (*model.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}

	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldImageURL := product.ImageURL

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.CategoryID = in.CategoryID

	imageName, err := s.saveImage(ctx, image)
	if err != nil {
		return nil, err
	}
	if imageName != "" {
		product.ImageURL = storage.URL(imageName)
	}

	ok, err := s.productRepo.Update(ctx, product)
	if err != nil || !ok {
		s.discardImage(ctx, imageName)
		if err != nil {
			return nil, err
		}
		return nil, model.ErrProductNotFound
	}

	if imageName != "" {
		s.discardImage(ctx, storage.NameFromURL(oldImageURL))
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product updated")
	return s.GetByID(ctx, id)
}

// Delete removes the product and its image.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !ok {
		return model.ErrProductNotFound
	}

	s.discardImage(ctx, storage.NameFromURL(product.ImageURL))
	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")
	return nil
}

func (s *productService) saveImage(ctx context.Context, image *model.ImageUpload) (string, error) {
	if image == nil || image.Content == nil {
		return "", nil
	}
	name, err := s.images.Save(ctx, image.FileName, image.Content)
	if err != nil {
		s.logger.Error().Err(err).Str("file_name", image.FileName).Msg("failed to save product image")
		return "", fmt.Errorf("failed to save product image: %w", err)
	}
	return name, nil
}

// discardImage deletes an image on a best-effort basis.
func (s *productService) discardImage(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.images.Delete(ctx, name); err != nil {
		s.logger.Warn().Err(err).Str("image", name).Msg("failed to delete product image")
	}
}
