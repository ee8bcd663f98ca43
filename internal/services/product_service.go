package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"productapi/internal/metrics"
	"productapi/internal/models"
	"productapi/internal/repositories"
	"productapi/internal/upload"
	"productapi/internal/validation"
)

// ImageUploader stores admitted images and returns their public URLs in input order.
type ImageUploader interface {
	Upload(ctx context.Context, files []upload.File) ([]string, error)
}

// EventPublisher announces product lifecycle events.
type EventPublisher interface {
	PublishProductEvent(event models.ProductEvent) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	images    ImageUploader
	publisher EventPublisher
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, images ImageUploader, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		images:    images,
		publisher: publisher,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, persistenceError(CodeFetchFailed, err)
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, err)
		}
		return nil, persistenceError(CodeFetchFailed, err)
	}
	return product, nil
}

// CreateProduct admits files, validates fields, uploads images and stores the
// product, stopping at the first failing step. It returns the new ID.
func (s *ProductService) CreateProduct(ctx context.Context, raw validation.Payload, files []upload.File) (string, error) {
	if err := upload.Validate(files); err != nil {
		return "", err
	}
	product, err := validation.ParseCreate(raw)
	if err != nil {
		return "", err
	}

	if len(files) > 0 {
		urls, err := s.uploadImages(ctx, files)
		if err != nil {
			return "", err
		}
		product.Images = urls
	}

	id, err := s.repo.Create(ctx, product)
	if err != nil {
		return "", persistenceError(CodeCreateFailed, err)
	}

	s.publish(models.EventProductCreated, id, product.Images)
	return id, nil
}

// UpdateProduct merges the fields present in raw into an existing product.
// Attached files replace its images; without files the images are kept.
// It returns the product as stored after the update.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, raw validation.Payload, files []upload.File) (*models.Product, error) {
	if err := upload.Validate(files); err != nil {
		return nil, err
	}
	patch, err := validation.ParsePatch(raw)
	if err != nil {
		return nil, err
	}

	if _, err := s.GetProductByID(ctx, id); err != nil {
		return nil, err
	}

	if len(files) > 0 {
		urls, err := s.uploadImages(ctx, files)
		if err != nil {
			return nil, err
		}
		patch.Images = urls
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, err)
		}
		return nil, persistenceError(CodeUpdateFailed, err)
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, err)
		}
		return nil, persistenceError(CodeFetchFailed, err)
	}

	s.publish(models.EventProductUpdated, id, patch.Images)
	return updated, nil
}

// DeleteProduct deletes a product by its ID. Its stored images are left in place.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return fmt.Errorf("product %s: %w", id, err)
		}
		return persistenceError(CodeDeleteFailed, err)
	}
	s.publish(models.EventProductDeleted, id, nil)
	return nil
}

func (s *ProductService) uploadImages(ctx context.Context, files []upload.File) ([]string, error) {
	urls, err := s.images.Upload(ctx, files)
	if err != nil {
		metrics.ImageUploads.WithLabelValues("failed").Inc()
		return nil, err
	}
	metrics.ImageUploads.WithLabelValues("success").Add(float64(len(urls)))
	return urls, nil
}

// publish is best effort: the write already succeeded.
func (s *ProductService) publish(eventType, id string, images []string) {
	metrics.ProductWrites.WithLabelValues(eventType).Inc()
	if s.publisher == nil {
		return
	}
	event := models.ProductEvent{
		Type:       eventType,
		ProductID:  id,
		Images:     images,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishProductEvent(event); err != nil {
		log.Printf("Failed to publish %s event for product %s: %v", eventType, id, err)
	}
}
