package repositories

import (
	"context"
	"errors"

	"productapi/internal/models"
)

// ErrProductNotFound is returned when no product matches the given ID.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// Create stores product, stamping its ID and timestamps, and returns the new ID.
	Create(ctx context.Context, product *models.Product) (string, error)
	// Update merges the set fields of patch into the stored product and refreshes UpdatedAt.
	Update(ctx context.Context, id string, patch *models.ProductPatch) error
	Delete(ctx context.Context, id string) error
}

func normalizeImages(p *models.Product) {
	if p.Images == nil {
		p.Images = []string{}
	}
}
