package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductPatch_ApplyTo(t *testing.T) {
	name := "Updated Product"
	stock := 0
	active := false
	patch := &ProductPatch{Name: &name, Stock: &stock, IsActive: &active}

	product := Product{Name: "Test Product", Stock: 5, Price: 100, IsActive: true, Images: []string{"a.png"}}
	patch.ApplyTo(&product)

	assert.Equal(t, "Updated Product", product.Name)
	assert.Equal(t, 0, product.Stock)
	assert.False(t, product.IsActive)
	assert.Equal(t, 100.0, product.Price)
	assert.Equal(t, []string{"a.png"}, product.Images)
	assert.Equal(t, []string{"Name", "Stock", "IsActive"}, patch.Fields())
}

func TestProductPatch_ImagesReplaceAndCopy(t *testing.T) {
	images := []string{"b.png", "c.gif"}
	patch := &ProductPatch{Images: images}

	product := Product{Images: []string{"a.png"}}
	patch.ApplyTo(&product)
	images[0] = "mutated"

	assert.Equal(t, []string{"b.png", "c.gif"}, product.Images)
	assert.Equal(t, []string{"Images"}, patch.Fields())
}

func TestResponses(t *testing.T) {
	ok := SuccessResponse("Product retrieved successfully", map[string]string{"id": "p-1"})
	assert.Equal(t, StatusSuccess, ok.Status)
	assert.Empty(t, ok.ErrorCode)

	bad := ErrorResponse("PRODUCT_NOT_FOUND", "Product not found", nil)
	assert.Equal(t, StatusError, bad.Status)
	assert.Nil(t, bad.Data)
	assert.Equal(t, "PRODUCT_NOT_FOUND", bad.ErrorCode)
}
