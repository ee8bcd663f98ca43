package models

import "time"

// Product represents a catalog product.
type Product struct {
	ID          string    `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" bson:"name" gorm:"type:varchar(100);not null"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" gorm:"type:text"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty" gorm:"type:varchar(50)"`
	Stock       int       `json:"stock" bson:"stock"`
	Price       float64   `json:"price" bson:"price"`
	Images      []string  `json:"images" bson:"images" gorm:"serializer:json"`
	IsActive    bool      `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ProductPatch is a partial product update. Nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Category    *string
	Stock       *int
	Price       *float64
	IsActive    *bool
	// Images replaces the stored images when non-nil.
	Images []string
}

// Fields returns the Product field names the patch sets.
func (p *ProductPatch) Fields() []string {
	var fields []string
	if p.Name != nil {
		fields = append(fields, "Name")
	}
	if p.Description != nil {
		fields = append(fields, "Description")
	}
	if p.Category != nil {
		fields = append(fields, "Category")
	}
	if p.Stock != nil {
		fields = append(fields, "Stock")
	}
	if p.Price != nil {
		fields = append(fields, "Price")
	}
	if p.IsActive != nil {
		fields = append(fields, "IsActive")
	}
	if p.Images != nil {
		fields = append(fields, "Images")
	}
	return fields
}

// ApplyTo merges the set fields of the patch into product.
func (p *ProductPatch) ApplyTo(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.IsActive != nil {
		product.IsActive = *p.IsActive
	}
	if p.Images != nil {
		product.Images = append([]string(nil), p.Images...)
	}
}
