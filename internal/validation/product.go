// Package validation turns loosely typed product payloads, such as multipart
// form values or decoded JSON, into typed product records.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"productapi/internal/models"

	"github.com/go-playground/validator/v10"
)

// Payload is a raw request body: field name to untyped value.
type Payload map[string]any

// maxSafeInteger mirrors the largest integer a float64 represents exactly.
const maxSafeInteger = 1<<53 - 1

type mode int

const (
	modeCreate mode = iota
	modeUpdate
)

var requiredOnCreate = []string{"name", "stock", "price"}

// forbidden keys are server-managed and may never be supplied by a client.
var forbidden = map[string]bool{
	"id":        true,
	"images":    true,
	"createdAt": true,
	"updatedAt": true,
}

var labels = map[string]string{
	"name":        "Name",
	"description": "Description",
	"category":    "Category",
	"stock":       "Stock",
	"price":       "Price",
	"isActive":    "IsActive",
}

// productRules holds the bounds checked once values are coerced.
type productRules struct {
	Name        *string  `json:"name" validate:"omitnil,min=3,max=100"`
	Description *string  `json:"description" validate:"omitnil,min=1,max=10000"`
	Category    *string  `json:"category" validate:"omitnil,min=1,max=50"`
	Stock       *int     `json:"stock" validate:"omitnil,gte=0"`
	Price       *float64 `json:"price" validate:"omitnil,gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

// ParseCreate validates a create payload. name, stock and price are required;
// an omitted isActive defaults to false.
func ParseCreate(raw Payload) (*models.Product, error) {
	patch, err := parse(raw, modeCreate)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:   *patch.Name,
		Stock:  *patch.Stock,
		Price:  *patch.Price,
		Images: []string{},
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.IsActive != nil {
		product.IsActive = *patch.IsActive
	}
	return product, nil
}

// ParsePatch validates an update payload. Every field is optional and only
// the fields present end up set on the returned patch.
func ParsePatch(raw Payload) (*models.ProductPatch, error) {
	return parse(raw, modeUpdate)
}

func parse(raw Payload, m mode) (*models.ProductPatch, error) {
	verr := &ValidationError{Fields: map[string]string{}}
	patch := &models.ProductPatch{}

	for key := range raw {
		if _, known := labels[key]; forbidden[key] || !known {
			verr.add(key, fmt.Sprintf("%s is not allowed", key))
		}
	}

	if m == modeCreate {
		for _, key := range requiredOnCreate {
			if _, ok := raw[key]; !ok {
				verr.missing = append(verr.missing, key)
				verr.add(key, labels[key]+" is required")
			}
		}
	}

	patch.Name = stringField(raw, "name", verr)
	patch.Description = stringField(raw, "description", verr)
	patch.Category = stringField(raw, "category", verr)
	patch.Price = numberField(raw, "price", m, verr)
	if f := numberField(raw, "stock", m, verr); f != nil {
		if *f != math.Trunc(*f) {
			verr.add("stock", "Stock must be an integer")
		} else {
			stock := int(*f)
			patch.Stock = &stock
		}
	}
	if v, ok := raw["isActive"]; ok {
		active := coerceBool(v)
		patch.IsActive = &active
	}

	checkBounds(patch, verr)

	if !verr.empty() {
		return nil, verr
	}
	return patch, nil
}

func stringField(raw Payload, key string, verr *ValidationError) *string {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		verr.add(key, labels[key]+" must be a string")
		return nil
	}
	if s == "" {
		verr.add(key, labels[key]+" cannot be empty")
		return nil
	}
	return &s
}

// numberField accepts JSON numbers and numeric strings. A present but blank
// string is an error, never treated as absent.
func numberField(raw Payload, key string, m mode, verr *ValidationError) *float64 {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	label := labels[key]

	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			verr.add(key, label+" must be a number")
			return nil
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			if m == modeCreate {
				verr.add(key, label+" cannot be empty")
			} else {
				verr.add(key, label+" cannot be an empty string")
			}
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			verr.add(key, label+" must be a number")
			return nil
		}
		f = parsed
	default:
		verr.add(key, label+" must be a number")
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		verr.add(key, label+" must be a number")
		return nil
	}
	if math.Abs(f) > maxSafeInteger {
		verr.add(key, label+" must be a safe number")
		return nil
	}
	return &f
}

// coerceBool maps booleans as-is and only the string "true" to true.
func coerceBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	default:
		return false
	}
}

func checkBounds(patch *models.ProductPatch, verr *ValidationError) {
	rules := productRules{
		Name:        patch.Name,
		Description: patch.Description,
		Category:    patch.Category,
		Stock:       patch.Stock,
		Price:       patch.Price,
	}
	err := validate.Struct(rules)
	if err == nil {
		return
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		verr.add("_", err.Error())
		return
	}
	for _, e := range validationErrors {
		verr.add(e.Field(), ruleMessage(e))
	}
}

func ruleMessage(e validator.FieldError) string {
	label := labels[e.Field()]
	switch e.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", label, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", label, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", label, e.Param())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", label, e.Tag())
	}
}
