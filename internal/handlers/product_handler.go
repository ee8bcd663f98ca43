package handlers

import (
	"bytes"
	"encoding/json"
	"strings"

	"productapi/internal/models"
	"productapi/internal/services"
	"productapi/internal/upload"
	"productapi/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ImagesField is the multipart field product images are sent under.
const ImagesField = "images"

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	productService *services.ProductService
	limits         upload.Limits
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService, limits upload.Limits) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		limits:         limits,
	}
}

// RegisterRoutes registers the product routes. auth runs before every
// product route; writeGuards additionally run before create, update and delete.
// Guards are per route; unknown paths fall through to a 404.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler, writeGuards ...fiber.Handler) {
	read := []fiber.Handler{auth}
	write := append([]fiber.Handler{auth}, writeGuards...)

	productRoutes := router.Group("/products")
	productRoutes.Get("/", guarded(read, h.GetAllProducts)...)
	productRoutes.Get("/:id", guarded(read, h.GetProductByID)...)
	productRoutes.Post("/", guarded(write, h.CreateProduct)...)
	productRoutes.Put("/:id", guarded(write, h.UpdateProduct)...)
	productRoutes.Delete("/:id", guarded(write, h.DeleteProduct)...)
}

func guarded(guards []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	chain := make([]fiber.Handler, 0, len(guards)+1)
	chain = append(chain, guards...)
	return append(chain, handler)
}

// GetAllProducts returns every product.
func (h *ProductHandler) GetAllProducts(c *fiber.Ctx) error {
	products, err := h.productService.GetAllProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(models.SuccessResponse("Products retrieved successfully", products))
}

// GetProductByID returns one product.
func (h *ProductHandler) GetProductByID(c *fiber.Ctx) error {
	product, err := h.productService.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(models.SuccessResponse("Product retrieved successfully", product))
}

// CreateProduct accepts multipart form fields with up to the configured
// number of images, or a JSON body without images.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	raw, files, err := h.parseBody(c)
	if err != nil {
		return err
	}
	id, err := h.productService.CreateProduct(c.UserContext(), raw, files)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse("Product created successfully", fiber.Map{"id": id}))
}

// UpdateProduct applies a partial update and returns the updated product.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	raw, files, err := h.parseBody(c)
	if err != nil {
		return err
	}
	product, err := h.productService.UpdateProduct(c.UserContext(), c.Params("id"), raw, files)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(models.SuccessResponse("Product updated successfully", product))
}

// DeleteProduct removes a product.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.productService.DeleteProduct(c.UserContext(), id); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(models.SuccessResponse("Product deleted successfully", fiber.Map{"id": id}))
}

// parseBody reads form fields and image attachments from a multipart body,
// or fields from a JSON body. Numbers in JSON stay json.Number until coerced.
func (h *ProductHandler) parseBody(c *fiber.Ctx) (validation.Payload, []upload.File, error) {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Invalid multipart body")
		}
		for field := range form.File {
			if field != ImagesField {
				return nil, nil, &upload.FileError{Name: field, Reason: "is sent under an unexpected field; use " + ImagesField}
			}
		}
		raw := validation.Payload{}
		for key, values := range form.Value {
			if len(values) > 0 {
				raw[key] = values[0]
			}
		}
		files, err := upload.FromMultipart(form.File[ImagesField], h.limits)
		if err != nil {
			return nil, nil, err
		}
		return raw, files, nil
	}

	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return validation.Payload{}, nil, nil
	}
	var raw validation.Payload
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return raw, nil, nil
}
