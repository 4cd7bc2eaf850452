package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"gudang/internal/apperrors"
	"gudang/internal/services"
	"gudang/internal/validation"
)

// ProductHandler exposes the product CRUD surface. All routes are
// registered behind the auth middleware, so the acting user is always
// present in the request context.
type ProductHandler struct {
	service services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts returns the caller's product collection, ordered
// by name.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.FetchAll(userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProductByID returns one product, or null when it does not
// exist. Absence is a valid outcome, not an error.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.FetchByID(userID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct validates the payload and inserts a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	payload, verr := validation.ProductInsert(c.Body())
	if verr != nil {
		return respondValidation(c, verr)
	}

	product, err := h.service.Create(userID(c), payload)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleUpdateProduct validates the partial payload and patches only
// the provided fields.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	updates, verr := validation.ProductUpdate(c.Body())
	if verr != nil {
		return respondValidation(c, verr)
	}

	product, err := h.service.Update(userID(c), c.Params("id"), updates)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct soft-deletes a product and confirms with its
// identifier.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := h.service.Delete(userID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"id": id})
}

// userID reads the acting user set by the auth middleware.
func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// respondValidation maps a validation failure to 400 with per-field
// detail, the one client-correctable error kind.
func respondValidation(c *fiber.Ctx, verr *validation.Error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  verr.Error(),
		"fields": verr.Fields,
	})
}

// respondError maps service failures onto the HTTP surface: 400 for
// validation, 404 for mutations on missing rows, 500 with a generic
// message for everything else. The underlying cause is logged, never
// sent to the client.
func respondError(c *fiber.Ctx, err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return respondValidation(c, verr)
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "product not found",
		})
	}

	log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal error",
	})
}
