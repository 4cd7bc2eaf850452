package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"gudang/internal/apperrors"
	"gudang/internal/models"
	"gudang/internal/validation"
)

// HTTPProductService implements ProductService over the REST surface.
// It is the client-context path: GET and DELETE carry no body, POST
// and PUT send the payload as JSON, and non-success responses are
// converted back into the same error kinds the local path produces,
// so callers cannot tell the two apart.
type HTTPProductService struct {
	baseURL string // e.g. "http://localhost:8080/api/v1"
	token   string // bearer token of the acting user
}

// NewHTTPProductService creates a new HTTPProductService.
func NewHTTPProductService(baseURL, token string) *HTTPProductService {
	return &HTTPProductService{
		baseURL: baseURL,
		token:   token,
	}
}

// FetchAll retrieves the caller's product collection.
func (s *HTTPProductService) FetchAll(userID string) ([]models.Product, error) {
	var products []models.Product
	if err := s.do(fiber.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchByID retrieves one product; a null response body means absent
// and comes back as (nil, nil).
func (s *HTTPProductService) FetchByID(userID, id string) (*models.Product, error) {
	var product *models.Product
	if err := s.do(fiber.MethodGet, "/products/"+id, nil, &product); err != nil {
		return nil, err
	}
	return product, nil
}

// Create posts a creation payload and returns the created product.
func (s *HTTPProductService) Create(userID string, payload *models.ProductInsert) (*models.Product, error) {
	var product models.Product
	if err := s.do(fiber.MethodPost, "/products", payload, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update sends a partial patch and returns the updated product.
func (s *HTTPProductService) Update(userID, id string, updates *models.ProductUpdate) (*models.Product, error) {
	var product models.Product
	if err := s.do(fiber.MethodPut, "/products/"+id, updates, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Delete removes a product and returns the confirmed identifier.
func (s *HTTPProductService) Delete(userID, id string) (string, error) {
	var confirmation struct {
		ID string `json:"id"`
	}
	if err := s.do(fiber.MethodDelete, "/products/"+id, nil, &confirmation); err != nil {
		return "", err
	}
	return confirmation.ID, nil
}

// errorBody is the error payload the REST surface produces.
type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// do performs one request against the REST surface and decodes the
// response into dest on success.
func (s *HTTPProductService) do(method, path string, body interface{}, dest interface{}) error {
	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(s.baseURL + path)
	if s.token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+s.token)
	}
	if body != nil {
		agent.JSON(body)
	}

	if err := agent.Parse(); err != nil {
		return fmt.Errorf("failed to build request %s %s: %w", method, path, err)
	}

	code, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("request %s %s failed: %w", method, path, errs[0])
	}
	if code != fiber.StatusOK {
		return s.asError(code, respBody)
	}

	if dest != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, dest); err != nil {
			return fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
		}
	}
	return nil
}

// asError maps a non-success response back onto the local error
// taxonomy: 400 with field detail becomes a validation error, 404
// becomes ErrNotFound, anything else carries the server-reported
// message.
func (s *HTTPProductService) asError(code int, body []byte) error {
	var payload errorBody
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		payload.Error = fmt.Sprintf("server returned status %d", code)
	}

	switch code {
	case fiber.StatusBadRequest:
		if len(payload.Fields) > 0 {
			return &validation.Error{Fields: payload.Fields}
		}
		return errors.New(payload.Error)
	case fiber.StatusNotFound:
		return apperrors.ErrNotFound
	default:
		return errors.New(payload.Error)
	}
}
