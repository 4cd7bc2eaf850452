package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"gudang/internal/models"
	"gudang/internal/services"
	"gudang/internal/validation"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignUp)
	authRoutes.Post("/signin", h.HandleSignIn)
	authRoutes.Post("/forgot-password", h.HandleForgotPassword)
}

// RegisterProtectedRoutes registers the routes that require a session.
func (h *AuthHandler) RegisterProtectedRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signout", h.HandleSignOut)
	authRoutes.Post("/update-password", h.HandleUpdatePassword)
	authRoutes.Get("/me", h.HandleMe)
}

// HandleSignUp registers a new user and returns the user with a
// session token.
func (h *AuthHandler) HandleSignUp(c *fiber.Ctx) error {
	var creds models.SignUp
	if err := c.BodyParser(&creds); err != nil {
		return respondBadBody(c, err)
	}
	if verr := validation.Struct(&creds); verr != nil {
		return respondValidation(c, verr)
	}

	user, token, err := h.authService.SignUp(&creds)
	if err != nil {
		if strings.Contains(err.Error(), "already registered") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		log.Printf("Error signing up %s: %v", creds.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// HandleSignIn authenticates a user and returns the user with a
// session token.
func (h *AuthHandler) HandleSignIn(c *fiber.Ctx) error {
	var creds models.SignIn
	if err := c.BodyParser(&creds); err != nil {
		return respondBadBody(c, err)
	}
	if verr := validation.Struct(&creds); verr != nil {
		return respondValidation(c, verr)
	}

	user, token, err := h.authService.SignIn(&creds)
	if err != nil {
		log.Printf("Error during sign-in for %s: %v", creds.Email, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid credentials",
		})
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// HandleSignOut ends the session. Tokens are stateless, so this is a
// confirmation for the client to discard its token.
func (h *AuthHandler) HandleSignOut(c *fiber.Ctx) error {
	if err := h.authService.SignOut(""); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "signed out",
	})
}

// HandleForgotPassword triggers a reset mail. The response is the same
// whether or not the email exists.
func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var creds models.ForgotPassword
	if err := c.BodyParser(&creds); err != nil {
		return respondBadBody(c, err)
	}
	if verr := validation.Struct(&creds); verr != nil {
		return respondValidation(c, verr)
	}

	if err := h.authService.ForgotPassword(creds.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "if the email exists, a reset link has been sent",
	})
}

// HandleUpdatePassword sets a new password for the authenticated user.
func (h *AuthHandler) HandleUpdatePassword(c *fiber.Ctx) error {
	var creds models.UpdatePassword
	if err := c.BodyParser(&creds); err != nil {
		return respondBadBody(c, err)
	}
	if verr := validation.Struct(&creds); verr != nil {
		return respondValidation(c, verr)
	}

	if err := h.authService.UpdatePassword(userID(c), creds.Password); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "password updated",
	})
}

// HandleMe returns the authenticated user.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.authService.UserByID(userID(c))
	if err != nil {
		log.Printf("Error resolving current user: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid session",
		})
	}
	return c.JSON(user)
}

func respondBadBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing request body: %v", err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "invalid request body",
	})
}
