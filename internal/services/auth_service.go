package services

import (
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"gudang/internal/models"
	"gudang/internal/repositories"
)

// AuthService handles business logic for authentication: credential
// checks, token issuing/validation and password lifecycle. It is the
// external collaborator the auth state store drives.
type AuthService struct {
	userRepo     repositories.UserRepository
	jwtSecret    []byte
	tokenDurat   time.Duration // Duration for which a session JWT is valid
	resetDurat   time.Duration // Duration for which a reset token is valid
	mailer       Mailer
	resetBaseURL string
}

// NewAuthService creates a new AuthService. mailer may be nil, in
// which case reset mails are skipped (and logged).
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, mailer Mailer, resetBaseURL string) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtSecret:    []byte(jwtSecret),
		tokenDurat:   24 * time.Hour,
		resetDurat:   15 * time.Minute,
		mailer:       mailer,
		resetBaseURL: resetBaseURL,
	}
}

// SignUp registers a new user, hashes their password and signs them in
// immediately, returning the user and a session token.
func (s *AuthService) SignUp(creds *models.SignUp) (*models.User, string, error) {
	existing, err := s.userRepo.GetByEmail(creds.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", fmt.Errorf("email '%s' already registered", creds.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    creds.Email,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SignIn authenticates a user by email and password and returns the
// user and a session token. Failures are reported uniformly so the
// caller cannot tell an unknown email from a wrong password.
func (s *AuthService) SignIn(creds *models.SignIn) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(creds.Email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SignOut ends a session. Tokens are stateless, so there is nothing to
// revoke server-side; the caller discards the token.
func (s *AuthService) SignOut(token string) error {
	return nil
}

// ForgotPassword issues a short-lived reset token and mails it to the
// user. An unknown email is not an error, so the endpoint does not
// reveal which addresses exist.
func (s *AuthService) ForgotPassword(email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		log.Printf("Password reset requested for unknown email %s", email)
		return nil
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"purpose": "password_reset",
		"exp":     time.Now().Add(s.resetDurat).Unix(),
		"iat":     time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	if s.mailer == nil {
		log.Printf("No mailer configured; skipping reset mail for %s", email)
		return nil
	}
	link := fmt.Sprintf("%s?token=%s", s.resetBaseURL, tokenString)
	return s.mailer.SendPasswordReset(user.Email, link)
}

// UpdatePassword sets a new password for the given user.
func (s *AuthService) UpdatePassword(userID, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(userID, string(hashedPassword))
}

// CurrentUser resolves a session token to its user.
func (s *AuthService) CurrentUser(token string) (*models.User, error) {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return s.UserByID(userID)
}

// UserByID loads a user by identifier.
func (s *AuthService) UserByID(id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}
	return user, nil
}

// ValidateToken parses and validates a session JWT, returning the
// claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}
