package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gudang/internal/models"
	"gudang/internal/repositories"
	"gudang/internal/services"
)

type recordingMailer struct {
	email string
	link  string
	sent  int
}

func (m *recordingMailer) SendPasswordReset(email, link string) error {
	m.email = email
	m.link = link
	m.sent++
	return nil
}

func newAuthService(mailer services.Mailer) (*services.AuthService, *repositories.MockUserRepository) {
	repo := repositories.NewMockUserRepository()
	return services.NewAuthService(repo, "test-secret", mailer, "http://localhost/reset"), repo
}

func signUpCreds(email string) *models.SignUp {
	return &models.SignUp{
		Email:          email,
		Password:       "password123",
		RepeatPassword: "password123",
	}
}

func TestSignUpAndSignIn(t *testing.T) {
	service, _ := newAuthService(nil)

	user, token, err := service.SignUp(signUpCreds("budi@example.com"))
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "budi@example.com", user.Email)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "password123", user.Password, "password must be stored hashed")

	signedIn, token2, err := service.SignIn(&models.SignIn{
		Email:    "budi@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)
	assert.NotEmpty(t, token2)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	service, _ := newAuthService(nil)

	_, _, err := service.SignUp(signUpCreds("budi@example.com"))
	require.NoError(t, err)

	_, _, err = service.SignUp(signUpCreds("budi@example.com"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestSignInFailuresAreUniform(t *testing.T) {
	service, _ := newAuthService(nil)

	_, _, err := service.SignUp(signUpCreds("budi@example.com"))
	require.NoError(t, err)

	_, _, unknownErr := service.SignIn(&models.SignIn{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	require.Error(t, unknownErr)

	_, _, wrongErr := service.SignIn(&models.SignIn{
		Email:    "budi@example.com",
		Password: "wrong-password",
	})
	require.Error(t, wrongErr)

	assert.Equal(t, unknownErr.Error(), wrongErr.Error(),
		"unknown email and wrong password must be indistinguishable")
}

func TestValidateToken(t *testing.T) {
	service, _ := newAuthService(nil)

	user, token, err := service.SignUp(signUpCreds("budi@example.com"))
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, "budi@example.com", claims["email"])

	_, err = service.ValidateToken("not-a-token")
	assert.Error(t, err)

	other := services.NewAuthService(repositories.NewMockUserRepository(), "other-secret", nil, "")
	_, err = other.ValidateToken(token)
	assert.Error(t, err, "a token signed with a different secret must be rejected")
}

func TestCurrentUser(t *testing.T) {
	service, _ := newAuthService(nil)

	user, token, err := service.SignUp(signUpCreds("budi@example.com"))
	require.NoError(t, err)

	current, err := service.CurrentUser(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)
	assert.Equal(t, user.Email, current.Email)
}

func TestForgotPasswordSendsMail(t *testing.T) {
	mailer := &recordingMailer{}
	service, _ := newAuthService(mailer)

	_, _, err := service.SignUp(signUpCreds("budi@example.com"))
	require.NoError(t, err)

	require.NoError(t, service.ForgotPassword("budi@example.com"))
	assert.Equal(t, 1, mailer.sent)
	assert.Equal(t, "budi@example.com", mailer.email)
	assert.True(t, strings.HasPrefix(mailer.link, "http://localhost/reset?token="))
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	mailer := &recordingMailer{}
	service, _ := newAuthService(mailer)

	require.NoError(t, service.ForgotPassword("nobody@example.com"))
	assert.Zero(t, mailer.sent, "unknown addresses must not receive mail or an error")
}

func TestUpdatePassword(t *testing.T) {
	service, _ := newAuthService(nil)

	user, _, err := service.SignUp(signUpCreds("budi@example.com"))
	require.NoError(t, err)

	require.NoError(t, service.UpdatePassword(user.ID, "new-password"))

	_, _, err = service.SignIn(&models.SignIn{
		Email:    "budi@example.com",
		Password: "password123",
	})
	assert.Error(t, err, "old password must stop working")

	_, _, err = service.SignIn(&models.SignIn{
		Email:    "budi@example.com",
		Password: "new-password",
	})
	assert.NoError(t, err)
}
