package ports

import (
	"context"

	"github.com/auditax/console/internal/core/domain"
)

// LoginResult is the successful outcome of an authentication call.
type LoginResult struct {
	Token string
	User  *domain.User
}

// AuthAPI is the backend authentication surface consumed by the session
// store.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context) error
	// ValidateToken checks an explicit token against the backend. It reports
	// false (not an error) when the backend says the token is stale.
	ValidateToken(ctx context.Context, token string) (bool, error)
	Profile(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) (*domain.User, error)
	ChangePassword(ctx context.Context, current, newPassword, confirm string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword, confirm string) error
}
