package api

import (
	"context"

	"github.com/auditax/console/internal/core/domain"
	"github.com/auditax/console/internal/core/ports"
)

// AuthAPI implements ports.AuthAPI over the access layer.
type AuthAPI struct {
	client *Client
}

func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

type loginResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

func (a *AuthAPI) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	creds := domain.Credentials{Username: username, Password: password}
	if err := checkInput(creds); err != nil {
		return nil, err
	}

	var resp loginResponse
	if err := a.client.Post(ctx, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &ports.LoginResult{Token: resp.Token, User: resp.User}, nil
}

func (a *AuthAPI) Logout(ctx context.Context) error {
	return a.client.Post(ctx, "/auth/logout", nil, nil)
}

func (a *AuthAPI) ValidateToken(ctx context.Context, token string) (bool, error) {
	var resp struct {
		Valid bool `json:"valid"`
	}
	if err := a.client.Get(ctx, "/auth/validate", &resp, WithToken(token)); err != nil {
		if IsAuth(err) {
			// the backend said no; that is an answer, not a failure
			return false, nil
		}
		return false, err
	}
	return resp.Valid, nil
}

type profileResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
}

func (a *AuthAPI) Profile(ctx context.Context) (*domain.User, error) {
	var resp profileResponse
	if err := a.client.Get(ctx, "/auth/profile", &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (a *AuthAPI) UpdateProfile(ctx context.Context, user *domain.User) (*domain.User, error) {
	var resp profileResponse
	if err := a.client.Put(ctx, "/auth/profile", user, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

func (a *AuthAPI) ChangePassword(ctx context.Context, current, newPassword, confirm string) error {
	req := changePasswordRequest{
		CurrentPassword: current,
		NewPassword:     newPassword,
		ConfirmPassword: confirm,
	}
	if err := checkInput(req); err != nil {
		return err
	}
	return a.client.Post(ctx, "/auth/change-password", req, nil)
}

func (a *AuthAPI) ForgotPassword(ctx context.Context, email string) error {
	req := struct {
		Email string `json:"email" validate:"required,email"`
	}{Email: email}
	if err := checkInput(req); err != nil {
		return err
	}
	return a.client.Post(ctx, "/auth/forgot-password", req, nil)
}

func (a *AuthAPI) ResetPassword(ctx context.Context, token, newPassword, confirm string) error {
	req := struct {
		Token           string `json:"token" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8"`
		ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
	}{Token: token, NewPassword: newPassword, ConfirmPassword: confirm}
	if err := checkInput(req); err != nil {
		return err
	}
	return a.client.Post(ctx, "/auth/reset-password", req, nil)
}
