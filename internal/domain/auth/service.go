package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
)

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// Login authenticates against the backend. Backend errors are returned as is,
// except that a missing token in a 2xx response becomes ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var resp loginResponse
	body := map[string]string{"email": strings.TrimSpace(email), "password": password}
	if err := s.client.Post(ctx, "/auth/login", body, &resp); err != nil {
		slog.Warn("login failed", "err", err)
		return LoginResult{}, err
	}
	result := resp.result()
	if result.Token == "" {
		return LoginResult{}, fmt.Errorf("login response without token: %w", ErrInvalidCredentials)
	}
	if result.User.Role == "" {
		result.User.Role = InspectToken(result.Token).Role
	}
	return result, nil
}

// IsCredentialError reports whether err means the user typed the wrong credentials.
func IsCredentialError(err error) bool {
	if errors.Is(err, ErrInvalidCredentials) {
		return true
	}
	switch apiclient.StatusOf(err) {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return false
}
