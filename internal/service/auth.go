package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/policy"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
	pkghash "github.com/Skotchmaster/storefront/pkg/hash"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

const (
	maxUsernameLength = 150
	minPasswordLength = 8
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	AccessTTL time.Duration
}

type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
	User      models.User
}

func (s *AuthService) Register(ctx context.Context, req transport.CredentialsRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, invalid("username", "This field may not be blank.")
	}
	if len(username) > maxUsernameLength {
		return nil, invalid("username", "Ensure this field has no more than 150 characters.")
	}
	if len(req.Password) < minPasswordLength {
		return nil, invalid("password", "This password is too short. It must contain at least 8 characters.")
	}

	hash, err := pkghash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: username, PasswordHash: hash, Role: models.RoleUser}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, invalid("username", "A user with that username already exists.")
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.CredentialsRequest) (*IssuedToken, error) {
	user, err := s.Repo.UserExist(ctx, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	exp := time.Now().Add(s.AccessTTL)
	token, err := tokens.NewAccessToken(user.ID.String(), user.Role, exp, s.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	return &IssuedToken{Token: token, ExpiresAt: exp, User: *user}, nil
}

// EnsureAdmin makes sure an elevated account with these credentials exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, invalid("username", "admin credentials are incomplete")
	}
	hash, err := pkghash.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return s.Repo.EnsureAdmin(ctx, strings.TrimSpace(username), hash)
}

// Principal turns the identity stored by the auth middleware into a policy
// principal. An unknown role is treated as standard.
func Principal(subject, role string) (*policy.Principal, error) {
	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject", ErrUnauthenticated)
	}
	r := policy.RoleStandard
	if role == models.RoleAdmin {
		r = policy.RoleElevated
	}
	return &policy.Principal{ID: id, Role: r}, nil
}

func (s *AuthService) Me(ctx context.Context, who *policy.Principal) (*models.User, error) {
	if who == nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.Repo.GetUserByID(ctx, who.ID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user %s no longer exists", ErrUnauthenticated, who.ID)
		}
		return nil, err
	}
	return user, nil
}
