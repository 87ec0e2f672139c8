package service

import (
	"context"
	"errors"
	"fmt"

	"order-tracking-service/internal/model"
	"order-tracking-service/internal/repository"

	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Insert(ctx context.Context, u *model.User) error
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Servicio de registro, login y resolución de tokens.
type AuthService struct {
	users     UserRepository
	hasher    PasswordHasher
	tokens    *TokenIssuer
	dummyHash string
}

func NewAuthService(users UserRepository, hasher PasswordHasher, tokens *TokenIssuer) (*AuthService, error) {
	// Hash de relleno para que un email inexistente tarde lo mismo que una contraseña incorrecta.
	dummy, err := hasher.Hash("order-tracking-service")
	if err != nil {
		return nil, err
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummy,
	}, nil
}

func (a *AuthService) Register(ctx context.Context, email, fullName, password, phone string) (*model.User, error) {
	_, err := a.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrDuplicateUser
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find user %s: %w", email, err)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		PhoneNumber:  phone,
	}
	err = a.users.Insert(ctx, u)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrDuplicateUser
	}
	if err != nil {
		return nil, fmt.Errorf("%w: insert user: %v", ErrPersistenceFailure, err)
	}

	log.Infof("user %s registered", email)
	return u, nil
}

// Authenticate devuelve el mismo error para email desconocido y contraseña incorrecta.
func (a *AuthService) Authenticate(ctx context.Context, email, password string) (*TokenPair, error) {
	u, err := a.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		a.hasher.Verify(a.dummyHash, password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", email, err)
	}

	if !a.hasher.Verify(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return a.issuePair(u.Email)
}

// ResolveToken valida un access token y devuelve el usuario dueño del subject.
func (a *AuthService) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	subject, err := a.tokens.Parse(token, AccessToken)
	if err != nil {
		return nil, err
	}
	return a.findSubject(ctx, subject)
}

// Refresh canjea un refresh token válido por un par nuevo.
func (a *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	subject, err := a.tokens.Parse(refreshToken, RefreshToken)
	if err != nil {
		return nil, err
	}
	u, err := a.findSubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	return a.issuePair(u.Email)
}

func (a *AuthService) findSubject(ctx context.Context, subject string) (*model.User, error) {
	u, err := a.users.FindByEmail(ctx, subject)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", subject, err)
	}
	return u, nil
}

func (a *AuthService) issuePair(email string) (*TokenPair, error) {
	access, err := a.tokens.Issue(email, AccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := a.tokens.Issue(email, RefreshToken)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
