package admin

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/llanteria/llanteria/internal/common/auth"
	"github.com/llanteria/llanteria/internal/common/config"
)

// Store is the persistence contract the service runs against.
// Implementations return ErrNoMatch / ErrNotFound for the lookup misses.
type Store interface {
	FindByCredentials(ctx context.Context, nombre, password string) (*Administrador, error)
	List(ctx context.Context) ([]Administrador, error)
	FindByID(ctx context.Context, id uint) (*Administrador, error)
}

// Service holds the admin use cases: login plus the two read endpoints.
type Service struct {
	store   Store
	authCfg config.AuthConfig
}

func NewService(store Store, authCfg config.AuthConfig) *Service {
	return &Service{store: store, authCfg: authCfg}
}

// LoginResult carries the matched row and, when a JWT secret is configured,
// an access token for subsequent requests.
type LoginResult struct {
	Admin     *Administrador
	Token     string
	ExpiresAt time.Time
}

// Login validates presence of both fields before any store access, then
// performs the exact-match credential lookup.
func (s *Service) Login(ctx context.Context, nombre, password string) (*LoginResult, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if nombre == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	a, err := s.store.FindByCredentials(ctx, nombre, password)
	if err != nil {
		return nil, err
	}

	res := &LoginResult{Admin: a}
	if s.authCfg.JWTSecret != "" {
		ttl := time.Duration(s.authCfg.TTLHours) * time.Hour
		token, exp, err := auth.GenerateAccessToken(s.authCfg, strconv.FormatUint(uint64(a.ID), 10), a.Nombre, ttl)
		if err != nil {
			return nil, err
		}
		res.Token = token
		res.ExpiresAt = exp
	}
	return res, nil
}

func (s *Service) List(ctx context.Context) ([]Administrador, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uint) (*Administrador, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.store.FindByID(ctx, id)
}
