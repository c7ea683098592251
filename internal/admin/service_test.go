package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/llanteria/llanteria/internal/common/config"
)

type stubStore struct {
	admins      []Administrador
	lookupCalls int
}

func (s *stubStore) FindByCredentials(ctx context.Context, nombre, password string) (*Administrador, error) {
	s.lookupCalls++
	for i := range s.admins {
		if s.admins[i].Nombre == nombre && s.admins[i].Password == password {
			return &s.admins[i], nil
		}
	}
	return nil, ErrNoMatch
}

func (s *stubStore) List(ctx context.Context) ([]Administrador, error) {
	return s.admins, nil
}

func (s *stubStore) FindByID(ctx context.Context, id uint) (*Administrador, error) {
	for i := range s.admins {
		if s.admins[i].ID == id {
			return &s.admins[i], nil
		}
	}
	return nil, ErrNotFound
}

func seededStore() *stubStore {
	return &stubStore{admins: []Administrador{
		{ID: 1, Nombre: "admin", Password: "secreto"},
	}}
}

func TestLoginRejectsMissingFieldsBeforeLookup(t *testing.T) {
	store := seededStore()
	svc := NewService(store, config.AuthConfig{})

	for _, c := range []struct{ nombre, password string }{
		{"", "secreto"},
		{"admin", ""},
		{"", ""},
	} {
		_, err := svc.Login(context.Background(), c.nombre, c.password)
		if !errors.Is(err, ErrMissingCredentials) {
			t.Fatalf("nombre=%q password=%q: expected ErrMissingCredentials, got %v", c.nombre, c.password, err)
		}
	}
	if store.lookupCalls != 0 {
		t.Fatalf("validation failures must not hit the store, got %d lookups", store.lookupCalls)
	}
}

func TestLoginWrongPasswordIsNoMatch(t *testing.T) {
	svc := NewService(seededStore(), config.AuthConfig{})

	_, err := svc.Login(context.Background(), "admin", "wrong")
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestLoginReturnsFullRow(t *testing.T) {
	svc := NewService(seededStore(), config.AuthConfig{})

	res, err := svc.Login(context.Background(), "admin", "secreto")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Admin == nil || res.Admin.ID != 1 || res.Admin.Nombre != "admin" || res.Admin.Password != "secreto" {
		t.Fatalf("expected the stored row unmodified, got %+v", res.Admin)
	}
	if res.Token != "" {
		t.Fatalf("no secret configured, expected no token")
	}
}

func TestLoginIssuesTokenWhenConfigured(t *testing.T) {
	svc := NewService(seededStore(), config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "llanteria",
		TTLHours:  1,
	})

	res, err := svc.Login(context.Background(), "admin", "secreto")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected access token")
	}
}

func TestGetUnknownIDIsNotFound(t *testing.T) {
	svc := NewService(seededStore(), config.AuthConfig{})

	if _, err := svc.Get(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
