package admin

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// FindByCredentials performs the exact-match lookup. A missing row is
// ErrNoMatch; anything else is a store error.
func (r *Repo) FindByCredentials(ctx context.Context, nombre, password string) (*Administrador, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var a Administrador
	err := r.db.WithContext(ctx).
		Where("nombre = ? AND password = ?", nombre, password).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoMatch
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) List(ctx context.Context) ([]Administrador, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var admins []Administrador
	if err := r.db.WithContext(ctx).Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *Repo) FindByID(ctx context.Context, id uint) (*Administrador, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var a Administrador
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
