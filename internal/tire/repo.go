package tire

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

// List runs the composed filter query. Predicates are chained in the
// canonical order and the result is always sorted by (marca, modelo, id).
func (r *Repo) List(ctx context.Context, f FilterSet) ([]Neumatico, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}

	q := r.db.WithContext(ctx).Model(&Neumatico{})
	conds, args := f.Predicates()
	for i := range conds {
		q = q.Where(conds[i], args[i])
	}

	var tires []Neumatico
	if err := q.Order(OrderBy).Find(&tires).Error; err != nil {
		return nil, err
	}
	return tires, nil
}

func (r *Repo) Get(ctx context.Context, id uint) (*Neumatico, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var n Neumatico
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *Repo) Insert(ctx context.Context, n *Neumatico) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Create(n).Error
}

// Update overwrites the given columns on one row and reports how many rows
// were touched; 0 means the id did not exist.
func (r *Repo) Update(ctx context.Context, id uint, fields map[string]interface{}) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	tx := r.db.WithContext(ctx).Model(&Neumatico{}).Where("id = ?", id).Updates(fields)
	return tx.RowsAffected, tx.Error
}

// Delete removes one row by primary key. Deleting a missing id is not an
// error; the affected count of 0 carries that fact to the caller.
func (r *Repo) Delete(ctx context.Context, id uint) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Neumatico{})
	return tx.RowsAffected, tx.Error
}
