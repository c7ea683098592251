package admin

import "errors"

// Administrador is the administrador table model. Rows are seed data created
// out-of-band; this service only reads them.
//
// Password is stored and compared in plaintext; the existing rows are
// plaintext, so changing the scheme requires migrating them first.
type Administrador struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Nombre   string `gorm:"uniqueIndex;size:64;not null" json:"nombre"`
	Password string `gorm:"size:128;not null" json:"password"`
}

func (Administrador) TableName() string { return "administrador" }

var (
	// ErrMissingCredentials is a caller error, reported before any lookup.
	ErrMissingCredentials = errors.New("nombre y password son requeridos")
	// ErrNoMatch means the credentials matched no administrator.
	ErrNoMatch = errors.New("credenciales incorrectas")
	// ErrNotFound means no administrator has the requested id.
	ErrNotFound = errors.New("administrador no encontrado")
)
