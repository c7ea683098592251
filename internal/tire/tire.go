package tire

import "errors"

// Neumatico is the neumaticos table model: one catalog entry with tire
// dimensions, stock, price, condition and an optional image reference.
//
// Imagen holds the bare stored-asset name; read paths rewrite it into a
// public URL before it leaves the service.
type Neumatico struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Marca     string  `gorm:"size:64;not null;index" json:"marca"`
	Modelo    string  `gorm:"size:64;not null;index" json:"modelo"`
	Alto      int     `gorm:"not null" json:"alto"`
	Ancho     int     `gorm:"not null" json:"ancho"`
	Pulgada   int     `gorm:"not null" json:"pulgada"`
	Cantidad  int     `gorm:"not null" json:"cantidad"`
	Precio    float64 `gorm:"type:decimal(10,2);not null" json:"precio"`
	Condicion string  `gorm:"size:32;not null" json:"condicion"` // nuevo / usado
	Imagen    string  `gorm:"size:128" json:"imagen,omitempty"`
}

func (Neumatico) TableName() string { return "neumaticos" }

// ErrNotFound means no record has the requested id.
var ErrNotFound = errors.New("neumático no encontrado")

// ValidationError is a caller error detected before any store access.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
