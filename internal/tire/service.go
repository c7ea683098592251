package tire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/llanteria/llanteria/internal/asset"
)

// Store is the persistence contract the service runs against.
type Store interface {
	List(ctx context.Context, f FilterSet) ([]Neumatico, error)
	Get(ctx context.Context, id uint) (*Neumatico, error)
	Insert(ctx context.Context, n *Neumatico) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

// Upload is an incoming multipart file, already opened by the transport.
type Upload struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// RecordForm is the coerced field set of a create/update request.
type RecordForm struct {
	Marca     string
	Modelo    string
	Alto      *int
	Ancho     *int
	Pulgada   *int
	Cantidad  *int
	Precio    *float64
	Condicion string

	ImagenSet bool   // the form carried an imagen field
	Imagen    string // its verbatim value; "" unbinds on update
}

// ParseRecordForm coerces the form values of a mutation request. Unlike list
// filters, a present numeric field that fails to parse is a caller error.
func ParseRecordForm(values url.Values) (RecordForm, error) {
	form := RecordForm{
		Marca:     values.Get("marca"),
		Modelo:    values.Get("modelo"),
		Condicion: values.Get("condicion"),
		ImagenSet: values.Has("imagen"),
		Imagen:    values.Get("imagen"),
	}

	var err error
	if form.Alto, err = formInt(values, "alto"); err != nil {
		return form, err
	}
	if form.Ancho, err = formInt(values, "ancho"); err != nil {
		return form, err
	}
	if form.Pulgada, err = formInt(values, "pulgada"); err != nil {
		return form, err
	}
	if form.Cantidad, err = formInt(values, "cantidad"); err != nil {
		return form, err
	}
	if form.Precio, err = formFloat(values, "precio"); err != nil {
		return form, err
	}
	return form, nil
}

func formInt(values url.Values, key string) (*int, error) {
	if !values.Has(key) || values.Get(key) == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(values.Get(key))
	if err != nil {
		return nil, &ValidationError{Msg: fmt.Sprintf("El campo %s debe ser numérico.", key)}
	}
	return &v, nil
}

func formFloat(values url.Values, key string) (*float64, error) {
	if !values.Has(key) || values.Get(key) == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(values.Get(key), 64)
	if err != nil {
		return nil, &ValidationError{Msg: fmt.Sprintf("El campo %s debe ser numérico.", key)}
	}
	return &v, nil
}

// requireAll enforces the create/update field-presence invariant.
func (f RecordForm) requireAll() error {
	if f.Marca == "" || f.Modelo == "" || f.Condicion == "" ||
		f.Alto == nil || f.Ancho == nil || f.Pulgada == nil ||
		f.Cantidad == nil || f.Precio == nil {
		return &ValidationError{Msg: "Todos los campos son obligatorios."}
	}
	return nil
}

// Service holds the catalog use cases: filtered reads and the three
// mutations, with image binding.
type Service struct {
	store  Store
	binder *asset.Binder
}

func NewService(store Store, binder *asset.Binder) *Service {
	return &Service{store: store, binder: binder}
}

// List returns the filtered catalog with image references resolved to URLs.
func (s *Service) List(ctx context.Context, f FilterSet) ([]Neumatico, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	tires, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	for i := range tires {
		tires[i].Imagen = s.binder.ResolveURL(tires[i].Imagen)
	}
	return tires, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Neumatico, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	n, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	n.Imagen = s.binder.ResolveURL(n.Imagen)
	return n, nil
}

// Create validates every required field and the stock invariant, binds the
// uploaded image if any, then inserts. Upload rejection happens before the
// insert, so a rejected upload never creates a record.
func (s *Service) Create(ctx context.Context, form RecordForm, img *Upload) (uint, error) {
	if s == nil || s.store == nil {
		return 0, fmt.Errorf("service not initialized")
	}
	if err := form.requireAll(); err != nil {
		return 0, err
	}
	if *form.Cantidad < 0 {
		return 0, &ValidationError{Msg: "La cantidad no puede ser negativa."}
	}

	imagen := ""
	if form.ImagenSet {
		// A pre-existing reference submitted without a file is kept verbatim.
		imagen = form.Imagen
	}
	if img != nil {
		stored, err := s.storeUpload(img)
		if err != nil {
			return 0, err
		}
		imagen = stored.Name
	}

	n := &Neumatico{
		Marca:     form.Marca,
		Modelo:    form.Modelo,
		Alto:      *form.Alto,
		Ancho:     *form.Ancho,
		Pulgada:   *form.Pulgada,
		Cantidad:  *form.Cantidad,
		Precio:    *form.Precio,
		Condicion: form.Condicion,
		Imagen:    imagen,
	}
	if err := s.store.Insert(ctx, n); err != nil {
		return 0, err
	}
	return n.ID, nil
}

// Update overwrites every mutable field. The image reference is three-way:
// a new upload replaces it, an explicit empty imagen field unbinds it, and
// an absent field leaves it untouched.
func (s *Service) Update(ctx context.Context, id uint, form RecordForm, img *Upload) (int64, error) {
	if s == nil || s.store == nil {
		return 0, fmt.Errorf("service not initialized")
	}
	if err := form.requireAll(); err != nil {
		return 0, err
	}
	if *form.Cantidad < 0 {
		return 0, &ValidationError{Msg: "La cantidad no puede ser negativa."}
	}

	fields := map[string]interface{}{
		"marca":     form.Marca,
		"modelo":    form.Modelo,
		"alto":      *form.Alto,
		"ancho":     *form.Ancho,
		"pulgada":   *form.Pulgada,
		"cantidad":  *form.Cantidad,
		"precio":    *form.Precio,
		"condicion": form.Condicion,
	}

	switch {
	case img != nil:
		stored, err := s.storeUpload(img)
		if err != nil {
			return 0, err
		}
		fields["imagen"] = stored.Name
	case form.ImagenSet:
		fields["imagen"] = form.Imagen
	}

	return s.store.Update(ctx, id, fields)
}

// Delete removes the record. The previous image, if any, stays on disk;
// asset cleanup is out of scope.
func (s *Service) Delete(ctx context.Context, id uint) (int64, error) {
	if s == nil || s.store == nil {
		return 0, fmt.Errorf("service not initialized")
	}
	return s.store.Delete(ctx, id)
}

func (s *Service) storeUpload(img *Upload) (*asset.Stored, error) {
	if s.binder == nil {
		return nil, fmt.Errorf("binder not configured")
	}
	stored, err := s.binder.Store(img.Filename, img.ContentType, img.Data)
	if errors.Is(err, asset.ErrNotImage) {
		return nil, &ValidationError{Msg: "El archivo debe ser una imagen."}
	}
	if err != nil {
		return nil, err
	}
	return stored, nil
}
