package tire

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/llanteria/llanteria/internal/asset"
	"github.com/llanteria/llanteria/internal/common/config"
)

type stubStore struct {
	tires   map[uint]Neumatico
	nextID  uint
	inserts int
	updates []map[string]interface{}
}

func newStubStore() *stubStore {
	return &stubStore{tires: make(map[uint]Neumatico), nextID: 1}
}

func (s *stubStore) List(ctx context.Context, f FilterSet) ([]Neumatico, error) {
	out := make([]Neumatico, 0, len(s.tires))
	for _, n := range s.tires {
		out = append(out, n)
	}
	return out, nil
}

func (s *stubStore) Get(ctx context.Context, id uint) (*Neumatico, error) {
	n, ok := s.tires[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &n, nil
}

func (s *stubStore) Insert(ctx context.Context, n *Neumatico) error {
	s.inserts++
	n.ID = s.nextID
	s.nextID++
	s.tires[n.ID] = *n
	return nil
}

func (s *stubStore) Update(ctx context.Context, id uint, fields map[string]interface{}) (int64, error) {
	s.updates = append(s.updates, fields)
	if _, ok := s.tires[id]; !ok {
		return 0, nil
	}
	return 1, nil
}

func (s *stubStore) Delete(ctx context.Context, id uint) (int64, error) {
	if _, ok := s.tires[id]; !ok {
		return 0, nil
	}
	delete(s.tires, id)
	return 1, nil
}

func testService(t *testing.T) (*Service, *stubStore) {
	t.Helper()
	store := newStubStore()
	binder := asset.NewBinder(config.UploadsConfig{
		Dir:        filepath.Join(t.TempDir(), "uploads"),
		PublicBase: "http://localhost:3000/uploads",
	})
	return NewService(store, binder), store
}

func fullForm() url.Values {
	v := url.Values{}
	v.Set("marca", "Michelin")
	v.Set("modelo", "Pilot")
	v.Set("alto", "60")
	v.Set("ancho", "205")
	v.Set("pulgada", "16")
	v.Set("cantidad", "4")
	v.Set("precio", "120.50")
	v.Set("condicion", "nuevo")
	return v
}

func mustParse(t *testing.T, v url.Values) RecordForm {
	t.Helper()
	form, err := ParseRecordForm(v)
	if err != nil {
		t.Fatalf("ParseRecordForm: %v", err)
	}
	return form
}

func TestCreateRoundTrip(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, mustParse(t, fullForm()), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected assigned id")
	}

	n, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if n.Marca != "Michelin" || n.Modelo != "Pilot" || n.Alto != 60 ||
		n.Ancho != 205 || n.Pulgada != 16 || n.Cantidad != 4 ||
		n.Precio != 120.50 || n.Condicion != "nuevo" {
		t.Fatalf("round-trip mismatch: %+v", n)
	}
	if n.Imagen != "" {
		t.Fatalf("expected imagen absent, got %q", n.Imagen)
	}
}

func TestCreateMissingFieldIsRejectedBeforeInsert(t *testing.T) {
	svc, store := testService(t)

	v := fullForm()
	v.Del("precio")

	_, err := svc.Create(context.Background(), mustParse(t, v), nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if store.inserts != 0 {
		t.Fatalf("rejected create must not insert")
	}
}

func TestCreateNegativeCantidadRejected(t *testing.T) {
	svc, store := testService(t)

	v := fullForm()
	v.Set("cantidad", "-1")

	_, err := svc.Create(context.Background(), mustParse(t, v), nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if store.inserts != 0 {
		t.Fatalf("rejected create must not insert")
	}
}

func TestCreateNonImageUploadRejectedBeforeInsert(t *testing.T) {
	svc, store := testService(t)

	img := &Upload{Filename: "doc.pdf", ContentType: "application/pdf", Data: strings.NewReader("%PDF")}
	_, err := svc.Create(context.Background(), mustParse(t, fullForm()), img)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if store.inserts != 0 {
		t.Fatalf("rejected upload must not create a record")
	}
}

func TestCreateWithImageBindsStoredName(t *testing.T) {
	svc, store := testService(t)
	ctx := context.Background()

	img := &Upload{Filename: "llanta.png", ContentType: "image/png", Data: strings.NewReader("png")}
	id, err := svc.Create(ctx, mustParse(t, fullForm()), img)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	raw := store.tires[id]
	if raw.Imagen == "" || !strings.HasSuffix(raw.Imagen, ".png") {
		t.Fatalf("expected bound stored name, got %q", raw.Imagen)
	}
	if strings.Contains(raw.Imagen, "/") {
		t.Fatalf("stored reference must be a bare name, got %q", raw.Imagen)
	}

	// Read path resolves the reference into a URL.
	n, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !strings.HasPrefix(n.Imagen, "http://localhost:3000/uploads/") {
		t.Fatalf("expected resolved URL, got %q", n.Imagen)
	}
}

func TestUpdateNegativeCantidadRejected(t *testing.T) {
	svc, store := testService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, mustParse(t, fullForm()), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	v := fullForm()
	v.Set("cantidad", "-1")
	_, err = svc.Update(ctx, id, mustParse(t, v), nil)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(store.updates) != 0 {
		t.Fatalf("rejected update must not reach the store")
	}
}

func TestUpdateImageTriState(t *testing.T) {
	svc, store := testService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, mustParse(t, fullForm()), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// New upload replaces the reference.
	img := &Upload{Filename: "new.jpg", ContentType: "image/jpeg", Data: strings.NewReader("jpg")}
	if _, err := svc.Update(ctx, id, mustParse(t, fullForm()), img); err != nil {
		t.Fatalf("Update with upload: %v", err)
	}
	got := store.updates[len(store.updates)-1]
	name, ok := got["imagen"].(string)
	if !ok || name == "" || !strings.HasSuffix(name, ".jpg") {
		t.Fatalf("expected replaced imagen, got %v", got["imagen"])
	}

	// Explicit empty imagen field unbinds.
	v := fullForm()
	v.Set("imagen", "")
	if _, err := svc.Update(ctx, id, mustParse(t, v), nil); err != nil {
		t.Fatalf("Update unbind: %v", err)
	}
	got = store.updates[len(store.updates)-1]
	if imagen, ok := got["imagen"]; !ok || imagen != "" {
		t.Fatalf("expected unbind, got %v", got["imagen"])
	}

	// Absent field leaves the reference untouched.
	if _, err := svc.Update(ctx, id, mustParse(t, fullForm()), nil); err != nil {
		t.Fatalf("Update untouched: %v", err)
	}
	got = store.updates[len(store.updates)-1]
	if _, ok := got["imagen"]; ok {
		t.Fatalf("absent imagen field must not be overwritten")
	}
}

func TestUpdateMissingIDReportsZeroAffected(t *testing.T) {
	svc, _ := testService(t)

	affected, err := svc.Update(context.Background(), 99, mustParse(t, fullForm()), nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected 0 affected, got %d", affected)
	}
}

func TestDeleteAffectedCounts(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, mustParse(t, fullForm()), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	affected, err := svc.Delete(ctx, id)
	if err != nil || affected != 1 {
		t.Fatalf("expected affected=1, got %d err=%v", affected, err)
	}

	affected, err = svc.Delete(ctx, id)
	if err != nil || affected != 0 {
		t.Fatalf("deleting a missing id must be affected=0, got %d err=%v", affected, err)
	}
}

func TestParseRecordFormBadNumberIsValidationError(t *testing.T) {
	v := fullForm()
	v.Set("alto", "sixty")

	_, err := ParseRecordForm(v)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
