package tire

import (
	"net/url"
	"testing"
)

func TestPredicatesCanonicalOrderFullSet(t *testing.T) {
	marca, modelo, condicion := "Michelin", "Pilot", "nuevo"
	alto, ancho, pulgada, cantidad := 60, 205, 16, 2
	precio := 150.0

	f := FilterSet{
		Marca:     &marca,
		Modelo:    &modelo,
		Alto:      &alto,
		Ancho:     &ancho,
		Pulgada:   &pulgada,
		Cantidad:  &cantidad,
		Precio:    &precio,
		Condicion: &condicion,
	}

	conds, args := f.Predicates()
	want := []string{
		"LOWER(marca) LIKE ?",
		"LOWER(modelo) LIKE ?",
		"alto = ?",
		"ancho = ?",
		"pulgada = ?",
		"cantidad >= ?",
		"precio <= ?",
		"condicion = ?",
	}
	if len(conds) != len(want) {
		t.Fatalf("expected %d predicates, got %d", len(want), len(conds))
	}
	for i := range want {
		if conds[i] != want[i] {
			t.Fatalf("predicate %d: got %q want %q", i, conds[i], want[i])
		}
	}
	if len(args) != len(conds) {
		t.Fatalf("args/conds length mismatch: %d vs %d", len(args), len(conds))
	}
	if args[0] != "%michelin%" {
		t.Fatalf("marca containment must be lowercased: %v", args[0])
	}
	if args[5] != 2 {
		t.Fatalf("cantidad arg mismatch: %v", args[5])
	}
}

func TestPredicatesSubsetKeepsOrder(t *testing.T) {
	modelo := "Pilot"
	precio := 120.5

	// Build in "wrong" field order; emission order must not care.
	f := FilterSet{Precio: &precio, Modelo: &modelo}

	conds, args := f.Predicates()
	if len(conds) != 2 || len(args) != 2 {
		t.Fatalf("expected 2 predicates, got %d/%d", len(conds), len(args))
	}
	if conds[0] != "LOWER(modelo) LIKE ?" || conds[1] != "precio <= ?" {
		t.Fatalf("unexpected order: %v", conds)
	}
}

func TestPredicatesEmptyFilterSet(t *testing.T) {
	conds, args := FilterSet{}.Predicates()
	if len(conds) != 0 || len(args) != 0 {
		t.Fatalf("empty FilterSet must emit nothing, got %v / %v", conds, args)
	}
}

func TestParseFilterSetCoercion(t *testing.T) {
	q := url.Values{}
	q.Set("marca", "Michelin")
	q.Set("alto", "60")
	q.Set("ancho", "not-a-number") // fails to coerce, treated as absent
	q.Set("cantidad", "4")
	q.Set("precio", "120.50")
	q.Set("pulgada", "") // present but empty, absent

	f := ParseFilterSet(q)

	if f.Marca == nil || *f.Marca != "Michelin" {
		t.Fatalf("marca not parsed: %v", f.Marca)
	}
	if f.Alto == nil || *f.Alto != 60 {
		t.Fatalf("alto not parsed: %v", f.Alto)
	}
	if f.Ancho != nil {
		t.Fatalf("uncoercible ancho must be absent, got %v", *f.Ancho)
	}
	if f.Pulgada != nil {
		t.Fatalf("empty pulgada must be absent")
	}
	if f.Cantidad == nil || *f.Cantidad != 4 {
		t.Fatalf("cantidad not parsed: %v", f.Cantidad)
	}
	if f.Precio == nil || *f.Precio != 120.50 {
		t.Fatalf("precio not parsed: %v", f.Precio)
	}
	if f.Modelo != nil || f.Condicion != nil {
		t.Fatalf("unset params must be absent")
	}

	// Parameter count equals number of present filters.
	conds, args := f.Predicates()
	if len(conds) != 4 || len(args) != 4 {
		t.Fatalf("expected 4 predicates, got %d/%d", len(conds), len(args))
	}
}
