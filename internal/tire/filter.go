package tire

import (
	"net/url"
	"strconv"
	"strings"
)

// OrderBy is the fixed sort applied to every list query, filtered or not.
const OrderBy = "marca ASC, modelo ASC, id ASC"

// FilterSet is the optional predicate bundle of a catalog list request.
// Nil fields are absent. Cantidad is an inclusive lower bound ("at least
// this many in stock"); Precio an inclusive upper bound.
type FilterSet struct {
	Marca     *string
	Modelo    *string
	Alto      *int
	Ancho     *int
	Pulgada   *int
	Cantidad  *int
	Precio    *float64
	Condicion *string
}

// ParseFilterSet reads the supported query parameters. A value that fails to
// coerce to its semantic type is treated as absent, never as an error.
func ParseFilterSet(q url.Values) FilterSet {
	return FilterSet{
		Marca:     strParam(q, "marca"),
		Modelo:    strParam(q, "modelo"),
		Alto:      intParam(q, "alto"),
		Ancho:     intParam(q, "ancho"),
		Pulgada:   intParam(q, "pulgada"),
		Cantidad:  intParam(q, "cantidad"),
		Precio:    floatParam(q, "precio"),
		Condicion: strParam(q, "condicion"),
	}
}

// Predicates emits the WHERE fragments and their parameters in the canonical
// order (marca, modelo, alto, ancho, pulgada, cantidad, precio, condicion),
// whatever subset is present, so generated queries are stable by shape.
func (f FilterSet) Predicates() ([]string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		conds = append(conds, cond)
		args = append(args, arg)
	}

	if f.Marca != nil {
		add("LOWER(marca) LIKE ?", "%"+strings.ToLower(*f.Marca)+"%")
	}
	if f.Modelo != nil {
		add("LOWER(modelo) LIKE ?", "%"+strings.ToLower(*f.Modelo)+"%")
	}
	if f.Alto != nil {
		add("alto = ?", *f.Alto)
	}
	if f.Ancho != nil {
		add("ancho = ?", *f.Ancho)
	}
	if f.Pulgada != nil {
		add("pulgada = ?", *f.Pulgada)
	}
	if f.Cantidad != nil {
		add("cantidad >= ?", *f.Cantidad)
	}
	if f.Precio != nil {
		add("precio <= ?", *f.Precio)
	}
	if f.Condicion != nil {
		add("condicion = ?", *f.Condicion)
	}
	return conds, args
}

func strParam(q url.Values, key string) *string {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func intParam(q url.Values, key string) *int {
	if !q.Has(key) {
		return nil
	}
	v, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return nil
	}
	return &v
}

func floatParam(q url.Values, key string) *float64 {
	if !q.Has(key) {
		return nil
	}
	v, err := strconv.ParseFloat(q.Get(key), 64)
	if err != nil {
		return nil
	}
	return &v
}
