// Package jcs provides canonical JSON marshaling used anywhere the scanner
// needs a deterministic byte representation of a value. internal/kg uses it
// for graph hashing and for comparing edge metadata.
package jcs

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/gowebpki/jcs"
)

// Marshal produces RFC 8785 canonical JSON for v: object keys sorted,
// no insignificant whitespace. It rejects NaN/Inf floats anywhere in the
// value tree, since those have no canonical JSON representation.
func Marshal(v any) ([]byte, error) {
	if err := rejectNonFinite(reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("jcs: marshal: %w", err)
	}
	canon, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("jcs: canonicalize: %w", err)
	}
	return canon, nil
}

func rejectNonFinite(v reflect.Value) error {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("jcs: non-finite float %v is not representable in JSON", f)
		}
	case reflect.Interface, reflect.Ptr:
		if !v.IsNil() {
			return rejectNonFinite(v.Elem())
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if err := rejectNonFinite(iter.Value()); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := rejectNonFinite(v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if !v.Field(i).CanInterface() {
				continue
			}
			if err := rejectNonFinite(v.Field(i)); err != nil {
				return err
			}
		}
	}
	return nil
}
