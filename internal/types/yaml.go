package types

import (
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

// ConstraintDef is one user-defined constraint in a registry definition
// file. It derives from a base constraint and optionally narrows it to an
// enumerated set of values.
type ConstraintDef struct {
	// Name is the constraint name as used in signatures.
	Name string `yaml:"name"`

	// Base is the name of an already-registered constraint this one
	// derives from. The base's check and coercion path are inherited.
	Base string `yaml:"base"`

	// OneOf optionally restricts values to this set, compared after the
	// base check passes.
	OneOf []interface{} `yaml:"one_of,omitempty"`
}

type registryFile struct {
	Constraints []ConstraintDef `yaml:"constraints"`
}

// LoadYAML registers the constraint definitions in data. Definitions are
// processed in order, so a definition may derive from an earlier one.
func (r *Registry) LoadYAML(data []byte) error {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("constraint definitions: %w", err)
	}

	for i, def := range file.Constraints {
		if def.Name == "" {
			return fmt.Errorf("constraint definitions: entry %d has no name", i)
		}
		base, ok := r.Lookup(def.Base)
		if !ok {
			return fmt.Errorf("constraint %q: unknown base %q", def.Name, def.Base)
		}
		r.Register(&derived{name: def.Name, base: base, oneOf: def.OneOf})
	}
	return nil
}

// derived narrows a base constraint to an enumerated value set.
type derived struct {
	name  string
	base  Constraint
	oneOf []interface{}
}

func (d *derived) Name() string      { return d.name }
func (d *derived) HasCoercion() bool { return d.base.HasCoercion() }

func (d *derived) Coerce(v interface{}) (interface{}, error) {
	return d.base.Coerce(v)
}

func (d *derived) Check(v interface{}) error {
	if err := d.base.Check(v); err != nil {
		return err
	}
	if len(d.oneOf) == 0 {
		return nil
	}
	for _, allowed := range d.oneOf {
		if reflect.DeepEqual(normalizeScalar(allowed), normalizeScalar(v)) {
			return nil
		}
	}
	return fmt.Errorf("value %v is not one of the allowed values for %s", v, d.name)
}

// normalizeScalar widens integer kinds so YAML-decoded ints compare equal
// to bound int64 values.
func normalizeScalar(v interface{}) interface{} {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint:
		return int64(n)
	case uint64:
		return int64(n)
	case float32:
		return float64(n)
	}
	return v
}
