package types

import (
	"fmt"
	"strconv"

	"github.com/funvibe/sigbind/internal/config"
)

// DefaultRegistry returns a registry preloaded with the builtin constraints.
// Int and Num carry a coercion path from strings; the rest are plain
// predicates.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(&basic{
		name:  "Any",
		check: func(v interface{}) error { return nil },
	})

	r.Register(&basic{
		name: "Bool",
		check: func(v interface{}) error {
			if _, ok := v.(bool); !ok {
				return fmt.Errorf("not a bool")
			}
			return nil
		},
	})

	r.Register(&basic{
		name: "Str",
		check: func(v interface{}) error {
			if _, ok := v.(string); !ok {
				return fmt.Errorf("not a string")
			}
			return nil
		},
	})

	r.Register(&basic{
		name: "Int",
		check: func(v interface{}) error {
			switch v.(type) {
			case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
				return nil
			}
			return fmt.Errorf("not an integer")
		},
		coerce: func(v interface{}) (interface{}, error) {
			switch n := v.(type) {
			case string:
				parsed, err := strconv.ParseInt(n, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("not numeric text")
				}
				return parsed, nil
			case float64:
				return int64(n), nil
			case float32:
				return int64(n), nil
			default:
				return v, nil
			}
		},
	})

	r.Register(&basic{
		name: "Num",
		check: func(v interface{}) error {
			switch v.(type) {
			case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
				return nil
			}
			return fmt.Errorf("not numeric")
		},
		coerce: func(v interface{}) (interface{}, error) {
			if s, ok := v.(string); ok {
				parsed, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return nil, fmt.Errorf("not numeric text")
				}
				return parsed, nil
			}
			return v, nil
		},
	})

	r.Register(&basic{
		name: config.ArrayRefTypeName,
		check: func(v interface{}) error {
			if _, ok := v.([]interface{}); !ok {
				return fmt.Errorf("not a sequence")
			}
			return nil
		},
	})

	r.Register(&basic{
		name: config.HashRefTypeName,
		check: func(v interface{}) error {
			if _, ok := v.(map[string]interface{}); !ok {
				return fmt.Errorf("not a string-keyed map")
			}
			return nil
		},
	})

	r.Register(&basic{
		name: "CodeRef",
		check: func(v interface{}) error {
			switch v.(type) {
			case func() interface{}, func(...interface{}) interface{}, func(...interface{}) (interface{}, error):
				return nil
			}
			return fmt.Errorf("not a callable")
		},
	})

	return r
}
