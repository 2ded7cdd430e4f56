package operators

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/feedline-ai/feedline/dtypes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ArgKind is the declared type of a schema argument.
type ArgKind int

const (
	ArgDataType ArgKind = iota
	ArgInt
	ArgFloat
	ArgString
	ArgBool
)

func (k ArgKind) String() string {
	switch k {
	case ArgDataType:
		return "dtype"
	case ArgInt:
		return "int"
	case ArgFloat:
		return "float"
	case ArgString:
		return "string"
	case ArgBool:
		return "bool"
	default:
		return fmt.Sprintf("ArgKind(%d)", int(k))
	}
}

// ArgDef declares a named, typed operator argument.
type ArgDef struct {
	Description string
	Kind        ArgKind
	Required    bool
	Default     any
}

// Schema declares an operator's arity and argument list. It is registered
// once at static-registration time and validated against before the operator
// is ever invoked.
type Schema struct {
	Description string
	NumInputs   int
	NumOutputs  int
	Args        map[string]ArgDef
}

// Args holds the configuration values for one operator instance.
type Args map[string]any

// ConfigError reports a schema violation detected at operator construction,
// before any data flows.
type ConfigError struct {
	Op     string
	Arg    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Arg == "" {
		return fmt.Sprintf("operator %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("operator %s: argument %q: %s", e.Op, e.Arg, e.Reason)
}

// ValidateArgs checks args against the schema and returns a normalized copy
// with defaults filled in and values coerced to their canonical Go types
// (dtypes.DataType, int64, float64, string, bool).
func (s Schema) ValidateArgs(op string, args Args) (Args, error) {
	normalized := Args{}
	for name, value := range args {
		def, ok := s.Args[name]
		if !ok {
			return nil, &ConfigError{Op: op, Arg: name, Reason: "not declared in schema"}
		}
		coerced, err := coerceArg(def.Kind, value)
		if err != nil {
			return nil, &ConfigError{Op: op, Arg: name, Reason: err.Error()}
		}
		normalized[name] = coerced
	}
	for name, def := range s.Args {
		if _, ok := normalized[name]; ok {
			continue
		}
		if def.Required {
			return nil, &ConfigError{Op: op, Arg: name, Reason: "required argument is missing"}
		}
		if def.Default != nil {
			coerced, err := coerceArg(def.Kind, def.Default)
			if err != nil {
				return nil, &ConfigError{Op: op, Arg: name, Reason: fmt.Sprintf("invalid default: %v", err)}
			}
			normalized[name] = coerced
		}
	}
	return normalized, nil
}

// coerceArg accepts both native Go values and the loosely-typed values that
// come out of JSON decoding (float64 numbers, string dtype names).
func coerceArg(kind ArgKind, value any) (any, error) {
	switch kind {
	case ArgDataType:
		switch v := value.(type) {
		case dtypes.DataType:
			if v.Size() == 0 {
				return nil, fmt.Errorf("%v is not a supported data type", v)
			}
			return v, nil
		case string:
			return dtypes.Parse(v)
		default:
			return nil, fmt.Errorf("expected a data type, got %T", value)
		}
	case ArgInt:
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			if v != float64(int64(v)) {
				return nil, fmt.Errorf("expected an integer, got %v", v)
			}
			return int64(v), nil
		default:
			return nil, fmt.Errorf("expected an integer, got %T", value)
		}
	case ArgFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		default:
			return nil, fmt.Errorf("expected a float, got %T", value)
		}
	case ArgString:
		v, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %T", value)
		}
		return v, nil
	case ArgBool:
		v, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected a bool, got %T", value)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown argument kind %v", kind)
	}
}

// OpSpec is the serialized form of an operator instance, as produced by a
// pipeline definition file.
type OpSpec struct {
	Name string `json:"name"`
	Args Args   `json:"args"`
}

// SpecFromJSON decodes an operator spec from its JSON form.
func SpecFromJSON(data []byte) (OpSpec, error) {
	var spec OpSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return OpSpec{}, err
	}
	if spec.Name == "" {
		return OpSpec{}, &ConfigError{Op: "?", Reason: "spec has no operator name"}
	}
	return spec, nil
}
