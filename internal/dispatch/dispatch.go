// Package dispatch validates classifier output against the fixed query
// catalogue and invokes the matching query function. The classifier is an
// untrusted input source: an unknown function name or a malformed argument
// is a dispatch error, never a crash.
package dispatch

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/isaacbevere-gif/supplykai-chatbot/internal/forecast"
)

// ParamType is the declared type of one catalogue argument.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
)

// Param declares one argument of a catalogue function.
type Param struct {
	Name        string
	Type        ParamType
	Required    bool
	Description string
}

// Error reports a dispatch failure: the classifier picked a function or
// arguments the catalogue does not accept. The session continues.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "dispatch: " + e.Reason
}

// Args holds validated, typed arguments for one invocation.
type Args struct {
	strings  map[string]string
	integers map[string]int
}

// String returns a string argument, or "" when the optional arg is absent.
func (a Args) String(name string) string {
	return a.strings[name]
}

// Int returns an integer argument, or fallback when the optional arg is absent.
func (a Args) Int(name string, fallback int) int {
	if v, ok := a.integers[name]; ok {
		return v
	}
	return fallback
}

// Func is one entry of the dispatch table: declared schema plus handler.
type Func struct {
	Name        string
	Description string
	Params      []Param
	Handle      func(Args) forecast.Result
}

// Table maps function names to their schema and handler.
type Table struct {
	funcs map[string]Func
	order []string
}

// NewTable builds an empty dispatch table.
func NewTable() *Table {
	return &Table{funcs: make(map[string]Func)}
}

// Register adds a function to the table. Re-registering a name replaces it.
func (t *Table) Register(f Func) {
	if _, exists := t.funcs[f.Name]; !exists {
		t.order = append(t.order, f.Name)
	}
	t.funcs[f.Name] = f
}

// Funcs returns the registered functions in registration order.
func (t *Table) Funcs() []Func {
	out := make([]Func, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.funcs[name])
	}
	return out
}

// Dispatch validates a classifier function call and runs its handler.
// rawArgs is the JSON argument object exactly as the model produced it.
func (t *Table) Dispatch(name string, rawArgs json.RawMessage) (forecast.Result, error) {
	fn, ok := t.funcs[strings.TrimSpace(name)]
	if !ok {
		return forecast.Result{}, &Error{Reason: fmt.Sprintf("unknown function %q", name)}
	}

	var raw map[string]any
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, &raw); err != nil {
			return forecast.Result{}, &Error{Reason: fmt.Sprintf("arguments for %s are not a JSON object: %v", fn.Name, err)}
		}
	}

	args, err := validateArgs(fn, raw)
	if err != nil {
		return forecast.Result{}, err
	}

	return fn.Handle(args), nil
}

// validateArgs checks the raw argument map against the declared schema.
// Unknown arguments are ignored; missing required ones and type mismatches
// are dispatch errors.
func validateArgs(fn Func, raw map[string]any) (Args, error) {
	args := Args{
		strings:  make(map[string]string),
		integers: make(map[string]int),
	}

	for _, p := range fn.Params {
		v, present := raw[p.Name]
		if !present || v == nil {
			if p.Required {
				return Args{}, &Error{Reason: fmt.Sprintf("%s: missing required argument %q", fn.Name, p.Name)}
			}
			continue
		}

		switch p.Type {
		case TypeString:
			s, ok := v.(string)
			if !ok {
				return Args{}, &Error{Reason: fmt.Sprintf("%s: argument %q must be a string", fn.Name, p.Name)}
			}
			if strings.TrimSpace(s) == "" && p.Required {
				return Args{}, &Error{Reason: fmt.Sprintf("%s: argument %q must not be empty", fn.Name, p.Name)}
			}
			args.strings[p.Name] = strings.TrimSpace(s)

		case TypeInteger:
			n, ok := toInt(v)
			if !ok {
				return Args{}, &Error{Reason: fmt.Sprintf("%s: argument %q must be an integer", fn.Name, p.Name)}
			}
			args.integers[p.Name] = n

		default:
			return Args{}, &Error{Reason: fmt.Sprintf("%s: argument %q has unsupported type %q", fn.Name, p.Name, p.Type)}
		}
	}

	return args, nil
}

// toInt accepts JSON numbers with integral values and digit strings, which
// is how chat models emit integer arguments.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
