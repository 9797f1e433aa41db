// Copyright 2026 The Mica Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package irjson

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
	"gopkg.in/yaml.v3"

	"micalang.org/go/internal/core/ir"
	"micalang.org/go/internal/core/solver"
	"micalang.org/go/internal/core/val"
)

// A facts file is a YAML document listing initial tuples:
//
//	facts:
//	  - table: Edge
//	    row: [a, b]
//	  - table: Reach
//	    key: [a]
//	    value: {tag: Reached, value: []}
//
// Scalars are interpreted against the declared column types of the
// table, so plain YAML integers and strings suffice for the common
// cases. Enum values are written as {tag: Name, value: payload}; unit
// as an empty list.

type factsFile struct {
	Facts []factEntry `yaml:"facts"`
}

type factEntry struct {
	Table string        `yaml:"table"`
	Row   []interface{} `yaml:"row,omitempty"`
	Key   []interface{} `yaml:"key,omitempty"`
	Value interface{}   `yaml:"value,omitempty"`
}

// DecodeFacts parses a YAML facts file against the table schemas of
// root.
func DecodeFacts(data []byte, root *ir.Root) ([]solver.Fact, error) {
	var f factsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("facts: %w", err)
	}

	byName := map[string]ir.Table{}
	for sym, t := range root.Tables {
		byName[sym.Name()] = t
	}

	out := make([]solver.Fact, 0, len(f.Facts))
	for i, fe := range f.Facts {
		t, ok := byName[fe.Table]
		if !ok {
			return nil, fmt.Errorf("facts: entry %d: unknown table %q", i, fe.Table)
		}
		switch t := t.(type) {
		case *ir.Relation:
			if fe.Row == nil || fe.Key != nil || fe.Value != nil {
				return nil, fmt.Errorf("facts: entry %d: relation %s takes a row", i, fe.Table)
			}
			if len(fe.Row) != len(t.Attributes) {
				return nil, fmt.Errorf("facts: entry %d: %s has arity %d, got %d", i, fe.Table, len(t.Attributes), len(fe.Row))
			}
			row := make([]val.Value, len(fe.Row))
			for j, raw := range fe.Row {
				v, err := decodeValue(raw, t.Attributes[j].Tpe, root)
				if err != nil {
					return nil, fmt.Errorf("facts: entry %d, column %s: %w", i, t.Attributes[j].Name, err)
				}
				row[j] = v
			}
			out = append(out, solver.Fact{Table: t.TSym, Args: row})

		case *ir.LatticeTable:
			if fe.Key == nil || fe.Value == nil || fe.Row != nil {
				return nil, fmt.Errorf("facts: entry %d: lattice table %s takes key and value", i, fe.Table)
			}
			if len(fe.Key) != len(t.Keys) {
				return nil, fmt.Errorf("facts: entry %d: %s has %d keys, got %d", i, fe.Table, len(t.Keys), len(fe.Key))
			}
			key := make([]val.Value, len(fe.Key))
			for j, raw := range fe.Key {
				v, err := decodeValue(raw, t.Keys[j].Tpe, root)
				if err != nil {
					return nil, fmt.Errorf("facts: entry %d, key %s: %w", i, t.Keys[j].Name, err)
				}
				key[j] = v
			}
			v, err := decodeValue(fe.Value, t.Value.Tpe, root)
			if err != nil {
				return nil, fmt.Errorf("facts: entry %d, value: %w", i, err)
			}
			out = append(out, solver.Fact{Table: t.TSym, Args: key, Value: v})
		}
	}
	return out, nil
}

// decodeValue interprets a YAML scalar or composite against a declared
// type.
func decodeValue(raw interface{}, t ir.Type, root *ir.Root) (val.Value, error) {
	switch t.K {
	case ir.UnitKind:
		return val.Unit{}, nil
	case ir.BoolKind:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("want bool, got %T", raw)
		}
		return val.Bool(b), nil
	case ir.CharKind:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("want char, got %T", raw)
		}
		rs := []rune(s)
		if len(rs) != 1 {
			return nil, fmt.Errorf("char %q is not a single rune", s)
		}
		return val.Char(rs[0]), nil
	case ir.Float32Kind:
		f, err := asFloat(raw)
		if err != nil {
			return nil, err
		}
		return val.Float32(float32(f)), nil
	case ir.Float64Kind:
		f, err := asFloat(raw)
		if err != nil {
			return nil, err
		}
		return val.Float64(f), nil
	case ir.Int8Kind, ir.Int16Kind, ir.Int32Kind, ir.Int64Kind:
		n, err := asInt(raw)
		if err != nil {
			return nil, err
		}
		switch t.K {
		case ir.Int8Kind:
			return val.Int8(int8(n)), nil
		case ir.Int16Kind:
			return val.Int16(int16(n)), nil
		case ir.Int32Kind:
			return val.Int32(int32(n)), nil
		default:
			return val.Int64(n), nil
		}
	case ir.BigIntKind:
		switch n := raw.(type) {
		case int:
			return val.NewBigInt(int64(n)), nil
		case int64:
			return val.NewBigInt(n), nil
		case string:
			x, ok := new(apd.BigInt).SetString(n, 10)
			if !ok {
				return nil, fmt.Errorf("bigint %q", n)
			}
			return val.BigInt{X: x}, nil
		}
		return nil, fmt.Errorf("want bigint, got %T", raw)
	case ir.StrKind:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("want string, got %T", raw)
		}
		return val.Str(s), nil
	case ir.TupleKind:
		elms, ok := raw.([]interface{})
		if !ok {
			return nil, fmt.Errorf("want tuple, got %T", raw)
		}
		// Tuple column types are not carried per element in a schema
		// attribute, so elements must be self-describing scalars.
		out := make(val.Tuple, len(elms))
		for i, e := range elms {
			v, err := decodeScalar(e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case ir.NamedKind:
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("want {tag, value} for %s, got %T", t.Name, raw)
		}
		tag, ok := m["tag"].(string)
		if !ok {
			return nil, fmt.Errorf("tag of %s is not a string", t.Name)
		}
		payloadType, err := enumCaseType(root, t.Name, tag)
		if err != nil {
			return nil, err
		}
		payload, ok := m["value"]
		if !ok {
			return nil, fmt.Errorf("%s.%s has no value", t.Name, tag)
		}
		if l, ok := payload.([]interface{}); ok && len(l) == 0 && payloadType.K == ir.UnitKind {
			return val.Tag{Name: tag, Val: val.Unit{}}, nil
		}
		pv, err := decodeValue(payload, payloadType, root)
		if err != nil {
			return nil, err
		}
		return val.Tag{Name: tag, Val: pv}, nil
	}
	return nil, fmt.Errorf("cannot decode a value of type %s", t)
}

// decodeScalar interprets a YAML scalar without a declared type: the
// YAML type decides.
func decodeScalar(raw interface{}) (val.Value, error) {
	switch n := raw.(type) {
	case bool:
		return val.Bool(n), nil
	case int:
		return val.Int32(int32(n)), nil
	case int64:
		return val.Int32(int32(n)), nil
	case float64:
		return val.Float64(n), nil
	case string:
		return val.Str(n), nil
	}
	return nil, fmt.Errorf("cannot infer a value from %T", raw)
}

func asInt(raw interface{}) (int64, error) {
	switch n := raw.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	}
	return 0, fmt.Errorf("want integer, got %T", raw)
}

func asFloat(raw interface{}) (float64, error) {
	switch n := raw.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("want float, got %T", raw)
}

func enumCaseType(root *ir.Root, enumName, tag string) (ir.Type, error) {
	for sym, e := range root.Enums {
		if sym.Name() != enumName {
			continue
		}
		t, ok := e.Cases[tag]
		if !ok {
			return ir.Type{}, fmt.Errorf("enum %s has no case %s", enumName, tag)
		}
		return t, nil
	}
	return ir.Type{}, fmt.Errorf("no enum %s", enumName)
}
