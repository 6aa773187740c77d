package tool

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"

	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
	"github.com/cloudwego/eino/schema"
)

type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeArray   ParamType = "array"
)

// Param declares one named tool parameter. Items describes array elements;
// only its Type and Enum are consulted.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Enum        []string
	Items       *Param
	Minimum     *float64
	Maximum     *float64
	Required    bool
}

func String(name, desc string) Param {
	return Param{Name: name, Type: TypeString, Description: desc}
}

func Number(name, desc string) Param {
	return Param{Name: name, Type: TypeNumber, Description: desc}
}

func Boolean(name, desc string) Param {
	return Param{Name: name, Type: TypeBoolean, Description: desc}
}

func StringArray(name, desc string, enum ...string) Param {
	return Param{
		Name:        name,
		Type:        TypeArray,
		Description: desc,
		Items:       &Param{Type: TypeString, Enum: enum},
	}
}

func (p Param) Require() Param {
	p.Required = true
	return p
}

func (p Param) OneOf(values ...string) Param {
	p.Enum = append([]string(nil), values...)
	return p
}

func (p Param) Between(minimum, maximum float64) Param {
	p.Minimum = &minimum
	p.Maximum = &maximum
	return p
}

// Schema is the parameter contract of a tool. The zero value accepts no
// parameters at all.
type Schema struct {
	Params               []Param
	AdditionalProperties bool
}

func NewSchema(params ...Param) Schema {
	return Schema{Params: params}
}

func (s Schema) Param(name string) (Param, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

func (s Schema) Required() []string {
	var out []string
	for _, p := range s.Params {
		if p.Required {
			out = append(out, p.Name)
		}
	}
	return out
}

// Validate checks args against the schema. Unexpected fields are reported
// first, then parameters in declaration order. A nil value counts as absent.
func (s Schema) Validate(args map[string]any) error {
	if !s.AdditionalProperties {
		var unexpected []string
		for k := range args {
			if _, ok := s.Param(k); !ok {
				unexpected = append(unexpected, k)
			}
		}
		if len(unexpected) > 0 {
			sort.Strings(unexpected)
			return &contractx.ValidationError{
				Kind:   contractx.ValidationUnexpectedField,
				Field:  unexpected[0],
				Reason: "additional properties are not allowed",
			}
		}
	}

	for _, p := range s.Params {
		v, ok := args[p.Name]
		if !ok || v == nil {
			if p.Required {
				return &contractx.ValidationError{
					Kind:   contractx.ValidationMissingField,
					Field:  p.Name,
					Reason: "required parameter is missing",
				}
			}
			continue
		}
		if err := p.check(p.Name, v); err != nil {
			return err
		}
	}
	return nil
}

func (p Param) check(field string, v any) error {
	switch p.Type {
	case TypeString:
		str, ok := v.(string)
		if !ok {
			return invalidType(field, p.Type, v)
		}
		if len(p.Enum) > 0 && !slices.Contains(p.Enum, str) {
			return &contractx.ValidationError{
				Kind:   contractx.ValidationOutOfRange,
				Field:  field,
				Reason: fmt.Sprintf("%q is not one of %v", str, p.Enum),
			}
		}
	case TypeNumber:
		n, ok := toFloat(v)
		if !ok || math.IsNaN(n) {
			return invalidType(field, p.Type, v)
		}
		if p.Minimum != nil && n < *p.Minimum {
			return &contractx.ValidationError{
				Kind:   contractx.ValidationOutOfRange,
				Field:  field,
				Reason: fmt.Sprintf("%v is below minimum %v", n, *p.Minimum),
			}
		}
		if p.Maximum != nil && n > *p.Maximum {
			return &contractx.ValidationError{
				Kind:   contractx.ValidationOutOfRange,
				Field:  field,
				Reason: fmt.Sprintf("%v is above maximum %v", n, *p.Maximum),
			}
		}
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			return invalidType(field, p.Type, v)
		}
	case TypeArray:
		items, ok := toSlice(v)
		if !ok {
			return invalidType(field, p.Type, v)
		}
		if p.Items == nil {
			return nil
		}
		for i, item := range items {
			if err := p.Items.check(fmt.Sprintf("%s[%d]", field, i), item); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: parameter %s has unsupported type %q", contractx.ErrValidation, field, p.Type)
	}
	return nil
}

func invalidType(field string, want ParamType, got any) error {
	return &contractx.ValidationError{
		Kind:   contractx.ValidationInvalidType,
		Field:  field,
		Reason: fmt.Sprintf("expected %s, got %T", want, got),
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	default:
		return nil, false
	}
}

// JSONSchema renders the schema in the function-parameter form the realtime
// transport consumes.
func (s Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Params))
	for _, p := range s.Params {
		props[p.Name] = p.jsonSchema()
	}
	out := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": s.AdditionalProperties,
	}
	if required := s.Required(); len(required) > 0 {
		out["required"] = required
	}
	return out
}

func (p Param) jsonSchema() map[string]any {
	out := map[string]any{"type": string(p.Type)}
	if p.Description != "" {
		out["description"] = p.Description
	}
	if len(p.Enum) > 0 {
		out["enum"] = p.Enum
	}
	if p.Minimum != nil {
		out["minimum"] = *p.Minimum
	}
	if p.Maximum != nil {
		out["maximum"] = *p.Maximum
	}
	if p.Items != nil {
		out["items"] = p.Items.jsonSchema()
	}
	return out
}

// ParamsOneOf converts the schema to eino parameter descriptors. Numeric
// bounds have no eino counterpart and are carried in the description.
func (s Schema) ParamsOneOf() *schema.ParamsOneOf {
	params := make(map[string]*schema.ParameterInfo, len(s.Params))
	for _, p := range s.Params {
		params[p.Name] = p.parameterInfo()
	}
	return schema.NewParamsOneOfByParams(params)
}

func (p Param) parameterInfo() *schema.ParameterInfo {
	info := &schema.ParameterInfo{
		Type:     einoType(p.Type),
		Desc:     p.Description,
		Enum:     p.Enum,
		Required: p.Required,
	}
	if p.Minimum != nil && p.Maximum != nil {
		info.Desc = fmt.Sprintf("%s (%v-%v)", p.Description, *p.Minimum, *p.Maximum)
	}
	if p.Items != nil {
		info.ElemInfo = p.Items.parameterInfo()
	}
	return info
}

func einoType(t ParamType) schema.DataType {
	switch t {
	case TypeNumber:
		return schema.Number
	case TypeBoolean:
		return schema.Boolean
	case TypeArray:
		return schema.Array
	default:
		return schema.String
	}
}
