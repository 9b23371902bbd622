// Package domain contains the core entities of the Design Automation toolkit.
// These entities are pure and have no knowledge of persistence or transport.
package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// ParameterDocument is the JSON parameter file passed into a work item.
// It has a required "parameters" object of string values plus arbitrary
// other top-level fields (for example a file URN).
type ParameterDocument struct {
	Parameters map[string]string
	Fields     map[string]interface{}
}

// NewParameterDocument creates an empty parameter document.
func NewParameterDocument() *ParameterDocument {
	return &ParameterDocument{
		Parameters: make(map[string]string),
		Fields:     make(map[string]interface{}),
	}
}

// ReplaceParameters drops every existing parameter and installs only the
// provided ones. Values are coerced to text because the remote engine
// expects string-typed parameters.
func (d *ParameterDocument) ReplaceParameters(updates map[string]interface{}) {
	d.Parameters = make(map[string]string, len(updates))
	for name, value := range updates {
		d.Parameters[name] = StringifyValue(value)
	}
}

// SetParameter sets or overwrites a single parameter, preserving all others.
func (d *ParameterDocument) SetParameter(name string, value interface{}) {
	if d.Parameters == nil {
		d.Parameters = make(map[string]string)
	}
	d.Parameters[name] = StringifyValue(value)
}

// SetField writes a top-level field verbatim. The literal key "parameters"
// is ignored so the replace-wholesale rule cannot be bypassed.
func (d *ParameterDocument) SetField(key string, value interface{}) {
	if key == "parameters" {
		return
	}
	if d.Fields == nil {
		d.Fields = make(map[string]interface{})
	}
	d.Fields[key] = value
}

// FieldKeys returns the non-parameter top-level keys in sorted order.
func (d *ParameterDocument) FieldKeys() []string {
	keys := make([]string, 0, len(d.Fields))
	for k := range d.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON renders the document as a single top-level object with the
// parameters map under "parameters".
func (d *ParameterDocument) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(d.Fields)+1)
	for k, v := range d.Fields {
		if k == "parameters" {
			continue
		}
		out[k] = v
	}
	params := d.Parameters
	if params == nil {
		params = map[string]string{}
	}
	out["parameters"] = params
	return json.Marshal(out)
}

// UnmarshalJSON parses a top-level object, splitting the "parameters" map
// from the remaining fields. Parameter values are coerced to text; a missing
// or malformed "parameters" field yields an empty map.
func (d *ParameterDocument) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse parameter document: %w", err)
	}

	d.Parameters = make(map[string]string)
	d.Fields = make(map[string]interface{})

	for k, v := range raw {
		if k != "parameters" {
			d.Fields[k] = v
			continue
		}
		params, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		for name, value := range params {
			d.Parameters[name] = StringifyValue(value)
		}
	}
	return nil
}

// StringifyValue coerces a JSON-decoded value to its textual form. Whole
// numbers render without a trailing ".0" so that 45 stays "45".
func StringifyValue(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case json.Number:
		return value.String()
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}
