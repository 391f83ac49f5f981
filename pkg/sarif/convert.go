package sarif

import (
	"encoding/json"
	"strconv"

	gosarif "github.com/owenrumney/go-sarif/v2/sarif"
)

// go-sarif mixes value and pointer fields for optional members, the helpers
// below accept either form.

func optionalString(v any) *string {
	switch s := v.(type) {
	case string:
		return &s
	case *string:
		if s == nil {
			return nil
		}
		c := *s
		return &c
	}
	return nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(v any) *int {
	var i int
	switch n := v.(type) {
	case *int:
		if n == nil {
			return nil
		}
		i = *n
	case *uint:
		if n == nil {
			return nil
		}
		i = int(*n)
	case *int64:
		if n == nil {
			return nil
		}
		i = int(*n)
	default:
		return nil
	}
	return &i
}

func messageText(v any) *string {
	switch m := v.(type) {
	case gosarif.Message:
		return optionalString(m.Text)
	case *gosarif.Message:
		if m != nil {
			return optionalString(m.Text)
		}
	case *gosarif.MultiformatMessageString:
		if m != nil {
			return optionalString(m.Text)
		}
	}
	return nil
}

// bagText reads a scalar property bag entry. Strings are returned as is,
// numbers and booleans in their literal form and containers as "".
func bagText(bag map[string]interface{}, key string) *string {
	v, ok := bag[key]
	if !ok || v == nil {
		return nil
	}
	s := scalarText(v)
	return &s
}

func scalarText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func stringField(top map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := top[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
