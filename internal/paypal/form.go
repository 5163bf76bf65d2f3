package paypal

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Field is a single key/value pair of a urlencoded body
type Field struct {
	Key   string
	Value string
}

// Form is a urlencoded body that keeps the order fields arrived in.
// PayPal validates the echoed notification field by field, so order matters.
type Form []Field

// ParseForm decodes an application/x-www-form-urlencoded body
func ParseForm(body string) (Form, error) {
	var form Form
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			return nil, fmt.Errorf("invalid form key %q: %w", key, err)
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("invalid form value for %q: %w", k, err)
		}
		form = append(form, Field{Key: k, Value: v})
	}
	return form, nil
}

// Get returns the first value for key, or ""
func (f Form) Get(key string) string {
	for _, field := range f {
		if field.Key == key {
			return field.Value
		}
	}
	return ""
}

// Encode re-encodes the form in its original order
func (f Form) Encode() string {
	var b strings.Builder
	for i, field := range f {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(field.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(field.Value))
	}
	return b.String()
}

// MarshalJSON encodes the form as an array of [key, value] pairs
func (f Form) MarshalJSON() ([]byte, error) {
	pairs := make([][2]string, len(f))
	for i, field := range f {
		pairs[i] = [2]string{field.Key, field.Value}
	}
	return json.Marshal(pairs)
}
