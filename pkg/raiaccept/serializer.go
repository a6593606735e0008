package raiaccept

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
)

// Shape is implemented by models that can populate themselves from an
// untyped JSON value (maps, slices, json.Number, strings, bools, nil).
type Shape interface {
	FromObject(data any) error
}

// ShapeFactory returns an empty Shape to decode into.
type ShapeFactory func() Shape

// isoLayout matches the millisecond UTC form produced by JavaScript's toISOString.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	decimalType       = reflect.TypeOf(decimal.Decimal{})
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// SanitizeForSerialization converts v into a fresh tree of JSON-ready values.
// Scalars pass through, times become ISO-8601 strings, decimals become JSON
// numbers, slices and maps are rebuilt element-wise, structs become maps keyed
// by their json tags. Anything else is coerced to a string. v is not modified.
func SanitizeForSerialization(v any) any {
	if v == nil {
		return nil
	}
	return sanitizeValue(reflect.ValueOf(v))
}

func sanitizeValue(rv reflect.Value) any {
	if !rv.IsValid() || !rv.CanInterface() {
		return nil
	}

	switch t := rv.Interface().(type) {
	case time.Time:
		return formatTime(t)
	case decimal.Decimal:
		return json.Number(t.String())
	case json.Number:
		return t
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return sanitizeValue(rv.Elem())
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rv.Interface()
	}

	if rv.Type().Implements(textMarshalerType) {
		if text, err := rv.Interface().(encoding.TextMarshaler).MarshalText(); err == nil {
			return string(text)
		}
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = sanitizeValue(rv.Index(i))
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key()
			key := fmt.Sprint(k.Interface())
			if k.Kind() == reflect.String {
				key = k.String()
			}
			out[key] = sanitizeValue(iter.Value())
		}
		return out
	case reflect.Struct:
		out := make(map[string]any)
		sanitizeStruct(rv, out)
		return out
	}

	return fmt.Sprint(rv.Interface())
}

// sanitizeStruct flattens embedded structs the same way encoding/json does.
func sanitizeStruct(rv reflect.Value, out map[string]any) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name, omitEmpty, skip := jsonField(f)
		if skip {
			continue
		}
		fv := rv.Field(i)

		if f.Anonymous && name == "" {
			ev := fv
			if ev.Kind() == reflect.Pointer {
				if ev.IsNil() {
					continue
				}
				ev = ev.Elem()
			}
			if ev.Kind() == reflect.Struct {
				sanitizeStruct(ev, out)
				continue
			}
		}

		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if omitEmpty && fv.IsZero() {
			continue
		}
		out[name] = sanitizeValue(fv)
	}
}

func jsonField(f reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return parts[0], omitEmpty, false
}

func formatTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// ToPathValue stringifies v and escapes it for use as a single URL path
// segment. Everything except letters, digits and - _ . ! ~ * ' ( ) is
// percent-encoded, including + & = $ : @ and ,.
func ToPathValue(v any) string {
	return componentEscaper.Replace(url.QueryEscape(toString(v)))
}

// componentEscaper turns url.QueryEscape output into path-component form.
var componentEscaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case time.Time:
		return formatTime(t)
	case *time.Time:
		if t == nil {
			return "null"
		}
		return formatTime(*t)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

// marshalBody serializes a sanitized value without HTML escaping.
func marshalBody(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(SanitizeForSerialization(v)); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// repairNewlines collapses doubly escaped newlines left by upstream
// double-encoding into a single escaped newline.
func repairNewlines(body string) string {
	return strings.ReplaceAll(body, `\\n`, `\n`)
}

func parseJSON(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid character after top-level value")
	}
	return v, nil
}

// Decode returns raw parsed as JSON when it is a string holding valid JSON,
// the string itself when it does not, and any other value unchanged.
func Decode(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		parsed, err := parseJSON(v)
		if err != nil {
			return v
		}
		return parsed
	case []byte:
		parsed, err := parseJSON(string(v))
		if err != nil {
			return string(v)
		}
		return parsed
	}
	return raw
}

// DeserializeShape decodes raw and, when factory is non-nil, builds the
// shape it returns from the decoded value. A nil raw yields nil.
func DeserializeShape(raw any, factory ShapeFactory) (any, error) {
	data := Decode(raw)
	if data == nil {
		return nil, nil
	}
	if factory == nil {
		return data, nil
	}
	shape := factory()
	if err := shape.FromObject(data); err != nil {
		return nil, err
	}
	return shape, nil
}

// Deserialize builds a *T from raw. Fields missing from raw keep their zero value.
func Deserialize[T any, PT interface {
	*T
	Shape
}](raw any) (*T, error) {
	v, err := DeserializeShape(raw, func() Shape { return PT(new(T)) })
	if err != nil || v == nil {
		return nil, err
	}
	return (*T)(v.(PT)), nil
}

// decodeInto copies the fields of an untyped object into target. Values that
// are not objects leave target untouched.
func decodeInto(data any, target any) error {
	m, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       decimalHook,
		Result:           target,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("failed to decode %T: %w", target, err)
	}
	return nil
}

func decimalHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != decimalType {
		return data, nil
	}
	switch v := data.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		if v == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	}
	return data, nil
}
