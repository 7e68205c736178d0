package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/jinzhu/inflection"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "_"

// Query shapes shared by every entity service.
const (
	ShapeAll  = "all"
	ShapeID   = "id"
	ShapeName = "name"
)

// defaultKeySerializer builds keys of the form "<entities>_<shape>_<arg>".
// Entity names are lower-cased and pluralised, so "Album" and "album" both map to "albums".
type defaultKeySerializer struct{}

// NewDefaultKeySerializer creates a new instance of the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{}
}

// SerializeKey joins the entity prefix, the shape tag and the rendered args.
// Entity and shape are stripped of the separator so they always occupy exactly one segment.
// A single argument is rendered verbatim; with several arguments each one is escaped so
// ("a_b", "c") and ("a", "b_c") stay distinct.
func (s *defaultKeySerializer) SerializeKey(entity, shape string, args ...any) string {
	parts := make([]string, 0, len(args)+2)
	parts = append(parts, EntityPrefix(entity), token(shape))

	switch len(args) {
	case 0:
	case 1:
		parts = append(parts, s.serializeValue(args[0]))
	default:
		for _, arg := range args {
			parts = append(parts, escape(s.serializeValue(arg)))
		}
	}

	return strings.Join(parts, KeySeparator)
}

// EntityPrefix returns the key prefix for an entity name, e.g. "Album" -> "albums".
func EntityPrefix(entity string) string {
	return inflection.Plural(token(entity))
}

func token(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(KeySeparator, "", " ", "").Replace(s)
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, KeySeparator, `\`+KeySeparator).Replace(s)
}

// serializeValue renders a single argument in its natural string form.
func (s *defaultKeySerializer) serializeValue(v any) string {
	if v == nil {
		return "nil"
	}

	// uuid.UUID and friends are arrays underneath; their String form is the natural one
	if stringer, ok := v.(fmt.Stringer); ok {
		return stringer.String()
	}

	rv := reflect.ValueOf(v)
	rt := reflect.TypeOf(v)

	switch rt.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return "nil"
		}
		return s.serializeValue(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return "slice:nil"
		}
		return s.serializeList("slice", rv)
	case reflect.Array:
		return s.serializeList("array", rv)
	case reflect.Map:
		if rv.IsNil() {
			return "map:nil"
		}
		return s.serializeMap(rv)
	case reflect.Struct:
		return s.serializeStruct(rv, rt)
	case reflect.Func:
		return fmt.Sprintf("func:%p", v)
	case reflect.Chan:
		return fmt.Sprintf("chan:%p", v)
	}

	if s.isBasicType(rt.Kind()) {
		return fmt.Sprintf("%v", v)
	}

	return s.jsonFallback(v)
}

func (s *defaultKeySerializer) serializeList(kind string, rv reflect.Value) string {
	length := rv.Len()
	parts := make([]string, length)

	for i := 0; i < length; i++ {
		parts[i] = s.serializeValue(rv.Index(i).Interface())
	}

	return fmt.Sprintf("%s[%d]:{%s}", kind, length, strings.Join(parts, ","))
}

// serializeMap sorts entries by their rendered key for deterministic output
func (s *defaultKeySerializer) serializeMap(rv reflect.Value) string {
	type pair struct{ key, value string }

	pairs := make([]pair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, pair{
			key:   s.serializeValue(iter.Key().Interface()),
			value: s.serializeValue(iter.Value().Interface()),
		})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })

	rendered := make([]string, len(pairs))
	for i, p := range pairs {
		rendered[i] = p.key + "=" + p.value
	}

	return fmt.Sprintf("map[%d]:{%s}", len(rendered), strings.Join(rendered, ","))
}

func (s *defaultKeySerializer) serializeStruct(rv reflect.Value, rt reflect.Type) string {
	parts := make([]string, 0, rv.NumField())

	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		parts = append(parts, field.Name+":"+s.serializeValue(rv.Field(i).Interface()))
	}

	return fmt.Sprintf("struct:{%s}", strings.Join(parts, ","))
}

func (s *defaultKeySerializer) isBasicType(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	default:
		return false
	}
}

// jsonFallback provides JSON serialization as a last resort
func (s *defaultKeySerializer) jsonFallback(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("fallback:%T", v)
	}
	return "json:" + string(data)
}
