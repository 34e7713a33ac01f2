package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// DefaultMaxKeyLength is the key length above which the hashed serializer
// replaces the argument segments with a digest.
const DefaultMaxKeyLength = 200

type defaultKeySerializer struct{}

// NewDefaultKeySerializer returns the reflection based serializer. Keys look
// like "ListProducts::struct:{CategoryID:0,CategorySlug:shoes}".
func NewDefaultKeySerializer() KeySerializer {
	return defaultKeySerializer{}
}

func (s defaultKeySerializer) SerializeKey(method string, args ...any) string {
	if len(args) == 0 {
		return method
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, method)
	for _, arg := range args {
		parts = append(parts, serializeValue(arg))
	}
	return strings.Join(parts, KeySeparator)
}

func serializeValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case fmt.Stringer:
		if rv := reflect.ValueOf(x); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "nil"
		}
		return x.String()
	}
	return serializeReflect(reflect.ValueOf(v))
}

func serializeReflect(rv reflect.Value) string {
	switch rv.Kind() {
	case reflect.Func:
		// stable within one process only
		return fmt.Sprintf("func:%#x", rv.Pointer())
	case reflect.Chan:
		return fmt.Sprintf("chan:%#x", rv.Pointer())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return serializeValue(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return "slice:nil"
		}
		return fmt.Sprintf("slice[%d]:{%s}", rv.Len(), joinElems(rv))
	case reflect.Array:
		return fmt.Sprintf("array[%d]:{%s}", rv.Len(), joinElems(rv))
	case reflect.Map:
		if rv.IsNil() {
			return "map:nil"
		}
		pairs := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			pairs = append(pairs, serializeValue(iter.Key().Interface())+"="+serializeValue(iter.Value().Interface()))
		}
		slices.Sort(pairs)
		return fmt.Sprintf("map[%d]:{%s}", len(pairs), strings.Join(pairs, ","))
	case reflect.Struct:
		rt := rv.Type()
		fields := make([]string, 0, rt.NumField())
		for i := range rt.NumField() {
			field := rt.Field(i)
			if !field.IsExported() {
				continue
			}
			fields = append(fields, field.Name+":"+serializeValue(rv.Field(i).Interface()))
		}
		return fmt.Sprintf("struct:{%s}", strings.Join(fields, ","))
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String:
		return fmt.Sprintf("%v", rv.Interface())
	}

	data, err := json.Marshal(rv.Interface())
	if err != nil {
		return "fallback:" + rv.Type().String()
	}
	return "json:" + string(data)
}

func joinElems(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = serializeValue(rv.Index(i).Interface())
	}
	return strings.Join(parts, ",")
}

type hashedKeySerializer struct {
	inner  KeySerializer
	maxLen int
}

// NewHashedKeySerializer wraps inner and replaces the argument segments of
// keys longer than maxLen with their xxhash digest. The method segment is
// kept so prefix invalidation still works. maxLen <= 0 selects
// DefaultMaxKeyLength.
func NewHashedKeySerializer(inner KeySerializer, maxLen int) KeySerializer {
	if inner == nil {
		inner = NewDefaultKeySerializer()
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxKeyLength
	}
	return hashedKeySerializer{inner: inner, maxLen: maxLen}
}

func (s hashedKeySerializer) SerializeKey(method string, args ...any) string {
	key := s.inner.SerializeKey(method, args...)
	if len(key) <= s.maxLen {
		return key
	}
	rest := strings.TrimPrefix(key, method+KeySeparator)
	return method + KeySeparator + "xx:" + strconv.FormatUint(xxhash.Sum64String(rest), 16)
}
