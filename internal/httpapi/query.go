package httpapi

//
// Query string flattening
//

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// encodeQuery flattens params into a query string without the leading
// question mark. Nested maps use the a[b]=c form, slices of scalars use
// a[]=c and slices of maps or slices use a[0][b]=c. Keys are sorted and
// nil values are skipped.
func encodeQuery(params map[string]any) string {
	var pairs []string
	for _, name := range sortedKeys(params) {
		pairs = appendQueryValue(pairs, name, params[name])
	}
	return strings.Join(pairs, "&")
}

func sortedKeys(params map[string]any) []string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func appendQueryPair(pairs []string, name, value string) []string {
	return append(pairs, url.QueryEscape(name)+"="+url.QueryEscape(value))
}

func appendQueryValue(pairs []string, name string, value any) []string {
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return pairs
	}
	switch v := value.(type) {
	case nil:
		return pairs
	case string:
		return appendQueryPair(pairs, name, v)
	case time.Time:
		return appendQueryPair(pairs, name, v.Format(time.RFC3339))
	case fmt.Stringer:
		return appendQueryPair(pairs, name, v.String())
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return pairs
		}
		return appendQueryValue(pairs, name, rv.Elem().Interface())
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		for _, key := range keys {
			child := fmt.Sprintf("%s[%v]", name, key.Interface())
			pairs = appendQueryValue(pairs, child, rv.MapIndex(key).Interface())
		}
		return pairs
	case reflect.Slice, reflect.Array:
		for idx := 0; idx < rv.Len(); idx++ {
			elem := rv.Index(idx).Interface()
			child := name + "[]"
			if isComposite(elem) {
				child = fmt.Sprintf("%s[%d]", name, idx)
			}
			pairs = appendQueryValue(pairs, child, elem)
		}
		return pairs
	case reflect.Bool:
		return appendQueryPair(pairs, name, strconv.FormatBool(rv.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return appendQueryPair(pairs, name, strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return appendQueryPair(pairs, name, strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		return appendQueryPair(pairs, name, strconv.FormatFloat(rv.Float(), 'f', -1, 64))
	case reflect.String:
		return appendQueryPair(pairs, name, rv.String())
	default:
		return appendQueryPair(pairs, name, fmt.Sprint(value))
	}
}

// isComposite returns whether value flattens into more than one pair.
func isComposite(value any) bool {
	if value == nil {
		return false
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}
