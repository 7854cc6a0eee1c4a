package output

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// ApplyAgentOptions applies --result-sort-by, --result-desc and
// --result-limit to list output. Tables are limited but not sorted. Other
// values pass through unchanged.
func ApplyAgentOptions(ctx context.Context, data interface{}) interface{} {
	limit := LimitFromContext(ctx)
	sortBy, desc := SortFromContext(ctx)
	if limit <= 0 && sortBy == "" {
		return data
	}

	if t, ok := data.(Table); ok {
		if limit > 0 && len(t.Rows) > limit {
			t.Rows = t.Rows[:limit]
		}
		return t
	}

	v := indirect(reflect.ValueOf(data))
	if !v.IsValid() || v.Kind() != reflect.Slice {
		return data
	}

	out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(out, v)

	if sortBy != "" {
		path := strings.Split(sortBy, ".")
		sort.SliceStable(out.Interface(), func(i, j int) bool {
			a := sortKey(out.Index(i), path)
			b := sortKey(out.Index(j), path)
			if desc {
				return a > b
			}
			return a < b
		})
	}

	if limit > 0 && out.Len() > limit {
		out = out.Slice(0, limit)
	}
	return out.Interface()
}

// sortKey resolves a dotted json-field path to a comparable string. Numbers
// are zero-padded so they order numerically.
func sortKey(v reflect.Value, path []string) string {
	for _, part := range path {
		v = indirect(v)
		if !v.IsValid() {
			return ""
		}
		switch v.Kind() {
		case reflect.Map:
			if v.Type().Key().Kind() != reflect.String {
				return ""
			}
			v = v.MapIndex(reflect.ValueOf(part).Convert(v.Type().Key()))
		case reflect.Struct:
			found := false
			for _, f := range structFields(v.Type()) {
				if strings.EqualFold(f.name, part) {
					v = v.Field(f.index)
					found = true
					break
				}
			}
			if !found {
				return ""
			}
		default:
			return ""
		}
	}

	v = indirect(v)
	if !v.IsValid() {
		return ""
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%020d", v.Int()+(1<<62))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%020d", v.Uint())
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%030.6f", v.Float()+1e15)
	default:
		return strings.ToLower(fmt.Sprint(v.Interface()))
	}
}
