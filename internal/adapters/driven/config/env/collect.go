package env

import (
	"reflect"
	"time"
)

// collect copies every non-nil pointer field of src into dst under the
// field's key tag. Durations are stored in their string form.
func collect(dst map[string]any, src any) {
	v := reflect.ValueOf(src)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("key")
		f := v.Field(i)
		if key == "" || f.Kind() != reflect.Pointer || f.IsNil() {
			continue
		}
		switch val := f.Elem().Interface().(type) {
		case time.Duration:
			dst[key] = val.String()
		default:
			dst[key] = val
		}
	}
}
