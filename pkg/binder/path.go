package binder

import (
	"net/http"
	"reflect"
)

// Path creates a path parameter binder using the router's extractor, e.g.
// chi.URLParam. Fields are selected with `path:"name"` tags; fields without
// a path tag are ignored so request structs can mix sources.
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return errorf(ErrFailedToParsePath, "extractor function is nil")
		}

		names := taggedFields(v, "path")
		values := make(map[string][]string, len(names))
		for _, name := range names {
			if value := extractor(r, name); value != "" {
				values[name] = []string{value}
			}
		}
		return bindToStruct(v, "path", values, ErrFailedToParsePath)
	}
}

// taggedFields lists the explicit tag names of v's top-level fields.
func taggedFields(v any, tagName string) []string {
	rt := reflect.TypeOf(v)
	if rt == nil || rt.Kind() != reflect.Ptr || rt.Elem().Kind() != reflect.Struct {
		return nil
	}
	rt = rt.Elem()

	var names []string
	for i := range rt.NumField() {
		if tag, ok := rt.Field(i).Tag.Lookup(tagName); ok && tag != "-" && tag != "" {
			names = append(names, tag)
		}
	}
	return names
}
