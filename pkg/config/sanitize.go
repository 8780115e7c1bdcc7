/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"encoding/json"
	"reflect"
	"strings"
)

// Redact renders cfg as JSON with every field tagged `sensitive:"true"`
// removed, for logging the effective configuration.
func Redact(cfg interface{}) ([]byte, error) {
	return json.Marshal(redactValue(reflect.ValueOf(cfg)))
}

func redactValue(rv reflect.Value) interface{} {
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}

		rv = rv.Elem()
	}

	if !rv.IsValid() {
		return nil
	}

	if _, ok := rv.Interface().(json.Marshaler); ok {
		return rv.Interface()
	}

	switch rv.Kind() {
	case reflect.Struct:
		out := make(map[string]interface{})
		rt := rv.Type()

		for i := 0; i < rt.NumField(); i++ {
			field := rt.Field(i)
			if !field.IsExported() || field.Tag.Get("sensitive") == "true" {
				continue
			}

			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				continue
			}

			if name == "" {
				name = field.Name
			}

			out[name] = redactValue(rv.Field(i))
		}

		return out
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}

		out := make([]interface{}, rv.Len())
		for i := range out {
			out[i] = redactValue(rv.Index(i))
		}

		return out
	default:
		return rv.Interface()
	}
}
