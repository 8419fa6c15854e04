// Copyright (C) 2024-2025 The minahash Authors
// This file is part of minahash
//
// minahash is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// minahash is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with minahash.  If not, see <https://www.gnu.org/licenses/>.

package codecs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
)

// NewFormattedJSONEncoder returns a json encoder configured for
// pretty-printed output (human-readable)
func NewFormattedJSONEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	enc.SetEscapeHTML(false)
	return enc
}

// LoadObjectFromFile implements the common pattern for loading an instance
// of an object from a json file. Unknown fields are rejected.
func LoadObjectFromFile(filename string, object any) (err error) {
	f, err := os.Open(filename)
	if err != nil {
		return
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	err = dec.Decode(object)
	return
}

// SaveObjectToFile implements the common pattern for saving an object to a file as json
func SaveObjectToFile(filename string, object any, prettyFormat bool) error {
	var buf bytes.Buffer
	var enc *json.Encoder
	if prettyFormat {
		enc = NewFormattedJSONEncoder(&buf)
	} else {
		enc = json.NewEncoder(&buf)
	}
	if err := enc.Encode(object); err != nil {
		return err
	}
	return writeFileAtomic(filename, buf.Bytes())
}

// SaveNonDefaultValuesToFile saves an object to a file as json, but only fields that are not
// currently set to be the default value.
// Optionally, you can specify an array of field names to always include.
func SaveNonDefaultValuesToFile(filename string, object, defaultObject any, ignore []string) error {
	// Encode one value per line, then drop every line whose field
	// still carries the default value.
	var buf bytes.Buffer
	if err := NewFormattedJSONEncoder(&buf).Encode(object); err != nil {
		return err
	}
	valueLines := strings.Split(buf.String(), "\n")

	objectValues := createValueMap(object)
	defaultValues := createValueMap(defaultObject)

	kept := make([]string, 0, len(valueLines))
	inContent := false

	for _, line := range valueLines {
		if line == "" {
			continue
		}
		valName := extractValueName(line)
		if valName == "" {
			if !inContent {
				if !strings.Contains(line, "{") {
					return fmt.Errorf("error processing serialized object - we don't support nested types: %s", line)
				}
				inContent = true
			} else {
				if !strings.Contains(line, "}") {
					return fmt.Errorf("error processing serialized object - we don't support nested types: %s", line)
				}
				inContent = false
			}
			kept = append(kept, line)
			continue
		}

		if !inContent {
			return fmt.Errorf("error processing serialized object - should be at EOF: %s", line)
		}

		if !slices.Contains(ignore, valName) && isDefaultValue(valName, objectValues, defaultValues) {
			continue
		}
		kept = append(kept, line)
	}

	// the last value line must not end in a comma
	if n := len(kept); n > 2 {
		kept[n-2] = strings.TrimSuffix(kept[n-2], ",")
	}

	return writeFileAtomic(filename, []byte(strings.Join(kept, "\n")))
}

func writeFileAtomic(filename string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err = tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(name, filename)
}

func extractValueName(line string) (name string) {
	start := strings.Index(line, "\"")
	if start < 0 {
		return
	}
	end := strings.Index(line, "\":")
	if end < 0 || end <= start {
		return
	}
	return line[start+1 : end]
}

func createValueMap(object any) map[string]any {
	valueMap := make(map[string]any)

	val := reflect.Indirect(reflect.ValueOf(object))
	for i := 0; i < val.NumField(); i++ {
		valueMap[val.Type().Field(i).Name] = val.Field(i).Interface()
	}
	return valueMap
}

func isDefaultValue(name string, values, defaults map[string]any) bool {
	val, hasVal := values[name]
	def, hasDef := defaults[name]
	if hasVal != hasDef {
		return false
	}

	return reflect.DeepEqual(val, def)
}
