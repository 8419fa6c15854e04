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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mina-go/minahash/test/partitiontest"
)

type testValue struct {
	Bool   bool
	String string
	Int    int
}

func TestIsDefaultValue(t *testing.T) {
	partitiontest.PartitionTest(t)

	a := require.New(t)

	v := testValue{
		Bool:   true,
		String: "default",
		Int:    1,
	}
	def := testValue{
		Bool:   true,
		String: "default",
		Int:    2,
	}

	objectValues := createValueMap(v)
	defaultValues := createValueMap(def)

	a.True(isDefaultValue("Bool", objectValues, defaultValues))
	a.True(isDefaultValue("String", objectValues, defaultValues))
	a.False(isDefaultValue("Int", objectValues, defaultValues))
	a.True(isDefaultValue("Missing", objectValues, defaultValues))
}

func TestSaveNonDefaultValues(t *testing.T) {
	partitiontest.PartitionTest(t)

	path := filepath.Join(t.TempDir(), "values.json")
	def := testValue{Bool: true, String: "default", Int: 2}
	v := testValue{Bool: true, String: "changed", Int: 2}

	require.NoError(t, SaveNonDefaultValuesToFile(path, v, def, []string{"Int"}))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "{\n\t\"String\": \"changed\",\n\t\"Int\": 2\n}", string(content))

	loaded := def
	loaded.Int = 7
	require.NoError(t, LoadObjectFromFile(path, &loaded))
	require.Equal(t, v, loaded)
}

func TestSaveNonDefaultValuesAllDefault(t *testing.T) {
	partitiontest.PartitionTest(t)

	path := filepath.Join(t.TempDir(), "values.json")
	def := testValue{Bool: true, String: "default", Int: 2}
	require.NoError(t, SaveNonDefaultValuesToFile(path, def, def, nil))

	loaded := testValue{}
	require.NoError(t, LoadObjectFromFile(path, &loaded))
	require.Equal(t, testValue{}, loaded)
}

func TestLoadObjectRejectsUnknownFields(t *testing.T) {
	partitiontest.PartitionTest(t)

	path := filepath.Join(t.TempDir(), "values.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Bool":true,"Extra":1}`), 0600))

	var v testValue
	require.Error(t, LoadObjectFromFile(path, &v))
}

func TestSaveObjectToFile(t *testing.T) {
	partitiontest.PartitionTest(t)

	path := filepath.Join(t.TempDir(), "values.json")
	v := testValue{Bool: false, String: "x", Int: 3}
	require.NoError(t, SaveObjectToFile(path, v, false))

	var loaded testValue
	require.NoError(t, LoadObjectFromFile(path, &loaded))
	require.Equal(t, v, loaded)
}
