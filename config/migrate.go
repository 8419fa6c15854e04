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

package config

import (
	"fmt"
	"reflect"
	"strconv"
)

func migrate(cfg Local) (newCfg Local, err error) {
	newCfg = cfg
	latestConfigVersion := getLatestConfigVersion()

	if cfg.Version > latestConfigVersion {
		err = fmt.Errorf("unexpected config version: %d", cfg.Version)
		return
	}

	for newCfg.Version < latestConfigVersion {
		defaultCurrentConfig := GetVersionedDefaultLocalConfig(newCfg.Version)
		nextVersion := newCfg.Version + 1
		localType := reflect.TypeFor[Local]()
		current := reflect.ValueOf(&newCfg).Elem()
		defaults := reflect.ValueOf(&defaultCurrentConfig).Elem()
		for fieldNum := 0; fieldNum < localType.NumField(); fieldNum++ {
			field := localType.Field(fieldNum)
			nextVersionDefaultValue, hasTag := field.Tag.Lookup(fmt.Sprintf("version[%d]", nextVersion))
			if !hasTag {
				continue
			}
			// a value still equal to the old default follows the new default
			if !current.Field(fieldNum).Equal(defaults.Field(fieldNum)) {
				continue
			}
			if err = setFieldFromTag(current.Field(fieldNum), nextVersionDefaultValue); err != nil {
				return cfg, fmt.Errorf("config field %s: %w", field.Name, err)
			}
		}
		// Version carries its own tag, so the loop above already advanced it.
		if newCfg.Version != nextVersion {
			newCfg.Version = nextVersion
		}
	}
	return
}

func getLatestConfigVersion() uint32 {
	versionField, found := reflect.TypeFor[Local]().FieldByName("Version")
	if !found {
		return 0
	}
	version := uint32(0)
	for {
		_, hasTag := versionField.Tag.Lookup(fmt.Sprintf("version[%d]", version+1))
		if !hasTag {
			return version
		}
		version++
	}
}

// GetVersionedDefaultLocalConfig returns the default config for the given version.
func GetVersionedDefaultLocalConfig(version uint32) (local Local) {
	if version > 0 {
		local = GetVersionedDefaultLocalConfig(version - 1)
	}
	localType := reflect.TypeFor[Local]()
	v := reflect.ValueOf(&local).Elem()
	for fieldNum := 0; fieldNum < localType.NumField(); fieldNum++ {
		field := localType.Field(fieldNum)
		versionDefaultValue, hasTag := field.Tag.Lookup(fmt.Sprintf("version[%d]", version))
		if !hasTag {
			continue
		}
		if err := setFieldFromTag(v.Field(fieldNum), versionDefaultValue); err != nil {
			panic(fmt.Sprintf("config field %s: %v", field.Name, err))
		}
	}
	return
}

func setFieldFromTag(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(i)
	case reflect.Uint, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(u)
	case reflect.String:
		field.SetString(value)
	default:
		return fmt.Errorf("unsupported data type %s", field.Kind())
	}
	return nil
}
