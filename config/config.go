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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mina-go/minahash/util/codecs"
)

// ConfigFilename is the name of the local settings file in a data directory.
const ConfigFilename = "minahash-config.json"

var defaultLocal = GetVersionedDefaultLocalConfig(getLatestConfigVersion())

// GetDefaultLocal returns the defaults of the latest config version.
func GetDefaultLocal() Local {
	return defaultLocal
}

// LoadConfigFromDisk reads ConfigFilename from dataDir. Fields absent from
// the file keep their defaults, and a file written by an older version is
// migrated. On error the returned config is the defaults.
func LoadConfigFromDisk(dataDir string) (Local, error) {
	return loadConfigFromFile(filepath.Join(dataDir, ConfigFilename))
}

func loadConfigFromFile(path string) (Local, error) {
	f, err := os.Open(path)
	if err != nil {
		return defaultLocal, err
	}
	defer f.Close()

	// a file without a Version field predates versioning
	c := defaultLocal
	c.Version = 0
	if err := loadConfig(f, &c); err != nil {
		return defaultLocal, fmt.Errorf("%s: %w", path, err)
	}
	return migrate(c)
}

func loadConfig(r io.Reader, c *Local) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(c)
}

// SaveToDisk writes cfg to ConfigFilename in dataDir.
func (cfg Local) SaveToDisk(dataDir string) error {
	return cfg.SaveToFile(filepath.Join(dataDir, ConfigFilename))
}

// SaveToFile writes the fields of cfg that differ from the defaults, plus
// Version, to filename.
func (cfg Local) SaveToFile(filename string) error {
	return codecs.SaveNonDefaultValuesToFile(filename, cfg, defaultLocal, []string{"Version"})
}
