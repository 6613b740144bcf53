// Copyright © 2024 Bank-Vaults Maintainers
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/ghodss/yaml"

	"github.com/arkide/stuffstore/pkg/apis/v1alpha1"
)

const (
	LogLevelEnv  = "STUFFSTORE_LOG_LEVEL"
	JSONLogEnv   = "STUFFSTORE_JSON_LOG"
	LogServerEnv = "STUFFSTORE_LOG_SERVER"
	ModeEnv      = "STUFFSTORE_MODE"
	ServerURLEnv = "STUFFSTORE_SERVER_URL"
	LocalDirEnv  = "STUFFSTORE_LOCAL_DIR"
	DBPathEnv    = "STUFFSTORE_DB_PATH"
	KeyPrefixEnv = "STUFFSTORE_KEY_PREFIX"
)

type Config struct {
	LogLevel  string `env:"STUFFSTORE_LOG_LEVEL"`
	JSONLog   bool   `env:"STUFFSTORE_JSON_LOG"`
	LogServer string `env:"STUFFSTORE_LOG_SERVER"`

	Mode      string `env:"STUFFSTORE_MODE"`
	ServerURL string `env:"STUFFSTORE_SERVER_URL"`
	LocalDir  string `env:"STUFFSTORE_LOCAL_DIR" envDefault:".stuffstore/local"`
	DBPath    string `env:"STUFFSTORE_DB_PATH"`
	KeyPrefix string `env:"STUFFSTORE_KEY_PREFIX"`
}

func LoadConfig() (*Config, error) {
	config := Config{
		DBPath: filepath.Join(".stuffstore", v1alpha1.DefaultDatabaseName+".db"),
	}
	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &config, nil
}

// StorageSpec builds the storage configuration for all modes.
func (c *Config) StorageSpec() *v1alpha1.StorageSpec {
	spec := &v1alpha1.StorageSpec{
		Mode:   v1alpha1.Mode(c.Mode),
		Server: &v1alpha1.StoreProviderServer{Address: c.ServerURL},
	}
	if c.LocalDir != "" {
		spec.Local = &v1alpha1.StoreProviderLocal{DirPath: c.LocalDir, KeyPrefix: c.KeyPrefix}
	}
	if c.DBPath != "" {
		spec.IndexedDB = &v1alpha1.StoreProviderIndexedDB{Path: c.DBPath}
	}
	return spec
}

// LoadStorageFile reads a YAML storage file with a top-level "storage" key.
// Backends set in the file replace the ones in spec.
func LoadStorageFile(path string, spec *v1alpha1.StorageSpec) (*v1alpha1.StorageSpec, error) {
	// Load file
	yamlBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Unmarshal (convert YAML to JSON)
	var storageConfig = struct {
		Storage v1alpha1.StorageSpec `json:"storage"`
	}{}

	jsonBytes, err := yaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(jsonBytes, &storageConfig); err != nil {
		return nil, err
	}

	merged := v1alpha1.StorageSpec{}
	if spec != nil {
		merged = *spec
	}
	file := storageConfig.Storage
	if file.Mode != "" {
		merged.Mode = file.Mode
	}
	if file.Server != nil {
		merged.Server = file.Server
	}
	if file.Local != nil {
		merged.Local = file.Local
	}
	if file.IndexedDB != nil {
		merged.IndexedDB = file.IndexedDB
	}
	return &merged, nil
}

// LoadStorageSpec loads the environment configuration and applies the
// optional storage file at path.
func LoadStorageSpec(path string) (*v1alpha1.StorageSpec, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	spec := config.StorageSpec()
	if path == "" {
		return spec, nil
	}

	spec, err = LoadStorageFile(path, spec)
	if err != nil {
		return nil, fmt.Errorf("error loading storage file: %w", err)
	}
	return spec, nil
}
