// Copyright 2020 Bart de Boer. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configFileName is looked up in the home directory, then in the working
// directory.
const configFileName = ".mtsconv.yaml"

// LoadYaml decodes the first config file found into initial. When file is
// set it is the only candidate and must exist; otherwise a missing config
// file is not an error.
func LoadYaml(file string, initial interface{}) error {
	if file != "" {
		if err := parseYAMLFile(file, initial); err != nil {
			return fmt.Errorf("error parsing YAML file (%s): %v", file, err)
		}
		return nil
	}

	var paths []string
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, configFileName))
	}
	paths = append(paths, filepath.Join(".", configFileName))

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil { // File exists
			if err := parseYAMLFile(path, initial); err != nil {
				return fmt.Errorf("error parsing YAML file (%s): %v", path, err)
			}
			break // Stop after the first successful load
		}
	}

	return nil
}

// Helper function to parse YAML file
func parseYAMLFile(path string, initial interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	err = yaml.Unmarshal(data, initial)
	if err != nil {
		return fmt.Errorf("error unmarshalling YAML: %v", err)
	}

	return nil
}
