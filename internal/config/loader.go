package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"wrangle/internal/api"
	"wrangle/pkg/logging"
)

const (
	userConfigDir  = ".config/wrangle"
	configFileName = "config.yaml"

	sourcesDirName  = "sources"
	featuresDirName = "features"
)

// GetDefaultConfigPathOrPanic returns the per-user configuration directory.
func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// LoadConfig loads the agent configuration from configPath/config.yaml,
// overlaying the defaults. A missing file is not an error: the defaults
// apply unchanged.
func LoadConfig(configPath string) (Config, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}

	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}

// Declarations holds the loaded desired state, keyed by resource name.
type Declarations struct {
	Sources  map[string]api.SourceDescriptor
	Features map[string]api.FeatureDescriptor
}

// GetSource implements the source reconciler's declaration store.
func (d *Declarations) GetSource(name string) (api.SourceDescriptor, bool) {
	desc, ok := d.Sources[name]
	return desc, ok
}

// GetFeature implements the feature reconciler's declaration store.
func (d *Declarations) GetFeature(name string) (api.FeatureDescriptor, bool) {
	desc, ok := d.Features[name]
	return desc, ok
}

// SourceNames returns the declared source names in stable order.
func (d *Declarations) SourceNames() []string {
	names := make([]string, 0, len(d.Sources))
	for name := range d.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FeatureNames returns the declared feature names in stable order.
func (d *Declarations) FeatureNames() []string {
	names := make([]string, 0, len(d.Features))
	for name := range d.Features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadDeclarations loads all declaration files under configPath. Malformed
// or invalid files are collected into the returned error collection and
// skipped; valid siblings still load. The returned Declarations is always
// usable.
func LoadDeclarations(configPath string) (*Declarations, *ConfigurationErrorCollection) {
	decls := &Declarations{
		Sources:  make(map[string]api.SourceDescriptor),
		Features: make(map[string]api.FeatureDescriptor),
	}
	errs := &ConfigurationErrorCollection{}

	for _, path := range declarationFiles(filepath.Join(configPath, sourcesDirName)) {
		var decl SourceDeclaration
		if !loadDeclarationFile(path, sourcesDirName, &decl, errs) {
			continue
		}
		decls.Sources[decl.Name] = decl.Descriptor()
	}

	for _, path := range declarationFiles(filepath.Join(configPath, featuresDirName)) {
		var decl FeatureDeclaration
		if !loadDeclarationFile(path, featuresDirName, &decl, errs) {
			continue
		}
		decls.Features[decl.Name] = decl.Descriptor()
	}

	logging.Debug("ConfigLoader", "Loaded %d source and %d feature declarations from %s",
		len(decls.Sources), len(decls.Features), configPath)
	return decls, errs
}

// declarationFiles lists YAML files directly under dir in stable order. A
// missing directory yields nothing.
func declarationFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files
}

// loadDeclarationFile reads, parses and validates a single declaration
// file into decl. Failures land in errs.
func loadDeclarationFile(path, category string, decl any, errs *ConfigurationErrorCollection) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		errs.Add(ConfigurationError{
			FilePath:  path,
			FileName:  filepath.Base(path),
			Category:  category,
			ErrorType: "io",
			Message:   "failed to read declaration file",
			Details:   err.Error(),
		})
		return false
	}

	if err := yaml.Unmarshal(data, decl); err != nil {
		errs.Add(ConfigurationError{
			FilePath:  path,
			FileName:  filepath.Base(path),
			Category:  category,
			ErrorType: "parse",
			Message:   "invalid YAML",
			Details:   err.Error(),
			Suggestions: []string{
				"Check indentation and quoting",
			},
		})
		return false
	}

	if err := validateDeclaration(decl); err != nil {
		errs.Add(ConfigurationError{
			FilePath:  path,
			FileName:  filepath.Base(path),
			Category:  category,
			ErrorType: "validation",
			Message:   "declaration failed validation",
			Details:   err.Error(),
			Suggestions: []string{
				"Compare the file against the declaration reference in the README",
			},
		})
		return false
	}

	return true
}
