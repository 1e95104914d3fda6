package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/strategy"
	"github.com/rxtech-lab/argo-signal/internal/version"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

const (
	outputDir      = "./config"
	schemaName     = "ema-psar-adx-config.json"
	sampleFileName = "ema-psar-adx-config.yaml"
)

func main() {
	log, err := logger.NewLogger()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	schemaPath, sampleCreated, err := generate(outputDir)
	if err != nil {
		log.Fatal("Failed to generate config files", zap.Error(err))
	}

	if sampleCreated {
		log.Info("Sample config generated", zap.String("path", filepath.Join(outputDir, sampleFileName)))
	}

	log.Info("Schema generated", zap.String("path", schemaPath))
}

// generate writes the config schema into dir and a sample config next to it
// when none exists yet. It reports whether the sample was written.
func generate(dir string) (string, bool, error) {
	config := strategy.DefaultConfig()
	config.EngineVersion = version.GetVersion()

	schemaPath := filepath.Join(dir, schemaName)
	sampleConfigPath := filepath.Join(dir, sampleFileName)

	if err := validatePaths(schemaPath, sampleConfigPath); err != nil {
		return "", false, err
	}

	if err := generateSchemaFile(config, schemaPath); err != nil {
		return "", false, err
	}

	if _, err := os.Stat(sampleConfigPath); !os.IsNotExist(err) {
		return schemaPath, false, nil
	}

	if err := generateSampleConfig(config, sampleConfigPath, schemaName); err != nil {
		return "", false, err
	}

	return schemaPath, true, nil
}

func generateSchemaFile(config strategy.Config, schemaPath string) error {
	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to generate schema", err)
	}

	if err := os.MkdirAll(filepath.Dir(schemaPath), 0755); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to create directory for %s", schemaPath)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to write schema to %s", schemaPath)
	}

	return nil
}

func generateSampleConfig(config strategy.Config, sampleConfigPath, schemaName string) error {
	if err := validateSchemaName(schemaName); err != nil {
		return err
	}

	yamlBytes, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to marshal sample config", err)
	}

	yamlBytes = append([]byte(getSchemaReference(schemaName)), yamlBytes...)

	if err := os.MkdirAll(filepath.Dir(sampleConfigPath), 0755); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to create directory for %s", sampleConfigPath)
	}

	if err := os.WriteFile(sampleConfigPath, yamlBytes, 0644); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to write sample config to %s", sampleConfigPath)
	}

	return nil
}

func validatePaths(schemaPath, sampleConfigPath string) error {
	if schemaPath == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "schema path cannot be empty")
	}

	if sampleConfigPath == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "sample config path cannot be empty")
	}

	return nil
}

func validateSchemaName(name string) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "schema name cannot be empty")
	}

	if !strings.HasSuffix(name, ".json") {
		return errors.Newf(errors.ErrCodeInvalidParameter, "schema name %q must have .json extension", name)
	}

	return nil
}

// getSchemaReference returns the yaml-language-server header pointing editors at the schema.
func getSchemaReference(schemaName string) string {
	return "# yaml-language-server: $schema=" + schemaName + "\n"
}
