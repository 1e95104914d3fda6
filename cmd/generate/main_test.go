package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-signal/internal/strategy"
	"github.com/stretchr/testify/suite"
	yamlv3 "gopkg.in/yaml.v3"
)

type GenerateCmdTestSuite struct {
	suite.Suite
	tempDir string
}

func (suite *GenerateCmdTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func (suite *GenerateCmdTestSuite) TestSchemaGeneration() {
	configDir := filepath.Join(suite.tempDir, "config")

	schemaPath, created, err := generate(configDir)
	suite.Require().NoError(err)
	suite.True(created)

	suite.True(dirExists(configDir), "Config directory should exist")
	suite.Equal(filepath.Join(configDir, schemaName), schemaPath)
	suite.True(fileExists(schemaPath), "Schema file should exist")

	schemaContent, err := os.ReadFile(schemaPath)
	suite.Require().NoError(err)
	suite.Contains(string(schemaContent), "ema-psar-adx-config")
}

func (suite *GenerateCmdTestSuite) TestSampleConfigGeneration() {
	configDir := filepath.Join(suite.tempDir, "config")

	_, _, err := generate(configDir)
	suite.Require().NoError(err)

	sampleConfigPath := filepath.Join(configDir, sampleFileName)
	suite.True(fileExists(sampleConfigPath), "Sample config file should exist")

	sampleConfigContent, err := os.ReadFile(sampleConfigPath)
	suite.Require().NoError(err)
	suite.Contains(string(sampleConfigContent), "# yaml-language-server: $schema="+schemaName)

	// The sample must load back as a valid config
	cfg, err := strategy.ParseConfig(sampleConfigContent)
	suite.Require().NoError(err)
	suite.Equal(strategy.DefaultConfig().Params(), cfg.Params())
}

func (suite *GenerateCmdTestSuite) TestSampleConfigNotOverwritten() {
	configDir := filepath.Join(suite.tempDir, "config")

	_, _, err := generate(configDir)
	suite.Require().NoError(err)

	sampleConfigPath := filepath.Join(configDir, sampleFileName)
	suite.Require().NoError(os.WriteFile(sampleConfigPath, []byte("adx_period: 20\n"), 0644))

	_, created, err := generate(configDir)
	suite.Require().NoError(err)
	suite.False(created)

	content, err := os.ReadFile(sampleConfigPath)
	suite.Require().NoError(err)
	suite.Equal("adx_period: 20\n", string(content), "Sample config should not be overwritten")
}

func (suite *GenerateCmdTestSuite) TestGenerateSchemaFile() {
	schemaPath := filepath.Join(suite.tempDir, "test-schema", "schema.json")

	err := generateSchemaFile(strategy.DefaultConfig(), schemaPath)
	suite.Require().NoError(err)
	suite.True(fileExists(schemaPath), "Schema file should exist")
}

func (suite *GenerateCmdTestSuite) TestGenerateSampleConfig() {
	samplePath := filepath.Join(suite.tempDir, "nested", "sample.yaml")

	err := generateSampleConfig(strategy.DefaultConfig(), samplePath, "schema.json")
	suite.Require().NoError(err)

	content, err := os.ReadFile(samplePath)
	suite.Require().NoError(err)

	var decoded map[string]any
	suite.Require().NoError(yamlv3.Unmarshal(content, &decoded))
	suite.EqualValues(50, decoded["short_ema_period"])
	suite.EqualValues(22.5, decoded["strength_threshold"])

	err = generateSampleConfig(strategy.DefaultConfig(), samplePath, "schema.txt")
	suite.Error(err)
}

func (suite *GenerateCmdTestSuite) TestValidatePaths() {
	err := validatePaths("/some/path/schema.json", "/some/path/config.yaml")
	suite.NoError(err, "Valid paths should not return error")

	err = validatePaths("", "/some/path/config.yaml")
	suite.Error(err, "Empty schema path should return error")
	suite.Contains(err.Error(), "schema path cannot be empty")

	err = validatePaths("/some/path/schema.json", "")
	suite.Error(err, "Empty sample config path should return error")
	suite.Contains(err.Error(), "sample config path cannot be empty")
}

func (suite *GenerateCmdTestSuite) TestValidateSchemaName() {
	suite.NoError(validateSchemaName("schema.json"))
	suite.NoError(validateSchemaName("my-schema-file.json"))

	err := validateSchemaName("")
	suite.Error(err)
	suite.Contains(err.Error(), "schema name cannot be empty")

	err = validateSchemaName("schema.txt")
	suite.Error(err)
	suite.Contains(err.Error(), "must have .json extension")

	suite.Error(validateSchemaName("schema"))
}

func (suite *GenerateCmdTestSuite) TestGetSchemaReference() {
	suite.Equal("# yaml-language-server: $schema=test-schema.json\n", getSchemaReference("test-schema.json"))
	suite.Equal("# yaml-language-server: $schema=\n", getSchemaReference(""))
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return !os.IsNotExist(err) && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return !os.IsNotExist(err) && !info.IsDir()
}

func TestGenerateCmdSuite(t *testing.T) {
	suite.Run(t, new(GenerateCmdTestSuite))
}
