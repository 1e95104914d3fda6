package strategy

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// ToJSONSchema converts a struct to a JSON schema
func ToJSONSchema[T any](t T) (*jsonschema.Schema, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true

	return r.Reflect(t), nil
}

// GenerateSchema returns the JSON schema of Config.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	schema, err := ToJSONSchema(&Config{})
	if err != nil {
		return nil, err
	}

	schema.Title = "ema-psar-adx-config"
	schema.Description = "Configuration schema for the EMA / PSAR / ADX signal strategy"

	return schema, nil
}

// GenerateSchemaJSON returns the JSON schema of Config as indented JSON.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(data), nil
}
