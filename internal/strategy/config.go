package strategy

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/signal"
	"github.com/rxtech-lab/argo-signal/internal/version"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the parameters of the EMA / PSAR / ADX strategy.
type Config struct {
	ShortEMAPeriod    int     `yaml:"short_ema_period" json:"short_ema_period" jsonschema:"title=Short EMA Period,description=Window of the fast trend EMA,minimum=1,default=50" validate:"gt=0"`
	LongEMAPeriod     int     `yaml:"long_ema_period" json:"long_ema_period" jsonschema:"title=Long EMA Period,description=Window of the slow trend EMA,minimum=1,default=100" validate:"gt=0"`
	PSARStep          float64 `yaml:"psar_step" json:"psar_step" jsonschema:"title=PSAR Step,description=Initial PSAR acceleration factor and its increment,exclusiveMinimum=0,default=0.02" validate:"gt=0"`
	PSARMaxStep       float64 `yaml:"psar_max_step" json:"psar_max_step" jsonschema:"title=PSAR Max Step,description=Cap of the PSAR acceleration factor,exclusiveMinimum=0,default=0.2" validate:"gt=0,gtefield=PSARStep"`
	ADXPeriod         int     `yaml:"adx_period" json:"adx_period" jsonschema:"title=ADX Period,description=Window of the DM/TR/DX smoothing,minimum=1,default=12" validate:"gt=0"`
	StrengthThreshold float64 `yaml:"strength_threshold" json:"strength_threshold" jsonschema:"title=Strength Threshold,description=Minimum ADX or DI that confirms a reversal,default=22.5"`
	// EngineVersion is the engine version the config was written for.
	EngineVersion string `yaml:"engine_version,omitempty" json:"engine_version,omitempty" jsonschema:"title=Engine Version,description=Engine version the config targets (semver)"`
}

// DefaultConfig returns the reference parameter set.
func DefaultConfig() Config {
	return Config{
		ShortEMAPeriod:    50,
		LongEMAPeriod:     100,
		PSARStep:          0.02,
		PSARMaxStep:       0.2,
		ADXPeriod:         12,
		StrengthThreshold: signal.DefaultStrengthThreshold,
		EngineVersion:     "",
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Validate checks every parameter and returns the first problem as an *errors.ConfigError.
func (c Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			fieldErr := validationErrs[0]

			return errors.NewConfigError(fieldErr.Field(), describe(fieldErr))
		}

		return errors.NewConfigError("config", err.Error())
	}

	if math.IsNaN(c.StrengthThreshold) || math.IsInf(c.StrengthThreshold, 0) {
		return errors.NewConfigErrorf("strength_threshold", "must be a finite number, got %v", c.StrengthThreshold)
	}

	return nil
}

func describe(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "gt":
		return fmt.Sprintf("must be greater than %s, got %v", fieldErr.Param(), fieldErr.Value())
	case "gtefield":
		return fmt.Sprintf("must not be below psar_step, got %v", fieldErr.Value())
	default:
		return fmt.Sprintf("failed %s validation, got %v", fieldErr.Tag(), fieldErr.Value())
	}
}

// Warnings lists legal but suspicious parameter choices.
func (c Config) Warnings() []string {
	var warnings []string

	if c.ShortEMAPeriod >= c.LongEMAPeriod {
		warnings = append(warnings, fmt.Sprintf(
			"short_ema_period (%d) is not below long_ema_period (%d)", c.ShortEMAPeriod, c.LongEMAPeriod))
	}

	return warnings
}

// Params converts the config to indicator engine parameters.
func (c Config) Params() indicator.Params {
	return indicator.Params{
		ShortEMAPeriod: c.ShortEMAPeriod,
		LongEMAPeriod:  c.LongEMAPeriod,
		PSARStep:       c.PSARStep,
		PSARMaxStep:    c.PSARMaxStep,
		ADXPeriod:      c.ADXPeriod,
	}
}

// ParseConfig reads a YAML document on top of DefaultConfig, checks the
// engine version and validates the result. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse strategy config", err)
	}

	if err := version.CheckVersionCompatibility(version.GetVersion(), config.EngineVersion); err != nil {
		return Config{}, err
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// LoadConfig reads and parses the YAML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "failed to read strategy config %s", path)
	}

	return ParseConfig(data)
}
