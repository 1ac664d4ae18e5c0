// =============================================================================
// Seatmap Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// CONFIGURATION FILE (config.yaml):
//
//   output_dir: ./out          # default: next to the input file
//   log_level: info            # debug | info | warn | error
//   indent: 0                  # spaces per JSON level, 0 = compact
//   validate_output: true
//   export_xlsx: false
//   namespaces:
//     envelope:
//       soap: http://schemas.xmlsoap.org/soap/envelope/
//       ota:  http://www.opentravel.org/OTA/2003/05/common/
//     offer:
//       default: http://www.iata.org/IATA/EDIST/2017.2
//
// Every key is optional. Unset keys take the defaults above.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/seatmap-converter/internal/seatmap"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// OutputDir is where the parsed JSON is written.
	// Empty means the directory of the input file.
	OutputDir string `yaml:"output_dir"`

	// LogLevel controls the verbosity of logging.
	// Default: "info"
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Indent is the number of spaces per JSON nesting level.
	// Default: 0 (compact output)
	Indent int `yaml:"indent" validate:"gte=0,lte=8"`

	// ValidateOutput runs the output checks before anything is written.
	// Default: true
	ValidateOutput *bool `yaml:"validate_output"`

	// ExportXLSX additionally writes the seatmap as a workbook.
	ExportXLSX bool `yaml:"export_xlsx"`

	// Namespaces overrides the namespace URIs of each dialect.
	Namespaces NamespaceConfig `yaml:"namespaces"`

	// DryRun converts and validates without writing any file.
	// Set from the command line only.
	DryRun bool `yaml:"-"`
}

// NamespaceConfig holds the per-dialect namespace URIs.
type NamespaceConfig struct {
	Envelope EnvelopeNamespaceConfig `yaml:"envelope"`
	Offer    OfferNamespaceConfig    `yaml:"offer"`
}

// EnvelopeNamespaceConfig holds the SOAP envelope dialect URIs.
type EnvelopeNamespaceConfig struct {
	SOAP string `yaml:"soap" validate:"omitempty,uri"`
	OTA  string `yaml:"ota" validate:"omitempty,uri"`
}

// OfferNamespaceConfig holds the NDC offer dialect URI.
type OfferNamespaceConfig struct {
	Default string `yaml:"default" validate:"omitempty,uri"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	cfg := &MainConfig{}
	applyMainConfigDefaults(cfg)
	return cfg
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// When optional is true a missing file is not an error and the defaults are
// returned instead. This is how the default --config path is treated.
func LoadMainConfig(configPath string, optional bool) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.ValidateOutput == nil {
		enabled := true
		config.ValidateOutput = &enabled
	}

	defaults := seatmap.DefaultNamespaces()
	if config.Namespaces.Envelope.SOAP == "" {
		config.Namespaces.Envelope.SOAP = defaults.Envelope.SOAP
	}
	if config.Namespaces.Envelope.OTA == "" {
		config.Namespaces.Envelope.OTA = defaults.Envelope.OTA
	}
	if config.Namespaces.Offer.Default == "" {
		config.Namespaces.Offer.Default = defaults.Offer.Default
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	return validator.New().Struct(config)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// ShouldValidate reports whether output validation is enabled.
func (c *MainConfig) ShouldValidate() bool {
	return c.ValidateOutput == nil || *c.ValidateOutput
}

// SeatmapNamespaces converts the configured URIs into extractor tables.
func (c *MainConfig) SeatmapNamespaces() seatmap.Namespaces {
	return seatmap.Namespaces{
		Envelope: seatmap.EnvelopeNamespaces{
			SOAP: c.Namespaces.Envelope.SOAP,
			OTA:  c.Namespaces.Envelope.OTA,
		},
		Offer: seatmap.OfferNamespaces{
			Default: c.Namespaces.Offer.Default,
		},
	}
}
