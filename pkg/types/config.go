package types

// OutputFormat selects how the assess command renders its report.
type OutputFormat string

const (
	FormatYAML OutputFormat = "yaml"
	FormatJSON OutputFormat = "json"
	FormatText OutputFormat = "text"
)

// LogConfig holds settings for the diagnostic logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" mapstructure:"level" yaml:"level"`

	// Format is console or json (default console).
	Format string `json:"format" mapstructure:"format" yaml:"format"`
}

// BloodLossConfig holds the transfusion thresholds used when computing
// maximum allowable blood loss.
type BloodLossConfig struct {
	// LowestHct is the lowest acceptable hematocrit, as a fraction or a
	// percentage (default 24).
	LowestHct float64 `json:"lowest_hct" mapstructure:"lowest_hct" yaml:"lowest_hct"`

	// LowestHgb is the lowest acceptable hemoglobin in g/dL (default 8).
	LowestHgb float64 `json:"lowest_hgb" mapstructure:"lowest_hgb" yaml:"lowest_hgb"`
}

// Config groups all settings for the preop CLI.
type Config struct {
	Format    OutputFormat    `json:"format" mapstructure:"format" yaml:"format"`
	Log       LogConfig       `json:"log" mapstructure:"log" yaml:"log"`
	BloodLoss BloodLossConfig `json:"blood_loss" mapstructure:"blood_loss" yaml:"blood_loss"`
}
