package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Env holds the environment bootstrap: the few settings that must be known
// before the INI file can be read. All variables are namespaced RADPULSE_*.
type Env struct {
	ConfigFile string `envconfig:"CONFIG_FILE" default:"config.ini"`
	LogLevel   string `envconfig:"LOG_LEVEL"`
}

// LoadEnv resolves the environment bootstrap.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process("RADPULSE", &env); err != nil {
		return Env{}, fmt.Errorf("failed to load config from env: %w", err)
	}
	return env, nil
}

// Config is the fully resolved, validated configuration for one run.
// It is constructed once by Resolve and passed explicitly through
// constructors; nothing in the pipeline reads package-level state.
type Config struct {
	Paths         PathsConfig
	Columns       ColumnsConfig
	Plot          PlotConfig
	Labels        LabelsConfig
	Datetime      DatetimeConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
}

// PathsConfig contains file system paths. Dataset and PlotsDir are
// required; the remaining paths enable optional run artifacts when set.
type PathsConfig struct {
	Dataset         string `validate:"required"`
	PlotsDir        string `validate:"required"`
	ExportClean     string
	RunSummary      string
	MetricsTextfile string
	TraceFile       string
}

// ColumnsConfig maps the pipeline's symbolic column roles to the column
// names used by the dataset file.
type ColumnsConfig struct {
	Site             string `validate:"required"`
	Algorithm        string `validate:"required"`
	PatientClass     string `validate:"required"`
	AIResult         string `validate:"required"`
	WaitTime         string `validate:"required"`
	StudyAcquisition string `validate:"required"`
	CaseOpen         string `validate:"required"`
}

// PlotConfig contains plot styling parameters.
type PlotConfig struct {
	PointColor    string  `validate:"required,hexcolor"`
	BarEdgeColor  string  `validate:"required,hexcolor"`
	Width         float64 `validate:"gt=0"`
	Height        float64 `validate:"gt=0"`
	AxisLabelSize float64 `validate:"gt=0"`
	TickLabelSize float64 `validate:"gt=0"`
	WaitTimeLabel string  `validate:"required"`
	Legend        bool
	LineWidth     float64 `validate:"gt=0"`
	Format        string  `validate:"oneof=.png .svg .pdf .jpg .tif"`
	AxisLabelPad  float64 `validate:"gte=0"`
	TickRotation  float64 `validate:"gte=-90,lte=90"`
	BarType       string  `validate:"required"`
	HistType      string  `validate:"required"`
	BoxType       string  `validate:"required"`
}

// LabelsConfig contains the category labels and derived-column naming.
type LabelsConfig struct {
	ResultNegative  string `validate:"required"`
	ResultPositive  string `validate:"required,nefield=ResultNegative"`
	TypeBoolean     string `validate:"required"`
	TypeCategorical string `validate:"required"`
	Transformed     string `validate:"required"`
}

// DatetimeConfig contains the datetime layouts and keywords used when
// parsing timestamp columns and deriving month columns from them.
type DatetimeConfig struct {
	StudyAcquisitionLayout string `validate:"required"`
	CaseOpenLayout         string `validate:"required"`
	MonthLayout            string `validate:"required"`
	MonthKeyword           string `validate:"required"`
	TimeKeyword            string `validate:"required"`
	SecondsPattern         string `validate:"required"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `validate:"oneof=debug info warn error"`
	Output   string `validate:"oneof=stdout file both"`
	FilePath string
}

// ObservabilityConfig toggles the run's trace and metrics artifacts.
type ObservabilityConfig struct {
	TracingEnabled bool
	MetricsEnabled bool
}

// Load resolves the complete configuration: environment bootstrap, then the
// INI settings file, then validation. This is the entry point main uses.
func Load(configPath string) (*Config, error) {
	env, err := LoadEnv()
	if err != nil {
		return nil, err
	}

	if configPath == "" {
		configPath = env.ConfigFile
	}

	f, err := Open(configPath)
	if err != nil {
		return nil, err
	}

	cfg, err := Resolve(f)
	if err != nil {
		return nil, err
	}

	// Environment overrides take precedence over the file.
	if env.LogLevel != "" {
		cfg.Logging.Level = env.LogLevel
	}

	return cfg, nil
}

// Resolve walks every known key of the settings file once, converts values
// to their typed form, applies logging defaults, and validates the result.
func Resolve(f *File) (*Config, error) {
	cfg := &Config{}

	var err error
	resolve := func(dst *string, section, key string) {
		if err != nil {
			return
		}
		*dst, err = f.Get(section, key)
	}
	resolveFloat := func(dst *float64, section, key string) {
		if err != nil {
			return
		}
		*dst, err = f.Float(section, key)
	}
	resolveBool := func(dst *bool, section, key string) {
		if err != nil {
			return
		}
		*dst, err = f.Bool(section, key)
	}

	resolve(&cfg.Paths.Dataset, SectionFilePaths, KeyDataset)
	resolve(&cfg.Paths.PlotsDir, SectionFilePaths, KeyOutputPlots)
	cfg.Paths.ExportClean = f.Optional(SectionFilePaths, KeyExportClean)
	cfg.Paths.RunSummary = f.Optional(SectionFilePaths, KeyRunSummary)
	cfg.Paths.MetricsTextfile = f.Optional(SectionFilePaths, KeyMetricsTextfile)
	cfg.Paths.TraceFile = f.Optional(SectionFilePaths, KeyTraceFile)

	resolve(&cfg.Columns.Site, SectionColumnNames, KeySite)
	resolve(&cfg.Columns.Algorithm, SectionColumnNames, KeyAlgorithm)
	resolve(&cfg.Columns.PatientClass, SectionColumnNames, KeyPatientClass)
	resolve(&cfg.Columns.AIResult, SectionColumnNames, KeyAIResult)
	resolve(&cfg.Columns.WaitTime, SectionColumnNames, KeyWaitTime)
	resolve(&cfg.Columns.StudyAcquisition, SectionColumnNames, KeyStudyAcquisition)
	resolve(&cfg.Columns.CaseOpen, SectionColumnNames, KeyCaseOpen)

	resolve(&cfg.Plot.PointColor, SectionOutputPlots, KeyColorPoint)
	resolve(&cfg.Plot.BarEdgeColor, SectionOutputPlots, KeyColorBarEdge)
	resolveFloat(&cfg.Plot.Width, SectionOutputPlots, KeyWidth)
	resolveFloat(&cfg.Plot.Height, SectionOutputPlots, KeyHeight)
	resolveFloat(&cfg.Plot.AxisLabelSize, SectionOutputPlots, KeyAxisSize)
	resolveFloat(&cfg.Plot.TickLabelSize, SectionOutputPlots, KeyTickSize)
	resolve(&cfg.Plot.WaitTimeLabel, SectionOutputPlots, KeyWaitLabel)
	resolveBool(&cfg.Plot.Legend, SectionOutputPlots, KeyLegend)
	resolveFloat(&cfg.Plot.LineWidth, SectionOutputPlots, KeyLineWidth)
	resolve(&cfg.Plot.Format, SectionOutputPlots, KeyFormat)
	resolveFloat(&cfg.Plot.AxisLabelPad, SectionOutputPlots, KeyAxisPad)
	resolveFloat(&cfg.Plot.TickRotation, SectionOutputPlots, KeyTickRotation)
	resolve(&cfg.Plot.BarType, SectionOutputPlots, KeyBarType)
	resolve(&cfg.Plot.HistType, SectionOutputPlots, KeyHistType)
	resolve(&cfg.Plot.BoxType, SectionOutputPlots, KeyBoxType)

	resolve(&cfg.Labels.ResultNegative, SectionMisc, KeyResultNegative)
	resolve(&cfg.Labels.ResultPositive, SectionMisc, KeyResultPositive)
	resolve(&cfg.Labels.TypeBoolean, SectionMisc, KeyTypeBoolean)
	resolve(&cfg.Labels.TypeCategorical, SectionMisc, KeyTypeCategorical)
	resolve(&cfg.Labels.Transformed, SectionMisc, KeyTransformed)
	resolve(&cfg.Datetime.StudyAcquisitionLayout, SectionMisc, KeyFormatStudyAcq)
	resolve(&cfg.Datetime.CaseOpenLayout, SectionMisc, KeyFormatCaseOpen)
	resolve(&cfg.Datetime.MonthLayout, SectionMisc, KeyFormatMonth)
	resolve(&cfg.Datetime.MonthKeyword, SectionMisc, KeyMonthKeyword)
	resolve(&cfg.Datetime.TimeKeyword, SectionMisc, KeyTimeKeyword)
	resolve(&cfg.Datetime.SecondsPattern, SectionMisc, KeySecondsPattern)

	if err != nil {
		return nil, err
	}

	// The logging and observability sections are optional; absent keys fall
	// back to defaults so a minimal settings file still runs.
	cfg.Logging.Level = DefaultLogLevel
	if v := f.Optional(SectionLogging, KeyLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	cfg.Logging.Output = DefaultLogOutput
	if v := f.Optional(SectionLogging, KeyLogOutput); v != "" {
		cfg.Logging.Output = v
	}
	cfg.Logging.FilePath = DefaultLogFile
	if v := f.Optional(SectionLogging, KeyLogFilePath); v != "" {
		cfg.Logging.FilePath = v
	}
	if f.Optional(SectionObservability, KeyTracingEnabled) != "" {
		if cfg.Observability.TracingEnabled, err = f.Bool(SectionObservability, KeyTracingEnabled); err != nil {
			return nil, err
		}
	}
	if f.Optional(SectionObservability, KeyMetricsEnabled) != "" {
		if cfg.Observability.MetricsEnabled, err = f.Bool(SectionObservability, KeyMetricsEnabled); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks the resolved configuration against the struct tags.
func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
