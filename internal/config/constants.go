package config

// Application constants for the RadPulse analysis pipeline.
const (
	// Application Info
	AppName    = "RadPulse"
	AppVersion = "1.0.0"

	// Default Locations
	DefaultConfigFile = "config.ini"
	DefaultLogLevel   = "info"
	DefaultLogOutput  = "stdout"
	DefaultLogFile    = "logs/radpulse.log"
)

// Settings-file section names. Every lookup goes through these so that a
// renamed section fails in exactly one place.
const (
	SectionFilePaths     = "file_paths"
	SectionColumnNames   = "dataset_column_names"
	SectionOutputPlots   = "output_plots"
	SectionMisc          = "miscellaneous"
	SectionLogging       = "logging"
	SectionObservability = "observability"
)

// Keys under [file_paths].
const (
	KeyDataset         = "dataset"
	KeyOutputPlots     = "output_plots"
	KeyExportClean     = "export_clean"
	KeyRunSummary      = "run_summary"
	KeyMetricsTextfile = "metrics_textfile"
	KeyTraceFile       = "trace_file"
)

// Keys under [dataset_column_names].
const (
	KeySite             = "site"
	KeyAlgorithm        = "algorithm"
	KeyPatientClass     = "patient_class"
	KeyAIResult         = "ai_result"
	KeyWaitTime         = "wait_time_minutes"
	KeyStudyAcquisition = "study_acquisition_time"
	KeyCaseOpen         = "case_open_time"
)

// Keys under [output_plots].
const (
	KeyColorPoint   = "color_point"
	KeyColorBarEdge = "color_bar_edge"
	KeyWidth        = "dimensions_width"
	KeyHeight       = "dimensions_height"
	KeyAxisSize     = "label_size_axis"
	KeyTickSize     = "label_size_tick"
	KeyWaitLabel    = "label_waittime"
	KeyLegend       = "legend_presence"
	KeyLineWidth    = "line_width"
	KeyFormat       = "output_format"
	KeyAxisPad      = "pad_from_axis_label_to_ticks"
	KeyTickRotation = "tick_rotation"
	KeyBarType      = "type_barplot"
	KeyHistType     = "type_histogram"
	KeyBoxType      = "type_boxplot"
)

// Keys under [miscellaneous].
const (
	KeyResultNegative  = "ai_result_negative"
	KeyResultPositive  = "ai_result_positive"
	KeyTypeBoolean     = "column_type_boolean"
	KeyTypeCategorical = "column_type_categorical"
	KeyTransformed     = "column_transformed"
	KeyFormatStudyAcq  = "datetime_format_study_acquisition"
	KeyFormatCaseOpen  = "datetime_format_case_open"
	KeyFormatMonth     = "datetime_format_month"
	KeyMonthKeyword    = "datetime_month_keyword"
	KeyTimeKeyword     = "datetime_time_keyword"
	KeySecondsPattern  = "datetime_seconds_pattern"
)

// Keys under [logging].
const (
	KeyLogLevel    = "level"
	KeyLogOutput   = "output"
	KeyLogFilePath = "file_path"
)

// Keys under [observability].
const (
	KeyTracingEnabled = "tracing_enabled"
	KeyMetricsEnabled = "metrics_enabled"
)
