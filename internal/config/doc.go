// Package config provides centralized configuration management for the
// RadPulse analysis pipeline. It loads the INI settings file, exposes a
// raw (section, key) accessor, and resolves the file into a validated,
// type-safe Config struct that is passed explicitly through the pipeline.
//
// # Configuration Sources
//
// Configuration is resolved from the following sources in order of precedence:
//
//	1. Environment variables (highest priority, bootstrap only)
//	2. The INI settings file (config.ini by default)
//	3. Built-in defaults (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern RADPULSE_* for namespacing:
//
//	RADPULSE_CONFIG_FILE=config.ini
//	RADPULSE_LOG_LEVEL=debug
//
// # Settings File Structure
//
// The settings file is divided into fixed sections. Section and key names
// are exported constants so call sites never carry string literals:
//
//	[file_paths]           where the dataset lives and where artifacts go
//	[dataset_column_names] symbolic names for every column the pipeline touches
//	[output_plots]         colors, dimensions, label sizes, output format
//	[miscellaneous]        category labels, datetime layouts, derived-column names
//	[logging]              level, output target, log file path
//	[observability]        trace and metrics toggles
//
// # Raw Access
//
// The File type wraps the parsed INI file and fails loudly on absent
// sections or keys:
//
//	f, err := config.Open("config.ini")
//	dataset, err := f.Get(config.SectionFilePaths, config.KeyDataset)
//
// # Typed Resolution
//
// Resolve walks every known key once, converts values to their typed form,
// and validates the result. The returned Config is immutable by convention
// and threaded through constructors rather than held in package state:
//
//	cfg, err := config.Resolve(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
