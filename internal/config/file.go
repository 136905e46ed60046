package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/ini.v1"

	apperrors "radpulse/internal/errors"
)

// File wraps the parsed INI settings file with accessors that fail loudly.
// A missing section or key is a configuration mistake, not a condition to
// paper over with a zero value.
type File struct {
	path string
	ini  *ini.File
}

// Open reads and parses the settings file at path.
func Open(path string) (*File, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("settings file %q not found", path), err)
	}

	// Hex color values such as "#1f77b4" must survive parsing; without this
	// option the library would strip everything after '#' as an inline comment.
	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
	if err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("failed to parse settings file %q", path), err)
	}

	return &File{path: path, ini: f}, nil
}

// Path returns the location the file was loaded from.
func (f *File) Path() string {
	return f.path
}

// Get returns the raw string value for (section, key). It returns a config
// error naming the missing section or key when either is absent.
func (f *File) Get(section, key string) (string, error) {
	sec, err := f.ini.GetSection(section)
	if err != nil {
		return "", apperrors.NewConfigError(
			fmt.Sprintf("section %q not found in %s", section, f.path), err)
	}

	if !sec.HasKey(key) {
		return "", apperrors.NewConfigError(
			fmt.Sprintf("key %q not found in section %q of %s", key, section, f.path), nil)
	}

	return sec.Key(key).String(), nil
}

// Optional returns the value for (section, key), or the empty string when
// the section or key is absent. Used for paths that toggle optional outputs.
func (f *File) Optional(section, key string) string {
	sec, err := f.ini.GetSection(section)
	if err != nil {
		return ""
	}
	if !sec.HasKey(key) {
		return ""
	}
	return sec.Key(key).String()
}

// Int returns the value for (section, key) parsed as an integer.
func (f *File) Int(section, key string) (int, error) {
	raw, err := f.Get(section, key)
	if err != nil {
		return 0, err
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewConfigError(
			fmt.Sprintf("key %q in section %q is not an integer: %q", key, section, raw), err)
	}
	return v, nil
}

// Float returns the value for (section, key) parsed as a float64.
func (f *File) Float(section, key string) (float64, error) {
	raw, err := f.Get(section, key)
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.NewConfigError(
			fmt.Sprintf("key %q in section %q is not a number: %q", key, section, raw), err)
	}
	return v, nil
}

// Bool returns the value for (section, key) parsed as a boolean.
// Accepts the strconv.ParseBool forms (true/false, 1/0, t/f).
func (f *File) Bool(section, key string) (bool, error) {
	raw, err := f.Get(section, key)
	if err != nil {
		return false, err
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.NewConfigError(
			fmt.Sprintf("key %q in section %q is not a boolean: %q", key, section, raw), err)
	}
	return v, nil
}
