// Package transform contains the column derivations the pipeline applies
// between loading and analysis: datetime parsing with month extraction,
// the inverse hyperbolic sine transform for skewed wait times, seconds
// stripping, and the boolean-to-label recode of the AI result column.
package transform

import (
	"fmt"
	"math"
	"regexp"

	"radpulse/internal/dataset"
	apperrors "radpulse/internal/errors"
)

// DeriveMonth parses the named string column as datetimes using layout and
// adds a new "<column>_<monthKeyword>" string column holding each value
// formatted with monthLayout (e.g. "January"). The source column becomes a
// datetime column in place.
func DeriveMonth(t *dataset.Table, column, layout, monthLayout, monthKeyword string) (string, error) {
	if err := t.ParseTime(column, layout); err != nil {
		return "", err
	}

	times, err := t.Times(column)
	if err != nil {
		return "", err
	}

	months := make([]string, len(times))
	for i, v := range times {
		months[i] = v.Format(monthLayout)
	}

	derived := fmt.Sprintf("%s_%s", column, monthKeyword)
	if err := t.AddString(derived, months); err != nil {
		return "", err
	}
	return derived, nil
}

// Asinh adds a "<column>_<suffix>" float column holding the inverse
// hyperbolic sine of the named column. Unlike a log transform it is
// defined at zero, which wait times can legitimately be.
func Asinh(t *dataset.Table, column, suffix string) (string, error) {
	values, err := t.Floats(column)
	if err != nil {
		return "", err
	}

	transformed := make([]float64, len(values))
	for i, v := range values {
		transformed[i] = math.Asinh(v)
	}

	derived := fmt.Sprintf("%s_%s", column, suffix)
	if err := t.AddFloat(derived, transformed); err != nil {
		return "", err
	}
	return derived, nil
}

// StripSeconds removes the trailing seconds component from every value of
// the named string column, using the configured pattern.
func StripSeconds(t *dataset.Table, column, pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return apperrors.NewConfigError(fmt.Sprintf("invalid seconds pattern %q", pattern), err)
	}
	return t.ReplacePattern(column, re, "")
}

// RecodeBool replaces a bool column with a string column mapping
// true to positive and false to negative.
func RecodeBool(t *dataset.Table, column, positive, negative string) error {
	values, err := t.Bools(column)
	if err != nil {
		return err
	}

	labels := make([]string, len(values))
	for i, v := range values {
		if v {
			labels[i] = positive
		} else {
			labels[i] = negative
		}
	}
	return t.ReplaceStrings(column, labels)
}
