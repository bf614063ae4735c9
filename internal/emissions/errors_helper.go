package emissions

import (
	"strings"

	"github.com/greenpulse/greenpulse-go/internal/errors"
)

// missingFieldsError reports required entry fields that arrived empty.
func missingFieldsError(fields []string) error {
	return errors.Newf("missing required fields: %s", strings.Join(fields, ", ")).
		Component("emissions").
		Category(errors.CategoryValidation).
		Context("missing_fields", strings.Join(fields, ",")).
		Build()
}

// missingColumnsError reports CSV header columns absent from an upload.
func missingColumnsError(missing []string) error {
	return errors.Newf("CSV is missing required columns: %s (required: %s)",
		strings.Join(missing, ", "), strings.Join(RequiredColumns, ", ")).
		Component("emissions").
		Category(errors.CategoryValidation).
		Context("missing_columns", strings.Join(missing, ",")).
		Build()
}

// rowParseError reports a CSV cell that could not be parsed.
func rowParseError(err error, line int, column, value string) error {
	return errors.New(err).
		Component("emissions").
		Category(errors.CategoryValidation).
		Context("line", line).
		Context("column", column).
		Context("value", value).
		Build()
}

// rowShapeError reports a CSV row whose field count does not match the header.
func rowShapeError(err error, line int) error {
	return errors.New(err).
		Component("emissions").
		Category(errors.CategoryFileParsing).
		Context("line", line).
		Build()
}

// emptyCSVError reports an upload with no header row.
func emptyCSVError() error {
	return errors.Newf("CSV file is empty").
		Component("emissions").
		Category(errors.CategoryValidation).
		Build()
}

// knobRangeError reports a scenario percentage outside 0-100.
func knobRangeError(field string, value float64) error {
	return errors.Newf("%s must be between 0 and 100, got %g", field, value).
		Component("emissions").
		Category(errors.CategoryValidation).
		Context("field", field).
		Context("value", value).
		Build()
}

// RejectReason classifies a ParseCSV failure into a stable label for
// metrics. The mapping reads the context keys the constructors above
// attach, so it must stay in sync with them.
func RejectReason(err error) string {
	var enhanced *errors.EnhancedError
	if !errors.As(err, &enhanced) {
		return "unknown"
	}
	ctx := enhanced.GetContext()
	switch {
	case ctx["missing_columns"] != nil:
		return "missing_column"
	case ctx["column"] != nil:
		return "bad_number"
	case enhanced.Category == errors.CategoryFileParsing:
		return "row_shape"
	default:
		return "empty_file"
	}
}
