package domain

import "errors"

// Fatal pipeline errors. Per-cell coercion failures are not errors; they
// surface as null-equivalent fields on NormalizedRecord.
var (
	// ErrMissingSource means the input table could not be found.
	ErrMissingSource = errors.New("source table not found")

	// ErrHeaderNotFound means no row in the scan window looked like data.
	ErrHeaderNotFound = errors.New("header row not detected")

	// ErrNoColumns means the chosen header row has no cells.
	ErrNoColumns = errors.New("table has no columns")

	// ErrUnknownColumn means a role override names a column not in the table.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrRoleRequired means a mandatory role was explicitly set to none.
	ErrRoleRequired = errors.New("role requires a column")
)

// UserMessage turns a pipeline error into an explanation suitable for the
// end user. Unknown errors get a generic message so raw internals never leak.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingSource):
		return "The earthquake data file could not be found. Upload a file or place it in the working directory."
	case errors.Is(err, ErrHeaderNotFound):
		return "Could not find the header row: none of the first rows look like earthquake data. Check the file layout."
	case errors.Is(err, ErrNoColumns):
		return "The detected header row is empty, so no columns are available."
	case errors.Is(err, ErrUnknownColumn):
		return "The selected column does not exist in this file. Pick one of the listed columns."
	case errors.Is(err, ErrRoleRequired):
		return "Time, magnitude and region each need a column; \"none\" is only allowed for latitude and longitude."
	default:
		return "The earthquake data could not be analyzed."
	}
}
