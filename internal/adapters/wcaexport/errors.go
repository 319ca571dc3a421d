package wcaexport

import "errors"

// Sentinel kinds for export errors.
var (
	ErrNoExport         = errors.New("export descriptor has no tsv_url")
	ErrUnexpectedStatus = errors.New("unexpected http status")
	ErrTableNotFound    = errors.New("export table not found")
	ErrMissingColumn    = errors.New("export table missing column")
)
