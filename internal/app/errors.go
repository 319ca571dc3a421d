package service

import "errors"

// ErrNotBuilt is returned when outputs are requested before a successful Build.
var ErrNotBuilt = errors.New("no report has been built")

// ErrNoCompetitors is returned when the selection keeps nobody.
var ErrNoCompetitors = errors.New("no competitors matched the region")
