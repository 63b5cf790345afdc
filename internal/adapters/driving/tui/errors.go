package tui

import "errors"

// ErrMissingCatalogue is returned when the catalogue service is not provided.
var ErrMissingCatalogue = errors.New("tui: catalogue service is required")

// ErrMissingGenerator is returned when the sentence generator is not provided.
var ErrMissingGenerator = errors.New("tui: sentence generator is required")
