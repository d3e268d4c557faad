package validation

// Package validation holds the shared validator instance used for request
// and domain payload validation.

import "github.com/go-playground/validator/v10"

// Validate is the process-wide validator. validator.Validate caches struct
// metadata, so sharing one instance is both safe and cheaper.
var Validate = validator.New(validator.WithRequiredStructEnabled())
