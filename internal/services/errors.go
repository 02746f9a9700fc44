package services

import "errors"

var (
	ErrNoStructuredData  = errors.New("no structured data found")
	ErrCriterionNotFound = errors.New("criterion not found in scoring run")
	ErrUnknownQuestion   = errors.New("unknown question")
	ErrExternalService   = errors.New("external service failure")
)
