// Package apperr defines the error taxonomy shared by the query pipeline.
//
// Every failure that reaches a caller is one of four kinds. Classify maps any
// error onto the three-way status distinction a transport must preserve.
package apperr

import (
	"errors"
	"fmt"
)

// Class is the transport-independent status of a failed request.
type Class int

const (
	// ClassClient means the caller sent unusable input.
	ClassClient Class = iota
	// ClassNotFound means the input was well formed but nothing matched.
	ClassNotFound
	// ClassServer means the store or the translator failed.
	ClassServer
)

func (c Class) String() string {
	switch c {
	case ClassClient:
		return "client_error"
	case ClassNotFound:
		return "not_found"
	case ClassServer:
		return "server_error"
	default:
		return "unknown"
	}
}

// ValidationError reports empty or missing input. It is raised before any
// store or translator access.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a well-formed lookup that matched no entity.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Entity, e.Key)
}

// QueryExecutionError reports an invalid query or an unreachable store.
type QueryExecutionError struct {
	Query string
	Err   error
}

func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("query execution failed: %v", e.Err)
}

func (e *QueryExecutionError) Unwrap() error {
	return e.Err
}

// TranslationError reports that a question could not be turned into a usable
// query, or that the answer built from its rows was unusable. Query holds the
// generated query once one exists, including a rejected one.
type TranslationError struct {
	Stage string
	Query string
	Err   error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation failed at %s: %v", e.Stage, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

// Classify returns the status class for err. Unknown errors are server errors.
func Classify(err error) Class {
	var validation *ValidationError
	var notFound *NotFoundError
	switch {
	case errors.As(err, &validation):
		return ClassClient
	case errors.As(err, &notFound):
		return ClassNotFound
	default:
		return ClassServer
	}
}
