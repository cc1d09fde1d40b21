package errors

import (
	"fmt"
	"net/http"
)

// SchemaError occurs when the raw description of an index pattern is absent, malformed, or describes no fields
type SchemaError struct {
	IndexPattern string
	Reason       string
	Err          error
}

// Error returns a textual representation of this SchemaError
func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Invalid schema for %s: %s: %v", e.IndexPattern, e.Reason, e.Err)
	}
	return fmt.Sprintf("Invalid schema for %s: %s", e.IndexPattern, e.Reason)
}

// Unwrap returns the cause of this SchemaError, if any
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// UnknownColumnError occurs when a column is requested which is not a projectable field of a Schema
type UnknownColumnError struct{ Name string }

// Error returns a textual representation of this UnknownColumnError
func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("Column does not exist: %s", e.Name)
}

// TransportError occurs when a request to the remote store fails, either in transit or with a non-2xx response.
// StatusCode is 0 when no response was received.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

// Error returns a textual representation of this TransportError
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

// Unwrap returns the cause of this TransportError
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true iff the store responded that the requested resource does not exist
func (e *TransportError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// UnsupportedAggregationError occurs when a DataSource is asked to run an aggregation it cannot compute
type UnsupportedAggregationError struct{ Name string }

// Error returns a textual representation of this UnsupportedAggregationError
func (e *UnsupportedAggregationError) Error() string {
	return fmt.Sprintf("Aggregation %s is not supported", e.Name)
}
