// Package errors provides structured error types for programmatic error
// handling across the measurement core.
//
// Load-time failures (unsupported versions, schema mismatches) abort and are
// returned to the caller. Mutator misses and formula failures are reported
// with their own codes but are contained by the packages that raise them.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeSchemaValidation,
//	    "document does not match schema",
//	    cause,
//	    map[string]any{
//	        "line":   12,
//	        "column": 5,
//	        "path":   "/vst/body-measurements/m[3]",
//	    },
//	)
package errors
