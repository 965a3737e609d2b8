// Package errors provides the classified error primitives used across iconsite.
//
// Every fatal condition raised by a build pass (missing metadata, an unparsable SVG,
// a slug collision, a failed write) is reported as a ClassifiedError so that the CLI
// can pick an exit code and the watcher can log a consistent record.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, source, transform, filesystem, ...)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - RetryStrategy: Whether re-running can help (never, user action)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLIErrorAdapter: Exit codes and user-facing messages
//
// Example usage:
//
//	err := errors.SourceError("icon file not found").
//		WithContext("path", svgPath).
//		Build()
package errors
