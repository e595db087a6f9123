// Package logging provides a simple leveled logging interface for the
// gallery pipeline tools.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the process
//
// The log level is configured via the LOG_LEVEL environment variable,
// or forced to debug with DEBUG=1 or the -v flag.
package logging
