// Package logging configures slog for wordseq.
//
// By default the CLI logs warnings and errors to stderr in text form. With
// --debug, JSON logs at debug level are also written to ~/.wordseq/logs/
// through a size-rotating writer.
package logging
