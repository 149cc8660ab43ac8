// Package logging configures log/slog for photopost commands.
//
// Two handlers are provided: a compact console handler for interactive use
// (colorized when stdout is a terminal) and a JSON handler for log files and
// automation. Attr helpers and standardized field keys keep log output
// consistent across the scheduling engine, the publisher, and the CLI.
package logging
