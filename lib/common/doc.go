/*
Package common contains the pieces shared by the cli and the library packages:
the logger factory that formats all package loggers and the client
configuration.

# Logging

All packages obtain their logger through dragonboats logger registry:

	var plog = logger.GetLogger("persist")

InitLoggers installs CreateLogger as the factory and sets the level of every
logger listed in LoggerNames. Lines are written to stderr in logfmt:

	ts=2025-01-01T12:00:00Z level=debug logger=persist slice=root msg="wrote 2 fields"

Messages about a single slice start with its storage key ("persist:root: wrote
2 fields"); the key is moved into the slice field.
*/
package common
