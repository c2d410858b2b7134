package config

import (
	"github.com/telste/gridview/internal/logging"
)

// ToLoggingConfig bridges the config file's logging section to the logging
// package's constructor shape.
//
// The conversion applies these rules:
//   - Level and Format are copied directly ("auto" becomes console output;
//     the logging package treats unknown formats as console).
//   - If File is set, Output becomes "file" and File is passed through.
//   - If File is empty, Output defaults to "stderr".
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	format := lc.Format
	if format == "auto" {
		format = logging.FormatConsole
	}

	return logging.Config{
		Level:  lc.Level,
		Format: format,
		Output: output,
		File:   lc.File,
		Caller: false,
	}
}
