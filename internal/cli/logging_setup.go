package cli

import (
	"github.com/spf13/cobra"

	"github.com/telste/gridview/internal/config"
	"github.com/telste/gridview/internal/logging"
)

// setupResult carries the installed logger state through to cleanup.
type setupResult struct {
	logResult logging.LogResult
}

// setupLogging loads the effective configuration and installs the logger.
// Flag overrides (--debug) are applied on top of file and environment
// settings; the validated config becomes the process-wide config.
func setupLogging(cmd *cobra.Command) (*setupResult, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, validateErr
	}

	loggingCfg := cfg.Logging
	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = "console"
		loggingCfg.File = ""
	}

	config.SetGlobal(cfg)

	result := logging.NewWithPath(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FilePath)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Debug().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")

	return &setupResult{logResult: result}, nil
}

// cleanupLogging closes the log file handle, if one was opened.
func cleanupLogging(result *setupResult) error {
	if result == nil {
		return nil
	}
	return result.logResult.Close()
}
