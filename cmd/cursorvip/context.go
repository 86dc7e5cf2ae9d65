package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"cursorvip/internal/config"
	"cursorvip/internal/configdir"
	"cursorvip/internal/logging"
)

type commandContext struct {
	configDirFlag *string
	logLevelFlag  *string
	logFormatFlag *string
	logFileFlag   *string

	storeOnce sync.Once
	logger    *slog.Logger
	store     *config.Store
	storeErr  error
}

func newCommandContext(configDirFlag, logLevelFlag, logFormatFlag, logFileFlag *string) *commandContext {
	return &commandContext{
		configDirFlag: configDirFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
		logFileFlag:   logFileFlag,
	}
}

// ensureStore builds the logger and store on first use. Logs go to the
// command's stderr and, with --log-file, to that file as well.
func (c *commandContext) ensureStore(cmd *cobra.Command) (*config.Store, error) {
	c.storeOnce.Do(func() {
		var outputs []string
		if path := flagValue(c.logFileFlag); path != "" {
			outputs = append(outputs, path)
		}
		logger, err := logging.New(logging.Options{
			Level:       flagValue(c.logLevelFlag),
			Format:      flagValue(c.logFormatFlag),
			OutputPaths: outputs,
			Writer:      cmd.ErrOrStderr(),
		})
		if err != nil {
			c.storeErr = err
			return
		}
		c.logger = logger

		opts := []config.Option{config.WithLogger(logger)}
		if dir := flagValue(c.configDirFlag); dir != "" {
			opts = append(opts, config.WithDirResolver(configdir.Fixed(logger, dir)))
		}
		c.store = config.NewStore(opts...)
	})
	return c.store, c.storeErr
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}
