package main

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"cursorvip/internal/config"
	"cursorvip/internal/fileutil"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigPathCommand(ctx))
	configCmd.AddCommand(newConfigRefreshCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand(ctx))
	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigGetCommand(ctx))
	configCmd.AddCommand(newConfigSetCommand(ctx))
	configCmd.AddCommand(newConfigWatchCommand(ctx))

	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore(cmd)
			if err != nil {
				return err
			}
			cfg, err := store.Get()
			if err != nil {
				return err
			}
			path, err := store.Path()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch strings.ToLower(strings.TrimSpace(format)) {
			case "", "text":
				printConfig(out, cfg, path)
				return nil
			case "table":
				fmt.Fprintln(out, renderTable([]string{"Section", "Key", "Value", "Status"}, configRows(cfg), 1))
				return nil
			case "json":
				return writeJSON(cmd, cfg.ToMap())
			case "toml":
				data, err := cfg.MarshalTOML()
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			default:
				return fmt.Errorf("unknown format %q (want text, table, json, or toml)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, table, json, toml")
	return cmd
}

func printConfig(out io.Writer, cfg *config.Config, path string) {
	config.Print(out, cfg, config.PrintOptions{
		Path:  path,
		Color: shouldColorize(out),
	})
}

func configRows(cfg *config.Config) [][]string {
	var rows [][]string
	for _, name := range cfg.Sections() {
		section := cfg.Section(name)
		for _, key := range section.Keys() {
			value, _ := section.Get(key)
			rows = append(rows, []string{name, key, value, pathStatus(key, value)})
		}
	}
	return rows
}

func pathStatus(key, value string) string {
	if !strings.Contains(strings.ToLower(key), "path") || value == "" {
		return ""
	}
	if fileutil.Exists(value) {
		return "exists"
	}
	return "not found"
}

func newConfigPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore(cmd)
			if err != nil {
				return err
			}
			path, err := store.Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigRefreshCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-read the config file, restoring defaults if required sections are missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore(cmd)
			if err != nil {
				return err
			}
			cfg, err := store.ForceRefresh()
			if err != nil {
				return err
			}
			path, err := store.Path()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration refreshed: %s (%d sections)\n", path, len(cfg.Sections()))
			return nil
		},
	}
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore(cmd)
			if err != nil {
				return err
			}
			path, err := store.Path()
			if err != nil {
				return err
			}

			exists, err := fileutil.FileExists(path)
			if err != nil {
				return fmt.Errorf("check config path: %w", err)
			}
			switch {
			case exists && !overwrite:
				return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", path)
			case exists:
				if _, err := store.Overwrite(); err != nil {
					return err
				}
			default:
				if _, err := store.Load(); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the config file has every required section and well-formed values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore(cmd)
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return err
			}
			if err := errors.Join(cfg.Validate(), cfg.CheckValues()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration valid")
			return nil
		},
	}
}

func newConfigGetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get SECTION KEY",
		Short: "Print a single configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore(cmd)
			if err != nil {
				return err
			}
			cfg, err := store.Get()
			if err != nil {
				return err
			}
			value, err := cfg.String(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newConfigSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set SECTION KEY VALUE",
		Short: "Store a configuration value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, key, value := args[0], args[1], args[2]
			if strings.TrimSpace(key) == "" {
				return errors.New("key must not be empty")
			}
			store, err := ctx.ensureStore(cmd)
			if err != nil {
				return err
			}
			if _, err := store.Update(func(cfg *config.Config) error {
				cfg.Set(section, key, value)
				return nil
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s.%s = %s\n", section, strings.ToLower(strings.TrimSpace(key)), value)
			return nil
		},
	}
}

func newConfigWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the configuration again whenever the file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore(cmd)
			if err != nil {
				return err
			}
			path, err := store.Path()
			if err != nil {
				return err
			}
			cfg, err := store.Get()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printConfig(out, cfg, path)

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return store.Watch(signalCtx, func() {
				// Get would write defaults back; a removed file stays removed.
				if !fileutil.Exists(path) {
					fmt.Fprintf(out, "Configuration removed: %s\n", path)
					return
				}
				cfg, err := store.Get()
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "reload config: %v\n", err)
					return
				}
				fmt.Fprintln(out, "Configuration changed")
				printConfig(out, cfg, path)
			})
		},
	}
}
