package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/rosterboard/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	// An invalid file must still be fixable, so skip validation here.
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := initLogging(); err != nil {
			return err
		}
		loaded, path, err := config.Load(viper.GetViper(), cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg, cfgPath = loaded, path
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := cfgPath
		if path == "" {
			path = config.DefaultConfigPath
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
		return err
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a dotted key, e.g. 'config set server.url http://localhost:9000'",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgPath
		if path == "" {
			path = config.DefaultConfigPath
		}
		if err := setConfigValue(path, args[0], args[1]); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (%s)\n", args[0], args[1], path)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configSetCmd)
}

// setConfigValue writes key into the file at path and validates the result.
// An edit that makes the configuration invalid is rolled back.
func setConfigValue(path, key, value string) error {
	original, err := os.ReadFile(path) //nolint:gosec // G304: user supplied config path
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading config: %w", err)
	}

	if err := config.SaveValue(path, key, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	updated, _, err := config.Load(viper.New(), path)
	if err == nil {
		err = updated.Validate()
	}
	if err == nil {
		return nil
	}

	if original != nil {
		if restoreErr := os.WriteFile(path, original, 0o600); restoreErr != nil {
			return errors.Join(fmt.Errorf("invalid value for %s: %w", key, err), restoreErr)
		}
	} else {
		_ = os.Remove(path)
	}
	return fmt.Errorf("invalid value for %s: %w", key, err)
}
