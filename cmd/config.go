package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/vedit/internal/config"
	"github.com/zjrosen/vedit/internal/paths"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the vedit configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config",
	Long: `Write the default config with comments.

Examples:
  # Project-local config
  vedit config init

  # Somewhere else
  vedit config init --config ~/dotfiles/vedit.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = paths.LocalConfigPath()
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configAddBufferCmd = &cobra.Command{
	Use:   "add-buffer NAME [PATH]",
	Short: "Add a buffer to the startup set",
	Long: `Add a buffer to the set opened when vedit starts without files.

Examples:
  # Scratch buffer saved under save.dir
  vedit config add-buffer todo.txt

  # Buffer backed by a file
  vedit config add-buffer notes.md ~/notes.md`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		b := config.BufferConfig{Name: args[0]}
		if len(args) == 2 {
			b.Path = args[1]
		}

		path := viper.ConfigFileUsed()
		if path == "" {
			path = paths.LocalConfigPath()
		}
		if err := config.AddBuffer(path, b, cfg.Buffers); err != nil {
			return fmt.Errorf("adding buffer: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s\n", b.Name, path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd, configAddBufferCmd)
	rootCmd.AddCommand(configCmd)
}
