package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/javanhut/ugit/internal/config"
	"github.com/javanhut/ugit/internal/repo"
)

var configGlobal bool

var configCmd = &cobra.Command{
	Use:   "config <key> [<value>]",
	Short: "Get or set a configuration value (user.name, core.editor, color.ui, ...)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		workDir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		repoDir := ""
		if candidate := filepath.Join(workDir, repo.DirName); dirExists(candidate) {
			repoDir = candidate
		}

		cfg, err := config.Load(repoDir)
		if err != nil {
			return err
		}

		if len(args) == 1 {
			value, err := config.GetValue(cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		}

		if err := config.SetValue(cfg, args[0], args[1]); err != nil {
			return err
		}
		if configGlobal || repoDir == "" {
			return config.SaveGlobal(cfg)
		}
		return config.SaveRepo(repoDir, cfg)
	},
}

func init() {
	configCmd.Flags().BoolVar(&configGlobal, "global", false, "write to the global config (~/.ugitconfig) instead of the repository config")
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
