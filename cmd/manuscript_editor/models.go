package main

import (
	"fmt"

	"github.com/jonathan/manuscript-editor/internal/config"
	"github.com/jonathan/manuscript-editor/internal/llm"
	"github.com/spf13/cobra"
)

var modelsConfig string

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the selectable models",
	RunE:  runModels,
}

func init() {
	modelsCmd.Flags().StringVarP(&modelsConfig, "config", "c", "", "Path to JSON config file")
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Resolve(modelsConfig)
	if err != nil {
		return err
	}

	models := llm.DefaultConfig()
	def, err := models.ParseModelSelector(cfg.Model)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, selector := range models.Selectors() {
		mark := " "
		if selector == def {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %-6s %s\n", mark, selector, models.GetModel(selector)) //nolint:errcheck
	}
	return nil
}
