package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/surveyworks/surveyqc-cli/internal/config"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List configured models and their credential status",
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := config.LoadKeys(cfg.Keys.File)
		if err != nil {
			return err
		}
		models := config.ApplyKeys(cfg.Models, keys)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPROVIDER\tMODEL\tTEMP\tKEY")
		for _, m := range models {
			keyStatus := "missing"
			if m.APIKey != "" {
				keyStatus = "set"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n", m.Name, m.Provider, m.ModelName, m.Temperature, keyStatus)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
