package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/materials"
)

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "List trace materials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for i, m := range materials.All() {
			marker := " "
			if i == 0 {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-10s %-3s %.3e Ω·m\n", marker, m.Name, m.Symbol, m.Resistivity)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(materialsCmd)
}
