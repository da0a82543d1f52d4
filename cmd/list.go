package cmd

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/jmorganca/ollama/envconfig"
	"github.com/jmorganca/ollama/format"
	"github.com/jmorganca/ollama/models"
)

func NewModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "models",
		Aliases: []string{"list", "ls"},
		Short:   "List all available models stored locally",
		Args:    cobra.NoArgs,
		RunE:    listHandler,
	}
}

func listHandler(cmd *cobra.Command, args []string) error {
	local, err := models.List(envconfig.ModelsDir)
	if err != nil {
		return err
	}

	var data [][]string
	for _, m := range local {
		data = append(data, []string{m.Name, format.HumanBytes(m.Size), format.HumanTime(m.ModifiedAt, "Never")})
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"NAME", "SIZE", "MODIFIED"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}
