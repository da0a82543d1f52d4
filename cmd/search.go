package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmorganca/ollama/envconfig"
	"github.com/jmorganca/ollama/models"
)

func NewSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search for compatible models that Ollama can run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  searchHandler,
	}
}

func searchHandler(cmd *cobra.Command, args []string) error {
	var query string
	if len(args) > 0 {
		query = args[0]
	}

	out := cmd.OutOrStdout()

	names, err := models.Search(cmd.Context(), http.DefaultClient, envconfig.Directory, query)
	if err != nil {
		slog.Debug("search", "directory", envconfig.Directory, "error", err)
		fmt.Fprintln(out, "Failed to fetch available models, check your network connection")
		return nil
	}

	switch len(names) {
	case 0:
		fmt.Fprintln(out, "No models found.")
		return nil
	case 1:
		fmt.Fprintln(out, "Found 1 available model:")
	default:
		fmt.Fprintf(out, "Found %d available models:\n", len(names))
	}

	for _, name := range names {
		fmt.Fprintln(out, strings.ToLower(name))
	}

	return nil
}
