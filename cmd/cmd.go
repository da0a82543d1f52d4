package cmd

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmorganca/ollama/envconfig"
	"github.com/jmorganca/ollama/logutil"
	"github.com/jmorganca/ollama/models"
)

func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ollama",
		Short: "Large language model runner",
		Long:  "Ollama: Run any large language model on any machine.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envconfig.LoadConfig()
			slog.SetDefault(logutil.NewLogger(cmd.ErrOrStderr(), logutil.Level(envconfig.LogLevel)))
			slog.Debug("config", "env", envconfig.Values())

			// create models home if it doesn't exist
			return models.EnsureDir(envconfig.ModelsDir)
		},
	}

	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(
		NewModelsCmd(),
		NewSearchCmd(),
		NewPullCmd(),
		NewRunCmd(),
	)

	appendEnvDocs(rootCmd)

	return rootCmd
}

// appendEnvDocs lists the OLLAMA_* variables at the end of the help of
// every command.
func appendEnvDocs(cmd *cobra.Command) {
	vars := envconfig.AsMap()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)

	var sb strings.Builder
	sb.WriteString("\nEnvironment Variables:\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "    %-20s%s\n", name, vars[name].Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + sb.String())
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}

	return v
}
