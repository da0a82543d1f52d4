package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmorganca/ollama/api"
	"github.com/jmorganca/ollama/console"
	"github.com/jmorganca/ollama/progress"
)

func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run MODEL [PROMPT]",
		Short: "Run a model and submit prompts",
		Long:  "Run a model and submit prompts. Interactive mode is enabled when no prompt is given and input is a terminal.",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runHandler,
	}

	cmd.Flags().Bool("insecure", false, "Use an insecure registry")
	cmd.Flags().StringArrayP("option", "o", nil, "Model option as key=value, may be repeated (e.g. -o temperature=0.7)")

	return cmd
}

func runHandler(cmd *cobra.Command, args []string) error {
	opts, err := api.ParseOptions(must(cmd.Flags().GetStringArray("option")))
	if err != nil {
		return err
	}

	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	name := args[0]
	if err := pullModel(cmd, client, name); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Running %s...\n", name)

	var prompt *string
	if len(args) > 1 {
		prompt = &args[1]
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	in := cmd.InOrStdin()
	c := console.Console{
		Generator:     client,
		Indicator:     progress.NewIndicator(cmd.ErrOrStderr(), ""),
		IsInteractive: func() bool { return isTerminal(in) },
		In:            in,
		Out:           cmd.OutOrStdout(),
		Options:       opts,
	}

	if err := c.Dispatch(ctx, name, prompt); err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Debug("run interrupted", "model", name)
			return nil
		}

		return err
	}

	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
