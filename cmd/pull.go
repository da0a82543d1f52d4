package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmorganca/ollama/api"
	"github.com/jmorganca/ollama/progress"
)

func NewPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull MODEL",
		Short: "Download a model from a remote source",
		Args:  cobra.ExactArgs(1),
		RunE:  pullHandler,
	}

	cmd.Flags().Bool("insecure", false, "Use an insecure registry")
	return cmd
}

func pullHandler(cmd *cobra.Command, args []string) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	if err := pullModel(cmd, client, args[0]); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Up to date.")
	return nil
}

// pullModel shows a bar per layer being downloaded and a spinner for
// every other status reported by the server.
func pullModel(cmd *cobra.Command, client *api.Client, name string) error {
	p := progress.NewProgress(cmd.ErrOrStderr())
	defer p.Stop()

	bars := make(map[string]*progress.Bar)
	var status string
	var spinner *progress.Spinner

	fn := func(resp api.PullProgress) error {
		if resp.Digest != "" && resp.Total > 0 {
			if spinner != nil {
				spinner.Stop()
			}

			bar, ok := bars[resp.Digest]
			if !ok {
				bar = progress.NewBar(fmt.Sprintf("pulling %s...", shortDigest(resp.Digest)), resp.Total, resp.Completed)
				bars[resp.Digest] = bar
				p.Add(resp.Digest, bar)
			}

			bar.Set(resp.Completed)
		} else if status != resp.Status {
			if spinner != nil {
				spinner.Stop()
			}

			status = resp.Status
			spinner = progress.NewSpinner(status)
			p.Add(status, spinner)
		}

		return nil
	}

	request := api.PullRequest{Name: name, Insecure: must(cmd.Flags().GetBool("insecure"))}
	return client.Pull(cmd.Context(), &request, fn)
}

// shortDigest trims "sha256:" and keeps the first 12 hex characters.
func shortDigest(digest string) string {
	digest = strings.TrimPrefix(digest, "sha256:")
	if len(digest) > 12 {
		digest = digest[:12]
	}

	return digest
}
