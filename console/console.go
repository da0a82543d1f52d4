// Package console renders streamed model output on a terminal. A busy
// indicator runs until the first visible token arrives, after which text
// is written as it is generated. Prompts come from a single argument,
// an interactive terminal, or lines piped on standard input.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jmorganca/ollama/api"
)

const promptMarker = ">>> "

// Generator streams the chunks of one generation to fn. A new call
// starts a new generation.
type Generator interface {
	Generate(ctx context.Context, req *api.GenerateRequest, fn api.TokenResponseFunc) error
}

// Indicator is a busy animation shown while no output is visible.
type Indicator interface {
	Start()
	Stop()
}

type Console struct {
	Generator Generator
	Indicator Indicator

	// IsInteractive reports whether In is a terminal.
	IsInteractive func() bool

	In  io.Reader
	Out io.Writer

	// Options are passed through to every generation.
	Options *api.Options
}

// Dispatch runs a single prompt when one is given. Without a prompt it
// reads prompts from In, interactively when In is a terminal and as a
// batch otherwise.
func (c *Console) Dispatch(ctx context.Context, model string, prompt *string) error {
	if prompt != nil {
		fmt.Fprintln(c.Out, promptMarker+*prompt)
		return c.RunOneShot(ctx, model, *prompt)
	}

	if c.IsInteractive != nil && c.IsInteractive() {
		return c.RunInteractive(ctx, model)
	}

	return c.RunBatch(ctx, model)
}

// RunOneShot generates a response to prompt. The indicator is stopped
// exactly once: on the first chunk with text, or on return if no text
// arrived. Generation errors are returned unchanged.
func (c *Console) RunOneShot(ctx context.Context, model, prompt string) error {
	fmt.Fprintln(c.Out)

	c.Indicator.Start()
	spinnerActive := true
	defer func() {
		if spinnerActive {
			c.Indicator.Stop()
		}
	}()

	request := api.GenerateRequest{
		Model:   model,
		Prompt:  prompt,
		Options: c.Options,
	}

	fn := func(resp api.TokenResponse) error {
		if len(resp.Choices) == 0 {
			return nil
		}

		if spinnerActive {
			c.Indicator.Stop()
			spinnerActive = false
			// move cursor back to beginning of line again
			fmt.Fprint(c.Out, "\r")
		}

		_, err := fmt.Fprint(c.Out, resp.Choices[0].Text)
		return err
	}

	if err := c.Generator.Generate(ctx, &request, fn); err != nil {
		slog.Debug("generate", "model", model, "error", err)
		return err
	}

	if spinnerActive {
		c.Indicator.Stop()
		spinnerActive = false
	}

	// end the response and separate it from the next prompt
	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out)
	return nil
}

// RunInteractive prompts for one line at a time until In is exhausted or
// ctx is cancelled, neither of which is an error.
func (c *Console) RunInteractive(ctx context.Context, model string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := readLines(ctx, c.In)
	for {
		fmt.Fprint(c.Out, promptMarker)

		line, err := nextLine(ctx, lines)
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(c.Out)
			return nil
		case errors.Is(err, context.Canceled):
			return nil
		case err != nil:
			return err
		}

		if err := c.RunOneShot(ctx, model, line); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}

			return err
		}
	}
}

// RunBatch echoes and answers every line of In in order.
func (c *Console) RunBatch(ctx context.Context, model string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := readLines(ctx, c.In)
	for {
		line, err := nextLine(ctx, lines)
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		fmt.Fprintln(c.Out, promptMarker+line)
		if err := c.RunOneShot(ctx, model, line); err != nil {
			return err
		}
	}
}

type lineResult struct {
	line string
	err  error
}

// readLines reads r line by line on its own goroutine so that a blocked
// read never holds up cancellation. Lines have no length limit. The final
// result carries io.EOF or the read error. The goroutine exits once r is exhausted or ctx is done.
func readLines(ctx context.Context, r io.Reader) <-chan lineResult {
	ch := make(chan lineResult)
	go func() {
		defer close(ch)

		send := func(res lineResult) bool {
			select {
			case ch <- res:
				return true
			case <-ctx.Done():
				return false
			}
		}

		br := bufio.NewReader(r)
		for {
			line, err := br.ReadString('\n')
			if err == nil || (errors.Is(err, io.EOF) && line != "") {
				line = strings.TrimSuffix(line, "\n")
				line = strings.TrimSuffix(line, "\r")
				if !send(lineResult{line: line}) {
					return
				}
			}

			if err != nil {
				send(lineResult{err: err})
				return
			}
		}
	}()

	return ch
}

func nextLine(ctx context.Context, lines <-chan lineResult) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-lines:
		if !ok {
			return "", io.EOF
		}

		return res.line, res.err
	}
}
