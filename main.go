package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jmorganca/ollama/cmd"
)

func main() {
	cobra.CheckErr(cmd.LoadDotEnv())
	cobra.CheckErr(cmd.NewCLI().ExecuteContext(context.Background()))
}
