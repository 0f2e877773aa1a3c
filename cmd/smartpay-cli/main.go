package main

import (
	"context"
	"fmt"
	"os"

	"smartpay/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand(&cli.RootOptions{})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
