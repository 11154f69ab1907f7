package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mrlokans/lexicon/internal/cli"
	"github.com/mrlokans/lexicon/internal/config"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	root := cli.NewRootCommand(fmt.Sprintf("%s (%s)", Version, Commit), config.NewConfig)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
