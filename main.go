package main

import (
	"context"
	"os"

	"github.com/fatih/color"

	"github.com/gi8lino/jiracloud/internal/app"
)

var (
	Version = "dev"
)

func main() {
	ctx := context.Background()

	if err := app.Run(ctx, Version, os.Args[1:], os.Stdout, os.Stderr, os.Getenv); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %v\n", err) // nolint:errcheck
		os.Exit(1)
	}
}
