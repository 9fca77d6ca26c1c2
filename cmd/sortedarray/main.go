// Package main provides the entry point for the sortedarray CLI tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Swoorup/the-sorted-array/cmd/sortedarray/commands"
	"github.com/Swoorup/the-sorted-array/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "sortedarray",
		Short: "Sorted array toolkit - search, split, merge and window sorted data files",
		Long: `sortedarray operates on JSON or YAML documents of records sorted by a
numeric key.

Commands:
  search    Insert point of a key, or points bounding a range
  split     Items before, inside and after a range
  merge     Merge two sorted documents
  chunk     Splice a gapless chunk and report gaps
  trim      Keep only items within a key window
  replay    Drive a windowed collection through a script
  validate  Schema and ordering checks`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	globals := commands.NewGlobals()
	globals.Attach(rootCmd)

	rootCmd.AddCommand(commands.NewSearchCommand(globals))
	rootCmd.AddCommand(commands.NewSplitCommand(globals))
	rootCmd.AddCommand(commands.NewMergeCommand(globals))
	rootCmd.AddCommand(commands.NewChunkCommand(globals))
	rootCmd.AddCommand(commands.NewTrimCommand(globals))
	rootCmd.AddCommand(commands.NewReplayCommand(globals))
	rootCmd.AddCommand(commands.NewValidateCommand(globals))
	rootCmd.AddCommand(commands.NewVersionCommand())

	err := rootCmd.Execute()
	closeErr := globals.Close(context.Background())

	if joined := errors.Join(err, closeErr); joined != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", joined)
		os.Exit(1)
	}
}
