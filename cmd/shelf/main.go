package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

type cli struct {
	verbose bool
	log     *zap.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{log: zap.NewNop()}
	root := &cobra.Command{
		Use:   "shelf",
		Short: "Inspect versioned shelf records",
		Long: `shelf works with records persisted by the shelf engine.

Usage:
  shelf version compare A B
  shelf version parse V [--strict]
  shelf inspect FILE`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !c.verbose {
				return nil
			}
			l, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			c.log = l
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log debug events to stderr")

	root.AddCommand(c.versionCmd(), c.inspectCmd())
	return root
}
