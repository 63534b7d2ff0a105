package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/shelf/version"
)

func (c *cli) versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Parse and order version identifiers",
	}
	cmd.AddCommand(c.versionCompareCmd(), c.versionParseCmd())
	return cmd
}

func (c *cli) versionCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare A B",
		Short: "Print -1, 0 or 1 as A orders before, equal to or after B",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := version.Compare(args[0], args[1])
			c.log.Debug("compare",
				zap.Stringer("a", version.Parse(args[0])),
				zap.Stringer("b", version.Parse(args[1])),
				zap.Int("result", n))
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func (c *cli) versionParseCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "parse V",
		Short: "Print the major, minor and patch components of V",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := version.Parse(args[0])
			if strict {
				var err error
				if t, err = version.ParseStrict(args[0]); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tmajor=%d minor=%d patch=%d\n", t, t.Major, t.Minor, t.Patch)
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "reject identifiers that are not exactly three numeric segments")
	return cmd
}
