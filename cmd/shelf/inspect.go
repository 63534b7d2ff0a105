package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/shelf"
)

func (c *cli) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "List the version tag of every record level in a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readRecord(args[0])
			if err != nil {
				return err
			}
			tags := shelf.VersionTags(data)
			c.log.Debug("inspect", zap.String("file", args[0]), zap.Int("tags", len(tags)))
			if len(tags) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no version tags")
				return nil
			}
			for _, t := range tags {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", t.Path, t.Version)
			}
			return nil
		},
	}
}

// readRecord loads a persisted record; the extension selects the format.
func readRecord(path string) (any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return shelf.DecodeYAML(b)
	case ".json":
		var v any
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%s: unsupported extension (want .json, .yaml or .yml)", path)
}
