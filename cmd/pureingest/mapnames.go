package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oceanatlas/pureingest/internal/mapping"
	"github.com/oceanatlas/pureingest/internal/repos"
)

func newMapNamesCmd() *cobra.Command {
	var fuzzy bool
	cmd := &cobra.Command{
		Use:   "map-names [file]",
		Short: "Resolve a JSON array of member names to uuids",
		Long: `Reads a JSON array of names (from the given file, or stdin) and looks
each one up in the member table. Matching is exact and case-insensitive;
with --fuzzy, unmatched names also try a substring search that must land
on exactly one member.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := readNames(args)
			if err != nil {
				return err
			}

			_, svc, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			mapper := mapping.NewMapper(repos.NewMemberRepo(svc.DB(), log), fuzzy, log)
			res, err := mapper.MapNames(cmd.Context(), names)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "fall back to single-hit substring matching")
	return cmd
}

func readNames(args []string) ([]string, error) {
	var raw []byte
	var err error
	if len(args) == 1 {
		raw, err = os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("read names: %w", err)
		}
	} else {
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("parse names (want a JSON array of strings): %w", err)
	}
	return names, nil
}
