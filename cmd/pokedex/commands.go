// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/nirzon47/pokedex/services/catalog"
	"github.com/nirzon47/pokedex/services/pokeapi"
	"github.com/spf13/cobra"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	configPath string
	verbose    bool
	plain      bool
}

// closeTimeout bounds telemetry flushes and server shutdown on exit.
const closeTimeout = 5 * time.Second

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "pokedex",
		Short: "Browse the creature catalog in your terminal",
		Long: `pokedex loads one generation at a time from PokeAPI and lets you
narrow it by type and name. Run without a subcommand to open the browser.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, flags, "")
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "",
		"Config file (default ~/.pokedex/pokedex.yaml)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false,
		"Log to stderr at debug level")
	root.PersistentFlags().BoolVar(&flags.plain, "plain", false,
		"Plain output without colors or spinners")

	root.AddCommand(
		newBrowseCmd(flags),
		newListCmd(flags),
		newTypesCmd(flags),
		newGenerationsCmd(),
		newPrefsCmd(flags),
		newSettingsCmd(flags),
	)
	return root
}

// withApp builds the runtime, runs fn and closes the runtime.
func withApp(cmd *cobra.Command, flags *rootFlags, fn func(ctx context.Context, a *app) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if cerr := a.Close(closeCtx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(ctx, a)
}

// =============================================================================
// generations
// =============================================================================

func newGenerationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "generations",
		Short:   "List the generations and their ID ranges",
		Aliases: []string{"gens"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, g := range catalog.Generations() {
				fmt.Fprintf(out, "%-6s %4d-%-4d  %3d records\n", g.ID, g.Start, g.End, g.Size())
			}
			return nil
		},
	}
}

// =============================================================================
// types
// =============================================================================

func newTypesCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the type names the catalog can be filtered by",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				cats, err := a.Controller().LoadCategories(ctx)
				if pokeapi.IsNotFound(err) {
					return fmt.Errorf("%w (check api.base_url in %s)", err, a.configPath)
				}
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, c := range cats {
					fmt.Fprintln(out, c)
				}
				return nil
			})
		},
	}
}
