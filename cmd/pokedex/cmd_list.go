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
	"slices"

	"github.com/nirzon47/pokedex/pkg/ux"
	"github.com/nirzon47/pokedex/services/catalog"
	"github.com/nirzon47/pokedex/services/render"
	"github.com/spf13/cobra"
)

type listOptions struct {
	generation string
	category   string
	name       string
	back       bool
}

func newListCmd(flags *rootFlags) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the cards of one generation, optionally filtered",
		Example: `  pokedex list --gen one --type water
  pokedex list --gen three --name mud --back`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				return runList(ctx, cmd, a, flags, opts)
			})
		},
	}
	cmd.Flags().StringVarP(&opts.generation, "gen", "g", "", "Generation to load (default from config)")
	cmd.Flags().StringVarP(&opts.category, "type", "t", "", "Primary type to keep, or \"all\"")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Case-insensitive name substring")
	cmd.Flags().BoolVar(&opts.back, "back", false, "Show the back of every card")
	return cmd
}

func runList(ctx context.Context, cmd *cobra.Command, a *app, flags *rootFlags, opts *listOptions) error {
	theme := a.Theme(ctx)
	out := cmd.OutOrStdout()
	progress := ux.NewPrinter(cmd.ErrOrStderr(), theme)
	if flags.plain {
		progress = progress.WithMachine(true)
	}

	gen := opts.generation
	if gen == "" {
		gen = a.cfg.UI.DefaultGeneration
	}

	ctrl := a.Controller()
	spin := progress.NewSpinner(fmt.Sprintf("Loading generation %s", gen))
	spin.Start()
	view, err := ctrl.LoadGeneration(ctx, catalog.GenerationID(gen))
	spin.Stop()
	if err != nil {
		return err
	}
	progress.Success(fmt.Sprintf("Loaded generation %s (%d records)", gen, len(view.Records)))

	if opts.category != "" && opts.category != catalog.CategoryAll {
		checkCategory(ctx, ctrl, progress, opts.category)
		view = ctrl.SetCategory(opts.category)
	}
	if opts.name != "" {
		view = ctrl.SetNameQuery(opts.name)
	}

	r := render.NewTextRenderer(out, theme, render.Options{Focus: -1, AllBack: opts.back})
	if flags.plain {
		r.WithStyled(false)
	}
	r.Render(view)
	progress.Muted(render.Summary(view))
	return nil
}

// checkCategory warns about a type name the provider does not know. The
// filter is applied regardless and simply matches nothing.
func checkCategory(ctx context.Context, ctrl *catalog.Controller, p *ux.Printer, tag string) {
	cats, err := ctrl.LoadCategories(ctx)
	if err != nil {
		p.Warning("Type list unavailable; filtering anyway")
		return
	}
	if slices.Contains(cats, tag) {
		return
	}
	msg := fmt.Sprintf("Unknown type %q", tag)
	if s := catalog.Suggest(tag, cats); s != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", s)
	}
	p.Warning(msg)
}
