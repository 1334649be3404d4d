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
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/nirzon47/pokedex/pkg/ux"
	"github.com/nirzon47/pokedex/services/catalog"
	"github.com/nirzon47/pokedex/services/tui"
	"github.com/spf13/cobra"
)

// errNotInteractive is returned by commands that need a terminal.
var errNotInteractive = errors.New("this command needs an interactive terminal; use 'pokedex list' for plain output")

// interactive reports whether both stdin and stdout are terminals.
var interactive = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && ux.IsTerminal(os.Stdout)
}

// =============================================================================
// browse
// =============================================================================

func newBrowseCmd(flags *rootFlags) *cobra.Command {
	var gen string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive browser (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, flags, gen)
		},
	}
	cmd.Flags().StringVarP(&gen, "gen", "g", "", "Generation to open (default from config)")
	return cmd
}

func runBrowse(cmd *cobra.Command, flags *rootFlags, gen string) error {
	if !interactive() {
		return errNotInteractive
	}
	// Console logging would draw over the screen; the log file still gets
	// everything.
	flags.verbose = false

	return withApp(cmd, flags, func(ctx context.Context, a *app) error {
		if gen == "" {
			gen = a.cfg.UI.DefaultGeneration
		}
		if _, err := catalog.LookupGeneration(catalog.GenerationID(gen)); err != nil {
			return err
		}

		theme := a.Theme(ctx)
		hover := false
		var saver tui.PreferenceSaver
		if store, err := a.Prefs(); err == nil {
			saver = store
			if h, err := store.HoverPreview(ctx); err == nil {
				hover = h
			}
		} else {
			a.logger.Warn("preferences unavailable, toggles will not persist", slog.String("error", err.Error()))
		}

		model := tui.New(tui.Config{
			Controller:   a.Controller(),
			Prefs:        saver,
			Theme:        theme,
			HoverPreview: hover,
			Generation:   catalog.GenerationID(gen),
			Context:      ctx,
			Logger:       a.logger,
		})

		_, err := tea.NewProgram(model,
			tea.WithAltScreen(),
			tea.WithContext(ctx),
			tea.WithMouseCellMotion(),
		).Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})
}

// =============================================================================
// settings
// =============================================================================

func newSettingsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Edit theme and hover preview in a form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !interactive() {
				return errNotInteractive
			}
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				return runSettings(ctx, cmd, a)
			})
		},
	}
}

func runSettings(ctx context.Context, cmd *cobra.Command, a *app) error {
	store, err := a.Prefs()
	if err != nil {
		return err
	}
	theme, err := store.Theme(ctx)
	if err != nil {
		return err
	}
	hover, err := store.HoverPreview(ctx)
	if err != nil {
		return err
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Dark", string(ux.ThemeDark)),
					huh.NewOption("Light", string(ux.ThemeLight)),
				).
				Value(&theme),
			huh.NewConfirm().
				Title("Hover preview").
				Description("Show the back of the focused card").
				Affirmative("On").
				Negative("Off").
				Value(&hover),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	if err := store.SetTheme(ctx, theme); err != nil {
		return err
	}
	if err := store.SetHoverPreview(ctx, hover); err != nil {
		return err
	}

	t, _ := ux.ParseTheme(theme)
	ux.NewPrinter(cmd.OutOrStdout(), t).Success(fmt.Sprintf("Saved: theme %s, hover preview %t", theme, hover))
	return nil
}
