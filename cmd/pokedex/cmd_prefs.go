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

	"github.com/nirzon47/pokedex/pkg/ux"
	"github.com/nirzon47/pokedex/services/catalog"
	"github.com/nirzon47/pokedex/services/prefs"
	"github.com/spf13/cobra"
)

func newPrefsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Read and write stored preferences",
	}

	get := &cobra.Command{
		Use:   "get [key]",
		Short: "Print one preference, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				store, err := a.Prefs()
				if err != nil {
					return err
				}
				keys := prefs.Keys()
				if len(args) == 1 {
					key, err := parseKey(args[0])
					if err != nil {
						return err
					}
					keys = []prefs.Key{key}
				}
				out := cmd.OutOrStdout()
				for _, k := range keys {
					v, err := store.GetOrDefault(ctx, k)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s=%s\n", k, v)
				}
				return nil
			})
		},
	}

	set := &cobra.Command{
		Use:     "set <key> <value>",
		Short:   "Store a preference",
		Example: "  pokedex prefs set theme light\n  pokedex prefs set hoverPreview true",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKey(args[0])
			if err != nil {
				return err
			}
			if err := prefs.Validate(key, args[1]); err != nil {
				return err
			}
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				store, err := a.Prefs()
				if err != nil {
					return err
				}
				if err := store.Set(ctx, key, args[1]); err != nil {
					return err
				}
				p := ux.NewPrinter(cmd.OutOrStdout(), a.Theme(ctx))
				if flags.plain {
					p.WithMachine(true)
				}
				p.Success(fmt.Sprintf("%s=%s", key, args[1]))
				return nil
			})
		},
	}

	cmd.AddCommand(get, set)
	return cmd
}

// parseKey validates a key name and suggests the closest one on a typo.
func parseKey(name string) (prefs.Key, error) {
	key := prefs.Key(name)
	if _, err := prefs.Values(key); err == nil {
		return key, nil
	}
	names := make([]string, 0, len(prefs.Keys()))
	for _, k := range prefs.Keys() {
		names = append(names, string(k))
	}
	if s := catalog.Suggest(name, names); s != "" {
		return "", fmt.Errorf("%w: %q (did you mean %q?)", prefs.ErrInvalidKey, name, s)
	}
	return "", errors.Join(fmt.Errorf("%w: %q", prefs.ErrInvalidKey, name),
		fmt.Errorf("known keys: %v", names))
}
