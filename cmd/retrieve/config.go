//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved endpoint and credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := flags.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			source := settings.Path
			if source == "" {
				source = "environment/flags"
			}
			fmt.Fprintln(out, labelStyle.Render("source:  ")+source)
			fmt.Fprintln(out, labelStyle.Render("url:     ")+settings.URL)
			fmt.Fprintln(out, labelStyle.Render("key:     ")+settings.MaskedKey())
			fmt.Fprintln(out, labelStyle.Render("verify:  ")+fmt.Sprint(settings.Verify))
			return nil
		},
	}
}
