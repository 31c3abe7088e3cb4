//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.bug.st/retriever/rcfile"
)

// globalFlags are shared by all the subcommands
type globalFlags struct {
	url      string
	key      string
	rc       string
	insecure bool
	verbose  bool
}

func (g *globalFlags) load() (rcfile.Settings, error) {
	opts := rcfile.Options{
		URL:  g.url,
		Key:  g.key,
		Path: g.rc,
	}
	if g.insecure {
		verify := false
		opts.Verify = &verify
	}
	return rcfile.Load(opts)
}

func newRootCommand(version, commit, date string) *cobra.Command {
	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:   "retrieve",
		Short: "Retrieve datasets from a remote data-retrieval service",
		Long: `retrieve submits a dataset request to the service, waits for the
job to complete and downloads the result.

The endpoint and the API key are read from --url/--key, from the
CDSAPI_URL/CDSAPI_KEY environment variables or from ~/.cdsapirc.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.url, "url", "", "service endpoint (overrides $CDSAPI_URL)")
	pf.StringVar(&flags.key, "key", "", "API key as user:password (overrides $CDSAPI_KEY)")
	pf.StringVar(&flags.rc, "rc", "", "rc file path (default $CDSAPI_RC or ~/.cdsapirc)")
	pf.BoolVar(&flags.insecure, "insecure", false, "do not verify the server TLS certificate")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "trace every request and reply")

	rootCmd.AddCommand(newGetCommand(flags))
	rootCmd.AddCommand(newConfigCommand(flags))

	return rootCmd
}
