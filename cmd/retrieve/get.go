//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.bug.st/retriever"
	"go.bug.st/retriever/internal/humanize"
)

type getFlags struct {
	timeout   time.Duration
	fullStack bool
	progress  bool
	retries   int
}

func newGetCommand(flags *globalFlags) *cobra.Command {
	gf := &getFlags{}
	cmd := &cobra.Command{
		Use:   "get NAME REQUEST.json [TARGET]",
		Short: "Submit a request and download the result",
		Long: `get submits the JSON request in REQUEST.json ("-" for stdin) for the
resource NAME, waits for the job to complete and downloads the result to
TARGET. Without TARGET the result is only checked, not downloaded.

Example:
  retrieve get reanalysis-era5-single-levels request.json era5.grib`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := readRequest(cmd.InOrStdin(), args[1])
			if err != nil {
				return err
			}
			target := ""
			if len(args) == 3 {
				target = args[2]
			}

			settings, err := flags.load()
			if err != nil {
				return err
			}
			config := settings.Config()
			config.Timeout = gf.timeout
			config.FullStack = gf.fullStack
			config.Tracer = retriever.NewConsoleTracer(flags.verbose)
			if gf.retries > 1 {
				config.RetryPolicy = retriever.BoundedRetry{
					Attempts: gf.retries,
					Base:     time.Second,
					Max:      30 * time.Second,
				}
			}
			if gf.progress {
				out := cmd.ErrOrStderr()
				config.PollFunction = func(current, size int64) {
					fmt.Fprintf(out, "\rDownloaded %s / %s", humanize.Bytes(current), humanize.Bytes(size))
					if current >= size {
						fmt.Fprintln(out)
					}
				}
			}

			client, err := retriever.NewClient(config)
			if err != nil {
				return err
			}
			start := time.Now()
			if err := client.Retrieve(cmd.Context(), args[0], request, target); err != nil {
				return err
			}
			if target != "" {
				fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("Downloaded")+" "+target+" in "+time.Since(start).Round(time.Second).String())
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("Result available")+" (not downloaded)")
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&gf.timeout, "timeout", 0, "give up if the job is not completed within this time (0 waits forever)")
	cmd.Flags().BoolVar(&gf.fullStack, "full-stack", false, "print the whole traceback of failed jobs")
	cmd.Flags().BoolVar(&gf.progress, "progress", false, "show download progress")
	cmd.Flags().IntVar(&gf.retries, "retries", 1, "attempts for each HTTP call")
	return cmd
}

// readRequest decodes a JSON object from file, "-" means in.
func readRequest(in io.Reader, file string) (retriever.JobRequest, error) {
	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("reading request: %w", err)
	}
	var request retriever.JobRequest
	if err := json.Unmarshal(data, &request); err != nil {
		return nil, fmt.Errorf("decoding request %s: %w", file, err)
	}
	return request, nil
}
