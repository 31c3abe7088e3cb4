//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"go.bug.st/retriever"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// printError writes a one line summary of err, followed by a hint for the
// errors the user can act upon.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errStyle.Render("Error:")+" "+err.Error())

	var cfgErr *retriever.ConfigurationError
	var timeoutErr *retriever.TimeoutError
	var jobErr *retriever.JobFailedError
	var integrityErr *retriever.IntegrityError
	switch {
	case errors.As(err, &cfgErr):
		fmt.Fprintln(w, hintStyle.Render("set --url/--key, CDSAPI_URL/CDSAPI_KEY or create ~/.cdsapirc"))
	case errors.As(err, &timeoutErr):
		fmt.Fprintln(w, hintStyle.Render("the job may still be running on the service, try a longer --timeout"))
	case errors.As(err, &jobErr):
		if jobErr.Message != "" {
			fmt.Fprintln(w, hintStyle.Render(jobErr.Message))
		}
	case errors.As(err, &integrityErr):
		fmt.Fprintln(w, hintStyle.Render("the downloaded file is incomplete and should be removed"))
	}
}
