//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package retriever

import (
	"github.com/hashicorp/go-hclog"
)

// Tracer receives the trace records of a Client. Debug is used for every
// network call and state transition, Info for messages that must reach the
// user (the report of a failed job) and Warn for non fatal errors.
//
// Any hclog.Logger can be used as a Tracer.
type Tracer interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
}

var _ Tracer = hclog.Logger(nil)

// NewConsoleTracer returns a Tracer writing to stderr. Debug records are
// shown only if verbose is set.
func NewConsoleTracer(verbose bool) hclog.Logger {
	level := hclog.Info
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       "CDS-API",
		Level:      level,
		TimeFormat: "2006-01-02 15:04:05",
	})
}
