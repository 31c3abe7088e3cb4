//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package retriever

import (
	"fmt"
	"net/http"
	"time"
)

// ConfigurationError is returned by NewClient when the configuration is
// not usable. No network call is made in this case.
// Source, if set, names the configuration file that was read.
type ConfigurationError struct {
	Field  string
	Source string
}

func (e *ConfigurationError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("Missing/incomplete configuration file: %s (%s is not set)", e.Source, e.Field)
	}
	return fmt.Sprintf("missing/incomplete configuration: %s is not set", e.Field)
}

// TransportError is returned when an HTTP call fails at the network or
// protocol level, or when the service answers with a non-2xx status.
// StatusCode is 0 if no response was received.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	msg := e.Method + " " + e.URL
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceError carries the human readable message returned by the service
// when a submission is rejected.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// TimeoutError is returned when the job did not complete within the
// configured timeout.
type TimeoutError struct {
	Elapsed time.Duration
	Limit   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("TIMEOUT: job still pending after %s (limit %s)", e.Elapsed.Round(time.Second), e.Limit)
}

// JobFailedError is returned when the service reports the job as failed.
// Traceback holds the lines of the service traceback that were reported.
type JobFailedError struct {
	Reason    string
	Message   string
	Traceback []string
}

func (e *JobFailedError) Error() string {
	return e.Reason
}

// ProtocolError is returned when a reply can not be handled: its state is
// unknown or a field needed by the state is missing.
type ProtocolError struct {
	State   string
	Missing string
}

func (e *ProtocolError) Error() string {
	if e.Missing != "" {
		return fmt.Sprintf("reply in state [%s] has no %s", e.State, e.Missing)
	}
	return fmt.Sprintf("Unknown API state [%s]", e.State)
}

// IntegrityError is returned when the downloaded file size does not match
// the size declared by the service.
type IntegrityError struct {
	File     string
	Expected int64
	Got      int64
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("downloaded %d bytes to %s, expected %d", e.Got, e.File, e.Expected)
}
