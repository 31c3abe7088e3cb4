//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package retriever

import (
	"crypto/tls"
	"net/http"
	"strings"
	"time"
)

// Version is sent in the User-Agent header of every request
const Version = "0.6.1"

// Config contains the configuration of a Client
type Config struct {
	// Endpoint is the base URL of the service (required)
	Endpoint string
	// APIKey is the "user:password" pair used for HTTP Basic authentication (required)
	APIKey string
	// InsecureSkipVerify disables the verification of the server
	// certificates. It is ignored if HttpClient is set.
	InsecureSkipVerify bool
	// Timeout is the maximum time to wait for a job to complete.
	// If set to 0, the client waits forever.
	Timeout time.Duration
	// FullStack set to true to print the whole traceback of failed jobs.
	FullStack bool
	// SleepMax caps the delay between two polls (defaults to 120 seconds).
	SleepMax time.Duration

	// HttpClient to use to perform HTTP requests
	HttpClient *http.Client
	// RetryPolicy applied to every HTTP call (defaults to SingleAttempt).
	RetryPolicy RetryPolicy
	// Tracer receives the trace records (defaults to NewConsoleTracer(false),
	// that shows only the report of failed jobs and warnings).
	Tracer Tracer
	// ExtraHeaders to add to the HTTP requests.
	ExtraHeaders map[string]string
	// AcceptFunc is an optional function that will be called with the
	// response to the HEAD or GET of the result, before the result is
	// accepted. If the function returns an error, the retrieval is aborted.
	AcceptFunc func(resp *http.Response) error
	// InactivityTimeout is the duration after which, if no data is received,
	// the download is aborted. If set to 0, no timeout is applied.
	InactivityTimeout time.Duration
	// PollFunction is called every PollInterval during the download with
	// the bytes received so far and the expected size.
	PollFunction func(current, size int64)
	// PollInterval defaults to one second.
	PollInterval time.Duration
}

// credentials splits the API key on the first colon.
func (c Config) credentials() (user, password string) {
	user, password, _ = strings.Cut(c.APIKey, ":")
	return user, password
}

func (c Config) withDefaults() Config {
	c.Endpoint = strings.TrimRight(c.Endpoint, "/")
	if c.HttpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if c.InsecureSkipVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		c.HttpClient = &http.Client{Transport: transport}
	}
	if c.RetryPolicy == nil {
		c.RetryPolicy = SingleAttempt{}
	}
	if c.Tracer == nil {
		c.Tracer = NewConsoleTracer(false)
	}
	if c.SleepMax <= 0 {
		c.SleepMax = defaultMaxSec * time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = time.Second
	}
	headers := make(map[string]string, len(c.ExtraHeaders))
	for k, v := range c.ExtraHeaders {
		headers[k] = v
	}
	c.ExtraHeaders = headers
	return c
}
