//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package retriever

import (
	"bytes"
	"context"
	"net/http"
	"time"
)

// Client performs retrievals against a data-retrieval service. A Client
// holds no per-request state and can be used by several goroutines, each
// Retrieve call runs its own independent session.
type Client struct {
	config Config
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewClient returns a Client for the given configuration. The
// configuration is copied and can not be changed afterwards.
func NewClient(config Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, &ConfigurationError{Field: "endpoint"}
	}
	if config.APIKey == "" {
		return nil, &ConfigurationError{Field: "API key"}
	}
	return &Client{
		config: config.withDefaults(),
		now:    time.Now,
		sleep:  sleepContext,
	}, nil
}

// Config returns a copy of the configuration in use
func (c *Client) Config() Config {
	return c.config
}

// GetResource is an alias of Retrieve
func (c *Client) GetResource(ctx context.Context, name string, request JobRequest, target string) error {
	return c.Retrieve(ctx, name, request, target)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	case <-t.C:
		return nil
	}
}

// do performs an HTTP call through the configured RetryPolicy. Failures
// to get a response are returned as TransportError. The response status
// is not checked.
func (c *Client) do(ctx context.Context, method, url string, body []byte, auth bool) (*http.Response, error) {
	resp, err := c.config.RetryPolicy.Do(ctx, func() (*http.Response, error) {
		var req *http.Request
		var err error
		if body != nil {
			req, err = http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		} else {
			req, err = http.NewRequestWithContext(ctx, method, url, nil)
		}
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("User-Agent", "retriever/"+Version)
		for k, v := range c.config.ExtraHeaders {
			req.Header.Set(k, v)
		}
		if auth {
			req.SetBasicAuth(c.config.credentials())
		}
		return c.config.HttpClient.Do(req)
	})
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	return resp, nil
}

// accept checks the response to the HEAD or GET of a result.
func (c *Client) accept(method, url string, resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Method: method, URL: url, StatusCode: resp.StatusCode}
	}
	if c.config.AcceptFunc != nil {
		return c.config.AcceptFunc(resp)
	}
	return nil
}
