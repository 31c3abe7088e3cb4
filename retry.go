//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package retriever

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"
)

// RetryPolicy decides how many times an HTTP call is attempted.
// Implementations must return the last response or error obtained.
type RetryPolicy interface {
	Do(ctx context.Context, call func() (*http.Response, error)) (*http.Response, error)
}

// SingleAttempt is the default RetryPolicy: the call is performed once.
type SingleAttempt struct{}

// Do implements RetryPolicy
func (SingleAttempt) Do(_ context.Context, call func() (*http.Response, error)) (*http.Response, error) {
	return call()
}

// BoundedRetry retries calls that failed at the transport level or that
// got a 5xx response, waiting Base*2^n between attempts (capped to Max).
type BoundedRetry struct {
	// Attempts is the total number of tries, values below 1 mean 1.
	Attempts int
	// Base is the wait after the first failure.
	Base time.Duration
	// Max caps the wait between attempts, 0 means no cap.
	Max time.Duration
}

// Delay returns the wait before attempt n+1 (n starts from 0).
func (r BoundedRetry) Delay(n int) time.Duration {
	d := time.Duration(float64(r.Base) * math.Pow(2, float64(n)))
	if r.Max > 0 && d > r.Max {
		d = r.Max
	}
	return d
}

// Do implements RetryPolicy
func (r BoundedRetry) Do(ctx context.Context, call func() (*http.Response, error)) (*http.Response, error) {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	for n := 0; ; n++ {
		resp, err := call()
		retryable := err != nil || resp.StatusCode >= 500
		if !retryable || n == attempts-1 {
			return resp, err
		}
		if resp != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
		t := time.NewTimer(r.Delay(n))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, context.Cause(ctx)
		case <-t.C:
		}
	}
}
