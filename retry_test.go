//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package retriever

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func response(status int) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(""))}
}

func TestSingleAttempt(t *testing.T) {
	calls := 0
	resp, err := SingleAttempt{}.Do(context.Background(), func() (*http.Response, error) {
		calls++
		return response(http.StatusServiceUnavailable), nil
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Equal(t, 1, calls)
}

func TestBoundedRetry(t *testing.T) {
	policy := BoundedRetry{Attempts: 3, Base: time.Millisecond}

	calls := 0
	resp, err := policy.Do(context.Background(), func() (*http.Response, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("connection reset")
		}
		return response(http.StatusOK), nil
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 3, calls)

	calls = 0
	resp, err = policy.Do(context.Background(), func() (*http.Response, error) {
		calls++
		return response(http.StatusBadGateway), nil
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Equal(t, 3, calls)

	calls = 0
	resp, err = policy.Do(context.Background(), func() (*http.Response, error) {
		calls++
		return response(http.StatusNotFound), nil
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, 1, calls)
}

func TestBoundedRetryDelay(t *testing.T) {
	policy := BoundedRetry{Base: time.Second, Max: 5 * time.Second}
	require.Equal(t, time.Second, policy.Delay(0))
	require.Equal(t, 2*time.Second, policy.Delay(1))
	require.Equal(t, 4*time.Second, policy.Delay(2))
	require.Equal(t, 5*time.Second, policy.Delay(3))
}

func TestBoundedRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := BoundedRetry{Attempts: 5, Base: time.Hour}
	_, err := policy.Do(ctx, func() (*http.Response, error) {
		cancel()
		return nil, errors.New("connection reset")
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRetryPolicyInClient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"state": "paused"}`)
	}))
	defer srv.Close()

	c, err := NewClient(Config{
		Endpoint:    srv.URL,
		APIKey:      "1:2",
		RetryPolicy: BoundedRetry{Attempts: 2, Base: time.Millisecond},
	})
	require.NoError(t, err)
	err = c.Retrieve(context.Background(), "era5", JobRequest{"a": "b"}, "")
	var protocolErr *ProtocolError
	require.ErrorAs(t, err, &protocolErr)
	require.Equal(t, int32(2), calls.Load())
}
