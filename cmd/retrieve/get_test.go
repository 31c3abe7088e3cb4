//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.bug.st/retriever"
)

func newService(t *testing.T) (*httptest.Server, *[]string) {
	var log []string
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log = append(log, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodPost:
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req["variable"] == "forbidden" {
				w.WriteHeader(http.StatusForbidden)
				_, _ = io.WriteString(w, `{"message": "Terms not accepted", "context": {"required_terms": [{"title": "T1", "url": "http://x"}]}}`)
				return
			}
			_, _ = io.WriteString(w, `{"state": "completed", "request_id": "abc", "content_length": 4, "location": "`+srv.URL+`/cache/out.grib"}`)
		case r.Method == http.MethodHead:
		case r.Method == http.MethodGet:
			_, _ = io.WriteString(w, "GRIB")
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &log
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Setenv("CDSAPI_URL", "")
	t.Setenv("CDSAPI_KEY", "")
	t.Setenv("CDSAPI_RC", filepath.Join(t.TempDir(), "none"))
	cmd := newRootCommand("test", "none", "today")
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGetDownload(t *testing.T) {
	srv, log := newService(t)
	target := filepath.Join(t.TempDir(), "out.grib")

	out, err := runCLI(t, `{"variable": "2t"}`, "get", "--url", srv.URL, "--key", "1:2", "era5", "-", target)
	require.NoError(t, err)
	require.Contains(t, out, "Downloaded")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "GRIB", string(data))
	require.Equal(t, []string{"POST /resources/era5", "GET /cache/out.grib", "DELETE /tasks/abc"}, *log)
}

func TestGetCheckOnly(t *testing.T) {
	srv, log := newService(t)
	req := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(req, []byte(`{"variable": "2t"}`), 0644))

	out, err := runCLI(t, "", "get", "--url", srv.URL, "--key", "1:2", "era5", req)
	require.NoError(t, err)
	require.Contains(t, out, "Result available")
	require.Equal(t, []string{"POST /resources/era5", "HEAD /cache/out.grib", "DELETE /tasks/abc"}, *log)
}

func TestGetServiceError(t *testing.T) {
	srv, _ := newService(t)
	_, err := runCLI(t, `{"variable": "forbidden"}`, "get", "--url", srv.URL, "--key", "1:2", "era5", "-")
	var serviceErr *retriever.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	require.Contains(t, serviceErr.Message, "accept the terms of 'T1'")

	buf := &bytes.Buffer{}
	printError(buf, err)
	require.Contains(t, buf.String(), "Terms not accepted")
}

func TestGetMissingConfiguration(t *testing.T) {
	_, err := runCLI(t, `{}`, "get", "era5", "-")
	var cfgErr *retriever.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	buf := &bytes.Buffer{}
	printError(buf, err)
	require.Contains(t, buf.String(), "CDSAPI_URL")
}

func TestGetInvalidRequest(t *testing.T) {
	_, err := runCLI(t, `[1, 2]`, "get", "--url", "https://x", "--key", "1:2", "era5", "-")
	require.ErrorContains(t, err, "decoding request")
}

func TestConfigCommand(t *testing.T) {
	out, err := runCLI(t, "", "config", "--url", "https://x/api", "--key", "1234:abcd-efgh", "--insecure")
	require.NoError(t, err)
	require.Contains(t, out, "https://x/api")
	require.Contains(t, out, "1234:*****efgh")
	require.Contains(t, out, "false")
}

func TestPrintErrorJobFailed(t *testing.T) {
	buf := &bytes.Buffer{}
	printError(buf, &retriever.JobFailedError{Reason: "InvalidParameter", Message: "bad param"})
	require.Contains(t, buf.String(), "InvalidParameter")
	require.Contains(t, buf.String(), "bad param")

	buf.Reset()
	printError(buf, errors.New("boom"))
	require.Contains(t, buf.String(), "boom")
}
