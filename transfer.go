//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package retriever

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"sync"
	"time"
)

// chunkSize is the size of the blocks written to the target file
const chunkSize = 1024

// Transfer streams a result file to disk
type Transfer struct {
	URL           string
	File          string
	Done          chan struct{}
	Resp          *http.Response
	out           *os.File
	wd            *watchdog
	completed     int64
	completedLock sync.Mutex
	size          int64
	err           error
}

// Close the transfer
func (t *Transfer) Close() error {
	t.wd.Cancel()
	err1 := t.out.Close()
	err2 := t.Resp.Body.Close()
	if err1 != nil {
		return fmt.Errorf("closing output file: %w", err1)
	}
	if err2 != nil {
		return fmt.Errorf("closing input stream: %w", err2)
	}
	return nil
}

// Size returns the expected size of the file
func (t *Transfer) Size() int64 {
	return t.size
}

// RunAndPoll starts the copy-loop and calls the poll function every
// interval time to update progress.
func (t *Transfer) RunAndPoll(poll func(current, size int64), interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	go t.Run()
	for {
		select {
		case <-ticker.C:
			poll(t.Completed(), t.size)
		case <-t.Done:
			poll(t.Completed(), t.size)
			return t.Error()
		}
	}
}

// Run copies the response body to the target file in chunks and waits
// until the copy completes. It closes the Done channel when the transfer is
// completed or an error occurs.
func (t *Transfer) Run() error {
	defer close(t.Done)

	buff := [chunkSize]byte{}
	for {
		n, err := t.Resp.Body.Read(buff[:])
		if n > 0 {
			t.wd.Kick()
			if _, werr := t.out.Write(buff[:n]); werr != nil {
				t.err = fmt.Errorf("writing %s: %w", t.File, werr)
				break
			}
			t.completedLock.Lock()
			t.completed += int64(n)
			t.completedLock.Unlock()
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			if cause := t.wd.Cause(); cause != nil && !errors.Is(cause, context.Canceled) {
				err = cause
			}
			t.err = &TransportError{Method: http.MethodGet, URL: t.URL, Err: err}
			break
		}
	}
	if err := t.Close(); err != nil && t.err == nil {
		t.err = err
	}
	return t.Error()
}

// Error returns the error during the transfer or nil if no errors happened
func (t *Transfer) Error() error {
	return t.err
}

// Completed returns the bytes written so far
func (t *Transfer) Completed() int64 {
	t.completedLock.Lock()
	res := t.completed
	t.completedLock.Unlock()
	return res
}

// Check returns an IntegrityError if the bytes written differ from the
// expected size. It must be called after Run has returned.
func (t *Transfer) Check() error {
	if got := t.Completed(); got != t.size {
		return &IntegrityError{File: t.File, Expected: t.size, Got: got}
	}
	return nil
}

// targetFromURL returns the last path segment of the URL
func targetFromURL(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	name := path.Base(p)
	if name == "/" || name == "." {
		return "download"
	}
	return name
}

// StartDownload performs the GET of location and opens the target file,
// returning an asynchronous Transfer that must be started with Run or
// RunAndPoll. If target is empty the last path segment of location is used.
// The caller should call Check once the transfer is done.
func (c *Client) StartDownload(ctx context.Context, location string, size int64, target string) (*Transfer, error) {
	if target == "" {
		target = targetFromURL(location)
	}
	ctx, wd := newWatchdog(ctx, c.config.InactivityTimeout)

	resp, err := c.do(ctx, http.MethodGet, location, nil, false)
	if err != nil {
		wd.Cancel()
		return nil, err
	}
	if err := c.accept(http.MethodGet, location, resp); err != nil {
		_ = resp.Body.Close()
		wd.Cancel()
		return nil, err
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		_ = resp.Body.Close()
		wd.Cancel()
		return nil, fmt.Errorf("opening %s for writing: %w", target, err)
	}

	return &Transfer{
		URL:  location,
		File: target,
		Done: make(chan struct{}),
		Resp: resp,
		out:  f,
		wd:   wd,
		size: size,
	}, nil
}

// Download streams the file at location to target and checks that exactly size
// bytes were received. If target is empty the last path segment of location
// is used. It returns the name of the written file.
func (c *Client) Download(ctx context.Context, location string, size int64, target string) (string, error) {
	t, err := c.StartDownload(ctx, location, size, target)
	if err != nil {
		return "", err
	}
	c.config.Tracer.Debug("downloading", "url", location, "size", size, "target", t.File)
	if c.config.PollFunction != nil {
		err = t.RunAndPoll(c.config.PollFunction, c.config.PollInterval)
	} else {
		err = t.Run()
	}
	if err != nil {
		return t.File, err
	}
	return t.File, t.Check()
}
