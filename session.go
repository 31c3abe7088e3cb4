//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package retriever

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// session drives a single job from submission to completion.
type session struct {
	*Client
	id      string
	start   time.Time
	backoff *backoff
}

// Retrieve submits request for the resource name, waits for the job to
// complete and downloads the result to target. If target is empty the
// result is only checked with a HEAD request.
//
// Retrieve blocks until the job is completed, failed, the configured
// timeout expires or ctx is cancelled.
func (c *Client) Retrieve(ctx context.Context, name string, request JobRequest, target string) error {
	if name == "" {
		return &ConfigurationError{Field: "resource name"}
	}
	s := &session{
		Client:  c,
		id:      uuid.NewString(),
		backoff: newBackoff(c.config.SleepMax),
	}
	reply, err := s.submit(ctx, name, request)
	if err != nil {
		return err
	}
	return s.run(ctx, reply, target)
}

func (s *session) trace(msg string, args ...interface{}) {
	s.config.Tracer.Debug(msg, append([]interface{}{"session", s.id}, args...)...)
}

func (s *session) taskURL(requestID string) string {
	return s.config.Endpoint + "/tasks/" + url.PathEscape(requestID)
}

func (s *session) submit(ctx context.Context, name string, request JobRequest) (*JobReply, error) {
	if request == nil {
		request = JobRequest{}
	}
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	u := s.config.Endpoint + "/resources/" + url.PathEscape(name)
	s.trace("POST", "url", u, "request", string(body))

	s.start = s.now()
	resp, err := s.do(ctx, http.MethodPost, u, body, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: http.MethodPost, URL: u, StatusCode: resp.StatusCode, Err: err}
	}
	s.trace("POST returns", "status", resp.Status)

	var reply JobReply
	decodeErr := json.Unmarshal(data, &reply)
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 && decodeErr == nil {
		return &reply, nil
	}
	if msg, ok := parseServiceMessage(data); ok {
		return nil, &ServiceError{Message: msg}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Method: http.MethodPost, URL: u, StatusCode: resp.StatusCode}
	}
	return nil, &TransportError{Method: http.MethodPost, URL: u, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding reply: %w", decodeErr)}
}

func (s *session) poll(ctx context.Context, requestID string) (*JobReply, error) {
	u := s.taskURL(requestID)
	s.trace("GET", "url", u)
	resp, err := s.do(ctx, http.MethodGet, u, nil, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Method: http.MethodGet, URL: u, StatusCode: resp.StatusCode}
	}
	var reply JobReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, &TransportError{Method: http.MethodGet, URL: u, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding reply: %w", err)}
	}
	return &reply, nil
}

// run is the poll loop. Completed, failed and unknown states end it.
func (s *session) run(ctx context.Context, reply *JobReply, target string) error {
	for {
		s.trace("reply",
			"state", reply.State,
			"request_id", reply.RequestID,
			"location", reply.Location,
			"content_length", int64(reply.ContentLength))

		switch reply.State {
		case StateCompleted:
			return s.completed(ctx, reply, target)

		case StateQueued, StateRunning:
			if reply.RequestID == "" {
				return &ProtocolError{State: reply.State, Missing: "request_id"}
			}
			if elapsed := s.now().Sub(s.start); s.config.Timeout > 0 && elapsed > s.config.Timeout {
				return &TimeoutError{Elapsed: elapsed, Limit: s.config.Timeout}
			}
			s.trace(fmt.Sprintf("Request ID is %s, sleep %s", reply.RequestID, s.backoff.Current()))
			if err := s.sleep(ctx, s.backoff.Current()); err != nil {
				return err
			}
			s.backoff.Grow()

			next, err := s.poll(ctx, reply.RequestID)
			if err != nil {
				return err
			}
			reply = next

		case StateFailed:
			return s.failed(reply)

		default:
			return &ProtocolError{State: reply.State}
		}
	}
}

func (s *session) completed(ctx context.Context, reply *JobReply, target string) error {
	if reply.Location == "" {
		return &ProtocolError{State: reply.State, Missing: "location"}
	}
	if target != "" {
		if _, err := s.Download(ctx, reply.Location, int64(reply.ContentLength), target); err != nil {
			return err
		}
	} else if err := s.head(ctx, reply.Location); err != nil {
		return err
	}

	if reply.RequestID != "" {
		s.release(ctx, reply.RequestID)
	}
	s.trace("Done")
	return nil
}

func (s *session) head(ctx context.Context, location string) error {
	s.trace("HEAD", "url", location)
	resp, err := s.do(ctx, http.MethodHead, location, nil, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := s.accept(http.MethodHead, location, resp); err != nil {
		return err
	}
	s.trace("HEAD returns",
		"status", resp.Status,
		"content_type", resp.Header.Get("Content-Type"),
		"content_length", resp.ContentLength,
		"last_modified", resp.Header.Get("Last-Modified"))
	return nil
}

// release asks the service to drop the job. Failures are only logged.
func (s *session) release(ctx context.Context, requestID string) {
	u := s.taskURL(requestID)
	s.trace("DELETE", "url", u)
	resp, err := s.do(ctx, http.MethodDelete, u, nil, true)
	if err != nil {
		s.config.Tracer.Warn("DELETE failed", "session", s.id, "url", u, "error", err)
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	s.trace("DELETE returns", "status", resp.Status)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.config.Tracer.Warn(fmt.Sprintf("DELETE %s returns %s", u, resp.Status), "session", s.id)
	}
}

func (s *session) failed(reply *JobReply) error {
	jobErr := reply.Error
	if jobErr == nil {
		jobErr = &JobError{}
	}
	tracer := s.config.Tracer
	tracer.Info("Message: " + jobErr.Message)
	tracer.Info("Reason:  " + jobErr.Reason)
	traceback := jobErr.TracebackLines(s.config.FullStack)
	for _, line := range traceback {
		tracer.Info("  " + line)
	}
	return &JobFailedError{Reason: jobErr.Reason, Message: jobErr.Message, Traceback: traceback}
}
