//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package retriever

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// JobRequest describes the requested dataset. It is sent verbatim as the
// JSON body of the submission.
type JobRequest map[string]any

// Job states reported by the service.
const (
	StateQueued    = "queued"
	StateRunning   = "running"
	StateCompleted = "completed"
	StateFailed    = "failed"
)

// JobReply is the status of a job as returned by the service.
type JobReply struct {
	State         string    `json:"state"`
	RequestID     string    `json:"request_id,omitempty"`
	Location      string    `json:"location,omitempty"`
	ContentLength Size      `json:"content_length,omitempty"`
	Error         *JobError `json:"error,omitempty"`
}

// JobError describes why a job failed.
type JobError struct {
	Message string          `json:"message"`
	Reason  string          `json:"reason"`
	Context JobErrorContext `json:"context"`
}

// JobErrorContext holds optional details of a failure.
type JobErrorContext struct {
	Traceback string `json:"traceback,omitempty"`
}

// TracebackLines returns the lines of the traceback to show to the user.
// Unless full is set, lines after the first blank one are dropped.
func (e *JobError) TracebackLines(full bool) []string {
	if e == nil || e.Context.Traceback == "" {
		return nil
	}
	var res []string
	for _, line := range strings.Split(e.Context.Traceback, "\n") {
		if strings.TrimSpace(line) == "" && !full {
			break
		}
		res = append(res, line)
	}
	return res
}

// Size is a byte count that the service may encode either as a JSON number
// or as a numeric string.
type Size int64

// UnmarshalJSON implements json.Unmarshaler
func (s *Size) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*s = 0
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(string(data), 64)
		if ferr != nil {
			return fmt.Errorf("invalid content length %q: %w", data, err)
		}
		n = int64(f)
	}
	*s = Size(n)
	return nil
}

// termsOfUse is a licence the user must accept before accessing a resource
type termsOfUse struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// parseServiceMessage extracts the message of an error body, followed by
// one sentence per terms-of-use agreement still to be accepted. It returns
// false if the body has no message. Context entries with an unexpected
// shape are skipped.
func parseServiceMessage(body []byte) (string, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", false
	}
	raw, ok := fields["message"]
	if !ok || string(raw) == "null" {
		return "", false
	}
	var message string
	if err := json.Unmarshal(raw, &message); err != nil {
		compact := &bytes.Buffer{}
		if err := json.Compact(compact, raw); err != nil {
			return "", false
		}
		message = compact.String()
	}

	msg := []string{message}
	for _, t := range requiredTerms(fields["context"]) {
		msg = append(msg, fmt.Sprintf("To access this resource, you first need to accept the terms of '%s' at %s", t.Title, t.URL))
	}
	return strings.Join(msg, ". "), true
}

func requiredTerms(raw json.RawMessage) []termsOfUse {
	var ctx map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &ctx) != nil {
		return nil
	}
	var entries []json.RawMessage
	if json.Unmarshal(ctx["required_terms"], &entries) != nil {
		return nil
	}
	var res []termsOfUse
	for _, e := range entries {
		var t termsOfUse
		if json.Unmarshal(e, &t) != nil {
			continue
		}
		res = append(res, t)
	}
	return res
}
