//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package retriever

import (
	"context"
	"fmt"
	"time"
)

// StalledError is the cause of a transfer aborted because no data was
// received for the configured inactivity timeout.
type StalledError struct {
	Timeout time.Duration
}

func (e *StalledError) Error() string {
	return fmt.Sprintf("no data received for %s", e.Timeout)
}

type watchdog struct {
	ctx     context.Context
	cancel  context.CancelCauseFunc
	timer   *time.Timer
	timeout time.Duration
}

func newWatchdog(parent context.Context, timeout time.Duration) (context.Context, *watchdog) {
	ctx, cancel := context.WithCancelCause(parent)
	var timer *time.Timer
	if timeout > 0 {
		timer = time.AfterFunc(timeout, func() {
			cancel(&StalledError{Timeout: timeout})
		})
	}
	return ctx, &watchdog{
		ctx:     ctx,
		cancel:  cancel,
		timer:   timer,
		timeout: timeout,
	}
}

// Kick postpones the expiration of the watchdog.
func (wd *watchdog) Kick() {
	if wd.timeout > 0 {
		wd.timer.Reset(wd.timeout)
	}
}

// Cause returns the reason why the watchdog context was cancelled, if any.
func (wd *watchdog) Cause() error {
	return context.Cause(wd.ctx)
}

func (wd *watchdog) Cancel() {
	if wd.timeout > 0 {
		wd.timer.Stop()
	}
	wd.cancel(nil)
}
