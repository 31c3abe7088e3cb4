//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package retriever

import "time"

const (
	initialSleep  = time.Second
	sleepFactor   = 1.5
	defaultMaxSec = 120
)

// backoff is the growing delay between two polls of the same job.
type backoff struct {
	current time.Duration
	max     time.Duration
}

func newBackoff(max time.Duration) *backoff {
	if max <= 0 {
		max = defaultMaxSec * time.Second
	}
	b := &backoff{current: initialSleep, max: max}
	if b.current > max {
		b.current = max
	}
	return b
}

// Current returns the delay to wait before the next poll.
func (b *backoff) Current() time.Duration {
	return b.current
}

// Grow multiplies the delay by 1.5, never going past the maximum.
func (b *backoff) Grow() {
	next := time.Duration(float64(b.current) * sleepFactor)
	if next > b.max {
		next = b.max
	}
	b.current = next
}
