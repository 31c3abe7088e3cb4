//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package humanize

import (
	"math"
	"strconv"
)

var units = []string{"", "K", "M", "G", "T", "P"}

// Bytes formats n with a binary unit suffix and one decimal digit at most,
// for example 1536 is "1.5K".
func Bytes(n int64) string {
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	v = math.Floor(v*10+0.5) / 10
	return strconv.FormatFloat(v, 'g', -1, 64) + units[i]
}
