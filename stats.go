// SPDX-FileCopyrightText: 2025 webway contributors
// SPDX-License-Identifier: Apache-2.0

package webway

import (
	"fmt"
	"strings"
	"time"
)

// Stats are the aggregate results of one pipeline run.
type Stats struct {
	// Records is the number of records attempted.
	Records int

	// Delivered is the number of records confirmed by the broker.
	Delivered int

	// Failed counts records that were rejected at publish time or whose
	// delivery terminally failed.
	Failed int

	// Outstanding is the number of records still unresolved when the
	// final flush timed out (0 means fully flushed).
	Outstanding int

	// TotalBytes is the total encoded payload size across all records.
	TotalBytes int64

	// Elapsed is the wall time from the first record to the end of the
	// final flush.
	Elapsed time.Duration
}

// AvgRecordBytes returns the average encoded size per attempted record.
func (s Stats) AvgRecordBytes() int64 {
	if s.Records == 0 {
		return 0
	}
	return s.TotalBytes / int64(s.Records)
}

// Throughput returns the effective throughput in megabytes per second.
// ok is false when elapsed time is zero, where the ratio is undefined.
func (s Stats) Throughput() (mbPerSec float64, ok bool) {
	if s.Elapsed <= 0 {
		return 0, false
	}
	return float64(s.TotalBytes) / (1024.0 * 1024.0) / s.Elapsed.Seconds(), true
}

// String formats the statistics as a multi-line summary block.
func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "records attempted : %d\n", s.Records)
	fmt.Fprintf(&b, "delivered         : %d\n", s.Delivered)
	fmt.Fprintf(&b, "failed            : %d\n", s.Failed)
	fmt.Fprintf(&b, "outstanding       : %d\n", s.Outstanding)
	fmt.Fprintf(&b, "total bytes       : %d (%.2f MB)\n",
		s.TotalBytes, float64(s.TotalBytes)/(1024.0*1024.0))
	fmt.Fprintf(&b, "avg record bytes  : %d (%.2f MB)\n",
		s.AvgRecordBytes(), float64(s.AvgRecordBytes())/(1024.0*1024.0))
	fmt.Fprintf(&b, "elapsed           : %.2fs\n", s.Elapsed.Seconds())
	if mbps, ok := s.Throughput(); ok {
		fmt.Fprintf(&b, "throughput        : %.2f MB/s", mbps)
	} else {
		fmt.Fprintf(&b, "throughput        : n/a")
	}
	return b.String()
}
