/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
)

// humanReadableSize formats a byte count with SI units, as used in SERVE logs.
func humanReadableSize(bytes int64) string {
	const unit int64 = 1000

	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	value := float64(bytes)
	prefixes := "kMGTPE"
	exp := -1
	for value >= float64(unit) && exp < len(prefixes)-1 {
		value /= float64(unit)
		exp++
	}

	return fmt.Sprintf("%.1f %cB", value, prefixes[exp])
}
