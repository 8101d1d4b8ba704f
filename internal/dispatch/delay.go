// Package dispatch turns a send decision into a concrete run time for the
// job queue.
package dispatch

import "github.com/cespare/xxhash/v2"

// DeterministicDelay picks a delay in [minSeconds, maxSeconds] from the
// message identity. The same id and band always give the same delay.
// Negative bounds are treated as zero and swapped bounds are reordered.
func DeterministicDelay(messageID string, minSeconds, maxSeconds int) int {
	if minSeconds < 0 {
		minSeconds = 0
	}
	if maxSeconds < 0 {
		maxSeconds = 0
	}
	if maxSeconds < minSeconds {
		minSeconds, maxSeconds = maxSeconds, minSeconds
	}
	span := uint64(maxSeconds-minSeconds) + 1
	return minSeconds + int(xxhash.Sum64String(messageID)%span)
}
