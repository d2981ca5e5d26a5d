package browser

import (
	"math"
	"time"
)

// GlobalName is the window property holding the active bridge
const GlobalName = "frameBridge"

// FrameTime converts a DOMHighResTimeStamp in milliseconds to a duration since the time origin
// Negative and non-finite stamps collapse to zero
func FrameTime(ms float64) time.Duration {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms <= 0 {
		return 0
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// clampInt32 converts a JS number to the int32 payload range
func clampInt32(v float64) int32 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}
