package ratelimit

import (
	"time"
)

// Config interface for rate limiting configuration
type Config interface {
	GetDisableRateLimit() bool
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	ShouldBlock   bool
	RemainingTime time.Duration
	Reason        string
}

// CheckRescanRateLimit checks if a rescan of a stored label should be
// rate limited. OCR is expensive, so repeated rescans of the same scan
// are held to one per five minutes unless forced.
func CheckRescanRateLimit(cfg Config, lastRescan *time.Time, isForced bool) RateLimitResult {
	// Never rate limit if rate limiting is disabled
	if cfg.GetDisableRateLimit() {
		return RateLimitResult{
			ShouldBlock: false,
			Reason:      "rate_limiting_disabled",
		}
	}

	// Never rate limit forced rescans
	if isForced {
		return RateLimitResult{
			ShouldBlock: false,
			Reason:      "forced_rescan",
		}
	}

	// Never rate limit if the scan has not been rescanned before
	if lastRescan == nil {
		return RateLimitResult{
			ShouldBlock: false,
			Reason:      "no_previous_rescan",
		}
	}

	rateLimit := GetRateLimitDuration()
	timeSinceLastRescan := time.Since(*lastRescan)

	if timeSinceLastRescan < rateLimit {
		remainingTime := rateLimit - timeSinceLastRescan
		return RateLimitResult{
			ShouldBlock:   true,
			RemainingTime: remainingTime,
			Reason:        "rate_limit_active",
		}
	}

	return RateLimitResult{
		ShouldBlock: false,
		Reason:      "rate_limit_passed",
	}
}

// GetRateLimitDuration returns the rate limit duration for rescan operations
func GetRateLimitDuration() time.Duration {
	return 5 * time.Minute
}
