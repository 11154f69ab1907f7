package tasks

import "time"

// Config sizes the worker pool and the favorites cascade retry policy.
type Config struct {
	Workers int

	// ReleaseAfter hands a claimed task back to the queue when its worker
	// has not finished it in time.
	ReleaseAfter time.Duration

	// CleanupInterval is how often backlite drops expired task records.
	CleanupInterval time.Duration

	Cascade RetryPolicy
}

// RetryPolicy bounds how a failed favorites purge is rescheduled.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration // wait before the first attempt
	MaxBackoff  time.Duration // zero means no cap
	Timeout     time.Duration // per attempt, zero means none
}

// Delay returns the wait before the given attempt. It doubles with every
// attempt after the first and never exceeds MaxBackoff.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := p.Backoff
	for i := 1; i < attempt; i++ {
		if p.MaxBackoff > 0 && delay >= p.MaxBackoff {
			break
		}
		delay *= 2
	}
	if p.MaxBackoff > 0 && delay > p.MaxBackoff {
		delay = p.MaxBackoff
	}
	return delay
}

func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    5 * time.Minute,
		CleanupInterval: time.Hour,
		Cascade: RetryPolicy{
			MaxAttempts: 5,
			Backoff:     30 * time.Second,
			MaxBackoff:  10 * time.Minute,
			Timeout:     time.Minute,
		},
	}
}
