package dispatcher

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/local/studyguide/internal/ai"
	cfgpkg "github.com/local/studyguide/internal/config"
	mpkg "github.com/local/studyguide/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Caller sends generation requests to one provider and retries failures.
// Server errors, 429 and timeouts wait ServerDelay; anything else retryable waits OtherDelay.
type Caller struct {
	client      ai.Client
	attempts    uint
	serverDelay time.Duration
	otherDelay  time.Duration
	timeout     time.Duration
	timer       retry.Timer
}

// CallerOption customizes a Caller.
type CallerOption func(*Caller)

// WithTimer swaps the wait clock, used by tests to avoid real sleeps.
func WithTimer(t retry.Timer) CallerOption {
	return func(c *Caller) { c.timer = t }
}

// NewCaller builds a Caller from the retry section of the config.
func NewCaller(client ai.Client, rc cfgpkg.RetryConfig, requestTimeout time.Duration, opts ...CallerOption) *Caller {
	c := &Caller{
		client:      client,
		attempts:    uint(rc.Attempts),
		serverDelay: rc.ServerDelay,
		otherDelay:  rc.OtherDelay,
		timeout:     requestTimeout,
	}
	if c.attempts == 0 { c.attempts = 3 }
	for _, o := range opts {
		o(c)
	}
	return c
}

// Attempts returns the total number of tries per call.
func (c *Caller) Attempts() int { return int(c.attempts) }

// DelayFor returns the pause taken after err before the next attempt.
func (c *Caller) DelayFor(err error) time.Duration {
	switch classify(err) {
	case classServer, classRateLimited, classTimeout:
		return c.serverDelay
	default:
		return c.otherDelay
	}
}

// Call performs req with retries. The last attempt's error is returned.
func (c *Caller) Call(ctx context.Context, req ai.Request) (ai.Response, error) {
	provider := c.client.Name()
	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.LastErrorOnly(true),
		retry.DelayType(func(_ uint, err error, _ *retry.Config) time.Duration { return c.DelayFor(err) }),
		retry.RetryIf(func(err error) bool {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return false
			}
			return !isFatalError(err)
		}),
		retry.OnRetry(func(n uint, err error) {
			class := classify(err)
			mpkg.IncRetry(class)
			ev := log.Warn().Err(err).
				Str("provider", provider).
				Str("model", req.Model).
				Str("class", class).
				Int("attempt", int(n)+1).
				Int("max_attempts", int(c.attempts))
			if int(n)+1 < int(c.attempts) {
				ev = ev.Dur("wait", c.DelayFor(err))
			}
			ev.Msg("AI provider call failed")
		}),
	}
	if c.timer != nil { opts = append(opts, retry.WithTimer(c.timer)) }

	return retry.DoWithData(func() (ai.Response, error) {
		return c.once(ctx, provider, req)
	}, opts...)
}

func (c *Caller) once(ctx context.Context, provider string, req ai.Request) (ai.Response, error) {
	cctx := ctx
	cancel := func() {}
	if c.timeout > 0 { cctx, cancel = context.WithTimeout(ctx, c.timeout) }
	defer cancel()

	start := time.Now()
	resp, err := c.client.Generate(cctx, req)
	dur := time.Since(start)

	if err != nil && ctx.Err() == nil && errors.Is(cctx.Err(), context.DeadlineExceeded) {
		mpkg.ObserveProvider(provider, req.Model, "timeout", dur)
		return ai.Response{}, &RateLimitError{Provider: provider, Model: req.Model, Reason: "timeout"}
	}

	result := "success"
	if err != nil { result = classify(err) }
	mpkg.ObserveProvider(provider, req.Model, result, dur)

	if err == nil {
		log.Debug().
			Str("provider", provider).
			Str("model", req.Model).
			Dur("duration", dur).
			Int("tokens_in", resp.TokensIn).
			Int("tokens_out", resp.TokensOut).
			Msg("AI provider call success")
	}
	return resp, err
}
