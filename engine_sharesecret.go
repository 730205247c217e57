package authgate

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/testware-io/authgate/ratelimit"
)

// ShareAttemptID builds the composite limiter identifier for a
// password-protected share link: the secret id plus the client IP, so one
// address cannot burn another's budget.
func ShareAttemptID(shareKey, clientIP string) string {
	return fmt.Sprintf("%s:%s", shareKey, clientIP)
}

// CheckShareAttempt reports whether another password attempt against the
// share link is allowed, without recording anything.
func (e *Engine) CheckShareAttempt(ctx context.Context, shareKey, clientIP string) (ratelimit.Status, error) {
	return e.limiter.Check(ctx, ShareAttemptID(shareKey, clientIP))
}

// VerifySharePassword runs the full protected-link attempt: enforce the
// window, record the attempt, compare the presented password against the
// stored digest, and clear the budget on success.
//
// A denied window returns [ErrRateLimited] alongside the status carrying
// the retry countdown. A wrong password is (false, status, nil).
func (e *Engine) VerifySharePassword(ctx context.Context, shareKey, clientIP, presented, storedDigest string) (bool, ratelimit.Status, error) {
	id := ShareAttemptID(shareKey, clientIP)

	status, err := e.limiter.Check(ctx, id)
	if err != nil {
		return false, status, err
	}
	if !status.Allowed {
		e.metrics.RateLimited()
		return false, status, ErrRateLimited
	}

	status, err = e.limiter.Record(ctx, id)
	if err != nil {
		return false, status, err
	}

	digest := e.tokens.HashData(presented)
	if subtle.ConstantTimeCompare([]byte(digest), []byte(storedDigest)) != 1 {
		return false, status, nil
	}

	if err := e.limiter.Clear(ctx, id); err != nil {
		return false, status, err
	}
	return true, status, nil
}

// ClearShareAttempts drops the attempt budget after an out-of-band
// success, e.g. the link owner rotating the password.
func (e *Engine) ClearShareAttempts(ctx context.Context, shareKey, clientIP string) error {
	return e.limiter.Clear(ctx, ShareAttemptID(shareKey, clientIP))
}
