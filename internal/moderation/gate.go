package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
)

// Options configure a Gate.
type Options struct {
	Thresholds     Thresholds
	TruncateLength int
	// ForceBlock blocks every submission without calling the classifier.
	ForceBlock bool
}

// Gate wraps a Classifier with threshold rules and fail-closed handling.
type Gate struct {
	classifier Classifier
	opts       Options
	logger     *slog.Logger
	now        func() time.Time
}

// NewGate creates a Gate around classifier.
func NewGate(classifier Classifier, opts Options, logger *slog.Logger) *Gate {
	return &Gate{
		classifier: classifier,
		opts:       opts,
		logger:     logger.With("system", "moderation"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Screen classifies in and returns a verdict. It never fails: classifier
// errors produce a blocked verdict with a moderation_failed reason.
func (g *Gate) Screen(ctx context.Context, in Input) Verdict {
	if g.opts.ForceBlock {
		return ForcedBlock(g.now())
	}

	analysis, err := g.classifier.Analyze(ctx, Text(in, g.opts.TruncateLength))
	if err != nil {
		g.logger.ErrorContext(ctx, "moderation unavailable, failing closed", "error", err)
		return Failed(failureCause(err), g.now())
	}

	v := Decide(analysis, g.opts.Thresholds, g.now())
	if v.Blocked {
		g.logger.WarnContext(ctx, "submission blocked",
			"reason", v.Reason,
			"overall_severity", v.OverallSeverity,
			"request_id", v.RequestID,
		)
	}
	return v
}

func failureCause(err error) string {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		if respErr.ErrorCode != "" {
			return fmt.Sprintf("http_%d_%s", respErr.StatusCode, respErr.ErrorCode)
		}
		return fmt.Sprintf("http_%d", respErr.StatusCode)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return err.Error()
}
