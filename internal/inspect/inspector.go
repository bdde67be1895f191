package inspect

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sznuper/keeper/internal/result"
)

// Options tunes the waits of an Inspector.
type Options struct {
	// SettleTimeout bounds how long activation waits for the running signal.
	SettleTimeout time.Duration
	// PollInterval is the gap between re-probes while settling.
	PollInterval time.Duration
	// ClaimPause separates consecutive claim triggers.
	ClaimPause time.Duration

	Running []Strategy
	Stopped []Strategy
	Claim   Strategy
}

// DefaultOptions returns the waits the dashboard has needed in practice.
func DefaultOptions() Options {
	return Options{
		SettleTimeout: 15 * time.Second,
		PollInterval:  time.Second,
		ClaimPause:    2 * time.Second,
	}
}

// Inspector classifies the server's run state and reconciles renewal claims
// against a single loaded page.
type Inspector struct {
	page   Page
	opts   Options
	logger *slog.Logger
}

// New creates an Inspector. Zero strategy fields fall back to the package
// defaults.
func New(page Page, opts Options, logger *slog.Logger) *Inspector {
	if opts.Running == nil {
		opts.Running = RunningStrategies
	}
	if opts.Stopped == nil {
		opts.Stopped = StoppedStrategies
	}
	if opts.Claim.Selector == "" {
		opts.Claim = Strategy{Name: "claim", Selector: ClaimSelector, Text: claimMarker}
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	return &Inspector{page: page, opts: opts, logger: logger}
}

// Inspect runs the whole heuristic: description, status (with activation),
// remaining time, then claims.
func (in *Inspector) Inspect(ctx context.Context, res *result.RunResult) error {
	html, err := in.page.HTML(ctx)
	if err != nil {
		return fmt.Errorf("reading page snapshot: %w", err)
	}
	res.ServerName, res.ResourceAddress = Describe(html, res.ServerID)
	in.logger.Debug("page described", "name", res.ServerName, "address", res.ResourceAddress)

	if err := in.DetectStatus(ctx, res); err != nil {
		return err
	}

	text, err := in.page.Text(ctx)
	if err != nil {
		res.Note("reading page text: %v", err)
	}
	res.Remaining = ExtractRemaining(text)
	in.logger.Info("remaining time", "remaining", res.Remaining)

	return in.ReconcileClaims(ctx, res)
}

// DetectStatus sets res.State from the controls on the page. The running
// signal always wins over the stopped signal; a stopped server is activated
// once.
func (in *Inspector) DetectStatus(ctx context.Context, res *result.RunResult) error {
	_, s, ok, err := firstMatch(ctx, in.page, in.opts.Running)
	if err != nil {
		return fmt.Errorf("probing running signal: %w", err)
	}
	if ok {
		res.State = result.StateRunning
		in.logger.Info("server running", "signal", s.Name)
		return nil
	}

	start, s, ok, err := firstMatch(ctx, in.page, in.opts.Stopped)
	if err != nil {
		return fmt.Errorf("probing stopped signal: %w", err)
	}
	if ok {
		res.State = result.StateStopped
		in.logger.Info("server stopped, starting", "signal", s.Name)
		return in.activate(ctx, res, start)
	}

	res.State = result.StateUnknown
	res.Note("no recognizable start or stop control found")
	in.logger.Warn("no start or stop control found")
	return nil
}

// activate triggers the start control exactly once. A second trigger in the
// same run could provision twice on the remote side.
func (in *Inspector) activate(ctx context.Context, res *result.RunResult, start Element) error {
	if err := start.Trigger(); err != nil {
		res.State = result.StateStartFailed
		res.Note("start trigger failed: %v", err)
		in.logger.Error("start trigger failed", "error", err)
		return nil
	}
	res.State = result.StateStartTriggered

	running, err := in.waitRunning(ctx)
	switch {
	case err != nil:
		res.Note("start triggered, could not confirm: %v", err)
		in.logger.Warn("start unconfirmed", "error", err)
	case running:
		res.State = result.StateRunning
		res.Note("server started")
		in.logger.Info("server started")
	default:
		res.State = result.StateStartFailed
		res.Note("start triggered but server not running after %s", in.opts.SettleTimeout)
		in.logger.Warn("server did not start", "settle", in.opts.SettleTimeout)
	}
	return nil
}

func (in *Inspector) waitRunning(ctx context.Context) (bool, error) {
	deadline := time.Now().Add(in.opts.SettleTimeout)
	for {
		if err := Sleep(ctx, in.opts.PollInterval); err != nil {
			return false, err
		}
		_, _, ok, err := firstMatch(ctx, in.page, in.opts.Running)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		if !time.Now().Before(deadline) {
			return false, nil
		}
	}
}

// ReconcileClaims triggers every claim control not already marked claimed and
// sets res.Claim. Controls marked claimed are counted, never triggered, so a
// second pass over an unchanged page claims nothing new.
func (in *Inspector) ReconcileClaims(ctx context.Context, res *result.RunResult) error {
	elements, err := in.page.FindAll(ctx, in.opts.Claim.Selector)
	if err != nil {
		return fmt.Errorf("listing claim controls: %w", err)
	}

	var already, now int
	for _, el := range elements {
		text, err := el.Text()
		if err != nil {
			continue
		}
		label := normalizeLabel(text)
		if in.opts.Claim.Text != nil && !in.opts.Claim.Text.MatchString(label) {
			continue
		}
		if claimedMarker.MatchString(label) {
			already++
			continue
		}

		if now > 0 {
			if err := Sleep(ctx, in.opts.ClaimPause); err != nil {
				return err
			}
		}
		if err := el.Trigger(); err != nil {
			res.Note("claim %q failed: %v", label, err)
			in.logger.Warn("claim failed", "label", label, "error", err)
			continue
		}
		now++
		res.AddClaimedLabel(label)
		in.logger.Info("claimed", "label", label)
	}

	switch {
	case now > 0:
		res.Claim = result.Claimed(now)
	case already > 0:
		res.Claim = result.ClaimOutcome{Kind: result.ClaimNotNeeded}
	default:
		res.Claim = result.ClaimOutcome{Kind: result.ClaimNoneAvailable}
	}
	in.logger.Info("claims reconciled", "outcome", res.Claim.String(), "already_claimed", already)
	return nil
}

// Sleep pauses for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
