package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sznuper/keeper/internal/account"
	"github.com/sznuper/keeper/internal/config"
	"github.com/sznuper/keeper/internal/dashboard"
	"github.com/sznuper/keeper/internal/inspect"
	"github.com/sznuper/keeper/internal/notify"
	"github.com/sznuper/keeper/internal/result"
)

// accountTelegram names the implicit target built from an account's own bot
// token and chat id.
const accountTelegram = "account_telegram"

const maxNoteLen = 200

// Runner orchestrates the login → navigate → inspect → notify pipeline for
// each configured account.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	open   Opener
	site   *dashboard.Site
	durs   config.Durations
	loc    *time.Location
	now    func() time.Time
}

// New creates a Runner. cfg must have had defaults applied.
func New(cfg *config.Config, logger *slog.Logger, open Opener) (*Runner, error) {
	durs, err := cfg.Options.Durations()
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:    cfg,
		logger: logger,
		open:   open,
		site:   dashboard.New(cfg.Options.BaseURL),
		durs:   durs,
		loc:    cfg.Options.Location(),
		now:    time.Now,
	}, nil
}

// FindAccount returns the account whose server id, identity or masked
// identity equals key, or nil.
func (r *Runner) FindAccount(key string) *account.Account {
	for i := range r.cfg.Accounts {
		a := &r.cfg.Accounts[i]
		if a.ServerID == key || a.Identity == key || a.Masked() == key {
			return a
		}
	}
	return nil
}

// RunAll processes every configured account sequentially, pausing
// account_delay between accounts. Cancelling ctx skips the remaining accounts.
func (r *Runner) RunAll(ctx context.Context, dryRun bool) []Result {
	var results []Result
	for i := range r.cfg.Accounts {
		if i > 0 {
			r.logger.Info("waiting before next account", "delay", r.durs.AccountDelay)
			if err := inspect.Sleep(ctx, r.durs.AccountDelay); err != nil {
				r.logger.Warn("batch interrupted", "remaining", len(r.cfg.Accounts)-i, "error", err)
				break
			}
		}
		results = append(results, r.RunAccount(ctx, &r.cfg.Accounts[i], dryRun))
	}
	return results
}

// RunAccount executes the full pipeline for one account. Whatever happens,
// exactly one notification attempt is made per target.
func (r *Runner) RunAccount(ctx context.Context, acct *account.Account, dryRun bool) Result {
	runID := uuid.NewString()
	res := result.New(acct.Masked(), acct.ServerID)
	log := r.logger.With("run", runID[:8], "account", res.AccountMasked, "server", acct.ServerID)

	out := Result{
		RunID:  runID,
		Run:    res,
		DryRun: dryRun,
	}

	log.Info("processing account")
	if err := r.process(ctx, acct, res, log); err != nil {
		out.Err = err
		out.ErrStage = FailedStage(err)
		res.State = result.StateError
		res.Note("%s failed: %s", out.ErrStage, truncate(errors.Unwrap(err).Error(), maxNoteLen))
		log.Error(out.ErrStage+" failed", "error", err)
	}
	res.Duration = time.Since(res.StartedAt)

	r.notify(acct, &out, log)

	log.Info("account completed",
		"state", res.State.String(),
		"remaining", res.Remaining,
		"claim", res.Claim.String(),
		"duration", res.Duration,
	)
	return out
}

func (r *Runner) process(ctx context.Context, acct *account.Account, res *result.RunResult, log *slog.Logger) error {
	// Stage 1: Launch.
	log.Info("opening browser session")
	sess, err := r.open(ctx)
	if err != nil {
		return &StageError{Stage: "launch", Err: err}
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Warn("closing browser session", "error", err)
		}
	}()

	fail := func(stage string, err error) error {
		r.capture(sess, res, log)
		return &StageError{Stage: stage, Err: err}
	}

	// Stage 2: Login.
	log.Info("logging in", "url", r.site.LoginURL())
	if err := r.site.Login(ctx, sess, acct.Identity, acct.Secret); err != nil {
		return fail("login", err)
	}
	log.Debug("logged in")

	// Stage 3: Navigate.
	log.Info("opening server page", "url", r.site.ServerURL(acct.ServerID))
	if err := r.site.OpenServer(ctx, sess, acct.ServerID); err != nil {
		return fail("navigate", err)
	}

	// Stage 4: Inspect.
	in := inspect.New(sess.Page(), inspect.Options{
		SettleTimeout: r.durs.Settle,
		PollInterval:  r.durs.Poll,
		ClaimPause:    r.durs.ClaimPause,
	}, log)
	if err := in.Inspect(ctx, res); err != nil {
		return fail("inspect", err)
	}

	return nil
}

// capture writes an error screenshot. Failure here only adds a note.
func (r *Runner) capture(sess Session, res *result.RunResult, log *slog.Logger) {
	dir := r.cfg.Options.ScreenshotsDir
	if dir == "" {
		return
	}
	name := fmt.Sprintf("%s_%s.png", r.now().Format("20060102_150405"), safeName(res.ServerID))
	path := filepath.Join(dir, name)

	if err := sess.Screenshot(path); err != nil {
		res.Note("screenshot failed: %s", truncate(err.Error(), maxNoteLen))
		log.Warn("screenshot failed", "error", err)
		return
	}
	res.Screenshot = path
	log.Info("screenshot saved", "path", path)
}

func (r *Runner) notify(acct *account.Account, out *Result, log *slog.Logger) {
	services := mapServiceDefs(r.cfg.Services)
	refs := mapNotifyRefs(r.cfg.Notify)
	if acct.HasTelegram() {
		services[accountTelegram] = notify.TelegramService(acct.BotToken, acct.ChatID)
		refs = append([]notify.NotifyRef{{ServiceName: accountTelegram}}, refs...)
	}
	if len(refs) == 0 {
		log.Info("no notification targets")
		return
	}

	data := notify.BuildTemplateData(r.cfg.Globals, out.Run, r.loc)
	targets, err := notify.ResolveTargets(refs, services, r.cfg.Template, data)
	if err != nil {
		out.NotifyErr = err
		log.Error("template failed", "error", err)
		return
	}

	out.Rendered = make(map[string]string, len(targets))
	for _, t := range targets {
		out.Rendered[t.ServiceName] = t.Message
	}

	for _, t := range targets {
		if out.DryRun {
			if err := notify.Validate(t); err != nil {
				r.recordNotifyErr(out, err)
				log.Error("notify validation failed (dry-run)", "service", t.ServiceName, "error", err)
				continue
			}
			out.Notified = append(out.Notified, t.ServiceName)
			log.Debug("would notify (dry-run)", "service", t.ServiceName, "message", t.Message)
			continue
		}

		log.Info("sending notification", "service", t.ServiceName)
		if err := notify.Send(t); err != nil {
			r.recordNotifyErr(out, err)
			log.Error("notify failed", "service", t.ServiceName, "error", err)
			continue
		}
		out.Notified = append(out.Notified, t.ServiceName)
		log.Debug("notification sent", "service", t.ServiceName)
	}
}

func (r *Runner) recordNotifyErr(out *Result, err error) {
	if out.NotifyErr == nil {
		out.NotifyErr = err
	}
}

func mapNotifyRefs(targets []config.NotifyTarget) []notify.NotifyRef {
	refs := make([]notify.NotifyRef, len(targets))
	for i, t := range targets {
		refs[i] = notify.NotifyRef{
			ServiceName: t.Service,
			Template:    t.Template,
			Params:      t.Params,
		}
	}
	return refs
}

func mapServiceDefs(services map[string]config.Service) map[string]notify.ServiceDef {
	defs := make(map[string]notify.ServiceDef, len(services)+1)
	for name, svc := range services {
		defs[name] = notify.ServiceDef{
			URL:    svc.URL,
			Params: svc.Params,
		}
	}
	return defs
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, s)
}
