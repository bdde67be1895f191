package result

import (
	"fmt"
	"time"
)

// RemainingUnknown is stored in RunResult.Remaining when the countdown could
// not be read. Consumers must not alarm on it.
const RemainingUnknown = "unknown"

// RunState is the observed run state of the target server.
type RunState int

const (
	StateUnknown RunState = iota
	StateRunning
	StateStopped
	StateStartTriggered
	StateStartFailed
	StateError
)

func (s RunState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateStartTriggered:
		return "start_triggered"
	case StateStartFailed:
		return "start_failed"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Emoji returns the status marker used in notifications.
func (s RunState) Emoji() string {
	switch s {
	case StateRunning:
		return "\U0001f7e2" // 🟢
	case StateStartTriggered:
		return "\U0001f7e1" // 🟡
	case StateUnknown:
		return "\u2753" // ❓
	default:
		return "\U0001f534" // 🔴
	}
}

// ClaimKind enumerates renewal claim outcomes.
type ClaimKind int

const (
	ClaimUnknown ClaimKind = iota
	ClaimNotNeeded
	ClaimClaimed
	ClaimNoneAvailable
)

// ClaimOutcome is the result of claim reconciliation. Count is only
// meaningful for ClaimClaimed.
type ClaimOutcome struct {
	Kind  ClaimKind
	Count int
}

// Claimed returns the outcome for n freshly claimed renewals.
func Claimed(n int) ClaimOutcome {
	return ClaimOutcome{Kind: ClaimClaimed, Count: n}
}

func (c ClaimOutcome) String() string {
	switch c.Kind {
	case ClaimNotNeeded:
		return "not_needed"
	case ClaimClaimed:
		return fmt.Sprintf("claimed(%d)", c.Count)
	case ClaimNoneAvailable:
		return "none_available"
	default:
		return "unknown"
	}
}

// RunResult is the per-account outcome record. It is created when an account
// starts processing, mutated by each step, and read once by the notifier.
type RunResult struct {
	AccountMasked   string
	ServerID        string
	ServerName      string
	ResourceAddress string
	State           RunState
	Remaining       string
	Claim           ClaimOutcome
	ClaimedLabels   []string
	Notes           []string
	Screenshot      string
	StartedAt       time.Time
	Duration        time.Duration
}

// New returns a RunResult with every field at its "nothing observed yet" value.
func New(accountMasked, serverID string) *RunResult {
	return &RunResult{
		AccountMasked:   accountMasked,
		ServerID:        serverID,
		ResourceAddress: serverID,
		State:           StateUnknown,
		Remaining:       RemainingUnknown,
		Claim:           ClaimOutcome{Kind: ClaimUnknown},
		StartedAt:       time.Now(),
	}
}

// Note appends a diagnostic line.
func (r *RunResult) Note(format string, args ...any) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// AddClaimedLabel records the text of a claimed control once.
func (r *RunResult) AddClaimedLabel(label string) {
	for _, l := range r.ClaimedLabels {
		if l == label {
			return
		}
	}
	r.ClaimedLabels = append(r.ClaimedLabels, label)
}
