package config

import (
	"fmt"
	"strconv"
	"time"
	_ "time/tzdata"
)

const (
	DefaultSchedule       = "0 */6 * * *"
	DefaultScreenshotsDir = "screenshots"
	DefaultTimezone       = "Asia/Shanghai"
)

// Durations holds the parsed timing options.
type Durations struct {
	Wait         time.Duration
	Settle       time.Duration
	Poll         time.Duration
	ClaimPause   time.Duration
	AccountDelay time.Duration
}

// ApplyDefaults fills unset options and the schedule.
func (c *Config) ApplyDefaults() {
	o := &c.Options
	setDefault(&o.Headless, "true")
	setDefault(&o.WaitTimeout, "30s")
	setDefault(&o.SettleTimeout, "15s")
	setDefault(&o.PollInterval, "1s")
	setDefault(&o.ClaimPause, "2s")
	setDefault(&o.AccountDelay, "10s")
	setDefault(&o.ScreenshotsDir, DefaultScreenshotsDir)
	setDefault(&o.Timezone, DefaultTimezone)
	setDefault(&c.Schedule, DefaultSchedule)
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Durations parses the timing options. Call after ApplyDefaults.
func (o Options) Durations() (Durations, error) {
	var d Durations
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"wait_timeout", o.WaitTimeout, &d.Wait},
		{"settle_timeout", o.SettleTimeout, &d.Settle},
		{"poll_interval", o.PollInterval, &d.Poll},
		{"claim_pause", o.ClaimPause, &d.ClaimPause},
		{"account_delay", o.AccountDelay, &d.AccountDelay},
	}
	for _, f := range fields {
		v, err := time.ParseDuration(f.raw)
		if err != nil {
			return Durations{}, fmt.Errorf("options.%s: %w", f.name, err)
		}
		*f.dst = v
	}
	return d, nil
}

// IsHeadless reports the headless option; anything unparsable means headless.
func (o Options) IsHeadless() bool {
	b, err := strconv.ParseBool(o.Headless)
	if err != nil {
		return true
	}
	return b
}

// Location resolves the timezone option. Without tzdata the default zone
// degrades to a fixed UTC+8.
func (o Options) Location() *time.Location {
	loc, err := time.LoadLocation(o.Timezone)
	if err == nil {
		return loc
	}
	if o.Timezone == DefaultTimezone || o.Timezone == "" {
		return time.FixedZone("UTC+8", 8*60*60)
	}
	return time.UTC
}
