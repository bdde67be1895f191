package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// ErrNoAccounts means neither the config file nor the environment named an
// account.
var ErrNoAccounts = errors.New("no accounts configured")

// ScheduleParser parses the standard five-field cron spec used by schedule.
var ScheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		d, err := time.ParseDuration(fl.Field().String())
		return err == nil && d >= 0
	})
	_ = v.RegisterValidation("schedule", func(fl validator.FieldLevel) bool {
		_, err := ScheduleParser.Parse(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks the whole config. Field values are never included in the
// error since accounts carry secrets.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return formatValidation(verrs)
		}
		return fmt.Errorf("validating config: %w", err)
	}

	if len(c.Accounts) == 0 {
		return ErrNoAccounts
	}

	for i, n := range c.Notify {
		if _, ok := c.Services[n.Service]; !ok {
			return fmt.Errorf("notify[%d]: unknown service %q", i, n.Service)
		}
	}

	return nil
}

func formatValidation(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Namespace() + ": failed " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
