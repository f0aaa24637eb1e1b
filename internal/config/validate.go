// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the configuration against its struct tags and a small
// set of cross-field rules that the tags cannot express. It returns all
// failures joined into a single error.
func (c *Config) Validate() error {
	var problems []string

	if err := getValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				problems = append(problems, describeFieldError(fe))
			}
		} else {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}

	if c.Server.RateLimit > 0 && c.Server.RateLimitWindow <= 0 {
		problems = append(problems, "server.rate_limit_window must be positive when rate limiting is enabled")
	}
	if c.Auth.Mode == "jwt" && c.Auth.SessionTTL <= 0 {
		problems = append(problems, "auth.session_ttl must be positive in jwt mode")
	}
	if c.Refresh.Enabled && c.Refresh.Interval <= 0 {
		problems = append(problems, "refresh.interval must be positive when refresh is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// describeFieldError renders a validator failure as a readable message
// keyed by the struct path rather than the raw tag.
func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required (%s)", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
