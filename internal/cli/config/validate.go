package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/routefold/internal/report"
	"github.com/leapstack-labs/routefold/pkg/emit"
	"github.com/leapstack-labs/routefold/pkg/parser"
)

// Validate checks that every enumerated option has a known value.
func (c *Config) Validate() error {
	var errs []error

	if _, err := parser.ParseDialect(c.Dialect); err != nil {
		errs = append(errs, fmt.Errorf("dialect: %w", err))
	}
	if _, err := emit.ParseTarget(c.Emit); err != nil {
		errs = append(errs, fmt.Errorf("emit: %w", err))
	}
	if _, err := report.ParseFormat(c.OutputFormat); err != nil {
		errs = append(errs, fmt.Errorf("output: %w", err))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if strings.ContainsAny(c.Suffix, `/\`) {
		errs = append(errs, fmt.Errorf("suffix %q must not contain a path separator", c.Suffix))
	}

	return errors.Join(errs...)
}
