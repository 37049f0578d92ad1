package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

var _ pflag.Value = (*stepValue)(nil)

// stepValue is the --step flag. It remembers whether it was set so the
// config value can fill in otherwise.
type stepValue struct {
	value int
	set   bool
}

func (s *stepValue) String() string {
	if !s.set && s.value == 0 {
		return ""
	}
	return strconv.Itoa(s.value)
}

func (s *stepValue) Set(v string) error {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(v), "%"))
	if err != nil {
		return fmt.Errorf("step must be a whole percentage: %w", err)
	}
	if n < 1 || n > 50 {
		return fmt.Errorf("step must be between 1 and 50, got %d", n)
	}
	s.value = n
	s.set = true
	return nil
}

func (s *stepValue) Type() string { return "percent" }
