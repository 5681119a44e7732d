// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// lenientInt is an integer flag value that never fails to be set: invalid or
// out-of-range values are replaced by the default value and a warning is
// recorded instead.
type lenientInt struct {
	label    string // such as "Concurrency", used in warnings.
	unit     string // optional unit, such as " ms", used in warnings.
	value    int
	def      int
	min      int
	warnings *[]string
}

var _ pflag.Value = (*lenientInt)(nil)

func newLenientInt(label string, unit string, def int, minimum int, warnings *[]string) *lenientInt {
	return &lenientInt{
		label:    label,
		unit:     unit,
		value:    def,
		def:      def,
		min:      minimum,
		warnings: warnings,
	}
}

func (l *lenientInt) String() string { return strconv.Itoa(l.value) }

func (l *lenientInt) Type() string { return "int" }

// Set the flag value, falling back to the default value if the passed string
// isn't a valid integer or lies below the minimum.
func (l *lenientInt) Set(s string) error {
	v, err := strconv.Atoi(s)
	switch {
	case err != nil:
		l.warn("Must be an integer")
	case v < l.min:
		l.warn(fmt.Sprintf("Must be an integer of at least %d", l.min))
	default:
		l.value = v
	}
	return nil
}

func (l *lenientInt) warn(reason string) {
	l.value = l.def
	*l.warnings = append(*l.warnings, fmt.Sprintf(
		"Invalid value for %s. %s. Using default value %d%s.",
		l.label, reason, l.def, l.unit))
}

// Millis returns the flag value interpreted as milliseconds.
func (l *lenientInt) Millis() time.Duration {
	return time.Duration(l.value) * time.Millisecond
}
