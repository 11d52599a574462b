// Package validator asserts properties of loaded variables.
package validator

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Getter is the read side of an environment repository.
type Getter interface {
	Get(name string) (string, bool)
}

// Failure is one variable that did not satisfy an assertion.
type Failure struct {
	Name    string
	Message string
}

func (f Failure) String() string { return f.Name + " " + f.Message }

// Error lists every failure of a single assertion.
type Error struct {
	Failures []Failure
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.String()
	}
	return fmt.Sprintf("One or more environment variables failed assertions: %s.", strings.Join(parts, ", "))
}

// Validator checks a fixed set of variable names against a repository.
type Validator struct {
	repo      Getter
	names     []string
	ifPresent bool
}

// New returns a validator for names. With ifPresent set, assertions other
// than Required skip names that are not defined.
func New(repo Getter, names []string, ifPresent bool) *Validator {
	return &Validator{repo: repo, names: slices.Clone(names), ifPresent: ifPresent}
}

// Required fails for every name that is not defined.
func (v *Validator) Required() error {
	var failures []Failure
	for _, name := range v.names {
		if _, ok := v.repo.Get(name); !ok {
			failures = append(failures, Failure{Name: name, Message: "is missing"})
		}
	}
	return failuresErr(failures)
}

// NotEmpty fails for values that are empty after trimming.
func (v *Validator) NotEmpty() error {
	return v.Assert(func(value string) bool {
		return strings.TrimSpace(value) != ""
	}, "is empty")
}

var integerPattern = regexp.MustCompile(`^\s*-?\d+\s*$`)

// IsInteger fails for values that are not a base-10 integer.
func (v *Validator) IsInteger() error {
	return v.Assert(integerPattern.MatchString, "is not an integer")
}

var booleans = []string{"", "true", "false", "on", "off", "yes", "no", "1", "0"}

// IsBoolean fails for values that do not spell a boolean.
func (v *Validator) IsBoolean() error {
	return v.Assert(func(value string) bool {
		return slices.Contains(booleans, strings.ToLower(strings.TrimSpace(value)))
	}, "is not a boolean")
}

// AllowedValues fails for values outside choices.
func (v *Validator) AllowedValues(choices ...string) error {
	return v.Assert(func(value string) bool {
		return slices.Contains(choices, value)
	}, fmt.Sprintf("is not one of [%s]", strings.Join(choices, ", ")))
}

// AllowedRegexValues fails for values that re does not match.
func (v *Validator) AllowedRegexValues(re *regexp.Regexp) error {
	return v.Assert(re.MatchString, fmt.Sprintf("does not match %q", re.String()))
}

// Assert fails with message for every value fn rejects. Missing names fail
// with "is missing" unless the validator only checks present names.
func (v *Validator) Assert(fn func(value string) bool, message string) error {
	var failures []Failure
	for _, name := range v.names {
		value, ok := v.repo.Get(name)
		if !ok {
			if !v.ifPresent {
				failures = append(failures, Failure{Name: name, Message: "is missing"})
			}
			continue
		}
		if !fn(value) {
			failures = append(failures, Failure{Name: name, Message: message})
		}
	}
	return failuresErr(failures)
}

func failuresErr(failures []Failure) error {
	if len(failures) == 0 {
		return nil
	}
	return &Error{Failures: failures}
}

// Merge combines the failures of several assertions into one Error. Errors
// of any other type are returned as they are.
func Merge(errs ...error) error {
	var failures []Failure
	for _, err := range errs {
		if err == nil {
			continue
		}
		var verr *Error
		if !errors.As(err, &verr) {
			return err
		}
		failures = append(failures, verr.Failures...)
	}
	return failuresErr(failures)
}
