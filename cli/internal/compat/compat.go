// Package compat checks database server versions against a minimum.
package compat

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/hashicorp/go-version"
)

// ErrTooOld is returned when the server is older than the required minimum.
var ErrTooOld = errors.New("server version is older than the required minimum")

// leading matches the dotted version at the start of strings such as
// "16.2 (Debian 16.2-1.pgdg120+2)" or "8.0.36-0ubuntu0.22.04.1".
var leading = regexp.MustCompile(`^v?\d+(\.\d+)*`)

// ParseServerVersion extracts the version number from a server version string.
func ParseServerVersion(raw string) (*version.Version, error) {
	m := leading.FindString(raw)
	if m == "" {
		return nil, fmt.Errorf("invalid server version %q", raw)
	}
	return version.NewVersion(m)
}

// Check compares the server version with minimum. An empty minimum accepts
// any server.
func Check(server, minimum string) (*version.Version, error) {
	current, err := ParseServerVersion(server)
	if err != nil {
		return nil, err
	}
	if minimum == "" {
		return current, nil
	}

	constraint, err := version.NewConstraint(">= " + minimum)
	if err != nil {
		return current, fmt.Errorf("invalid minimum version %q: %w", minimum, err)
	}
	if !constraint.Check(current) {
		return current, fmt.Errorf("%s < %s: %w", current, minimum, ErrTooOld)
	}
	return current, nil
}
