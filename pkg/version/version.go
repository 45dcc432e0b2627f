// Package version provides link protocol version parsing and the hello
// compatibility check.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Current is the link protocol version implemented by this library.
const Current = "1.0"

// ErrIncompatible is returned when two protocol versions differ in major.
var ErrIncompatible = errors.New("incompatible protocol version")

// Version is a parsed "major.minor" protocol version.
type Version struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (Version, error) {
	majorStr, minorStr, ok := strings.Cut(s, ".")
	if !ok || strings.Contains(minorStr, ".") {
		return Version{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(majorStr, 10, 16)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(minorStr, 10, 16)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return Version{Major: uint16(major), Minor: uint16(minor)}, nil
}

// MustParse is Parse for constants; it panics on malformed input.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version has the same major version.
func (v Version) Compatible(other Version) bool {
	return v.Major == other.Major
}

// Check verifies that a version announced by the peer can talk to Current.
// An empty announcement is treated as Current, for peers that predate
// version exchange.
func Check(peer string) error {
	if peer == "" {
		return nil
	}
	pv, err := Parse(peer)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIncompatible, err)
	}
	if !MustParse(Current).Compatible(pv) {
		return fmt.Errorf("%w: peer speaks %s, we speak %s", ErrIncompatible, pv, Current)
	}
	return nil
}
