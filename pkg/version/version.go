// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package version encodes the "major.minor.patch" format versions stored in
// measurement files into single comparable integer keys.
//
// A key packs the three components as (major<<16)|(minor<<8)|patch, so minor
// and patch are limited to 0-255 and major to 0-65535. Keys order exactly like
// the versions they encode, which lets converters compare a file's declared
// version against their supported range with plain integer comparison.
//
//	v, err := version.Parse("0.5.1")
//	if err != nil { ... }
//	key := v.Key() // 0x000501
//	same := version.FromKey(key)
package version

import (
	"errors"
	"fmt"
	"strings"

	bsemver "github.com/blang/semver/v4"
)

// Error types for version parsing failures
var (
	ErrEmptyVersion     = errors.New("version string is empty")
	ErrMalformed        = errors.New("version must have the form major.minor.patch")
	ErrComponentRange   = errors.New("version component out of range")
	ErrUnexpectedSuffix = errors.New("version must not carry pre-release or build metadata")
)

const (
	maxMajor = 0xFFFF
	maxMinor = 0xFF
	maxPatch = 0xFF
)

// Key is the packed integer form of a Version.
type Key uint32

// Version represents a three component format version.
type Version struct {
	Major int `json:"major" yaml:"major"`
	Minor int `json:"minor" yaml:"minor"`
	Patch int `json:"patch" yaml:"patch"`
}

// New creates a new Version with the specified major, minor, and patch values.
func New(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// String returns the "major.minor.patch" representation of the Version.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Parse parses a "major.minor.patch" string. Surrounding whitespace is
// ignored; a "v" prefix, missing components, pre-release and build suffixes
// are rejected because format version tags never carry them.
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	sv, err := bsemver.Parse(s)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q: %v", ErrMalformed, s, err)
	}
	if len(sv.Pre) > 0 || len(sv.Build) > 0 {
		return Version{}, fmt.Errorf("%w: %q", ErrUnexpectedSuffix, s)
	}
	if sv.Major > maxMajor || sv.Minor > maxMinor || sv.Patch > maxPatch {
		return Version{}, fmt.Errorf("%w: %q", ErrComponentRange, s)
	}

	return Version{Major: int(sv.Major), Minor: int(sv.Minor), Patch: int(sv.Patch)}, nil
}

// MustParse parses a version string and panics if parsing fails.
// Only use this for hardcoded strings (format descriptors) or in tests.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("MustParse: %v", err))
	}
	return v
}

// IsValid returns true if every component fits its packed field.
func (v Version) IsValid() bool {
	return v.Major >= 0 && v.Major <= maxMajor &&
		v.Minor >= 0 && v.Minor <= maxMinor &&
		v.Patch >= 0 && v.Patch <= maxPatch
}

// Key packs the version into its comparable integer form.
// The result is meaningless for versions that are not IsValid.
func (v Version) Key() Key {
	return Key(v.Major)<<16 | Key(v.Minor)<<8 | Key(v.Patch)
}

// FromKey unpacks a key produced by Key.
func FromKey(k Key) Version {
	return Version{
		Major: int(k >> 16 & maxMajor),
		Minor: int(k >> 8 & maxMinor),
		Patch: int(k & maxPatch),
	}
}

// Encode parses s and returns its packed key.
func Encode(s string) (Key, error) {
	v, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return v.Key(), nil
}

// Decode returns the "major.minor.patch" string of a packed key.
func Decode(k Key) string {
	return FromKey(k).String()
}

// Compare returns -1 if v < other, 0 if v == other, 1 if v > other.
func (v Version) Compare(other Version) int {
	a, b := v.Key(), other.Key()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Less reports whether v orders before other.
func (v Version) Less(other Version) bool {
	return v.Key() < other.Key()
}

// Equals returns true if all components match.
func (v Version) Equals(other Version) bool {
	return v == other
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
