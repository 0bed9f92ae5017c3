// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package peers

import (
	"errors"
	"fmt"
)

// Sentinel errors for peer resolution.
var (
	// ErrUnavailable means neither npm nor the registry could answer. The
	// peer set is unknown; callers continue without it.
	ErrUnavailable = errors.New("peer dependency lookup unavailable")

	// ErrPackageNotFound means the lookup worked and the package does not
	// exist.
	ErrPackageNotFound = errors.New("package not found")

	// ErrVersionNotFound means the package exists but no published version
	// matches the requested version, tag or range. Errors matching it also
	// match ErrPackageNotFound.
	ErrVersionNotFound = errors.New("version not found")
)

// NotFoundError describes a package or version the registry does not have.
type NotFoundError struct {
	Name string

	// Version is empty when the whole package is missing.
	Version string
}

func (e *NotFoundError) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("package %q not found", e.Name)
	}
	return fmt.Sprintf("version %q not found for package %q", e.Version, e.Name)
}

// Is matches ErrPackageNotFound always, and ErrVersionNotFound when a
// version was named.
func (e *NotFoundError) Is(target error) bool {
	switch target {
	case ErrPackageNotFound:
		return true
	case ErrVersionNotFound:
		return e.Version != ""
	}
	return false
}

// IsNotFound reports whether err is a package or version not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPackageNotFound)
}

// unavailable wraps cause so that it matches ErrUnavailable.
func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, fmt.Sprintf(format, args...))
}
