package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/janucaria/himada/pkg/errors"
)

// CheckSettingsCompatibility checks whether a settings file written by
// fileVersion can be read by appVersion.
// Returns nil if compatible, error with details if not.
//
// Compatibility Rules:
//   - If either version is "main" (development build), compatibility check is skipped
//   - An empty file version (written before versions were recorded) is accepted
//   - Major versions must match exactly; minor and patch may differ
//
// Examples:
//   - App 1.2.0, File 1.0.3 -> OK (same major)
//   - App 2.0.0, File 1.4.0 -> ERROR (major differs)
//   - App main, File 3.0.0 -> OK (dev build, skip check)
func CheckSettingsCompatibility(appVersion, fileVersion string) error {
	// Strip 'v' prefix if present for consistency
	appVersion = strings.TrimPrefix(appVersion, "v")
	fileVersion = strings.TrimPrefix(fileVersion, "v")

	if appVersion == "main" || fileVersion == "main" || fileVersion == "" {
		return nil
	}

	appSemver, err := semver.NewVersion(appVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid app version '%s'", appVersion)
	}

	fileSemver, err := semver.NewVersion(fileVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid settings version '%s'", fileVersion)
	}

	if appSemver.Major() != fileSemver.Major() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "major version mismatch: app is %d.x.x but settings were written by %d.x.x",
			appSemver.Major(), fileSemver.Major())
	}

	return nil
}
