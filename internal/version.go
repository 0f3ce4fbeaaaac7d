// Package internal provides version information and build metadata for
// the lapse viewer.
package internal

// Application metadata constants.
const (
	// AppName is the official name of the application
	AppName = "lapse"

	// AppVersion follows semantic versioning (major.minor.patch)
	AppVersion = "0.3.0"

	// AppDesc is the tagline used in the UI header
	AppDesc = "Timelapse Recording Browser"
)

// GetVersionString returns just the version number for programmatic use.
func GetVersionString() string {
	return AppVersion
}

// GetFullVersionString returns the application name with version for display.
// Example: "lapse v0.3.0"
func GetFullVersionString() string {
	return AppName + " v" + AppVersion
}

// GetAppTitle returns the complete application title including description.
func GetAppTitle() string {
	return AppName + " v" + AppVersion + " - " + AppDesc
}
