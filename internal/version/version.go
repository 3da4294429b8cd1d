// Package version contains the fieldctl version.
package version

// Version is the fieldctl version.
const Version = "0.3.0"
