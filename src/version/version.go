package version

import "fmt"

// major is the major version number
const major = 2

// minor is the minor version number
const minor = 3

// patch is the patch version number
const patch = 0

// GetVersion returns the full version string for the current mash software
func GetVersion() string {
	return fmt.Sprintf("%d.%d.%d", major, minor, patch)
}

// GetBaseVersion returns the major minor version string, sketches written by the same base version are compatible
func GetBaseVersion() string {
	return fmt.Sprintf("%d.%d", major, minor)
}
