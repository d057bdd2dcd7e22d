// Package meta holds build metadata shared by the library and the CLI.
package meta

// Version is the gohanamcp release version.
const Version = "1.0.0"
