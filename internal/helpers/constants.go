// Package helpers provides utility functions and constants shared by the
// export pipeline.
package helpers

// File extensions
const (
	ExtTmp  = ".tmp"
	ExtLock = ".lock"
)

// ShareScheme replaces the share directory prefix in physical file URIs.
const ShareScheme = "share://"

// Timestamp layout used in dump file names (yyyyMMddHHmmssSSS).
const FileTimestampLayout = "20060102150405.000"
