// Package level reads and changes audio volume and screen brightness
// through pluggable backends.
package level
