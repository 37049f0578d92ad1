// Package display draws the overlay: an icon next to a level bar in a
// layer-shell window anchored to the bottom of the screen. The mapping
// from a request to icon and bar geometry is pure and lives in present.go.
package display
