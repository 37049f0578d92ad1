// Package action implements the CLI flows: read the current level, change
// it, then tell the overlay what to draw.
package action
