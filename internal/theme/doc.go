// Package theme loads the overlay stylesheet. The user's style.css lives in
// the config directory and is created from the embedded default on first
// run; it may @import bundled themes by file name.
package theme
