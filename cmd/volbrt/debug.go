//go:build debug

package main

// debugBuild is set by building with -tags debug.
const debugBuild = true
