// Package audio plays the optional volume feedback sound.
// It uses the beep library to decode WAV, OGG and MP3 files.
package audio
