// Package dbus talks to systemd-logind over the system bus.
// It provides a brightness backend that reads the backlight level from
// sysfs and sets it through the logind Session.SetBrightness method,
// which works for the active session user without a setuid helper.
package dbus
