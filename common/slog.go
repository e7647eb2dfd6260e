package common

import "log/slog"

// SlogResetLevel sets the default slog level and returns a func restoring the old one.
// Pairs well with defer:
//
//	func TestQuiet(t *testing.T) {
//	    defer common.SlogResetLevel(slog.LevelError)()
func SlogResetLevel(level slog.Level) (reset func()) {
	oldLevel := slog.SetLogLoggerLevel(level)
	return func() {
		slog.SetLogLoggerLevel(oldLevel)
	}
}
