//go:build !linux || !cgo

package gpu

import "log/slog"

// detectNVML is unavailable without cgo on Linux; Detect falls through to
// the nvidia-smi backend.
func detectNVML(_ *slog.Logger) Probe { return nil }
