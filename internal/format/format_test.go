package format

import "testing"

func TestBytes(t *testing.T) {
	tests := []struct {
		name string
		in   uint64
		want string
	}{
		{"bytes", 512, "512 B"},
		{"kib", 2048, "2.0 KiB"},
		{"mib", 5 * 1024 * 1024, "5.0 MiB"},
		{"gib", 16 * 1024 * 1024 * 1024, "16.0 GiB"},
		{"fractional", 1536, "1.5 KiB"},
		{"zero", 0, "0 B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bytes(tt.in); got != tt.want {
				t.Errorf("Bytes(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(42.55); got != "42.5%" && got != "42.6%" {
		t.Errorf("Percent(42.55) = %q", got)
	}
	if got := Percent(0); got != "0.0%" {
		t.Errorf("Percent(0) = %q", got)
	}
}

func TestMHz(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{800, "800 MHz"},
		{999, "999 MHz"},
		{1000, "1.00 GHz"},
		{3400, "3.40 GHz"},
	}

	for _, tt := range tests {
		if got := MHz(tt.in); got != tt.want {
			t.Errorf("MHz(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUptime(t *testing.T) {
	tests := []struct {
		name string
		in   uint64
		want string
	}{
		{"seconds", 45, "45s"},
		{"minutes", 330, "5m 30s"},
		{"hours", 8100, "2h 15m"},
		{"days", 3*86400 + 4*3600, "3d 4h"},
		{"zero", 0, "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Uptime(tt.in); got != tt.want {
				t.Errorf("Uptime(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		maxWidth int
		want     string
	}{
		{"fits", "short", 10, "short"},
		{"exact", "exact", 5, "exact"},
		{"truncated", "a very long string", 10, "a very ..."},
		{"tiny width", "abcdef", 3, "abc"},
		{"zero width", "abc", 0, ""},
		{"unicode", "héllo wörld", 8, "héllo..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateWithEllipsis(tt.in, tt.maxWidth); got != tt.want {
				t.Errorf("TruncateWithEllipsis(%q, %d) = %q, want %q",
					tt.in, tt.maxWidth, got, tt.want)
			}
		})
	}
}
