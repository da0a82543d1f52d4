package progress

import (
	"strings"
	"testing"
	"time"
)

func TestBarSet(t *testing.T) {
	bar := NewBar("test", 100, 0)

	bar.Set(50)
	if bar.currentValue != 50 {
		t.Errorf("currentValue = %d, want 50", bar.currentValue)
	}

	bar.Set(150)
	if bar.currentValue != 100 {
		t.Errorf("currentValue = %d, want 100 (clamped to max)", bar.currentValue)
	}
}

func TestBarPercent(t *testing.T) {
	tests := []struct {
		name         string
		maxValue     int64
		currentValue int64
		want         float64
	}{
		{"0%", 100, 0, 0},
		{"50%", 100, 50, 50},
		{"100%", 100, 100, 100},
		{"25%", 1000, 250, 25},
		{"zero max", 0, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar("", tt.maxValue, 0)
			bar.currentValue = tt.currentValue
			if got := bar.percent(); got != tt.want {
				t.Errorf("percent() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestBarString(t *testing.T) {
	bar := NewBar("pulling 0123456789ab", 1000, 0)
	bar.Set(500)

	str := bar.String()
	if !strings.HasPrefix(str, "pulling 0123456789ab") {
		t.Errorf("String() should start with the message, got %q", str)
	}

	if !strings.Contains(str, " 50% ") {
		t.Errorf("String() should contain '50%%', got %q", str)
	}

	if !strings.Contains(str, "(500 B/1.0 KB)") {
		t.Errorf("String() should contain the byte counts, got %q", str)
	}

	if !strings.Contains(str, "▕") || !strings.Contains(str, "▏") {
		t.Error("String() should contain progress bar boundary characters")
	}
}

func TestBarStringComplete(t *testing.T) {
	bar := NewBar("done", 1000, 1000)

	if str := bar.String(); !strings.Contains(str, "100%") {
		t.Errorf("String() should contain '100%%', got %q", str)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{"zero", 0, "0s"},
		{"seconds", 45 * time.Second, "45s"},
		{"minutes and seconds", 5*time.Minute + 30*time.Second, "5m30s"},
		{"one hour", time.Hour, "1h0m"},
		{"hours and minutes", 2*time.Hour + 15*time.Minute, "2h15m"},
		{"99+ hours", 100 * time.Hour, "99h+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDuration(tt.duration); got != tt.want {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.duration, got, tt.want)
			}
		})
	}
}
