package system

import "testing"

func TestParseBrightnessctl(t *testing.T) {
	percent, err := parseBrightnessctl("intel_backlight,backlight,48000,80%,60000\n")
	if err != nil {
		t.Fatal(err)
	}
	if percent != 80 {
		t.Fatalf("expected 80, got %d", percent)
	}
}

func TestParseBrightnessctlNoPercent(t *testing.T) {
	if _, err := parseBrightnessctl("garbage"); err == nil {
		t.Fatal("expected error for output without a percentage")
	}
}

func TestAmixerVolumePattern(t *testing.T) {
	out := "Simple mixer control 'Master',0\n  Front Left: Playback 55982 [85%] [on]\n"
	match := amixerVolumePattern.FindStringSubmatch(out)
	if match == nil || match[1] != "85" {
		t.Fatalf("unexpected match: %v", match)
	}
}
