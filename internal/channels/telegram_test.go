package channels

import (
	"context"
	"testing"
)

func TestTelegramAllowlistMatchesIDAndUsername(t *testing.T) {
	listener := NewTelegram("token", []string{"123456", "@SamSmith", "  ", ""})

	if !listener.isAllowedUser("123456", "") {
		t.Fatal("expected numeric ID to be allowed")
	}
	if !listener.isAllowedUser("999", "samsmith") {
		t.Fatal("expected username match to be case-insensitive")
	}
	if listener.isAllowedUser("999", "stranger") {
		t.Fatal("expected unknown user to be rejected")
	}
	if listener.isAllowedUser("999", "") {
		t.Fatal("expected empty username to be rejected")
	}
}

func TestTelegramListenRequiresToken(t *testing.T) {
	listener := NewTelegram("   ", nil)

	err := listener.Listen(context.Background(), &testHandler{})
	if err == nil {
		t.Fatal("expected missing token error")
	}
}

func TestMessagePreviewTruncates(t *testing.T) {
	if got := messagePreview("hello", 100); got != "hello" {
		t.Fatalf("unexpected preview %q", got)
	}
	if got := messagePreview("hello world", 5); got != "hello" {
		t.Fatalf("unexpected preview %q", got)
	}
	if got := messagePreview("hello", 0); got != "" {
		t.Fatalf("unexpected preview %q", got)
	}
}
