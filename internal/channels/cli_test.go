package channels

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nexus-ai/nexus/internal/runtime"
)

type testHandler struct {
	messages []string
	response string
	err      error
}

func (h *testHandler) HandleMessage(ctx context.Context, w runtime.ResponseWriter, msg *runtime.Message) error {
	h.messages = append(h.messages, msg.Text)
	if h.err != nil {
		return h.err
	}
	return w.WriteMessage(ctx, h.response)
}

func TestCLIListenerDispatchesMessages(t *testing.T) {
	out := &bytes.Buffer{}
	listener := NewCLI(strings.NewReader("hello\n"), out)

	handler := &testHandler{response: "ok"}
	if err := listener.Listen(context.Background(), handler); err != nil {
		t.Fatalf("listen: %v", err)
	}

	if len(handler.messages) != 1 || handler.messages[0] != "hello" {
		t.Fatalf("expected one dispatched message, got %#v", handler.messages)
	}
	if got := out.String(); !strings.Contains(got, "nexus> ok") {
		t.Fatalf("expected bot output, got %q", got)
	}
}

func TestCLIListenerPrintsBanner(t *testing.T) {
	out := &bytes.Buffer{}
	listener := NewCLI(strings.NewReader(""), out, "Hello Sam!", "Battery: 80% (Discharging)")

	if err := listener.Listen(context.Background(), &testHandler{}); err != nil {
		t.Fatalf("listen: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Hello Sam!") || !strings.Contains(got, "Battery: 80%") {
		t.Fatalf("expected banner lines, got %q", got)
	}
}

func TestCLIListenerExitsOnExitCommands(t *testing.T) {
	out := &bytes.Buffer{}
	listener := NewCLI(strings.NewReader("/exit\nignored\n"), out)
	handler := &testHandler{response: "unused"}

	if err := listener.Listen(context.Background(), handler); err != nil {
		t.Fatalf("listen: %v", err)
	}
	if len(handler.messages) != 0 {
		t.Fatalf("expected no handler calls, got %#v", handler.messages)
	}
	if got := out.String(); !strings.Contains(got, "nexus> Goodbye!") {
		t.Fatalf("expected goodbye output, got %q", got)
	}
}

func TestCLIListenerReportsHandlerError(t *testing.T) {
	out := &bytes.Buffer{}
	listener := NewCLI(strings.NewReader("hello\n"), out)
	handler := &testHandler{err: errors.New("boom")}

	if err := listener.Listen(context.Background(), handler); err != nil {
		t.Fatalf("listen: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "Something went wrong handling that message.") {
		t.Fatalf("expected error reply, got %q", got)
	}
}
