package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{"start", "chat", "config", "version"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Fatalf("find %s command: %v", name, err)
		}
		if sub == nil || sub.Name() != name {
			t.Fatalf("%s command not registered", name)
		}
	}
}

func TestChatOneShotPrompt(t *testing.T) {
	homeDir := filepath.Join(t.TempDir(), ".nexus")
	t.Setenv("NEXUS_HOME", homeDir)
	writeValidConfig(t, homeDir)

	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"chat", "-p", "my favorite color is blue"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute chat command: %v", err)
	}

	got := strings.TrimSpace(out.String())
	if got != "Got it! I'll remember your favorite color is blue." {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestChatOneShotRejectsSlashCommands(t *testing.T) {
	homeDir := filepath.Join(t.TempDir(), ".nexus")
	t.Setenv("NEXUS_HOME", homeDir)
	writeValidConfig(t, homeDir)

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"chat", "-p", "/help"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected slash command rejection")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute version: %v", err)
	}
	if !strings.Contains(out.String(), "Nexus") {
		t.Fatalf("unexpected version output %q", out.String())
	}
}

func writeValidConfig(t *testing.T, homeDir string) {
	t.Helper()
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home dir: %v", err)
	}
	configBody := `
[identity]
user_name = "Sam"
bot_name = "Nexus"

[channels.cli]
enabled = true
`
	if err := os.WriteFile(filepath.Join(homeDir, "config.toml"), []byte(configBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
