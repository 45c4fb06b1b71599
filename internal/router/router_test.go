package router

import (
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nexus-ai/nexus/internal/capability"
	"github.com/nexus-ai/nexus/internal/games"
	"github.com/nexus-ai/nexus/internal/profile"
)

type fakeSystem struct {
	battery    capability.Battery
	batteryErr error
	volume     int
	volumeErr  error
	brightness int
	opened     []string
	openErr    error
}

func (f *fakeSystem) ReadBattery(ctx context.Context) (capability.Battery, error) {
	return f.battery, f.batteryErr
}

func (f *fakeSystem) ReadVolume(ctx context.Context) (int, error) {
	return f.volume, f.volumeErr
}

func (f *fakeSystem) SetVolume(ctx context.Context, percent int) error {
	if f.volumeErr != nil {
		return f.volumeErr
	}
	f.volume = percent
	return nil
}

func (f *fakeSystem) ReadBrightness(ctx context.Context) (int, error) {
	return f.brightness, nil
}

func (f *fakeSystem) SetBrightness(ctx context.Context, percent int) error {
	f.brightness = percent
	return nil
}

func (f *fakeSystem) OpenTarget(ctx context.Context, kind capability.TargetKind, value string) error {
	if f.openErr != nil {
		return f.openErr
	}
	f.opened = append(f.opened, string(kind)+":"+value)
	return nil
}

type fakeSearcher struct {
	snippet string
	err     error
	queries []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	return f.snippet, f.err
}

type testEnv struct {
	router  *Router
	profile *profile.Store
	system  *fakeSystem
	search  *fakeSearcher
	today   *time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := profile.New(filepath.Join(t.TempDir(), "profile.json"), "Sam", "Nexus", 70, 80)
	system := &fakeSystem{volume: 70, brightness: 80}
	search := &fakeSearcher{}
	today := time.Date(2024, 5, 19, 10, 30, 0, 0, time.UTC)

	env := &testEnv{profile: store, system: system, search: search, today: &today}
	env.router = New(Options{
		Profile: store,
		Games:   games.NewWithRand(rand.New(rand.NewSource(1))),
		System:  system,
		Search:  search,
		Now:     func() time.Time { return *env.today },
		Rand:    rand.New(rand.NewSource(1)),
	})
	return env
}

func (e *testEnv) respond(text string) string {
	return e.router.Respond(context.Background(), text)
}

func TestAskBeforeTellCreatesPendingQuestion(t *testing.T) {
	env := newTestEnv(t)

	reply := env.respond("what is my favorite color")
	if reply != "I don't know your favorite color yet. What is it?" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if !env.router.HasPending() {
		t.Fatal("expected a pending question")
	}

	reply = env.respond("blue")
	if reply != "Got it! I'll remember your favorite color is blue." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if env.router.HasPending() {
		t.Fatal("pending question must be cleared after one turn")
	}

	value, ok := env.profile.Get(profile.CategoryUser, "favorite_color")
	if !ok || value.Text != "blue" {
		t.Fatalf("favorite color not stored: %v ok=%v", value, ok)
	}

	reply = env.respond("what is my favorite color")
	if reply != "Your favorite color is blue!" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestPendingAnswerSkipsIntentMatching(t *testing.T) {
	env := newTestEnv(t)

	env.respond("what is my favorite sport")
	reply := env.respond("good morning")
	if !strings.HasPrefix(reply, "Got it! I'll remember your favorite sport is") {
		t.Fatalf("pending answer must be consumed verbatim, got %q", reply)
	}
}

func TestPendingFailureStillClearsSlot(t *testing.T) {
	env := newTestEnv(t)

	env.respond("what is my birthday")
	reply := env.respond("not a date")
	if reply != "I couldn't save that information." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if env.router.HasPending() {
		t.Fatal("failed save must still clear the pending slot")
	}
}

func TestBirthDateAgeRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	reply := env.respond("my birthday is 2000-05-20")
	if reply != "Got it! I'll remember your birth date is 2000-05-20." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	*env.today = time.Date(2024, 5, 19, 0, 0, 0, 0, time.UTC)
	if reply := env.respond("what is my age"); reply != "You are 23 years old!" {
		t.Fatalf("day before birthday: %q", reply)
	}

	*env.today = time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	if reply := env.respond("what is my age"); reply != "You are 24 years old!" {
		t.Fatalf("on birthday: %q", reply)
	}

	if reply := env.respond("what is my birth date"); reply != "Your birth date is May 20, 2000" {
		t.Fatalf("unexpected birth date reply: %q", reply)
	}
}

func TestInvalidBirthDateTellForm(t *testing.T) {
	env := newTestEnv(t)

	reply := env.respond("my birth date is tomorrow")
	if reply != "I couldn't save your birth date. Please try again with format YYYY-MM-DD." {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestArithmetic(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		input string
		want  string
	}{
		{"calculate 2 plus 2", "The result is: 4"},
		{"what is 10 divided by 2", "The result is: 5"},
		{"calculate 3 times 4", "I couldn't understand or calculate that mathematical expression."},
		{"calculate banana", "I couldn't understand or calculate that mathematical expression."},
		{"what is 2 to the power of 3", "I couldn't understand or calculate that mathematical expression."},
		{"calculate (1 + 2) * 3", "The result is: 9"},
		{"calculate 10 over 4", "The result is: 2.5"},
	}
	for _, tt := range tests {
		if got := env.respond(tt.input); got != tt.want {
			t.Errorf("respond(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGameLifecycleThroughRouter(t *testing.T) {
	env := newTestEnv(t)

	reply := env.respond("let's play tic tac toe")
	if !strings.Contains(reply, "Tic Tac Toe") {
		t.Fatalf("unexpected intro: %q", reply)
	}
	if !env.router.GameActive() {
		t.Fatal("expected active game")
	}

	reply = env.respond("play game hangman")
	if reply != "We're already playing a game! Say 'quit game' to stop." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	reply = env.respond("1")
	if !strings.Contains(reply, " | ") {
		t.Fatalf("expected a rendered board, got %q", reply)
	}

	reply = env.respond("quit game")
	if reply != "Game ended. Let me know if you want to play again!" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if env.router.GameActive() {
		t.Fatal("game must be inactive after quit")
	}
}

func TestIntentsStillFireDuringGame(t *testing.T) {
	env := newTestEnv(t)

	env.respond("play game guess the number")
	reply := env.respond("what time is it")
	if !strings.HasPrefix(reply, "The current time is") {
		t.Fatalf("intent must win over game dispatch, got %q", reply)
	}
	if !env.router.GameActive() {
		t.Fatal("game must survive an intent turn")
	}
}

func TestVolumeSetClampsAndPersists(t *testing.T) {
	env := newTestEnv(t)

	reply := env.respond("set volume to 150%")
	if reply != "Volume set to 100%." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if env.system.volume != 100 {
		t.Fatalf("capability volume = %d", env.system.volume)
	}
	if env.profile.Volume() != 100 {
		t.Fatalf("profile volume = %d", env.profile.Volume())
	}

	if reply := env.respond("set volume to loud"); reply != "I couldn't understand the volume level you requested." {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestVolumeCapabilityFailure(t *testing.T) {
	env := newTestEnv(t)
	env.system.volumeErr = capability.ErrUnavailable

	if reply := env.respond("volume"); reply != "I couldn't access volume information." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if reply := env.respond("set volume to 30"); reply != "I couldn't change the volume." {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestBrightnessChangeForm(t *testing.T) {
	env := newTestEnv(t)

	if reply := env.respond("change brightness to 40"); reply != "Brightness set to 40%." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if env.system.brightness != 40 {
		t.Fatalf("capability brightness = %d", env.system.brightness)
	}
	if reply := env.respond("brightness"); reply != "The current brightness is at 40%." {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestBatteryReply(t *testing.T) {
	env := newTestEnv(t)
	env.system.battery = capability.Battery{Percent: 85, Charging: true}

	if reply := env.respond("battery"); reply != "Your battery is at 85% and currently charging." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	env.system.batteryErr = capability.ErrUnavailable
	if reply := env.respond("battery"); reply != "I couldn't access battery information." {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestOpenWebsiteAlias(t *testing.T) {
	env := newTestEnv(t)

	reply := env.respond("open youtube")
	if reply != "Opening Youtube in your default browser." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(env.system.opened) != 1 || env.system.opened[0] != "url:https://www.youtube.com" {
		t.Fatalf("unexpected open targets: %v", env.system.opened)
	}

	reply = env.respond("open example.org")
	if reply != "Attempting to open https://example.org in your browser." {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestPlayMusic(t *testing.T) {
	env := newTestEnv(t)

	reply := env.respond("play some jazz music")
	if reply != "Searching for 'some jazz' in Spotify." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(env.system.opened) != 1 || env.system.opened[0] != "music:some jazz" {
		t.Fatalf("unexpected open targets: %v", env.system.opened)
	}
}

func TestOpenDisabledDuringGame(t *testing.T) {
	env := newTestEnv(t)

	env.respond("play game guess the number")
	reply := env.respond("open youtube")
	if strings.Contains(reply, "browser") {
		t.Fatalf("open intent must be suppressed during a game, got %q", reply)
	}
	if len(env.system.opened) != 0 {
		t.Fatalf("no target should be opened, got %v", env.system.opened)
	}
}

func TestWebSearchToggle(t *testing.T) {
	env := newTestEnv(t)
	env.search.snippet = "Paris is the capital of France."

	reply := env.respond("who is marie curie")
	if reply == env.search.snippet {
		t.Fatal("web search must be off by default")
	}

	env.router.SetWebSearchEnabled(true)
	reply = env.respond("who is marie curie")
	if reply != env.search.snippet {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(env.search.queries) != 1 || env.search.queries[0] != "marie curie" {
		t.Fatalf("unexpected queries: %v", env.search.queries)
	}
}

func TestWebSearchNoAnswer(t *testing.T) {
	env := newTestEnv(t)
	env.router.SetWebSearchEnabled(true)
	env.search.err = capability.ErrNoAnswer

	reply := env.respond("search for something obscure")
	want := "I found some results for 'something obscure' but couldn't extract a concise answer. Would you like me to open the search in your browser?"
	if reply != want {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestWebSearchError(t *testing.T) {
	env := newTestEnv(t)
	env.router.SetWebSearchEnabled(true)
	env.search.err = errors.New("connection refused")

	reply := env.respond("search for anything")
	if !strings.HasPrefix(reply, "I encountered an error while searching:") {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestRenameBotAndUser(t *testing.T) {
	env := newTestEnv(t)

	reply := env.respond("change your name to Nova.")
	if reply != "Understood! You can now call me Nova." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if env.profile.BotName() != "Nova" {
		t.Fatalf("bot name = %q", env.profile.BotName())
	}

	reply = env.respond("my name is Alex")
	if reply != "Got it! I'll call you Alex from now on." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if env.profile.UserName() != "Alex" {
		t.Fatalf("user name = %q", env.profile.UserName())
	}
}

func TestGreetingUsesConfiguredName(t *testing.T) {
	env := newTestEnv(t)

	reply := env.respond("hello")
	if !strings.Contains(reply, "Sam") {
		t.Fatalf("greeting must mention the user, got %q", reply)
	}
}

func TestGreetingNeedsWholeWord(t *testing.T) {
	env := newTestEnv(t)

	reply := env.respond("this")
	if strings.Contains(reply, "Sam") {
		t.Fatalf("substring must not trigger a greeting, got %q", reply)
	}
}

func TestUniversityQuery(t *testing.T) {
	env := newTestEnv(t)

	reply := env.respond("where do i study")
	if reply != "You study at East West Institute Of Technology" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestFallbackClosestMatch(t *testing.T) {
	env := newTestEnv(t)

	reply := env.respond("how are yoo")
	if !strings.HasPrefix(reply, "I'm functioning optimally") {
		t.Fatalf("expected close-match canned answer, got %q", reply)
	}

	reply = env.respond("zzzzzz qqqqqq")
	if reply != fallbackReply {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestOpenLink(t *testing.T) {
	env := newTestEnv(t)

	reply := env.respond("open this link https://example.org/page")
	if reply != "Opening https://example.org/page for you!" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	reply = env.respond("open this link please")
	if reply != "It'll be helpful if you provide the link." {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestTimeAndDateFormatting(t *testing.T) {
	env := newTestEnv(t)
	*env.today = time.Date(2024, 5, 19, 14, 30, 5, 0, time.UTC)

	if reply := env.respond("what time is it"); reply != "The current time is 02:30 PM." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if reply := env.respond("what is the time"); reply != "The current time is 14:30:05." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if reply := env.respond("today's date"); reply != "Today's date is May 19, 2024." {
		t.Fatalf("unexpected reply: %q", reply)
	}
}
