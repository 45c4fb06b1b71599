package router

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/nexus-ai/nexus/internal/calc"
	"github.com/nexus-ai/nexus/internal/capability"
	"github.com/nexus-ai/nexus/internal/profile"
)

var urlPattern = regexp.MustCompile(`(https?://\S+|www\.\S+)`)

var siteAliases = map[string]string{
	"youtube":       "https://www.youtube.com",
	"google":        "https://www.google.com",
	"facebook":      "https://www.facebook.com",
	"twitter":       "https://www.twitter.com",
	"instagram":     "https://www.instagram.com",
	"linkedin":      "https://www.linkedin.com",
	"reddit":        "https://www.reddit.com",
	"wikipedia":     "https://www.wikipedia.org",
	"amazon":        "https://www.amazon.com",
	"netflix":       "https://www.netflix.com",
	"spotify":       "https://www.spotify.com",
	"github":        "https://www.github.com",
	"stackoverflow": "https://stackoverflow.com",
}

// intentList is the total order of the cascade. Ask forms come before their
// tell forms so a stored-value question is never shadowed by the broader
// tell phrasing, and specific trigger phrases come before general ones.
func (r *Router) intentList() []intent {
	return []intent{
		{
			name:   "yes",
			match:  func(n string) bool { return n == "yes" },
			handle: reply("Great! What would you like to share with me?"),
		},
		{
			name: "ask favorite color",
			match: func(n string) bool {
				return containsAny(n, "what is my favorite color", "what is my favourite color", "what is my favourite colour")
			},
			handle: func(ctx context.Context, raw, n string) string {
				value, ok := r.profile.Get(profile.CategoryUser, "favorite_color")
				if !ok {
					r.ask(profile.CategoryUser, "favorite_color")
					return "I don't know your favorite color yet. What is it?"
				}
				return fmt.Sprintf("Your favorite color is %s!", value.String())
			},
		},
		{
			name: "tell favorite color",
			match: func(n string) bool {
				return containsAny(n, "my favorite color is", "my favourite color is", "my favourite colour is")
			},
			handle: func(ctx context.Context, raw, n string) string {
				color := strings.TrimSpace(afterFirst(raw, "is"))
				if err := r.profile.Set(profile.CategoryUser, "favorite_color", color); err != nil {
					return "I couldn't save your favorite color. Please try again."
				}
				return fmt.Sprintf("Got it! I'll remember your favorite color is %s.", color)
			},
		},
		{
			name: "ask favorite sport",
			match: func(n string) bool {
				return containsAny(n, "what is my favorite sport", "what is my favourite sport")
			},
			handle: func(ctx context.Context, raw, n string) string {
				value, ok := r.profile.Get(profile.CategoryUser, "favorite_sport")
				if !ok {
					r.ask(profile.CategoryUser, "favorite_sport")
					return "I don't know your favorite sport yet. What is it?"
				}
				return fmt.Sprintf("Your favorite sport is %s!", value.String())
			},
		},
		{
			name: "tell favorite sport",
			match: func(n string) bool {
				return containsAny(n, "my favorite sport is", "my favourite sport is")
			},
			handle: func(ctx context.Context, raw, n string) string {
				sport := strings.TrimSpace(afterFirst(raw, "is"))
				if err := r.profile.Set(profile.CategoryUser, "favorite_sport", sport); err != nil {
					return "I couldn't save your favorite sport. Please try again."
				}
				return fmt.Sprintf("Got it! I'll remember your favorite sport is %s.", sport)
			},
		},
		{
			name: "ask birth date",
			match: func(n string) bool {
				return containsAny(n, "what is my birth date", "what is my birthday")
			},
			handle: func(ctx context.Context, raw, n string) string {
				value, ok := r.profile.Get(profile.CategoryUser, "birth_date")
				if !ok {
					r.ask(profile.CategoryUser, "birth_date")
					return "I don't know your birth date yet. Please tell me (format: YYYY-MM-DD)"
				}
				return fmt.Sprintf("Your birth date is %s", value.Date.Format())
			},
		},
		{
			name: "tell birth date",
			match: func(n string) bool {
				return containsAny(n, "my birth date is", "my birthday is")
			},
			handle: func(ctx context.Context, raw, n string) string {
				dateStr := strings.TrimSpace(afterFirst(raw, "is"))
				if err := r.profile.Set(profile.CategoryUser, "birth_date", dateStr); err != nil {
					return "I couldn't save your birth date. Please try again with format YYYY-MM-DD."
				}
				return fmt.Sprintf("Got it! I'll remember your birth date is %s.", dateStr)
			},
		},
		{
			name:  "ask age",
			match: func(n string) bool { return strings.Contains(n, "what is my age") },
			handle: func(ctx context.Context, raw, n string) string {
				value, ok := r.profile.Get(profile.CategoryUser, "birth_date")
				if !ok {
					r.ask(profile.CategoryUser, "birth_date")
					return "I don't know your birth date yet. Please tell me (format: YYYY-MM-DD) so I can calculate your age."
				}
				age := profile.ComputeAge(value.Date, r.now())
				return fmt.Sprintf("You are %d years old!", age)
			},
		},
		{
			name: "university",
			match: func(n string) bool {
				return containsAny(n, "what university do i go to", "where do i study")
			},
			handle: func(ctx context.Context, raw, n string) string {
				value, ok := r.profile.Get(profile.CategoryUser, "university")
				if !ok {
					return "I don't know which university you go to yet."
				}
				return fmt.Sprintf("You study at %s", value.String())
			},
		},
		canned("hear me", "can you hear me", "Yes, I can hear you perfectly! How can I assist you?"),
		canned("see me", "can you see me", "I can't see you, but I can understand everything you type!"),
		canned("teach", "can you teach", "Sorry I'm still learning"),
		{
			name: "open link",
			match: func(n string) bool {
				return containsAny(n, "open this link ", "can you open this link ")
			},
			handle: func(ctx context.Context, raw, n string) string {
				if strings.Contains(n, "can you open this link ") {
					return "It'll be helpful if you provide the link"
				}
				u := urlPattern.FindString(raw)
				if u == "" {
					return "It'll be helpful if you provide the link."
				}
				if !strings.HasPrefix(u, "http") {
					u = "http://" + u
				}
				if err := r.system.OpenTarget(ctx, capability.TargetURL, u); err != nil {
					return fmt.Sprintf("I couldn't open %s for you.", u)
				}
				return fmt.Sprintf("Opening %s for you!", u)
			},
		},
		canned("listening", "are you listening", "Absolutely! I'm all ears (well, sort of 😄)."),
		canned("real", "are you real", "I'm real in the digital world, just like your favorite video game character!"),
		canned("robot", "are you a robot", "Not quite! I'm an AI, smarter than a robot in some ways."),
		canned("human", "are you human", "I'm not human, but I'm designed to talk like one!"),
		canned("capabilities", "what can you do", "I can chat, answer questions, tell jokes, search information, and more!"),
		{
			name: "write code",
			match: func(n string) bool {
				return strings.Contains(n, "give me") && strings.Contains(n, "code")
			},
			handle: reply("haha I'm just a baby 🥺"),
		},
		canned("bot age", "how old are you", "I was created quite recently, so you could say I'm forever young!"),
		canned("sleep", "do you sleep", "Nope! I'm always awake and ready whenever you need me."),
		canned("awake", "are you awake", "I'm wide awake and ready to help!"),
		canned("feelings", "do you have feelings", "I don't have feelings, but I'm great at understanding yours!"),
		canned("love", "do you love me", "I don't have emotions, but I'm here for you always! ❤"),
		canned("meaning of life", "what is the meaning of life", "42. Just kidding 😄 It depends on how you define your purpose!"),
		canned("help me", "can you help me", "Of course! Tell me what you need help with."),
		canned("presence", "are you there", "Yes, I'm right here. How can I assist you?"),
		canned("good morning", "good morning", "Good morning! Hope you have a great day ahead!"),
		canned("good night", "good night", "Good night! Sweet dreams 🌙"),
		canned("thanks", "thank you", "You're most welcome!"),
		{
			name: "time",
			match: func(n string) bool {
				return containsAny(n, "what time is it", "current time")
			},
			handle: func(ctx context.Context, raw, n string) string {
				return r.now().Format("The current time is 03:04 PM.")
			},
		},
		{
			name: "date today",
			match: func(n string) bool {
				return containsAny(n, "what's the date today", "today's date")
			},
			handle: func(ctx context.Context, raw, n string) string {
				return r.now().Format("Today's date is January 02, 2006.")
			},
		},
		canned("creator", "who created you", "I was created by a student with a passion for code and AI!"),
		canned("identity", "who am i", "You're the amazing person talking to me right now!"),
		{
			name: "rename bot",
			match: func(n string) bool {
				return containsAny(n, "your name is", "call you", "change your name to")
			},
			handle: func(ctx context.Context, raw, n string) string {
				markers := []string{
					"i want to call you as",
					"i'd like to call you",
					"i want to call you",
					"change your name to",
					"your name is",
					"call you",
				}
				var newName string
				for _, marker := range markers {
					if strings.Contains(n, marker) {
						newName = afterFirst(raw, marker)
						break
					}
				}
				newName = cutSentence(newName)
				if newName == "" {
					return "I didn't catch the new name. Please try again like: 'Call you Nova'"
				}
				r.profile.SetBotName(newName)
				return fmt.Sprintf("Understood! You can now call me %s.", newName)
			},
		},
		{
			name: "greeting",
			match: func(n string) bool {
				return hasWord(n, "hi") || hasWord(n, "hello") || hasWord(n, "hey")
			},
			handle: func(ctx context.Context, raw, n string) string {
				user := r.profile.UserName()
				return r.pick(
					fmt.Sprintf("Hello %s! How can I assist you today?", user),
					fmt.Sprintf("Hi there %s! What can I do for you?", user),
					fmt.Sprintf("Greetings %s! How may I help?", user),
				)
			},
		},
		{
			name: "what next",
			match: func(n string) bool {
				return hasWord(n, "then") || containsAny(n, "whats next", "what's next")
			},
			handle: func(ctx context.Context, raw, n string) string {
				user := r.profile.UserName()
				return r.pick(
					fmt.Sprintf("Then.. what %s Do you want to share anything with me?", user),
					fmt.Sprintf("You need to tell me %s", user),
					fmt.Sprintf("What's next! %s How may I help?", user),
				)
			},
		},
		{
			name: "farewell",
			match: func(n string) bool {
				return hasWord(n, "bye") || containsAny(n, "goodbye", "see you")
			},
			handle: func(ctx context.Context, raw, n string) string {
				user := r.profile.UserName()
				return r.pick(
					fmt.Sprintf("Goodbye %s! Have a great day!", user),
					fmt.Sprintf("See you later %s!", user),
					fmt.Sprintf("Farewell %s! Come back soon!", user),
					fmt.Sprintf("K bye %s! I will be waiting for you ❤", user),
				)
			},
		},
		{
			name:  "rename user",
			match: func(n string) bool { return strings.Contains(n, "my name is") },
			handle: func(ctx context.Context, raw, n string) string {
				newName := strings.TrimSpace(afterFirst(raw, "my name is"))
				if newName == "" {
					return "I didn't catch your name. Please try again."
				}
				r.profile.SetUserName(newName)
				return fmt.Sprintf("Got it! I'll call you %s from now on.", newName)
			},
		},
		{
			name:  "time long form",
			match: func(n string) bool { return strings.Contains(n, "what is the time") },
			handle: func(ctx context.Context, raw, n string) string {
				return r.now().Format("The current time is 15:04:05.")
			},
		},
		{
			name: "date long form",
			match: func(n string) bool {
				return containsAny(n, "what is the date", "what date is it")
			},
			handle: func(ctx context.Context, raw, n string) string {
				return r.now().Format("Today's date is January 02, 2006.")
			},
		},
		{
			name:  "battery",
			match: func(n string) bool { return strings.Contains(n, "battery") },
			handle: func(ctx context.Context, raw, n string) string {
				b, err := r.system.ReadBattery(ctx)
				if err != nil {
					return "I couldn't access battery information."
				}
				status := "discharging"
				if b.Charging {
					status = "charging"
				}
				return fmt.Sprintf("Your battery is at %d%% and currently %s.", b.Percent, status)
			},
		},
		{
			name:   "volume",
			match:  func(n string) bool { return strings.Contains(n, "volume") },
			handle: r.handleVolume,
		},
		{
			name:   "brightness",
			match:  func(n string) bool { return strings.Contains(n, "brightness") },
			handle: r.handleBrightness,
		},
		{
			name:   "arithmetic",
			match:  isArithmetic,
			handle: r.handleArithmetic,
		},
		{
			name: "web search",
			match: func(n string) bool {
				return r.webSearch.Load() && containsAny(n, "what is", "who is", "search for")
			},
			handle: r.handleWebSearch,
		},
		{
			name: "open folder",
			match: func(n string) bool {
				return containsAny(n, "open folder", "open directory")
			},
			handle: func(ctx context.Context, raw, n string) string {
				path := afterFirst(raw, "open")
				path = strings.ReplaceAll(path, "folder", "")
				path = strings.ReplaceAll(path, "directory", "")
				path = strings.TrimSpace(path)
				if err := r.system.OpenTarget(ctx, capability.TargetFolder, path); err != nil {
					return "I couldn't open that folder."
				}
				if path == "" {
					if home, err := os.UserHomeDir(); err == nil {
						path = home
					}
				}
				return fmt.Sprintf("Opening folder: %s", path)
			},
		},
		{
			name: "open website",
			match: func(n string) bool {
				return strings.Contains(n, "open ") && !r.games.Active()
			},
			handle: func(ctx context.Context, raw, n string) string {
				site := strings.TrimSpace(afterFirst(raw, "open "))
				key := strings.ToLower(site)
				if url, ok := siteAliases[key]; ok {
					if err := r.system.OpenTarget(ctx, capability.TargetURL, url); err != nil {
						return fmt.Sprintf("I don't know how to open %s. Try specifying a well-known website or a complete URL.", site)
					}
					return fmt.Sprintf("Opening %s in your default browser.", capitalize(key))
				}
				target := site
				if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
					target = "https://" + target
				}
				if err := r.system.OpenTarget(ctx, capability.TargetURL, target); err != nil {
					return fmt.Sprintf("I don't know how to open %s. Try specifying a well-known website or a complete URL.", site)
				}
				return fmt.Sprintf("Attempting to open %s in your browser.", target)
			},
		},
		{
			name: "play music",
			match: func(n string) bool {
				return strings.Contains(n, "play ") && containsAny(n, "song", "music") && !r.games.Active()
			},
			handle: func(ctx context.Context, raw, n string) string {
				song := afterFirst(raw, "play ")
				song = strings.ReplaceAll(song, "song", "")
				song = strings.ReplaceAll(song, "music", "")
				song = strings.TrimSpace(song)
				if err := r.system.OpenTarget(ctx, capability.TargetMusic, song); err != nil {
					return "I couldn't launch Spotify. Make sure it's installed and properly configured."
				}
				return fmt.Sprintf("Searching for '%s' in Spotify.", song)
			},
		},
		{
			name: "play game",
			match: func(n string) bool {
				return containsAny(n, "play game", "let's play")
			},
			handle: func(ctx context.Context, raw, n string) string {
				name := strings.ReplaceAll(afterFirst(raw, "play"), "game", "")
				return r.games.Start(name)
			},
		},
	}
}

func (r *Router) handleVolume(ctx context.Context, raw, n string) string {
	switch {
	case containsAny(n, "set volume to", "change volume to"):
		keyword := "set volume to"
		if !strings.Contains(n, keyword) {
			keyword = "change volume to"
		}
		level, err := parsePercent(afterFirst(raw, keyword))
		if err != nil {
			return "I couldn't understand the volume level you requested."
		}
		if err := r.system.SetVolume(ctx, level); err != nil {
			return "I couldn't change the volume."
		}
		r.profile.SetVolume(level)
		return fmt.Sprintf("Volume set to %d%%.", level)
	case strings.Contains(n, "i want to change the volume"):
		return "Ok, at what level should I set the volume to?"
	default:
		level, err := r.system.ReadVolume(ctx)
		if err != nil {
			return "I couldn't access volume information."
		}
		return fmt.Sprintf("The current volume is at %d%%.", level)
	}
}

func (r *Router) handleBrightness(ctx context.Context, raw, n string) string {
	if containsAny(n, "set brightness to", "change brightness to") {
		keyword := "set brightness to"
		if !strings.Contains(n, keyword) {
			keyword = "change brightness to"
		}
		level, err := parsePercent(afterFirst(raw, keyword))
		if err != nil {
			return "I couldn't understand the brightness level you requested."
		}
		if err := r.system.SetBrightness(ctx, level); err != nil {
			return "I couldn't change the brightness."
		}
		r.profile.SetBrightness(level)
		return fmt.Sprintf("Brightness set to %d%%.", level)
	}
	level, err := r.system.ReadBrightness(ctx)
	if err != nil {
		return "I couldn't access brightness information."
	}
	return fmt.Sprintf("The current brightness is at %d%%.", level)
}

// isArithmetic fires on "calculate", or on "what is" combined with an
// operator, spelled out or literal.
func isArithmetic(n string) bool {
	if strings.Contains(n, "calculate") {
		return true
	}
	if !strings.Contains(n, "what is") {
		return false
	}
	if strings.ContainsAny(n, "+-*/^") {
		return true
	}
	for _, word := range []string{"plus", "minus", "over", "times"} {
		if hasWord(n, word) {
			return true
		}
	}
	return containsAny(n, "divided by", "multiplied by", "to the power of", "raised to")
}

func (r *Router) handleArithmetic(ctx context.Context, raw, n string) string {
	expr := raw
	if strings.Contains(n, "calculate") {
		expr = afterFirst(raw, "calculate")
	} else if strings.Contains(n, "what is") {
		expr = afterFirst(raw, "what is")
	}

	value, err := calc.Eval(rewriteOperators(expr))
	if err != nil {
		return "I couldn't understand or calculate that mathematical expression."
	}
	return "The result is: " + calc.Format(value)
}

// rewriteOperators maps spelled-out operators to symbols and strips anything
// that is not part of an arithmetic expression. Exponent markers are dropped
// along with the rest, so power requests fail the later parse instead of
// silently computing something else.
func rewriteOperators(expr string) string {
	replacer := strings.NewReplacer(
		"plus", "+",
		"minus", "-",
		"multiplied by", "",
		"times", "",
		"divided by", "/",
		"over", "/",
		"to the power of", "^",
		"raised to", "^",
	)
	expr = replacer.Replace(strings.ToLower(expr))

	var b strings.Builder
	for _, c := range expr {
		if strings.ContainsRune("0123456789+-*/.() ", c) {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func (r *Router) handleWebSearch(ctx context.Context, raw, n string) string {
	query := strings.TrimSpace(raw)
	for _, marker := range []string{"what is", "who is", "search for"} {
		if strings.Contains(n, marker) {
			query = strings.TrimSpace(afterFirst(raw, marker))
			break
		}
	}

	if r.search == nil {
		return fmt.Sprintf("I found some results for '%s' but couldn't extract a concise answer. Would you like me to open the search in your browser?", query)
	}
	snippet, err := r.search.Search(ctx, query)
	switch {
	case errors.Is(err, capability.ErrNoAnswer):
		return fmt.Sprintf("I found some results for '%s' but couldn't extract a concise answer. Would you like me to open the search in your browser?", query)
	case err != nil:
		return fmt.Sprintf("I encountered an error while searching: %v", err)
	case strings.TrimSpace(snippet) == "":
		return fmt.Sprintf("I found some results for '%s' but couldn't extract a concise answer. Would you like me to open the search in your browser?", query)
	}
	return snippet
}

func (r *Router) pick(choices ...string) string {
	return choices[r.rng.Intn(len(choices))]
}

// reply builds a handler for a fixed response.
func reply(text string) func(ctx context.Context, raw, n string) string {
	return func(ctx context.Context, raw, n string) string {
		return text
	}
}

// canned builds an intent that fires on a contained phrase and returns a
// fixed response.
func canned(name, phrase, response string) intent {
	return intent{
		name:   name,
		match:  func(n string) bool { return strings.Contains(n, phrase) },
		handle: reply(response),
	}
}
