package router

import "fmt"

const fallbackReply = "I'm not entirely sure how to respond to that. Could you rephrase or ask something else?"

// cannedCutoff is the minimum similarity for a canned answer to fire.
const cannedCutoff = 0.6

type cannedReply struct {
	question string
	answer   string
}

func (r *Router) cannedReplies() []cannedReply {
	user := r.profile.UserName()
	bot := r.profile.BotName()
	return []cannedReply{
		{"how are you", fmt.Sprintf("I'm functioning optimally, thank you for asking %s! How about you?", user)},
		{"what can you do", "I can chat with you, answer questions, perform calculations, open websites, play music on Spotify, control your system settings, and even play games!"},
		{"thank you", "You're very welcome! Is there anything else I can help with?"},
		{"your name", fmt.Sprintf("My name is %s. You can change it if you'd like!", bot)},
		{"who created you", "I was created by a talented developer to assist you with various tasks and keep you company!"},
		{"what's up", "Just processing data and waiting for your commands! What's up with you?"},
		{"tell me a joke", "Why don't scientists trust atoms? Because they make up everything!"},
		{"help", "I can help with many things! Try asking me to calculate something, open a website, play a song, or even play a game with you."},
	}
}

// fallback looks for the closest canned question; below the cutoff it admits
// defeat.
func (r *Router) fallback(text string) string {
	best := ""
	bestScore := 0.0
	for _, c := range r.cannedReplies() {
		if s := ratio(text, c.question); s >= cannedCutoff && s > bestScore {
			best, bestScore = c.answer, s
		}
	}
	if best != "" {
		return best
	}
	return fallbackReply
}
