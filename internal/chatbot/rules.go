// internal/chatbot/rules.go
// Package chatbot answers chat messages with canned replies chosen by ordered
// keyword rules.
package chatbot

import (
	"strings"

	"github.com/samber/lo"
)

const (
	GreetingText = "Hello! I'm your book assistant. How can I help you today?"

	RecommendReply    = "I'd recommend checking out our fiction section! We have great titles in mystery, romance, and sci-fi genres."
	AvailabilityReply = "You can check book availability using our search feature. What specific book are you looking for?"
	HelpReply         = "I can help you with:\n• Book recommendations\n• Checking availability\n• Finding books by genre or author\n• General library information"
	HelloReply        = "Hello! Welcome to our book library. What can I help you find today?"
	GenreReply        = "We have books in many genres including Fiction, Non-Fiction, Mystery, Romance, Sci-Fi, Biography, and more. What genre interests you?"
	FallbackReply     = "I'm here to help with book-related questions! You can ask me about book recommendations, availability, or browse by genre."
)

// Matcher reports whether lowercased input satisfies a rule.
type Matcher func(text string) bool

// Rule pairs a matcher with the reply it produces.
type Rule struct {
	Name  string
	Match Matcher
	Reply string
}

// ContainsAll matches when every word occurs somewhere in the text.
func ContainsAll(words ...string) Matcher {
	return func(text string) bool {
		return lo.EveryBy(words, func(w string) bool { return strings.Contains(text, w) })
	}
}

// ContainsAny matches when at least one word occurs in the text.
func ContainsAny(words ...string) Matcher {
	return func(text string) bool {
		return lo.SomeBy(words, func(w string) bool { return strings.Contains(text, w) })
	}
}

// DefaultRules returns the library assistant rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "recommend", Match: ContainsAll("book", "recommend"), Reply: RecommendReply},
		{Name: "availability", Match: ContainsAny("available", "stock"), Reply: AvailabilityReply},
		{Name: "help", Match: ContainsAny("help"), Reply: HelpReply},
		{Name: "hello", Match: ContainsAny("hello", "hi"), Reply: HelloReply},
		{Name: "genre", Match: ContainsAny("genre"), Reply: GenreReply},
	}
}

// Engine evaluates rules in order. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	rules    []Rule
	fallback string
}

func NewEngine(fallback string, rules ...Rule) *Engine {
	return &Engine{rules: append([]Rule(nil), rules...), fallback: fallback}
}

// NewDefaultEngine builds the engine used by the chat socket.
func NewDefaultEngine() *Engine {
	return NewEngine(FallbackReply, DefaultRules()...)
}

// Reply returns the reply of the first rule matching the lowercased input, or
// the fallback.
func (e *Engine) Reply(input string) string {
	reply, _ := e.Match(input)
	return reply
}

// Match is Reply plus the name of the rule that fired; the name is empty for
// the fallback.
func (e *Engine) Match(input string) (string, string) {
	text := strings.ToLower(input)
	for _, rule := range e.rules {
		if rule.Match(text) {
			return rule.Reply, rule.Name
		}
	}
	return e.fallback, ""
}

var defaultEngine = NewDefaultEngine()

// GenerateReply answers input with the default rules.
func GenerateReply(input string) string {
	return defaultEngine.Reply(input)
}
