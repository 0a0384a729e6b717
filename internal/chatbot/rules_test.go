// internal/chatbot/rules_test.go
package chatbot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateReply(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Recommend a book", input: "Can you recommend a book?", expected: RecommendReply},
		{name: "Recommend reversed and uppercase", input: "BOOKS you RECOMMEND", expected: RecommendReply},
		{name: "Recommend without book", input: "what do you recommend", expected: FallbackReply},
		{name: "Available", input: "Is Dune available?", expected: AvailabilityReply},
		{name: "Stock", input: "In STOCK", expected: AvailabilityReply},
		{name: "Availability beats help", input: "help me find what is in stock", expected: AvailabilityReply},
		{name: "Help", input: "HELP", expected: HelpReply},
		{name: "Help beats genre", input: "help with genre", expected: HelpReply},
		{name: "Hello", input: "Hello there", expected: HelloReply},
		{name: "Hi as substring", input: "this", expected: HelloReply},
		{name: "Genre", input: "Tell me about genres", expected: GenreReply},
		{name: "Recommend beats everything", input: "hi, help: recommend a book in stock by genre", expected: RecommendReply},
		{name: "Empty", input: "", expected: FallbackReply},
		{name: "Whitespace only", input: " \t\n ", expected: FallbackReply},
		{name: "No keywords", input: "what time do you open", expected: FallbackReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, GenerateReply(tt.input))
		})
	}
}

func TestGenerateReply_Pure(t *testing.T) {
	req := require.New(t)
	inputs := []string{"Can you recommend a book?", "genre", "", "xyz"}
	for _, input := range inputs {
		first := GenerateReply(input)
		for i := 0; i < 3; i++ {
			req.Equal(first, GenerateReply(input))
		}
	}
}

func TestEngine_Match(t *testing.T) {
	req := require.New(t)
	engine := NewDefaultEngine()

	reply, rule := engine.Match("Which GENRE?")
	// "which" contains "hi", so the greeting rule fires first.
	req.Equal(HelloReply, reply)
	req.Equal("hello", rule)

	reply, rule = engine.Match("zzz")
	req.Equal(FallbackReply, reply)
	req.Empty(rule)
}

func TestEngine_CustomRules(t *testing.T) {
	req := require.New(t)
	rules := []Rule{
		{Name: "hours", Match: ContainsAny("open", "close"), Reply: "9 to 5"},
	}
	engine := NewEngine("?", rules...)

	// The engine keeps its own copy of the rule table.
	rules[0].Reply = "changed"

	req.Equal("9 to 5", engine.Reply("When do you OPEN?"))
	req.Equal("?", engine.Reply("recommend a book"))
}

func TestMatchers(t *testing.T) {
	req := require.New(t)
	req.True(ContainsAll("a", "b")("ba"))
	req.False(ContainsAll("a", "b")("aa"))
	req.True(ContainsAll()("anything"))
	req.True(ContainsAny("x", "y")("y"))
	req.False(ContainsAny("x", "y")("z"))
	req.False(ContainsAny()("anything"))
}
