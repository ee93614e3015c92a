// Package chat classifies free-text chat input and answers it from the
// latest displayed state. It never fetches data itself.
package chat

import (
	"fmt"
	"strings"
)

// Intent is the classified purpose of a chat message.
type Intent int

const (
	IntentHelp Intent = iota
	IntentGreeting
	IntentPrice
	IntentRecommendation
	IntentChart
	IntentNews
	IntentThanks
)

func (i Intent) String() string {
	switch i {
	case IntentGreeting:
		return "greeting"
	case IntentPrice:
		return "price"
	case IntentRecommendation:
		return "recommendation"
	case IntentChart:
		return "chart"
	case IntentNews:
		return "news"
	case IntentThanks:
		return "thanks"
	default:
		return "help"
	}
}

// keywords are tested in order; the first set with a match wins.
var keywords = []struct {
	Intent Intent
	Words  []string
}{
	{IntentGreeting, []string{"hello", "hi", "hey"}},
	{IntentPrice, []string{"price", "current", "value"}},
	{IntentRecommendation, []string{"recommend", "suggest", "advice"}},
	{IntentChart, []string{"chart", "graph", "technical"}},
	{IntentNews, []string{"news", "update", "headline"}},
	{IntentThanks, []string{"thank", "thanks"}},
}

// LiveState is the displayed state the router may quote back.
type LiveState struct {
	Symbol         string
	Price          string
	Recommendation string
}

// Classify returns the intent of text. Matching is substring containment
// on the lower-cased input.
func Classify(text string) Intent {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		for _, w := range k.Words {
			if strings.Contains(lower, w) {
				return k.Intent
			}
		}
	}
	return IntentHelp
}

// Respond renders the reply for an intent.
func Respond(intent Intent, state LiveState) string {
	switch intent {
	case IntentGreeting:
		return "Hello! How can I assist you with your stock research today?"
	case IntentPrice:
		return fmt.Sprintf("The current price of %s is %s.", state.Symbol, state.Price)
	case IntentRecommendation:
		return fmt.Sprintf("Our AI recommends: %s. Would you like more details about this recommendation?",
			state.Recommendation)
	case IntentChart:
		return "I can help you analyze the technical indicators. " +
			"Try enabling RSI or moving averages from the chart controls."
	case IntentNews:
		return "Recent market news is displayed at the bottom of the screen. " +
			"Would you like me to summarize any specific news item?"
	case IntentThanks:
		return "You're welcome! Let me know if you have any other questions."
	default:
		return "I'm an AI stock advisor. I can help with stock analysis, price information, " +
			"recommendations, and technical analysis. How can I assist you?"
	}
}

// Answer classifies text and responds in one step.
func Answer(text string, state LiveState) string {
	return Respond(Classify(text), state)
}
