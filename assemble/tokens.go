package assemble

import (
	"github.com/pkoukk/tiktoken-go"
)

// tokenCounter measures and truncates text against a token budget using
// the cl100k_base encoding. If the encoding cannot be loaded it falls
// back to a conservative four-characters-per-token estimate so assembly
// keeps working without the tokenizer data.
type tokenCounter struct {
	encoding *tiktoken.Tiktoken
}

const fallbackCharsPerToken = 4

func newTokenCounter() *tokenCounter {
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &tokenCounter{}
	}
	return &tokenCounter{encoding: encoding}
}

// Count returns the number of tokens in text.
func (c *tokenCounter) Count(text string) int {
	if c.encoding == nil {
		return (len(text) + fallbackCharsPerToken - 1) / fallbackCharsPerToken
	}
	return len(c.encoding.Encode(text, nil, nil))
}

// Truncate cuts text down to at most budget tokens, dropping the tail.
func (c *tokenCounter) Truncate(text string, budget int) string {
	if budget <= 0 {
		return ""
	}
	if c.encoding == nil {
		limit := budget * fallbackCharsPerToken
		if len(text) <= limit {
			return text
		}
		return text[:limit]
	}
	tokens := c.encoding.Encode(text, nil, nil)
	if len(tokens) <= budget {
		return text
	}
	return c.encoding.Decode(tokens[:budget])
}
