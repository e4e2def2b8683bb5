package hyperlink

import (
	"fmt"
	"sync/atomic"
)

// TokenPrefix is the default prefix of external tokens.
const TokenPrefix = "purfectmux"

// TokenGenerator mints external hyperlink tokens: a fixed prefix followed by
// the upper-case hex value of a counter that starts at 1. Tokens are never
// reused for the lifetime of the generator.
type TokenGenerator struct {
	prefix  string
	counter atomic.Uint64
}

// NewTokenGenerator returns a generator whose tokens start with prefix.
func NewTokenGenerator(prefix string) *TokenGenerator {
	return &TokenGenerator{prefix: prefix}
}

// Next returns the next token and advances the counter.
func (g *TokenGenerator) Next() string {
	return fmt.Sprintf("%s%X", g.prefix, g.counter.Add(1))
}

// Issued returns how many tokens have been minted.
func (g *TokenGenerator) Issued() uint64 {
	return g.counter.Load()
}
