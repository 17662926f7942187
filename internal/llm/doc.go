// Package llm provides the governed path to a remote language model for
// clipboard content understanding. It supports OpenRouter, OpenAI and
// Anthropic providers behind one Client contract, and wraps every call in a
// minimum-interval rate governor and a usage ledger that tracks requests,
// errors and estimated cost with daily and monthly rollover.
package llm
