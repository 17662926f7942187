package llm

import "strings"

// ModelPrice is the list price of a model in USD per million tokens.
type ModelPrice struct {
	Input  float64
	Output float64
}

// defaultPrice is charged for models missing from the table. It sits above
// the small models this tool defaults to so estimates err high.
var defaultPrice = ModelPrice{Input: 3.00, Output: 15.00}

// modelPrices is keyed by model name prefix without any provider namespace.
var modelPrices = map[string]ModelPrice{
	"gpt-4o-mini":       {Input: 0.15, Output: 0.60},
	"gpt-4o":            {Input: 2.50, Output: 10.00},
	"gpt-4.1-nano":      {Input: 0.10, Output: 0.40},
	"gpt-4.1-mini":      {Input: 0.40, Output: 1.60},
	"gpt-4.1":           {Input: 2.00, Output: 8.00},
	"gpt-3.5-turbo":     {Input: 0.50, Output: 1.50},
	"claude-3-5-haiku":  {Input: 0.80, Output: 4.00},
	"claude-3-haiku":    {Input: 0.25, Output: 1.25},
	"claude-3-5-sonnet": {Input: 3.00, Output: 15.00},
	"claude-3-7-sonnet": {Input: 3.00, Output: 15.00},
	"claude-sonnet-4":   {Input: 3.00, Output: 15.00},
	"claude-opus-4":     {Input: 15.00, Output: 75.00},
	"gemini-flash-1.5":  {Input: 0.075, Output: 0.30},
	"llama-3.1-8b":      {Input: 0.05, Output: 0.08},
}

// PriceFor returns the price of the longest table prefix matching model.
// OpenRouter style names such as "openai/gpt-4o-mini" are matched on the
// part after the namespace.
func PriceFor(model string) ModelPrice {
	name := strings.ToLower(strings.TrimSpace(model))
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	best, bestLen := defaultPrice, 0
	for prefix, price := range modelPrices {
		if strings.HasPrefix(name, prefix) && len(prefix) > bestLen {
			best, bestLen = price, len(prefix)
		}
	}
	return best
}

// EstimateCost returns the USD cost of a call from its token counts.
func EstimateCost(model string, inputTokens, outputTokens int64) float64 {
	if inputTokens < 0 {
		inputTokens = 0
	}
	if outputTokens < 0 {
		outputTokens = 0
	}
	price := PriceFor(model)
	return (float64(inputTokens)*price.Input + float64(outputTokens)*price.Output) / 1_000_000
}

// replyCost prefers the provider's billed cost over the table estimate.
func replyCost(reply Reply) float64 {
	if reply.HasCost && reply.Cost >= 0 {
		return reply.Cost
	}
	return EstimateCost(reply.Model, reply.InputTokens, reply.OutputTokens)
}
