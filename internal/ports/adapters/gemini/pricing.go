package gemini

// Per-million-token USD rates. Models in the family switch to a higher
// tier once the prompt crosses longInputThreshold input tokens.
type rates struct {
	inputPerMillion  float64
	outputPerMillion float64
}

type modelPricing struct {
	standard           rates
	long               rates
	longInputThreshold int
}

var priceTable = map[string]modelPricing{
	"gemini-2.5-pro-preview-05-06": {
		standard:           rates{inputPerMillion: 1.25, outputPerMillion: 10.00},
		long:               rates{inputPerMillion: 2.50, outputPerMillion: 15.00},
		longInputThreshold: 200_000,
	},
	"gemini-3-pro-preview": {
		standard:           rates{inputPerMillion: 2.00, outputPerMillion: 12.00},
		long:               rates{inputPerMillion: 4.00, outputPerMillion: 18.00},
		longInputThreshold: 200_000,
	},
}

// defaultPricing covers model ids missing from the table so cost is
// always computed, never dropped.
var defaultPricing = priceTable["gemini-2.5-pro-preview-05-06"]

type costBreakdown struct {
	inputCost  float64
	outputCost float64
	totalCost  float64
}

func calculateCost(model string, promptTokens, candidateTokens int) costBreakdown {
	pricing, ok := priceTable[model]
	if !ok {
		pricing = defaultPricing
	}

	r := pricing.standard
	if promptTokens > pricing.longInputThreshold {
		r = pricing.long
	}

	in := float64(promptTokens) / 1_000_000 * r.inputPerMillion
	out := float64(candidateTokens) / 1_000_000 * r.outputPerMillion
	return costBreakdown{
		inputCost:  in,
		outputCost: out,
		totalCost:  in + out,
	}
}
