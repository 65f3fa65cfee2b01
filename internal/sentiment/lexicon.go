package sentiment

// buildPositiveWords returns general and market-positive terms on the
// VADER valence scale (roughly -4 to +4)
func buildPositiveWords() map[string]float64 {
	return map[string]float64{
		// General positive
		"good":       1.9,
		"great":      3.1,
		"excellent":  2.7,
		"amazing":    2.8,
		"love":       3.2,
		"best":       3.2,
		"happy":      2.7,
		"excited":    2.6,
		"strong":     2.3,
		"success":    2.7,
		"win":        2.8,
		"winning":    2.4,
		"safe":       1.9,
		"positive":   2.6,
		"optimistic": 2.3,

		// Market positive
		"bull":         1.8,
		"rally":        2.0,
		"surge":        1.8,
		"surges":       1.8,
		"soar":         2.0,
		"rocket":       1.5,
		"gain":         1.8,
		"gains":        1.8,
		"profit":       1.9,
		"green":        1.0,
		"rise":         1.2,
		"grow":         1.5,
		"growth":       1.6,
		"increase":     1.0,
		"breakthrough": 2.0,
		"partnership":  1.5,
		"upgrade":      1.5,
		"innovation":   1.8,

		// Crypto specific
		"institutional": 0.8,
		"etf":           1.2,
		"approved":      1.8,
		"accumulation":  1.0,
	}
}

// buildNegativeWords returns general and market-negative terms
func buildNegativeWords() map[string]float64 {
	return map[string]float64{
		// General negative
		"bad":         -2.5,
		"terrible":    -2.1,
		"awful":       -2.0,
		"worst":       -3.1,
		"hate":        -2.7,
		"fear":        -2.2,
		"panic":       -2.3,
		"negative":    -2.7,
		"pessimistic": -2.1,
		"risky":       -1.5,
		"stolen":      -2.6,
		"lost":        -1.3,

		// Market negative
		"bear":         -1.8,
		"plunge":       -2.0,
		"fall":         -1.4,
		"drop":         -1.3,
		"drops":        -1.3,
		"decline":      -1.5,
		"loss":         -2.2,
		"losses":       -2.2,
		"red":          -0.8,
		"selloff":      -2.0,
		"correction":   -0.8,
		"liquidation":  -2.0,
		"liquidated":   -2.0,
		"capitulation": -2.0,
		"bubble":       -1.2,
		"overvalued":   -1.3,

		// Crypto specific
		"hack":          -2.8,
		"hacked":        -2.8,
		"exploit":       -2.5,
		"vulnerability": -1.8,
		"rug":           -3.0,
		"ponzi":         -3.0,
		"fraud":         -3.1,
		"lawsuit":       -1.8,
		"ban":           -2.0,
		"banned":        -2.0,
		"crackdown":     -1.8,
	}
}

// DomainOverlay returns the crypto-slang terms layered over the general
// lexicon when a Scorer is built
func DomainOverlay() map[string]float64 {
	return map[string]float64{
		"bullrun":        3.0,
		"ath":            2.5,
		"long":           2.0,
		"breakout":       2.5,
		"dip":            -1.5,
		"crash":          -3.0,
		"short":          -2.0,
		"delist":         -3.0,
		"whale alert":    -2.5,
		"fomo":           1.5,
		"pump":           2.0,
		"dump":           -2.5,
		"hard fork":      1.0,
		"mainnet launch": 2.0,
		"burn":           1.5,
		"halving":        2.0,
		"airdrop":        1.5,
		"cex listing":    2.5,
		"support":        1.5,
		"resistance":     -0.5,
		"consolidation":  0.2,
		"scalability":    1.0,
		"adoption":       2.0,
		"utility":        1.5,
		"fud":            -2.0,
		"rugpull":        -3.5,
		"scam":           -3.0,
		"moon":           2.5,
		"bullish":        2.5,
		"bearish":        -2.5,
		"going up":       1.8,
		"going down":     -1.8,
	}
}
