package tagger

// Coin is a canonical cryptocurrency name with its ticker aliases
type Coin struct {
	Name    string
	Tickers []string
}

// DefaultCoins returns the supported cryptocurrencies and their tickers
func DefaultCoins() []Coin {
	return []Coin{
		{Name: "bitcoin", Tickers: []string{"btc"}},
		{Name: "ethereum", Tickers: []string{"eth"}},
		{Name: "binancecoin", Tickers: []string{"bnb"}},
		{Name: "ripple", Tickers: []string{"xrp"}},
		{Name: "cardano", Tickers: []string{"ada"}},
		{Name: "solana", Tickers: []string{"sol"}},
		{Name: "dogecoin", Tickers: []string{"doge"}},
		{Name: "polkadot", Tickers: []string{"dot"}},
		{Name: "litecoin", Tickers: []string{"ltc"}},
		{Name: "chainlink", Tickers: []string{"link"}},
		{Name: "bitcoincash", Tickers: []string{"bch"}},
		{Name: "stellar", Tickers: []string{"xlm"}},
		{Name: "uniswap", Tickers: []string{"uni"}},
		{Name: "avalanche", Tickers: []string{"avax"}},
		{Name: "cosmos", Tickers: []string{"atom"}},
		{Name: "monero", Tickers: []string{"xmr"}},
		{Name: "algorand", Tickers: []string{"algo"}},
		{Name: "tezos", Tickers: []string{"xtz"}},
		{Name: "tron", Tickers: []string{"trx"}},
		{Name: "toncoin", Tickers: []string{"ton"}},
		{Name: "shibainu", Tickers: []string{"shib"}},
		{Name: "nearprotocol", Tickers: []string{"near"}},
		{Name: "orchest", Tickers: []string{"orc"}},
		{Name: "yeye", Tickers: []string{"yey"}},
		{Name: "hoodgold", Tickers: []string{"hg"}},
		{Name: "swasticoin", Tickers: []string{"swc"}},
		{Name: "ron", Tickers: []string{"ron"}},
		{Name: "jupyter", Tickers: []string{"jup"}},
		{Name: "tokenofficialtrump", Tickers: []string{"tot"}},
		{Name: "jito", Tickers: []string{"jto"}},
		{Name: "grass", Tickers: []string{"grs"}},
	}
}

// Topic is a thematic bucket detected by keyword membership
type Topic struct {
	Name     string
	Keywords []string
}

// Topic category names
const (
	TopicPriceMovement = "Price Movement"
	TopicPartnerships  = "Partnerships"
	TopicRegulation    = "Regulation"
	TopicTechnology    = "Technology"
	TopicSecurity      = "Security"
	TopicNewListing    = "New Listing"
	TopicDevelopment   = "Development"
)

// DefaultTopics returns the topic categories and their keyword sets
func DefaultTopics() []Topic {
	return []Topic{
		{Name: TopicPriceMovement, Keywords: []string{"price", "ath", "buy", "sell", "pump", "dump", "bull", "bear", "value", "surge", "drop"}},
		{Name: TopicPartnerships, Keywords: []string{"partnership", "collaboration", "announce", "announcement", "agreement", "release", "upgrade"}},
		{Name: TopicRegulation, Keywords: []string{"regulation", "compliance", "law", "legal", "government", "ban", "policy", "governance", "vote", "proposal"}},
		{Name: TopicTechnology, Keywords: []string{"protocol", "token", "blockchain", "apy", "apr", "yield", "pool", "lp", "liquidity", "smart contract"}},
		{Name: TopicSecurity, Keywords: []string{"security", "scam", "hack", "bug", "vulnerability", "warning", "alert", "whale", "exploit"}},
		{Name: TopicNewListing, Keywords: []string{"listing", "listed", "exchange", "trading", "pair", "market"}},
		{Name: TopicDevelopment, Keywords: []string{"update", "roadmap", "milestone", "alpha", "beta", "testnet", "mainnet", "release"}},
	}
}
