package models

// SampleReport returns the fixed report shown in demo mode
func SampleReport() Report {
	return Report{
		ReportDate:       "2025-02-26",
		ExecutiveSummary: "Markets showed mixed signals today with tech stocks leading gains. NVDA surged on strong AI demand outlook while TSLA faced headwinds from regulatory concerns. Overall portfolio health remains robust with a slight bullish tilt.",
		PortfolioHealth:  "Strong",
		PriceMovements: []PriceMovement{
			{Ticker: "AAPL", CompanyName: "Apple Inc.", CurrentPrice: "$189.42", PriceChange: "+$2.15", PercentChange: "+1.15%", Volume: "58.3M"},
			{Ticker: "TSLA", CompanyName: "Tesla Inc.", CurrentPrice: "$248.30", PriceChange: "-$5.60", PercentChange: "-2.21%", Volume: "112.7M"},
			{Ticker: "NVDA", CompanyName: "NVIDIA Corp.", CurrentPrice: "$875.50", PriceChange: "+$24.30", PercentChange: "+2.85%", Volume: "43.1M"},
			{Ticker: "MSFT", CompanyName: "Microsoft Corp.", CurrentPrice: "$415.80", PriceChange: "+$1.90", PercentChange: "+0.46%", Volume: "22.4M"},
			{Ticker: "GOOGL", CompanyName: "Alphabet Inc.", CurrentPrice: "$147.60", PriceChange: "-$0.85", PercentChange: "-0.57%", Volume: "28.9M"},
		},
		SentimentAnalysis: []SentimentItem{
			{Ticker: "AAPL", Sentiment: "Bullish", KeyNews: "New Vision Pro sales data exceeds expectations; Services revenue at all-time high", AnalystOutlook: "Consensus Buy with $210 target"},
			{Ticker: "TSLA", Sentiment: "Bearish", KeyNews: "Regulatory scrutiny on FSD software intensifies; Price cuts in EU markets", AnalystOutlook: "Mixed - Targets range from $180 to $350"},
			{Ticker: "NVDA", Sentiment: "Strongly Bullish", KeyNews: "Data center revenue continues exponential growth; New B200 chip orders flood in", AnalystOutlook: "Strong Buy consensus with $1,000 target"},
			{Ticker: "MSFT", Sentiment: "Bullish", KeyNews: "Azure AI services adoption accelerating; Copilot enterprise deployments growing", AnalystOutlook: "Buy with $460 median target"},
			{Ticker: "GOOGL", Sentiment: "Neutral", KeyNews: "Search market share stable; YouTube ad revenue slightly below estimates", AnalystOutlook: "Hold to Buy with $165 target"},
		},
		TechnicalIndicators: []TechnicalIndicator{
			{Ticker: "AAPL", RSI: "58.3", MACDStatus: "Bullish Crossover", SMA50: "$184.20", SMA200: "$178.50", Support: "$182.00", Resistance: "$195.00", TechnicalOutlook: "Moderately Bullish"},
			{Ticker: "TSLA", RSI: "42.1", MACDStatus: "Bearish", SMA50: "$255.40", SMA200: "$240.80", Support: "$235.00", Resistance: "$260.00", TechnicalOutlook: "Bearish"},
			{Ticker: "NVDA", RSI: "71.5", MACDStatus: "Strongly Bullish", SMA50: "$820.30", SMA200: "$680.00", Support: "$840.00", Resistance: "$920.00", TechnicalOutlook: "Bullish - Approaching Overbought"},
			{Ticker: "MSFT", RSI: "54.8", MACDStatus: "Neutral", SMA50: "$410.00", SMA200: "$385.60", Support: "$405.00", Resistance: "$425.00", TechnicalOutlook: "Neutral to Bullish"},
			{Ticker: "GOOGL", RSI: "47.2", MACDStatus: "Bearish Divergence", SMA50: "$150.20", SMA200: "$142.80", Support: "$143.00", Resistance: "$155.00", TechnicalOutlook: "Neutral"},
		},
		Recommendations: []Recommendation{
			{Ticker: "AAPL", Action: "Buy", Reasoning: "Strong fundamentals with services growth catalyst. Trading below analyst consensus target.", RiskLevel: "Low"},
			{Ticker: "TSLA", Action: "Hold", Reasoning: "Near-term headwinds from regulatory concerns offset by long-term EV market opportunity.", RiskLevel: "High"},
			{Ticker: "NVDA", Action: "Watch", Reasoning: "Exceptional momentum but RSI approaching overbought territory. Wait for pullback entry.", RiskLevel: "Medium"},
			{Ticker: "MSFT", Action: "Buy", Reasoning: "Steady growth with AI tailwinds. Cloud segment continues to gain market share.", RiskLevel: "Low"},
			{Ticker: "GOOGL", Action: "Hold", Reasoning: "Stable business but facing competitive pressures in AI search. Valuation is fair.", RiskLevel: "Medium"},
		},
		RiskAssessment: "Portfolio risk is moderate. Primary concerns include concentration in tech sector and potential Fed rate decisions impacting growth stocks. Diversification across sub-sectors (hardware, software, EVs, semiconductors) provides some buffer. Recommend maintaining 5-10% cash position for opportunity buys.",
		MarketOverview: "The S&P 500 is trading near all-time highs with breadth improving. VIX at 14.2 signals low volatility expectations. Bond yields are stabilizing after recent movements. Sector rotation favoring technology and communication services. Upcoming FOMC minutes could provide direction for the next leg.",
	}
}
