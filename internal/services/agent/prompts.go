package agent

const reportSchema = `{
  "report_date": "YYYY-MM-DD",
  "executive_summary": "markdown text",
  "portfolio_health": "Strong | Moderate | Weak",
  "price_movements": [{"ticker": "", "company_name": "", "current_price": "", "price_change": "", "percent_change": "", "volume": ""}],
  "sentiment_analysis": [{"ticker": "", "sentiment": "", "key_news": "", "analyst_outlook": ""}],
  "technical_indicators": [{"ticker": "", "rsi": "", "macd_status": "", "sma_50": "", "sma_200": "", "support": "", "resistance": "", "technical_outlook": ""}],
  "recommendations": [{"ticker": "", "action": "Buy | Hold | Sell | Watch", "reasoning": "", "risk_level": "Low | Medium | High"}],
  "risk_assessment": "markdown text",
  "market_overview": "markdown text"
}`

// systemPrompts stand in for the hosted agents when a model API serves the calls
var systemPrompts = map[Role]string{
	RoleCoordinator: "You are a portfolio analysis coordinator. When asked for a portfolio analysis report, " +
		"answer with a single JSON object and nothing else, using exactly this shape:\n" + reportSchema +
		"\nAll values are strings. For any other request, follow the output format the user asks for exactly.",
	RoleDelivery: "You are a report delivery assistant. Format the report you are given as a concise email " +
		"with a subject line and a plain-text body, and reply with the email only.",
	RoleExtraction: "You extract stock holdings from brokerage statements. Reply with only the JSON array the user asks for.",
	RoleMarketData: "You summarize current price and volume data for the tickers you are given.",
	RoleSentiment:  "You summarize recent news sentiment and analyst outlook for the tickers you are given.",
	RoleTechnical:  "You summarize RSI, MACD, moving averages, support and resistance for the tickers you are given.",
}

func systemPromptFor(registry *Registry, agentID string) string {
	if registry == nil {
		return systemPrompts[RoleCoordinator]
	}
	a, err := registry.Lookup(agentID)
	if err != nil {
		return systemPrompts[RoleCoordinator]
	}
	return systemPrompts[a.Role]
}
