package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/venturely/venturely/internal/config"
)

const suggestionsPath = "/api/ai/suggestions"

// defaultSuggestions are served when the backend cannot be reached or
// returns garbage, keyed by role.
var defaultSuggestions = map[string][]string{
	config.UserTypeEntrepreneur: {
		"How much runway do I have left?",
		"Help me estimate my company's valuation",
		"What should my burn rate be at this stage?",
	},
	config.UserTypeInvestor: {
		"Analyze this company's unit economics",
		"What revenue multiple fits this sector?",
		"Summarize the key risks in this plan",
	},
	config.UserTypeLender: {
		"Calculate the debt service coverage ratio",
		"Is this loan-to-value ratio acceptable?",
		"Review the collateral position",
	},
	config.UserTypeGrantor: {
		"Summarize this grant application",
		"Does the budget match the stated milestones?",
	},
	config.UserTypePartner: {
		"Show me the growth trend for this quarter",
		"Chart revenue by segment",
	},
}

// Suggestions fetches follow-up prompt suggestions for the configured
// role. Any failure falls back to the built-in defaults for that role;
// this call never fails.
func (c *Client) Suggestions(ctx context.Context) []string {
	fallback := defaultSuggestions[c.userType]

	endpoint := c.baseURL + suggestionsPath + "?" + url.Values{"userType": {c.userType}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Warn("failed to build suggestions request", "error", err)
		return fallback
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("suggestions request failed, using defaults", "error", err)
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("suggestions request rejected, using defaults", "status", resp.StatusCode)
		return fallback
	}

	var payload struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload.Suggestions) == 0 {
		c.logger.Warn("malformed suggestions response, using defaults", "error", err)
		return fallback
	}

	return payload.Suggestions
}
