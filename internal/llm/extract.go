package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TicketInfo is the ticket-level portion of a slip extraction.
type TicketInfo struct {
	SlipRef      string `json:"slip_ref,omitempty"`
	TicketStatus string `json:"ticket_status"`
	TicketResult string `json:"ticket_result"`
	FinalScore   string `json:"final_score,omitempty"`
	Book         string `json:"book,omitempty"`
}

// ExtractedLeg is one visible selection on a slip image.
type ExtractedLeg struct {
	Play      string  `json:"play"`
	Selection string  `json:"selection,omitempty"`
	Market    string  `json:"market,omitempty"`
	Opponent  string  `json:"opponent,omitempty"`
	League    string  `json:"league,omitempty"`
	Odds      int     `json:"odds,omitempty"`
	Units     float64 `json:"units,omitempty"`
	Result    string  `json:"result,omitempty"`
	Score     string  `json:"score,omitempty"`
}

type SlipExtraction struct {
	Ticket TicketInfo     `json:"ticket"`
	Legs   []ExtractedLeg `json:"legs"`
}

// ExtractionResult is the tagged outcome of parsing provider content:
// either Valid with Data set, or not with Reason set. Parsing is pure so
// it can be tested without any HTTP in the loop.
type ExtractionResult struct {
	Valid  bool
	Data   SlipExtraction
	Reason string
}

func invalidExtraction(format string, args ...any) ExtractionResult {
	return ExtractionResult{Reason: fmt.Sprintf(format, args...)}
}

var statusSet = map[string]bool{"OPEN": true, "FINAL": true}

var resultSet = map[string]bool{
	"OPEN": true, "WIN": true, "LOSS": true, "PUSH": true, "VOID": true, "CASHOUT": true,
}

// ParseExtraction decodes and checks one provider answer. Anything that is
// not a JSON object matching the extraction schema counts as a provider
// failure and makes the caller fall through to the next provider.
func ParseExtraction(content string) ExtractionResult {
	raw, ok := jsonObject(content)
	if !ok {
		return invalidExtraction("no JSON object in content")
	}
	var data SlipExtraction
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return invalidExtraction("decode: %v", err)
	}

	data.Ticket.TicketStatus = strings.ToUpper(strings.TrimSpace(data.Ticket.TicketStatus))
	data.Ticket.TicketResult = strings.ToUpper(strings.TrimSpace(data.Ticket.TicketResult))
	if data.Ticket.TicketStatus == "" {
		data.Ticket.TicketStatus = "OPEN"
	}
	if data.Ticket.TicketResult == "" {
		data.Ticket.TicketResult = "OPEN"
	}
	if !statusSet[data.Ticket.TicketStatus] {
		return invalidExtraction("unknown ticket_status %q", data.Ticket.TicketStatus)
	}
	if !resultSet[data.Ticket.TicketResult] {
		return invalidExtraction("unknown ticket_result %q", data.Ticket.TicketResult)
	}
	if data.Ticket.TicketStatus == "FINAL" && data.Ticket.TicketResult == "OPEN" {
		return invalidExtraction("FINAL ticket without a settled result")
	}
	for i := range data.Legs {
		leg := &data.Legs[i]
		leg.Result = strings.ToUpper(strings.TrimSpace(leg.Result))
		if leg.Result == "" {
			leg.Result = "OPEN"
		}
		if !resultSet[leg.Result] {
			return invalidExtraction("leg %d: unknown result %q", i, leg.Result)
		}
		if strings.TrimSpace(leg.Play) == "" {
			return invalidExtraction("leg %d: missing play", i)
		}
	}
	return ExtractionResult{Valid: true, Data: data}
}

// jsonObject pulls the outermost object out of content, tolerating
// markdown code fences and prose around it.
func jsonObject(content string) (string, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}
