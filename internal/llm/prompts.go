package llm

import "fmt"

const extractionSystem = `You read sportsbook bet slips. Reply with a single JSON object only, no prose, matching this schema:
%s
Use American odds as integers. Use OPEN/FINAL for ticket_status and OPEN/WIN/LOSS/PUSH/VOID/CASHOUT for results. Omit fields you cannot read.`

// ExtractionMessages builds the vision prompt for one slip image encoded
// as a data URI.
func ExtractionMessages(dataURI string) []Message {
	return []Message{
		TextMessage("system", fmt.Sprintf(extractionSystem, SchemaJSON(&SlipExtraction{}))),
		{
			Role: "user",
			Content: []ContentPart{
				TextPart("Extract every visible bet leg and the ticket-level outcome from this slip."),
				ImagePart(dataURI),
			},
		},
	}
}

const repairSystem = `You repair malformed JSON answers. Reply with a single corrected JSON object only, matching this schema:
%s`

// RepairMessages asks the verifier to fix a primary answer that failed
// schema validation.
func RepairMessages(schemaFor any, raw, reason string) []Message {
	return []Message{
		TextMessage("system", fmt.Sprintf(repairSystem, SchemaJSON(schemaFor))),
		TextMessage("user", fmt.Sprintf("This answer failed validation (%s). Fix it:\n%s", reason, raw)),
	}
}

const answerSystem = `You answer questions about a sports-bet ledger. Reply with a single JSON object only, matching this schema:
%s
Only reference bet ids from the context. Every number in figures must be copied exactly from the context facts.`

// AnswerMessages builds the ledger Q&A prompt over a compact JSON context
// of bet ids and precomputed figures.
func AnswerMessages(question, contextJSON string) []Message {
	return []Message{
		TextMessage("system", fmt.Sprintf(answerSystem, SchemaJSON(&LedgerAnswer{}))),
		TextMessage("user", fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextJSON, question)),
	}
}
