package llm

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// SchemaJSON renders an inline JSON schema for v, embedded into prompts so
// providers answer in the exact shape the parser expects.
func SchemaJSON(v any) string {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}
	schema := r.Reflect(v)
	schema.Version = ""
	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
