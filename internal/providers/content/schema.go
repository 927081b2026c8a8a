package content

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const topicsSchema = `{
  "type": "object",
  "required": ["topics"],
  "properties": {
    "topics": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string"}
    }
  }
}`

const improvedTopicSchema = `{
  "type": "object",
  "required": ["topic"],
  "properties": {
    "topic": {"type": "string", "minLength": 1}
  }
}`

const templateSchema = `{
  "type": "object",
  "required": ["title", "content"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "content": {"type": "string", "minLength": 1},
    "tags": {"type": "array", "items": {"type": "string"}}
  }
}`

var (
	topicsSchemaLoader        = gojsonschema.NewStringLoader(topicsSchema)
	improvedTopicSchemaLoader = gojsonschema.NewStringLoader(improvedTopicSchema)
	templateSchemaLoader      = gojsonschema.NewStringLoader(templateSchema)
)

// validatePayload checks a model answer against schema and lists every
// violation as field: description.
func validatePayload(schema gojsonschema.JSONLoader, doc string) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("validate payload: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		msgs = append(msgs, field+": "+desc.Description())
	}
	return fmt.Errorf("payload does not match schema: %s", strings.Join(msgs, "; "))
}
