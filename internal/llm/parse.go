package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	dto "task-tree-system.com/task-tree-system/internal/data_models"
	apperrors "task-tree-system.com/task-tree-system/internal/errors"
)

const suggestionsSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["title", "weight", "deadline_days"],
    "properties": {
      "title": {"type": "string", "pattern": "\\S", "maxLength": 255},
      "weight": {"type": "integer", "minimum": 1, "maximum": 5},
      "deadline_days": {"type": "integer", "minimum": 0, "maximum": 3650}
    }
  }
}`

var (
	schema    = jsonschema.MustCompileString("suggestions.json", suggestionsSchema)
	jsonArray = regexp.MustCompile(`(?s)\[.*\]`)
)

// ParseSuggestions pulls the JSON array out of a model reply, which may be
// wrapped in prose or a code fence, and validates its shape.
func ParseSuggestions(reply string) ([]dto.Suggestion, error) {
	payload := strings.TrimSpace(reply)
	if m := jsonArray.FindString(payload); m != "" {
		payload = m
	}

	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: reply is not JSON", apperrors.ErrLLMBadOutput)
	}

	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrLLMBadOutput, schemaMessage(err))
	}

	var raw []struct {
		Title        string  `json:"title"`
		Weight       float64 `json:"weight"`
		DeadlineDays float64 `json:"deadline_days"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrLLMBadOutput, err)
	}

	out := make([]dto.Suggestion, 0, len(raw))
	for _, r := range raw {
		out = append(out, dto.Suggestion{
			Title:        strings.TrimSpace(r.Title),
			Weight:       int(r.Weight),
			DeadlineDays: int(r.DeadlineDays),
		})
	}
	return out, nil
}

func schemaMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if ve.InstanceLocation == "" {
		return ve.Message
	}
	return ve.InstanceLocation + ": " + ve.Message
}
