package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"onyx-tutor/internal/domain"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const quizSchemaURL = "schema://generated-quiz.json"

// quizSchemaJSON describes the object the quiz prompt asks the model for.
const quizSchemaJSON = `{
  "type": "object",
  "required": ["multiple_choice", "enumeration"],
  "properties": {
    "multiple_choice": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["question", "choices", "correct"],
        "properties": {
          "question": {"type": "string", "minLength": 1},
          "choices": {
            "type": "array",
            "minItems": 2,
            "maxItems": 26,
            "items": {"type": "string"}
          },
          "correct": {"type": "string", "pattern": "^[A-Za-z]$"}
        }
      }
    },
    "enumeration": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["question", "answer"],
        "properties": {
          "question": {"type": "string", "minLength": 1},
          "answer": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

var (
	quizSchemaOnce sync.Once
	quizSchema     *jsonschema.Schema
	quizSchemaErr  error
)

func compiledQuizSchema() (*jsonschema.Schema, error) {
	quizSchemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(quizSchemaJSON), &def); err != nil {
			quizSchemaErr = fmt.Errorf("parse quiz schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(quizSchemaURL, def); err != nil {
			quizSchemaErr = fmt.Errorf("add quiz schema: %w", err)
			return
		}
		quizSchema, quizSchemaErr = c.Compile(quizSchemaURL)
	})
	return quizSchema, quizSchemaErr
}

// extractJSONObject drops <think> blocks some models emit and returns the
// outermost {...} span of the reply.
func extractJSONObject(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	for {
		start := strings.Index(cleaned, "<think>")
		if start == -1 {
			break
		}
		end := strings.Index(cleaned[start:], "</think>")
		if end == -1 {
			cleaned = cleaned[:start]
			break
		}
		cleaned = cleaned[:start] + cleaned[start+end+len("</think>"):]
	}

	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		return "", fmt.Errorf("no JSON object found in LLM response")
	}
	return cleaned[jsonStart : jsonEnd+1], nil
}

// ParseQuizContent turns a raw model reply into a validated quiz.
func ParseQuizContent(raw string) (*domain.QuizContent, error) {
	extracted, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var parsed any
	if err := json.Unmarshal([]byte(extracted), &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := compiledQuizSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var content domain.QuizContent
	if err := json.Unmarshal([]byte(extracted), &content); err != nil {
		return nil, fmt.Errorf("decode quiz: %w", err)
	}
	for i, q := range content.MultipleChoice {
		idx := domain.ChoiceIndex(q.Correct)
		if idx < 0 || idx >= len(q.Choices) {
			return nil, fmt.Errorf("multiple_choice[%d]: correct letter %q addresses no choice", i, q.Correct)
		}
		content.MultipleChoice[i].Correct = domain.ChoiceLabel(idx)
	}
	return &content, nil
}
