package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"glrfill/internal/domain"
)

const responseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "fields": {
      "type": "object",
      "additionalProperties": {"type": ["string", "number", "boolean", "null"]}
    }
  }
}`

func compileResponseSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("response.json", strings.NewReader(responseSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("response.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// decodeFields parses the raw model reply, validates its shape and projects
// the "fields" object into a FieldMapping. When requireFields is set (the
// llm.require_fields default) a reply without "fields" is rejected with
// ErrInvalidLLMResponse. With it unset such a reply yields an empty mapping,
// like a fields lookup with an empty default.
func decodeFields(schema *jsonschema.Schema, content string, requireFields bool) (domain.FieldMapping, error) {
	doc, err := decodeJSON(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w (raw: %s)", domain.ErrInvalidLLMResponse, err, truncate(content, 500))
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidLLMResponse, err)
	}

	raw, ok := doc.(map[string]any)["fields"]
	if !ok {
		if requireFields {
			return nil, fmt.Errorf("%w: missing \"fields\" object", domain.ErrInvalidLLMResponse)
		}
		return domain.FieldMapping{}, nil
	}

	fields := raw.(map[string]any)
	out := make(domain.FieldMapping, len(fields))
	for k, v := range fields {
		out[k] = scalarText(v)
	}
	return out, nil
}

func decodeJSON(content string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("parse JSON: trailing data after object")
	}
	return doc, nil
}

func scalarText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
