package export

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const recordSchemaURL = "https://ltmb/schemas/episode.schema.json"

const recordSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["task", "seed", "config", "steps", "associations", "success", "terminated", "truncated", "return", "length"],
  "properties": {
    "task": {"enum": ["hallway", "counting", "mimic", "ordering"]},
    "seed": {"type": "integer"},
    "config": {"type": "object"},
    "steps": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["observation", "action", "reward"],
        "properties": {
          "observation": {
            "type": "object",
            "required": ["image", "direction", "mission"],
            "properties": {
              "image": {
                "type": "array", "minItems": 7, "maxItems": 7,
                "items": {
                  "type": "array", "minItems": 7, "maxItems": 7,
                  "items": {
                    "type": "array", "minItems": 3, "maxItems": 3,
                    "items": {"type": "integer", "minimum": 0, "maximum": 10}
                  }
                }
              },
              "direction": {"type": "integer", "minimum": 0, "maximum": 3},
              "mission": {"type": "string"}
            }
          },
          "action": {"type": "integer", "minimum": 0, "maximum": 6},
          "reward": {"type": "number"}
        }
      }
    },
    "associations": {
      "type": "array",
      "items": {
        "type": "array", "minItems": 2, "maxItems": 2,
        "items": {"type": "integer", "minimum": 0}
      }
    },
    "success": {"type": "boolean"},
    "terminated": {"type": "boolean"},
    "truncated": {"type": "boolean"},
    "return": {"type": "number"},
    "length": {"type": "integer", "minimum": 1}
  }
}`

// Validator checks encoded records against the episode schema and the
// timeline constraints the schema cannot express
type Validator struct {
	schema *jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	s, err := jsonschema.CompileString(recordSchemaURL, recordSchema)
	if err != nil {
		return nil, fmt.Errorf("compile record schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// Validate an encoded record
func (v *Validator) Validate(b []byte) error {
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	if err := v.schema.Validate(doc); err != nil {
		return err
	}
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	return checkTimeline(r)
}

// ValidateRecord encodes the record and validates it
func (v *Validator) ValidateRecord(r Record) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return v.Validate(b)
}

func checkTimeline(r Record) error {
	if r.Length != len(r.Steps) {
		return fmt.Errorf("length %d does not match %d steps", r.Length, len(r.Steps))
	}
	last := 2*len(r.Steps) - 1
	for _, a := range r.Associations {
		if a.Source > a.Decision || a.Decision > last {
			return fmt.Errorf("association (%d, %d) outside of the timeline [0, %d]", a.Decision, a.Source, last)
		}
	}
	return nil
}
