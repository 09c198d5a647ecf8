package server

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/furniture-charges/internal/common"
)

// chargesSchema checks shape and types of an edited table only. Negative
// quantities or prices pass through.
const chargesSchema = `{
  "type": "object",
  "required": ["items"],
  "properties": {
    "source": {"type": "string"},
    "title":  {"type": "string"},
    "save":   {"type": "boolean"},
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "quantity"],
        "properties": {
          "name":     {"type": "string"},
          "quantity": {"type": "integer"},
          "category": {"type": "string"},
          "unit_price": {
            "oneOf": [
              {"type": "number"},
              {"type": "string", "pattern": "^-?[0-9]+(\\.[0-9]+)?$"}
            ]
          },
          "storage_duration_months": {"type": "integer"}
        }
      }
    }
  }
}`

const classifySchema = `{
  "type": "object",
  "required": ["name"],
  "properties": {"name": {"type": "string", "minLength": 1}}
}`

var (
	chargesValidator  = jsonschema.MustCompileString("charges.json", chargesSchema)
	classifyValidator = jsonschema.MustCompileString("classify.json", classifySchema)
)

// validateJSON checks data against schema and returns an invalid-input error
// describing the first mismatch.
func validateJSON(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return common.NewAppError("INVALID_JSON", "request body is not valid JSON", fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}
	if err := schema.Validate(v); err != nil {
		return common.NewAppError("SCHEMA_MISMATCH", "request does not match schema", fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}
	return nil
}
