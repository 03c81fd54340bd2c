package validation

import (
	"fmt"

	"runam-backend/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// createTaskSchema bounds the create-task payload beyond what struct binding
// can express: positive budget, coordinate ranges, title/description length
// and the allowed time windows.
const createTaskSchema = `{
  "type": "object",
  "required": ["title", "description", "budget", "location"],
  "properties": {
    "title": {"type": "string", "minLength": 3, "maxLength": 120},
    "description": {"type": "string", "minLength": 3, "maxLength": 2000},
    "budget": {"type": "integer", "minimum": 1},
    "timeWindow": {"type": "string", "enum": ["", "Now", "Today", "Flexible"]},
    "location": {
      "type": "object",
      "required": ["lat", "lng"],
      "properties": {
        "lat": {"type": "number", "minimum": -90, "maximum": 90},
        "lng": {"type": "number", "minimum": -180, "maximum": 180},
        "label": {"type": "string", "maxLength": 200}
      }
    }
  }
}`

var taskSchema *gojsonschema.Schema

func init() {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(createTaskSchema))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded task schema: %v", err))
	}
	taskSchema = schema
}

// ValidateCreateTask validates a raw create-task payload against the schema
func ValidateCreateTask(payload []byte) error {
	result, err := taskSchema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return models.NewError(models.ErrValidation, "invalid request body: %v", err)
	}

	if !result.Valid() {
		var errors []string
		for _, desc := range result.Errors() {
			errors = append(errors, desc.String())
		}
		return models.NewError(models.ErrValidation, "validation failed: %v", errors)
	}

	return nil
}
