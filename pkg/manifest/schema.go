package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema for manifest.json, used by `pgxm verify`.
const Schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "version", "pg_version", "dependencies", "preload_libraries"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "version": {"type": "string", "minLength": 1},
    "pg_version": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "dependencies": {"type": "array", "items": {"type": "string"}},
    "preload_libraries": {"type": "array", "items": {"type": "string"}}
  },
  "additionalProperties": false
}`

// Validate checks the manifest against the embedded schema.
func (m Manifest) Validate() error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(Schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validating manifest: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return errors.New("invalid manifest: " + strings.Join(problems, "; "))
}
