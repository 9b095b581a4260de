package collection

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"github.com/victorebouvie/portfoliosync/internal/domain"
)

// collectionSchemaJSON is the shape contract with the portfolio API. The
// file is validated before unmarshalling so drift (missing keys, wrong
// types) is reported against the document, not as a zero-value surprise
// later in the pipeline.
const collectionSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name", "description", "technologies"],
    "properties": {
      "id": {"type": "integer", "minimum": 1},
      "name": {"type": "string"},
      "description": {"type": "string"},
      "technologies": {"type": "array", "items": {"type": "string"}},
      "github_url": {"type": "string"},
      "live_url": {"type": "string"}
    }
  }
}`

var collectionSchema = mustCompileSchema(collectionSchemaJSON)

func mustCompileSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("collection: invalid embedded schema: %v", err))
	}
	return schema
}

// Load reads and validates the collection file. Any failure is fatal to
// the run: a missing, unreadable or malformed database file means there is
// nothing safe to merge into.
func Load(path string) (domain.ProjectCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading collection file: %w", err)
	}

	result, err := collectionSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCollectionCorrupted, err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrSchemaViolation, result.Errors()[0])
	}

	var col domain.ProjectCollection
	if err := json.Unmarshal(data, &col); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCollectionCorrupted, err)
	}
	return col, nil
}

// Save rewrites the collection file in full, using the same 4-space
// indentation the portfolio API repository already uses.
func Save(path string, col domain.ProjectCollection) error {
	if col == nil {
		col = domain.ProjectCollection{}
	}

	data, err := json.MarshalIndent(col, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing collection file: %w", err)
	}
	return nil
}
