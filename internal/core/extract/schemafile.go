package extract

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/docsense/internal/common"
)

type schemaFile struct {
	Schemas map[string]Schema `json:"schemas"`
}

// LoadSchemaFile reads named schemas from a YAML or JSON document of the form
//
//	schemas:
//	  purchase_order:
//	    po_number: {type: string, pattern: 'PO-(\d+)'}
//
// The document is checked against a meta-schema before any pattern is compiled.
func LoadSchemaFile(path string) (map[string]Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return ParseSchemaDocument(raw)
}

// ParseSchemaDocument is LoadSchemaFile for in-memory documents.
func ParseSchemaDocument(raw []byte) (map[string]Schema, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, common.InvalidSchemaError("decode schema document: %v", err)
	}
	// Round-trip through JSON so the validator sees plain JSON values.
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, common.InvalidSchemaError("schema document is not JSON compatible: %v", err)
	}
	if err := validateJSON(schemaFileMeta(), data); err != nil {
		return nil, common.InvalidSchemaError("schema document: %v", err)
	}

	var sf schemaFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, common.InvalidSchemaError("decode schemas: %v", err)
	}
	for name, s := range sf.Schemas {
		if _, err := compileSchema(name, s); err != nil {
			return nil, err
		}
	}
	return sf.Schemas, nil
}
