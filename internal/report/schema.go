package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/*.schema.json
var schemaFS embed.FS

const (
	schemaBase   = "https://codect.dev/schema/"
	resultSchema = schemaBase + "result.schema.json"
	scanSchema   = schemaBase + "scan.schema.json"
)

var (
	schemaOnce sync.Once
	schemas    map[string]*jsonschema.Schema
	schemaErr  error
)

func loadSchemas() (map[string]*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		for _, name := range []string{"result.schema.json", "scan.schema.json"} {
			data, err := schemaFS.ReadFile("schema/" + name)
			if err != nil {
				schemaErr = err
				return
			}
			if err := compiler.AddResource(schemaBase+name, bytes.NewReader(data)); err != nil {
				schemaErr = fmt.Errorf("add schema %s: %w", name, err)
				return
			}
		}

		schemas = make(map[string]*jsonschema.Schema, 2)
		for _, url := range []string{resultSchema, scanSchema} {
			compiled, err := compiler.Compile(url)
			if err != nil {
				schemaErr = fmt.Errorf("compile schema %s: %w", url, err)
				return
			}
			schemas[url] = compiled
		}
	})
	return schemas, schemaErr
}

// validate checks encoded JSON against one of the embedded schemas.
func validate(schemaURL string, data []byte) error {
	all, err := loadSchemas()
	if err != nil {
		return err
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return err
	}
	if err := all[schemaURL].Validate(instance); err != nil {
		return fmt.Errorf("output does not match schema: %w", err)
	}
	return nil
}
