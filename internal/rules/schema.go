package rules

import (
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var (
	schemaOnce     sync.Once
	muncherSchema  *gojsonschema.Schema
	fileTypeSchema *gojsonschema.Schema
	schemaLoadErr  error
)

func loadSchemas() error {
	schemaOnce.Do(func() {
		munchersJSON, err := schemaFS.ReadFile("schema/muncher.schema.json")
		if err != nil {
			schemaLoadErr = fmt.Errorf("reading muncher schema: %w", err)

			return
		}

		muncherSchema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(munchersJSON))
		if err != nil {
			schemaLoadErr = fmt.Errorf("compiling muncher schema: %w", err)

			return
		}

		fileTypesJSON, err := schemaFS.ReadFile("schema/file_type.schema.json")
		if err != nil {
			schemaLoadErr = fmt.Errorf("reading file type schema: %w", err)

			return
		}

		fileTypeSchema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(fileTypesJSON))
		if err != nil {
			schemaLoadErr = fmt.Errorf("compiling file type schema: %w", err)
		}
	})

	return schemaLoadErr
}

// validateMuncher checks raw muncher JSON against the muncher schema before
// it is ever decoded into a MuncherDef.
func validateMuncher(raw []byte) error {
	if err := loadSchemas(); err != nil {
		return err
	}

	return validateAgainst(muncherSchema, raw)
}

// validateFileType checks raw file-type JSON against the file-type schema.
func validateFileType(raw []byte) error {
	if err := loadSchemas(); err != nil {
		return err
	}

	return validateAgainst(fileTypeSchema, raw)
}

func validateAgainst(schema *gojsonschema.Schema, raw []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validating document: %w", err)
	}

	if result.Valid() {
		return nil
	}

	msg := "schema validation failed:"
	for _, e := range result.Errors() {
		msg += " " + e.String() + ";"
	}

	return fmt.Errorf("%s", msg)
}
