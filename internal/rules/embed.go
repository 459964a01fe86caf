package rules

import "embed"

// fileTypesFS holds the built-in file-type definitions, one JSON file per
// extension token.
//
//go:embed data/file_types/*.json
var fileTypesFS embed.FS

// munchersFS holds the built-in muncher definitions, one JSON file per
// muncher name.
//
//go:embed data/munchers/*.json
var munchersFS embed.FS

// schemaFS holds the JSON schema documents used to validate rule files
// before they are compiled.
//
//go:embed schema/*.json
var schemaFS embed.FS
