// Package models holds the Go types of the records served by the data API.
// The types are generated from schema/data.schema.
package models

//go:generate go run ../../cmd/schemactl generate models -o models_gen.go
