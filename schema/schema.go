// Package schema embeds the data schema declaration served by the platform.
package schema

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/regpulse/dataschema/internal/entities"
	"github.com/regpulse/dataschema/internal/services/parser"
)

//go:embed data.schema
var source string

// Source returns the declaration text
func Source() string {
	return source
}

var load = sync.OnceValues(func() (*entities.Schema, error) {
	s, err := parser.Load(entities.DefaultAppID, source)
	if err != nil {
		return nil, fmt.Errorf("embedded schema: %w", err)
	}
	return s, nil
})

// Load parses, validates and converts the embedded declaration.
// The result is shared; callers must not modify it.
func Load() (*entities.Schema, error) {
	return load()
}

// MustLoad is like Load but panics on error
func MustLoad() *entities.Schema {
	s, err := Load()
	if err != nil {
		panic(err)
	}
	return s
}
