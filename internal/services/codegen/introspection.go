package codegen

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/regpulse/dataschema/internal/entities"
)

// IntrospectionVersion is the version of the model introspection format
const IntrospectionVersion = 1

// Introspection is the model introspection document consumed by client libraries
type Introspection struct {
	Version   int                               `json:"version" yaml:"version"`
	Models    map[string]*ModelIntrospection    `json:"models" yaml:"models"`
	Enums     map[string]*EnumIntrospection     `json:"enums" yaml:"enums"`
	NonModels map[string]*NonModelIntrospection `json:"nonModels" yaml:"nonModels"`
}

type ModelIntrospection struct {
	Name           string                         `json:"name" yaml:"name"`
	Fields         map[string]*FieldIntrospection `json:"fields" yaml:"fields"`
	Syncable       bool                           `json:"syncable" yaml:"syncable"`
	PluralName     string                         `json:"pluralName" yaml:"pluralName"`
	Attributes     []Attribute                    `json:"attributes" yaml:"attributes"`
	PrimaryKeyInfo PrimaryKeyInfo                 `json:"primaryKeyInfo" yaml:"primaryKeyInfo"`
}

type FieldIntrospection struct {
	Name            string       `json:"name" yaml:"name"`
	IsArray         bool         `json:"isArray" yaml:"isArray"`
	Type            any          `json:"type" yaml:"type"`
	IsRequired      bool         `json:"isRequired" yaml:"isRequired"`
	Attributes      []Attribute  `json:"attributes" yaml:"attributes"`
	IsArrayNullable *bool        `json:"isArrayNullable,omitempty" yaml:"isArrayNullable,omitempty"`
	IsReadOnly      bool         `json:"isReadOnly,omitempty" yaml:"isReadOnly,omitempty"`
	Association     *Association `json:"association,omitempty" yaml:"association,omitempty"`
}

// Association describes the connection a relationship field represents
type Association struct {
	ConnectionType string   `json:"connectionType" yaml:"connectionType"`
	AssociatedWith []string `json:"associatedWith,omitempty" yaml:"associatedWith,omitempty"`
	TargetNames    []string `json:"targetNames,omitempty" yaml:"targetNames,omitempty"`
}

type Attribute struct {
	Type       string         `json:"type" yaml:"type"`
	Properties map[string]any `json:"properties" yaml:"properties"`
}

type PrimaryKeyInfo struct {
	IsCustomPrimaryKey  bool     `json:"isCustomPrimaryKey" yaml:"isCustomPrimaryKey"`
	PrimaryKeyFieldName string   `json:"primaryKeyFieldName" yaml:"primaryKeyFieldName"`
	SortKeyFieldNames   []string `json:"sortKeyFieldNames" yaml:"sortKeyFieldNames"`
}

type EnumIntrospection struct {
	Name   string   `json:"name" yaml:"name"`
	Values []string `json:"values" yaml:"values"`
}

type NonModelIntrospection struct {
	Name   string                         `json:"name" yaml:"name"`
	Fields map[string]*FieldIntrospection `json:"fields" yaml:"fields"`
}

var connectionTypes = map[entities.RelationshipKind]string{
	entities.BelongsTo: "BELONGS_TO",
	entities.HasMany:   "HAS_MANY",
	entities.HasOne:    "HAS_ONE",
}

// BuildIntrospection builds the model introspection document of schema
func BuildIntrospection(schema *entities.Schema) *Introspection {
	doc := &Introspection{
		Version:   IntrospectionVersion,
		Models:    make(map[string]*ModelIntrospection, len(schema.Models)),
		Enums:     make(map[string]*EnumIntrospection, len(schema.Enums)),
		NonModels: make(map[string]*NonModelIntrospection, len(schema.CustomTypes)),
	}

	for _, m := range schema.Models {
		doc.Models[m.Name] = buildModelIntrospection(m)
	}
	for _, e := range schema.Enums {
		doc.Enums[e.Name] = &EnumIntrospection{Name: e.Name, Values: append([]string(nil), e.Values...)}
	}
	for _, ct := range schema.CustomTypes {
		nm := &NonModelIntrospection{Name: ct.Name, Fields: make(map[string]*FieldIntrospection, len(ct.Fields))}
		for _, f := range ct.Fields {
			nm.Fields[f.Name] = fieldIntrospection(f)
		}
		doc.NonModels[ct.Name] = nm
	}
	return doc
}

func buildModelIntrospection(m *entities.Model) *ModelIntrospection {
	mi := &ModelIntrospection{
		Name:       m.Name,
		Fields:     make(map[string]*FieldIntrospection, len(m.Fields)+len(m.Relationships)+2),
		Syncable:   true,
		PluralName: Plural(m.Name),
	}

	for _, f := range m.Fields {
		mi.Fields[f.Name] = fieldIntrospection(f)
	}
	for _, r := range m.Relationships {
		fi := &FieldIntrospection{
			Name:       r.Name,
			IsArray:    r.IsList(),
			Type:       map[string]string{"model": r.Target},
			Attributes: []Attribute{},
			Association: &Association{
				ConnectionType: connectionTypes[r.Kind],
			},
		}
		if r.Kind == entities.BelongsTo {
			fi.Association.TargetNames = append([]string(nil), r.References...)
		} else {
			fi.Association.AssociatedWith = append([]string(nil), r.References...)
		}
		if r.IsList() {
			nullable := true
			fi.IsArrayNullable = &nullable
		}
		mi.Fields[r.Name] = fi
	}
	for _, ts := range []string{"createdAt", "updatedAt"} {
		mi.Fields[ts] = &FieldIntrospection{
			Name:       ts,
			Type:       "AWSDateTime",
			Attributes: []Attribute{},
			IsReadOnly: true,
		}
	}

	mi.Attributes = append(mi.Attributes,
		Attribute{Type: "model", Properties: map[string]any{}},
		Attribute{Type: "key", Properties: map[string]any{"fields": append([]string(nil), m.Identifier...)}},
	)
	for _, idx := range m.Indexes {
		mi.Attributes = append(mi.Attributes, Attribute{Type: "key", Properties: map[string]any{
			"name":       idx.IndexName(),
			"queryField": idx.QueryFieldName(m.Name),
			"fields":     idx.Fields(),
		}})
	}
	mi.Attributes = append(mi.Attributes, Attribute{Type: "auth", Properties: map[string]any{
		"rules": []map[string]any{{
			"allow":      "public",
			"provider":   entities.AuthModeAPIKey,
			"operations": []string{"create", "update", "delete", "read"},
		}},
	}})

	sortKeys := []string{}
	if len(m.Identifier) > 1 {
		sortKeys = append(sortKeys, m.Identifier[1:]...)
	}
	mi.PrimaryKeyInfo = PrimaryKeyInfo{
		IsCustomPrimaryKey:  !m.UsesGeneratedID(),
		PrimaryKeyFieldName: m.Identifier[0],
		SortKeyFieldNames:   sortKeys,
	}
	return mi
}

func fieldIntrospection(f *entities.Field) *FieldIntrospection {
	fi := &FieldIntrospection{
		Name:       f.Name,
		IsArray:    f.IsArray,
		IsRequired: f.Required,
		Attributes: []Attribute{},
	}
	switch {
	case f.IsEnum():
		fi.Type = map[string]string{"enum": string(f.Type)}
	case f.IsCustomType():
		fi.Type = map[string]string{"nonModel": string(f.Type)}
	default:
		fi.Type = scalarGraphQLTypes[f.Type]
	}
	if f.IsArray {
		nullable := !f.ItemRequired
		fi.IsArrayNullable = &nullable
	}
	return fi
}

// IntrospectionJSON renders the introspection document as indented JSON
func IntrospectionJSON(schema *entities.Schema) ([]byte, error) {
	data, err := json.MarshalIndent(BuildIntrospection(schema), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal introspection: %w", err)
	}
	return append(data, '\n'), nil
}

// IntrospectionYAML renders the introspection document as YAML
func IntrospectionYAML(schema *entities.Schema) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(BuildIntrospection(schema)); err != nil {
		return nil, fmt.Errorf("failed to marshal introspection: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal introspection: %w", err)
	}
	return buf.Bytes(), nil
}
