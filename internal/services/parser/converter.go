package parser

import (
	"fmt"

	"github.com/regpulse/dataschema/internal/entities"
)

// ASTToSchema converts SchemaAST to entities.Schema
func ASTToSchema(appID string, ast *SchemaAST) (*entities.Schema, error) {
	schema := &entities.Schema{
		AppID:         appID,
		Authorization: convertAuthorization(ast.Authorization),
		Enums:         make([]*entities.Enum, 0, len(ast.Enums)),
		CustomTypes:   make([]*entities.CustomType, 0, len(ast.CustomTypes)),
		Models:        make([]*entities.Model, 0, len(ast.Models)),
	}

	enums := make(map[string]bool)
	for _, enumAST := range ast.Enums {
		enums[enumAST.Name] = true
		schema.Enums = append(schema.Enums, &entities.Enum{
			Name:   enumAST.Name,
			Values: append([]string{}, enumAST.Values...),
		})
	}
	customTypes := make(map[string]bool)
	for _, ctAST := range ast.CustomTypes {
		customTypes[ctAST.Name] = true
	}
	resolve := func(name string) (entities.RefKind, error) {
		switch {
		case entities.IsScalarType(entities.FieldType(name)):
			return entities.RefNone, nil
		case enums[name]:
			return entities.RefEnum, nil
		case customTypes[name]:
			return entities.RefCustomType, nil
		}
		return entities.RefNone, fmt.Errorf("unknown type: %s", name)
	}

	for _, ctAST := range ast.CustomTypes {
		customType := &entities.CustomType{
			Name:   ctAST.Name,
			Fields: make([]*entities.Field, 0, len(ctAST.Fields)),
		}
		for _, fieldAST := range ctAST.Fields {
			field, err := convertField(fieldAST, resolve)
			if err != nil {
				return nil, fmt.Errorf("failed to convert type %s: %w", ctAST.Name, err)
			}
			customType.Fields = append(customType.Fields, field)
		}
		schema.CustomTypes = append(schema.CustomTypes, customType)
	}

	for _, modelAST := range ast.Models {
		model, err := convertModel(modelAST, resolve)
		if err != nil {
			return nil, fmt.Errorf("failed to convert model %s: %w", modelAST.Name, err)
		}
		schema.Models = append(schema.Models, model)
	}

	return schema, nil
}

// convertAuthorization applies defaults to the declared authorization block
func convertAuthorization(ast *AuthorizationAST) *entities.Authorization {
	if ast == nil {
		return entities.DefaultAuthorization()
	}

	auth := &entities.Authorization{
		DefaultMode: entities.AuthMode(ast.DefaultMode),
		APIKey:      &entities.APIKeyConfig{ExpiresInDays: entities.DefaultAPIKeyExpiresInDays},
		Rules:       make([]entities.AuthRule, 0, len(ast.Rules)),
	}
	if auth.DefaultMode == "" {
		auth.DefaultMode = entities.AuthModeAPIKey
	}
	if ast.ExpiresInDays != nil {
		auth.APIKey.ExpiresInDays = *ast.ExpiresInDays
	}
	for _, rule := range ast.Rules {
		auth.Rules = append(auth.Rules, entities.AuthRule(rule))
	}
	return auth
}

// convertModel converts ModelAST to entities.Model
func convertModel(ast *ModelAST, resolve func(string) (entities.RefKind, error)) (*entities.Model, error) {
	model := &entities.Model{
		Name:          ast.Name,
		Identifier:    append([]string{}, ast.Identifier...),
		Fields:        make([]*entities.Field, 0, len(ast.Fields)+1),
		Relationships: make([]*entities.Relationship, 0, len(ast.Relationships)),
		Indexes:       make([]*entities.SecondaryIndex, 0, len(ast.Indexes)),
	}

	// Implicit "id: ID!" primary key
	if len(model.Identifier) == 0 {
		model.Identifier = []string{"id"}
		hasID := false
		for _, f := range ast.Fields {
			if f.Name == "id" {
				hasID = true
				break
			}
		}
		if !hasID {
			model.Fields = append(model.Fields, &entities.Field{Name: "id", Type: entities.TypeID, Required: true})
		}
	}

	for _, fieldAST := range ast.Fields {
		field, err := convertField(fieldAST, resolve)
		if err != nil {
			return nil, err
		}
		model.Fields = append(model.Fields, field)
	}

	for _, relAST := range ast.Relationships {
		model.Relationships = append(model.Relationships, &entities.Relationship{
			Name:       relAST.Name,
			Kind:       entities.RelationshipKind(relAST.Kind),
			Target:     relAST.Target,
			References: append([]string{}, relAST.References...),
		})
	}

	for _, indexAST := range ast.Indexes {
		model.Indexes = append(model.Indexes, &entities.SecondaryIndex{
			PartitionKey: indexAST.PartitionKey,
			SortKeys:     append([]string{}, indexAST.SortKeys...),
			Name:         indexAST.Name,
			QueryField:   indexAST.QueryField,
		})
	}

	return model, nil
}

// convertField converts FieldAST to entities.Field
func convertField(ast *FieldAST, resolve func(string) (entities.RefKind, error)) (*entities.Field, error) {
	ref, err := resolve(ast.Type.Name)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", ast.Name, err)
	}

	field := &entities.Field{
		Name:         ast.Name,
		Type:         entities.FieldType(ast.Type.Name),
		Ref:          ref,
		Required:     ast.Type.Required,
		IsArray:      ast.Type.IsArray,
		ItemRequired: ast.Type.ItemRequired,
		Validate:     ast.Validate,
	}
	if ast.Default != nil {
		value := ast.Default.Value
		field.Default = &value
	}
	return field, nil
}

// SchemaToAST converts entities.Schema to SchemaAST
func SchemaToAST(schema *entities.Schema) (*SchemaAST, error) {
	ast := &SchemaAST{
		Enums:       make([]*EnumAST, 0, len(schema.Enums)),
		CustomTypes: make([]*CustomTypeAST, 0, len(schema.CustomTypes)),
		Models:      make([]*ModelAST, 0, len(schema.Models)),
	}

	if auth := schema.Authorization; auth != nil {
		authAST := &AuthorizationAST{
			DefaultMode: string(auth.DefaultMode),
			Rules:       make([]string, 0, len(auth.Rules)),
		}
		if auth.APIKey != nil {
			days := auth.APIKey.ExpiresInDays
			authAST.ExpiresInDays = &days
		}
		for _, rule := range auth.Rules {
			authAST.Rules = append(authAST.Rules, string(rule))
		}
		ast.Authorization = authAST
	}

	for _, enum := range schema.Enums {
		ast.Enums = append(ast.Enums, &EnumAST{
			Name:   enum.Name,
			Values: append([]string{}, enum.Values...),
		})
	}

	for _, ct := range schema.CustomTypes {
		ctAST := &CustomTypeAST{Name: ct.Name, Fields: make([]*FieldAST, 0, len(ct.Fields))}
		for _, field := range ct.Fields {
			ctAST.Fields = append(ctAST.Fields, convertFieldToAST(field))
		}
		ast.CustomTypes = append(ast.CustomTypes, ctAST)
	}

	for _, model := range schema.Models {
		if len(model.Identifier) == 0 {
			return nil, fmt.Errorf("model %s has no identifier", model.Name)
		}
		modelAST := &ModelAST{
			Name:          model.Name,
			Identifier:    []string{},
			Fields:        make([]*FieldAST, 0, len(model.Fields)),
			Relationships: make([]*RelationshipAST, 0, len(model.Relationships)),
			Indexes:       make([]*IndexAST, 0, len(model.Indexes)),
		}
		if !model.UsesGeneratedID() {
			modelAST.Identifier = append(modelAST.Identifier, model.Identifier...)
		}
		for _, field := range model.Fields {
			modelAST.Fields = append(modelAST.Fields, convertFieldToAST(field))
		}
		for _, rel := range model.Relationships {
			modelAST.Relationships = append(modelAST.Relationships, &RelationshipAST{
				Name:       rel.Name,
				Kind:       string(rel.Kind),
				Target:     rel.Target,
				References: append([]string{}, rel.References...),
			})
		}
		for _, idx := range model.Indexes {
			modelAST.Indexes = append(modelAST.Indexes, &IndexAST{
				PartitionKey: idx.PartitionKey,
				SortKeys:     append([]string{}, idx.SortKeys...),
				Name:         idx.Name,
				QueryField:   idx.QueryField,
			})
		}
		ast.Models = append(ast.Models, modelAST)
	}

	return ast, nil
}

// convertFieldToAST converts entities.Field to FieldAST
func convertFieldToAST(field *entities.Field) *FieldAST {
	fieldAST := &FieldAST{
		Name: field.Name,
		Type: TypeRefAST{
			Name:         string(field.Type),
			Required:     field.Required,
			IsArray:      field.IsArray,
			ItemRequired: field.ItemRequired,
		},
		Validate: field.Validate,
	}
	if field.Default != nil {
		kind := LiteralString
		switch {
		case field.IsEnum(), field.Type == entities.TypeBoolean:
			kind = LiteralIdent
		case field.Type == entities.TypeInt, field.Type == entities.TypeFloat:
			kind = LiteralNumber
		}
		fieldAST.Default = &LiteralAST{Kind: kind, Value: *field.Default}
	}
	return fieldAST
}
