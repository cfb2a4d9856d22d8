package codegen

import (
	"fmt"
	"strings"

	"github.com/regpulse/dataschema/internal/entities"
)

const authDirective = "@aws_api_key"

// sdlWriter accumulates SDL definitions separated by blank lines
type sdlWriter struct {
	sb strings.Builder
}

func (w *sdlWriter) block(header string, lines []string) {
	if w.sb.Len() > 0 {
		w.sb.WriteString("\n")
	}
	w.sb.WriteString(header)
	w.sb.WriteString(" {\n")
	for _, line := range lines {
		w.sb.WriteString("  ")
		w.sb.WriteString(line)
		w.sb.WriteString("\n")
	}
	w.sb.WriteString("}\n")
}

// GenerateGraphQL renders the GraphQL SDL the platform provisions for schema
func GenerateGraphQL(schema *entities.Schema) (string, error) {
	if schema.Authorization == nil || !schema.Authorization.Allows(entities.AllowPublicAPIKey) {
		return "", fmt.Errorf("schema does not allow API key access")
	}

	g := &graphqlGenerator{schema: schema}
	g.writeSchemaDefinition()
	g.writeEnums()
	g.writeCustomTypes()
	for _, m := range schema.Models {
		if err := g.writeModel(m); err != nil {
			return "", fmt.Errorf("model %s: %w", m.Name, err)
		}
	}
	g.writeSharedInputs()
	g.writeQuery()
	g.writeMutation()
	g.writeSubscription()

	return g.w.sb.String(), nil
}

type graphqlGenerator struct {
	schema *entities.Schema
	w      sdlWriter
}

func (g *graphqlGenerator) writeSchemaDefinition() {
	g.w.block("schema", []string{
		"query: Query",
		"mutation: Mutation",
		"subscription: Subscription",
	})
}

func (g *graphqlGenerator) writeEnums() {
	for _, e := range g.schema.Enums {
		g.w.block("enum "+e.Name, e.Values)
	}
}

func (g *graphqlGenerator) writeCustomTypes() {
	for _, ct := range g.schema.CustomTypes {
		var out, in []string
		for _, f := range ct.Fields {
			out = append(out, fmt.Sprintf("%s: %s", f.Name, typeRef(f, false, f.Required)))
			in = append(in, fmt.Sprintf("%s: %s", f.Name, typeRef(f, true, f.Required)))
		}
		g.w.block(fmt.Sprintf("type %s %s", ct.Name, authDirective), out)
		g.w.block("input "+CustomTypeInput(ct.Name), in)
	}
}

// connectionArgs are the arguments of a hasMany field and list queries
const connectionArgs = "filter: %s, sortDirection: ModelSortDirection, limit: Int, nextToken: String"

func (g *graphqlGenerator) writeModel(m *entities.Model) error {
	// Object type
	var lines []string
	for _, f := range m.Fields {
		lines = append(lines, fmt.Sprintf("%s: %s", f.Name, typeRef(f, false, f.Required)))
	}
	for _, r := range m.Relationships {
		if g.schema.GetModel(r.Target) == nil {
			return fmt.Errorf("relationship %s targets unknown model %s", r.Name, r.Target)
		}
		if r.IsList() {
			lines = append(lines, fmt.Sprintf("%s(%s): %s", r.Name,
				fmt.Sprintf(connectionArgs, FilterInput(r.Target)), ConnectionType(r.Target)))
		} else {
			lines = append(lines, fmt.Sprintf("%s: %s", r.Name, r.Target))
		}
	}
	lines = append(lines, "createdAt: AWSDateTime!", "updatedAt: AWSDateTime!")
	g.w.block(fmt.Sprintf("type %s %s", m.Name, authDirective), lines)

	// Connection
	g.w.block(fmt.Sprintf("type %s %s", ConnectionType(m.Name), authDirective), []string{
		fmt.Sprintf("items: [%s]!", m.Name),
		"nextToken: String",
	})

	// Filter and condition inputs
	var filter, condition []string
	for _, f := range m.Fields {
		if !filterable(f) {
			continue
		}
		line := fmt.Sprintf("%s: %s", f.Name, filterInputFor(f))
		filter = append(filter, line)
		if !m.IsIdentifierField(f.Name) {
			condition = append(condition, line)
		}
	}
	filter = append(filter,
		"createdAt: ModelStringInput",
		"updatedAt: ModelStringInput",
		fmt.Sprintf("and: [%s]", FilterInput(m.Name)),
		fmt.Sprintf("or: [%s]", FilterInput(m.Name)),
		fmt.Sprintf("not: %s", FilterInput(m.Name)),
	)
	condition = append(condition,
		fmt.Sprintf("and: [%s]", ConditionInput(m.Name)),
		fmt.Sprintf("or: [%s]", ConditionInput(m.Name)),
		fmt.Sprintf("not: %s", ConditionInput(m.Name)),
		"createdAt: ModelStringInput",
		"updatedAt: ModelStringInput",
	)
	g.w.block("input "+FilterInput(m.Name), filter)
	g.w.block("input "+ConditionInput(m.Name), condition)

	// Mutation inputs
	var create, update, del []string
	for _, f := range m.Fields {
		isKey := m.IsIdentifierField(f.Name)
		createRequired := f.Required && f.Default == nil && !m.GeneratesField(f.Name)
		create = append(create, fmt.Sprintf("%s: %s", f.Name, typeRef(f, true, createRequired)))
		update = append(update, fmt.Sprintf("%s: %s", f.Name, typeRef(f, true, isKey)))
		if isKey {
			del = append(del, fmt.Sprintf("%s: %s", f.Name, typeRef(f, true, true)))
		}
	}
	g.w.block("input "+CreateInput(m.Name), create)
	g.w.block("input "+UpdateInput(m.Name), update)
	g.w.block("input "+DeleteInput(m.Name), del)

	// Composite key condition inputs
	if len(m.Identifier) > 2 {
		g.writeCompositeKeyInput(m, PrimaryCompositeKeyInput(m.Name), m.Identifier[1:])
	}
	for _, idx := range m.Indexes {
		if len(idx.SortKeys) > 1 {
			g.writeCompositeKeyInput(m, IndexCompositeKeyInput(m.Name, idx), idx.SortKeys)
		}
	}
	return nil
}

// writeCompositeKeyInput writes the condition input over several sort keys
func (g *graphqlGenerator) writeCompositeKeyInput(m *entities.Model, name string, sortKeys []string) {
	keyInput := strings.TrimSuffix(name, "ConditionInput") + "Input"
	var fields []string
	for _, k := range sortKeys {
		if f := m.GetField(k); f != nil {
			fields = append(fields, fmt.Sprintf("%s: %s", k, typeRef(f, true, false)))
		}
	}
	g.w.block("input "+keyInput, fields)
	g.w.block("input "+name, []string{
		"eq: " + keyInput,
		"le: " + keyInput,
		"lt: " + keyInput,
		"ge: " + keyInput,
		"gt: " + keyInput,
		fmt.Sprintf("between: [%s]", keyInput),
		"beginsWith: " + keyInput,
	})
}

func (g *graphqlGenerator) writeSharedInputs() {
	g.w.block("enum ModelSortDirection", []string{"ASC", "DESC"})
	g.w.block("enum ModelAttributeTypes", []string{
		"binary", "binarySet", "bool", "list", "map", "number", "numberSet", "string", "stringSet", "_null",
	})
	g.w.block("input ModelSizeInput", []string{
		"ne: Int", "eq: Int", "le: Int", "lt: Int", "ge: Int", "gt: Int", "between: [Int]",
	})

	comparable := func(t string) []string {
		return []string{
			"ne: " + t, "eq: " + t, "le: " + t, "lt: " + t, "ge: " + t, "gt: " + t,
			fmt.Sprintf("between: [%s]", t),
			"attributeExists: Boolean",
			"attributeType: ModelAttributeTypes",
		}
	}
	stringOps := func(t string) []string {
		return append(comparable(t),
			"contains: "+t, "notContains: "+t, "beginsWith: "+t, "size: ModelSizeInput")
	}
	g.w.block("input ModelStringInput", stringOps("String"))
	g.w.block("input ModelIDInput", stringOps("ID"))
	g.w.block("input ModelIntInput", comparable("Int"))
	g.w.block("input ModelFloatInput", comparable("Float"))
	g.w.block("input ModelBooleanInput", []string{
		"ne: Boolean", "eq: Boolean", "attributeExists: Boolean", "attributeType: ModelAttributeTypes",
	})

	keyCondition := func(t string) []string {
		lines := []string{"eq: " + t, "le: " + t, "lt: " + t, "ge: " + t, "gt: " + t, fmt.Sprintf("between: [%s]", t)}
		if t == "String" || t == "ID" {
			lines = append(lines, "beginsWith: "+t)
		}
		return lines
	}
	g.w.block("input ModelStringKeyConditionInput", keyCondition("String"))
	g.w.block("input ModelIDKeyConditionInput", keyCondition("ID"))
	g.w.block("input ModelIntKeyConditionInput", keyCondition("Int"))
	g.w.block("input ModelFloatKeyConditionInput", keyCondition("Float"))

	listEnums := make(map[string]bool)
	for _, m := range g.schema.Models {
		for _, f := range m.Fields {
			if f.IsEnum() && f.IsArray {
				listEnums[string(f.Type)] = true
			}
		}
	}
	for _, e := range g.schema.Enums {
		g.w.block("input "+EnumFilterInput(e.Name), []string{"eq: " + e.Name, "ne: " + e.Name})
		if listEnums[e.Name] {
			g.w.block("input "+EnumListInput(e.Name), []string{
				fmt.Sprintf("eq: [%s]", e.Name),
				fmt.Sprintf("ne: [%s]", e.Name),
				"contains: " + e.Name,
				"notContains: " + e.Name,
			})
		}
	}
}

func (g *graphqlGenerator) writeQuery() {
	var lines []string
	for _, m := range g.schema.Models {
		var keyArgs []string
		for _, f := range m.IdentifierFields() {
			keyArgs = append(keyArgs, fmt.Sprintf("%s: %s", f.Name, typeRef(f, true, true)))
		}
		lines = append(lines, fmt.Sprintf("%s(%s): %s %s", GetQuery(m.Name), strings.Join(keyArgs, ", "), m.Name, authDirective))

		var listArgs []string
		if len(m.Identifier) > 1 {
			pk := m.GetField(m.Identifier[0])
			listArgs = append(listArgs, fmt.Sprintf("%s: %s", pk.Name, typeRef(pk, true, false)))
			listArgs = append(listArgs, g.sortKeyArg(m, m.Identifier[1:], PrimaryCompositeKeyInput(m.Name)))
		}
		listArgs = append(listArgs, fmt.Sprintf(connectionArgs, FilterInput(m.Name)))
		lines = append(lines, fmt.Sprintf("%s(%s): %s %s", ListQuery(m.Name), strings.Join(listArgs, ", "), ConnectionType(m.Name), authDirective))

		for _, idx := range m.Indexes {
			pk := m.GetField(idx.PartitionKey)
			if pk == nil {
				continue
			}
			args := []string{fmt.Sprintf("%s: %s", pk.Name, typeRef(pk, true, true))}
			if len(idx.SortKeys) > 0 {
				args = append(args, g.sortKeyArg(m, idx.SortKeys, IndexCompositeKeyInput(m.Name, idx)))
			}
			args = append(args, fmt.Sprintf(connectionArgs, FilterInput(m.Name)))
			lines = append(lines, fmt.Sprintf("%s(%s): %s %s", idx.QueryFieldName(m.Name), strings.Join(args, ", "), ConnectionType(m.Name), authDirective))
		}
	}
	g.w.block("type Query", lines)
}

// sortKeyArg renders the sort key argument of a key query
func (g *graphqlGenerator) sortKeyArg(m *entities.Model, sortKeys []string, compositeInput string) string {
	if len(sortKeys) == 1 {
		if f := m.GetField(sortKeys[0]); f != nil {
			return fmt.Sprintf("%s: %s", f.Name, keyConditionInputFor(f))
		}
	}
	return fmt.Sprintf("%s: %s", SortKeyArgument(sortKeys), compositeInput)
}

func (g *graphqlGenerator) writeMutation() {
	var lines []string
	for _, m := range g.schema.Models {
		for _, op := range []struct{ field, input string }{
			{CreateMutation(m.Name), CreateInput(m.Name)},
			{UpdateMutation(m.Name), UpdateInput(m.Name)},
			{DeleteMutation(m.Name), DeleteInput(m.Name)},
		} {
			lines = append(lines, fmt.Sprintf("%s(input: %s!, condition: %s): %s %s",
				op.field, op.input, ConditionInput(m.Name), m.Name, authDirective))
		}
	}
	g.w.block("type Mutation", lines)
}

func (g *graphqlGenerator) writeSubscription() {
	var lines []string
	for _, m := range g.schema.Models {
		for _, op := range []struct{ field, mutation string }{
			{OnCreate(m.Name), CreateMutation(m.Name)},
			{OnUpdate(m.Name), UpdateMutation(m.Name)},
			{OnDelete(m.Name), DeleteMutation(m.Name)},
		} {
			lines = append(lines, fmt.Sprintf("%s(filter: %s): %s @aws_subscribe(mutations: [%q]) %s",
				op.field, FilterInput(m.Name), m.Name, op.mutation, authDirective))
		}
	}
	g.w.block("type Subscription", lines)
}
