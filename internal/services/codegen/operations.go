package codegen

import (
	"fmt"
	"strings"

	"github.com/regpulse/dataschema/internal/entities"
)

// maxSelectionDepth bounds custom type expansion in selection sets
const maxSelectionDepth = 8

// ModelOperations holds the GraphQL documents the client sends for one model
type ModelOperations struct {
	Model   string            `json:"model" yaml:"model"`
	Get     string            `json:"get" yaml:"get"`
	List    string            `json:"list" yaml:"list"`
	Create  string            `json:"create" yaml:"create"`
	Update  string            `json:"update" yaml:"update"`
	Delete  string            `json:"delete" yaml:"delete"`
	Indexes []*IndexOperation `json:"indexes,omitempty" yaml:"indexes,omitempty"`
}

// IndexOperation is the query document of one secondary index
type IndexOperation struct {
	// Index name (e.g., "byWorkspace")
	Name string `json:"name" yaml:"name"`
	// Query field exposed by the API (e.g., "reportsByWorkspaceID")
	QueryField   string `json:"queryField" yaml:"queryField"`
	PartitionKey string `json:"partitionKey" yaml:"partitionKey"`
	// Sort key argument name, empty when the index has no sort key
	SortKeyArg string `json:"sortKeyArg,omitempty" yaml:"sortKeyArg,omitempty"`
	Document   string `json:"document" yaml:"document"`
}

// Index returns the index operation matching name or query field
func (o *ModelOperations) Index(name string) *IndexOperation {
	for _, op := range o.Indexes {
		if op.Name == name || op.QueryField == name {
			return op
		}
	}
	return nil
}

// BuildOperations builds the operation documents of every model, keyed by model name
func BuildOperations(schema *entities.Schema) (map[string]*ModelOperations, error) {
	ops := make(map[string]*ModelOperations, len(schema.Models))
	for _, m := range schema.Models {
		mo, err := BuildModelOperations(schema, m.Name)
		if err != nil {
			return nil, err
		}
		ops[m.Name] = mo
	}
	return ops, nil
}

// BuildModelOperations builds the get, list, mutation and index documents of a model
func BuildModelOperations(schema *entities.Schema, modelName string) (*ModelOperations, error) {
	m := schema.GetModel(modelName)
	if m == nil {
		return nil, fmt.Errorf("model not found: %s", modelName)
	}

	itemSelection, err := selectionSet(schema, m.Fields, 2)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", m.Name, err)
	}
	itemSelection += indent(2) + "createdAt\n" + indent(2) + "updatedAt\n"
	connectionSelection := indent(2) + "items {\n" + reindent(itemSelection, 1) + indent(2) + "}\n" + indent(2) + "nextToken\n"

	mo := &ModelOperations{Model: m.Name}

	var keyVars, keyArgs []string
	for _, f := range m.IdentifierFields() {
		keyVars = append(keyVars, fmt.Sprintf("$%s: %s", f.Name, typeRef(f, true, true)))
		keyArgs = append(keyArgs, fmt.Sprintf("%s: $%s", f.Name, f.Name))
	}
	mo.Get = document("query", GetQuery(m.Name), keyVars, keyArgs, itemSelection)

	listVars := []string{fmt.Sprintf("$filter: %s", FilterInput(m.Name)), "$limit: Int", "$nextToken: String"}
	listArgs := []string{"filter: $filter", "limit: $limit", "nextToken: $nextToken"}
	mo.List = document("query", ListQuery(m.Name), listVars, listArgs, connectionSelection)

	mutation := func(field, input string) string {
		return document("mutation", field,
			[]string{fmt.Sprintf("$input: %s!", input), fmt.Sprintf("$condition: %s", ConditionInput(m.Name))},
			[]string{"input: $input", "condition: $condition"},
			itemSelection)
	}
	mo.Create = mutation(CreateMutation(m.Name), CreateInput(m.Name))
	mo.Update = mutation(UpdateMutation(m.Name), UpdateInput(m.Name))
	mo.Delete = mutation(DeleteMutation(m.Name), DeleteInput(m.Name))

	for _, idx := range m.Indexes {
		pk := m.GetField(idx.PartitionKey)
		if pk == nil {
			return nil, fmt.Errorf("model %s: index %s: unknown partition key %s", m.Name, idx.IndexName(), idx.PartitionKey)
		}
		op := &IndexOperation{
			Name:         idx.IndexName(),
			QueryField:   idx.QueryFieldName(m.Name),
			PartitionKey: pk.Name,
		}

		vars := []string{fmt.Sprintf("$%s: %s", pk.Name, typeRef(pk, true, true))}
		args := []string{fmt.Sprintf("%s: $%s", pk.Name, pk.Name)}
		if len(idx.SortKeys) > 0 {
			arg := SortKeyArgument(idx.SortKeys)
			input := IndexCompositeKeyInput(m.Name, idx)
			if len(idx.SortKeys) == 1 {
				sk := m.GetField(idx.SortKeys[0])
				if sk == nil {
					return nil, fmt.Errorf("model %s: index %s: unknown sort key %s", m.Name, op.Name, idx.SortKeys[0])
				}
				input = keyConditionInputFor(sk)
			}
			op.SortKeyArg = arg
			vars = append(vars, fmt.Sprintf("$%s: %s", arg, input))
			args = append(args, fmt.Sprintf("%s: $%s", arg, arg))
		}
		vars = append(vars, "$sortDirection: ModelSortDirection")
		args = append(args, "sortDirection: $sortDirection")
		vars = append(vars, listVars...)
		args = append(args, listArgs...)

		op.Document = document("query", op.QueryField, vars, args, connectionSelection)
		mo.Indexes = append(mo.Indexes, op)
	}

	return mo, nil
}

// document renders a single-field operation with its variable declarations
func document(kind, field string, vars, args []string, selection string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s(%s) {\n", kind, OperationName(field), strings.Join(vars, ", "))
	fmt.Fprintf(&sb, "%s%s(%s) {\n", indent(1), field, strings.Join(args, ", "))
	sb.WriteString(selection)
	sb.WriteString(indent(1) + "}\n}\n")
	return sb.String()
}

// selectionSet selects every field, expanding custom types into nested selections
func selectionSet(schema *entities.Schema, fields []*entities.Field, depth int) (string, error) {
	if depth > maxSelectionDepth {
		return "", fmt.Errorf("custom type nesting exceeds %d levels", maxSelectionDepth)
	}
	var sb strings.Builder
	for _, f := range fields {
		if !f.IsCustomType() {
			sb.WriteString(indent(depth) + f.Name + "\n")
			continue
		}
		ct := schema.GetCustomType(string(f.Type))
		if ct == nil {
			return "", fmt.Errorf("unknown custom type %s for field %s", f.Type, f.Name)
		}
		nested, err := selectionSet(schema, ct.Fields, depth+1)
		if err != nil {
			return "", err
		}
		sb.WriteString(indent(depth) + f.Name + " {\n" + nested + indent(depth) + "}\n")
	}
	return sb.String(), nil
}

func indent(level int) string {
	return strings.Repeat("  ", level)
}

// reindent shifts every line of s right by level indentation steps
func reindent(s string, level int) string {
	lines := strings.SplitAfter(s, "\n")
	var sb strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		sb.WriteString(indent(level) + line)
	}
	return sb.String()
}
