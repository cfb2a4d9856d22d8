package codegen

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"

	"github.com/regpulse/dataschema/internal/entities"
)

// Plural returns the plural form of a model name, inflecting only the last word
// Examples: Alert -> Alerts, AgencySettings -> AgencySettings, WorkspaceUsage -> WorkspaceUsages
func Plural(name string) string {
	split := lastWordStart(name)
	return name[:split] + inflection.Plural(name[split:])
}

// lastWordStart returns the byte offset of the last camel-case word in name
func lastWordStart(name string) int {
	runes := []rune(name)
	offset := len(name)
	for i := len(runes) - 1; i > 0; i-- {
		offset -= len(string(runes[i]))
		if unicode.IsUpper(runes[i]) && !unicode.IsUpper(runes[i-1]) {
			return offset
		}
	}
	return 0
}

// Operation and type names derived from a model name
func GetQuery(model string) string { return "get" + model }
func ListQuery(model string) string { return "list" + Plural(model) }
func CreateMutation(model string) string { return "create" + model }
func UpdateMutation(model string) string { return "update" + model }
func DeleteMutation(model string) string { return "delete" + model }
func OnCreate(model string) string { return "onCreate" + model }
func OnUpdate(model string) string { return "onUpdate" + model }
func OnDelete(model string) string { return "onDelete" + model }
func ConnectionType(model string) string { return "Model" + model + "Connection" }
func FilterInput(model string) string { return "Model" + model + "FilterInput" }
func ConditionInput(model string) string { return "Model" + model + "ConditionInput" }
func CreateInput(model string) string { return "Create" + model + "Input" }
func UpdateInput(model string) string { return "Update" + model + "Input" }
func DeleteInput(model string) string { return "Delete" + model + "Input" }
func CustomTypeInput(name string) string { return name + "Input" }
func EnumFilterInput(enum string) string { return "Model" + enum + "Input" }
func EnumListInput(enum string) string { return "Model" + enum + "ListInput" }
func OperationName(field string) string { return entities.UpperFirst(field) }
func PrimaryCompositeKeyInput(model string) string {
	return "Model" + model + "PrimaryCompositeKeyConditionInput"
}

// IndexCompositeKeyInput names the key condition input of an index with several sort keys
func IndexCompositeKeyInput(model string, index *entities.SecondaryIndex) string {
	return "Model" + model + entities.UpperFirst(index.IndexName()) + "CompositeKeyConditionInput"
}

// SortKeyArgument joins several sort key names into one argument name
// Example: [groupID linkedAlertInstanceID] -> groupIDLinkedAlertInstanceID
func SortKeyArgument(sortKeys []string) string {
	if len(sortKeys) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(sortKeys[0])
	for _, k := range sortKeys[1:] {
		sb.WriteString(entities.UpperFirst(k))
	}
	return sb.String()
}

// scalarGraphQLTypes maps declared scalars to the platform's GraphQL scalars
var scalarGraphQLTypes = map[entities.FieldType]string{
	entities.TypeID:       "ID",
	entities.TypeString:   "String",
	entities.TypeEmail:    "AWSEmail",
	entities.TypeDate:     "AWSDate",
	entities.TypeDateTime: "AWSDateTime",
	entities.TypeInt:      "Int",
	entities.TypeFloat:    "Float",
	entities.TypeBoolean:  "Boolean",
	entities.TypeJSON:     "AWSJSON",
}

// namedType returns the GraphQL named type of a field, without list or non-null wrappers
func namedType(f *entities.Field, input bool) string {
	switch {
	case f.IsCustomType() && input:
		return CustomTypeInput(string(f.Type))
	case f.IsEnum(), f.IsCustomType():
		return string(f.Type)
	}
	return scalarGraphQLTypes[f.Type]
}

// typeRef renders the full GraphQL type of a field
func typeRef(f *entities.Field, input, required bool) string {
	s := namedType(f, input)
	if f.IsArray {
		if f.ItemRequired {
			s += "!"
		}
		s = "[" + s + "]"
	}
	if required {
		s += "!"
	}
	return s
}

// filterInputFor returns the filter input type used for a field in filters and conditions
func filterInputFor(f *entities.Field) string {
	if f.IsEnum() {
		if f.IsArray {
			return EnumListInput(string(f.Type))
		}
		return EnumFilterInput(string(f.Type))
	}
	switch f.Type {
	case entities.TypeID:
		return "ModelIDInput"
	case entities.TypeInt:
		return "ModelIntInput"
	case entities.TypeFloat:
		return "ModelFloatInput"
	case entities.TypeBoolean:
		return "ModelBooleanInput"
	}
	return "ModelStringInput"
}

// keyConditionInputFor returns the key condition input for a single sort key field
func keyConditionInputFor(f *entities.Field) string {
	switch f.Type {
	case entities.TypeID:
		return "ModelIDKeyConditionInput"
	case entities.TypeInt:
		return "ModelIntKeyConditionInput"
	case entities.TypeFloat:
		return "ModelFloatKeyConditionInput"
	}
	return "ModelStringKeyConditionInput"
}

// filterable reports whether a field can appear in filter and condition inputs
func filterable(f *entities.Field) bool {
	return !f.IsCustomType()
}
