package entities

import "strings"

// SecondaryIndex represents an alternate lookup path over a model field
// Example: "index workspaceID sortKeys(alertID) name(byWorkspace)"
type SecondaryIndex struct {
	PartitionKey string   // Field the index is keyed on
	SortKeys     []string // Optional sort key fields
	Name         string   // Declared index name (empty = derived)
	QueryField   string   // Declared query field (empty = derived)
}

// IndexName returns the declared name or the derived "by<Pk>And<Sk>" name
func (i *SecondaryIndex) IndexName() string {
	if i.Name != "" {
		return i.Name
	}
	return "by" + i.keySuffix()
}

// QueryFieldName returns the declared query field or the derived "list<Model>By<Pk>And<Sk>" name
func (i *SecondaryIndex) QueryFieldName(modelName string) string {
	if i.QueryField != "" {
		return i.QueryField
	}
	return "list" + modelName + "By" + i.keySuffix()
}

// Fields returns the partition key followed by the sort keys
func (i *SecondaryIndex) Fields() []string {
	return append([]string{i.PartitionKey}, i.SortKeys...)
}

func (i *SecondaryIndex) keySuffix() string {
	parts := make([]string, 0, len(i.SortKeys)+1)
	for _, f := range i.Fields() {
		parts = append(parts, UpperFirst(f))
	}
	return strings.Join(parts, "And")
}

// UpperFirst upper-cases the first byte of s
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// LowerFirst lower-cases the first byte of s
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
