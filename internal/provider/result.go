// Package provider holds the results returned by external dictionary adapters.
package provider

// DefinitionResult is the structured result scraped from a dictionary site.
// Each list keeps the site's order.
type DefinitionResult struct {
	Word     string
	Basic    []string
	Detailed []string
	Phrases  []string
}

// IsEmpty reports whether the site gave no explanation at all.
func (r *DefinitionResult) IsEmpty() bool {
	return r == nil || (len(r.Basic) == 0 && len(r.Detailed) == 0 && len(r.Phrases) == 0)
}
