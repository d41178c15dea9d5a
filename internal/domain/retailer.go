package domain

// Retailer is one entry of the static retailer configuration.
type Retailer struct {
	ID   string `json:"id" mapstructure:"id"`
	Name string `json:"name" mapstructure:"name"`
}

// RetailerCatalog is the ordered, fixed set of retailers to quote against.
// The slice order is canonical and used for deterministic tie-breaking; the
// core never mutates it.
type RetailerCatalog []Retailer

// IDs returns the retailer identifiers in canonical order.
func (c RetailerCatalog) IDs() []string {
	ids := make([]string, 0, len(c))
	for _, r := range c {
		ids = append(ids, r.ID)
	}
	return ids
}

// Contains reports whether the catalog includes the given retailer id.
func (c RetailerCatalog) Contains(id string) bool {
	for _, r := range c {
		if r.ID == id {
			return true
		}
	}
	return false
}
