package model

// EntityCategory classifies an extracted entity
type EntityCategory string

const (
	EntityPerson       EntityCategory = "person"
	EntityOrganization EntityCategory = "organization"
	EntityPlace        EntityCategory = "place"
	EntityDate         EntityCategory = "date"
)

// EntityCategories is the canonical ordering used when rendering
var EntityCategories = []EntityCategory{
	EntityPerson,
	EntityOrganization,
	EntityPlace,
	EntityDate,
}

// EntityBag groups extracted entities by category. Values keep
// first-seen order and are duplicate-free within a category. A bag is
// built once per claim and read-only afterwards; it is never persisted.
type EntityBag struct {
	values map[EntityCategory][]string
	seen   map[EntityCategory]map[string]struct{}
}

// NewEntityBag creates an empty bag
func NewEntityBag() *EntityBag {
	return &EntityBag{
		values: make(map[EntityCategory][]string),
		seen:   make(map[EntityCategory]map[string]struct{}),
	}
}

// Add appends value to category unless it is empty or already present
func (b *EntityBag) Add(cat EntityCategory, value string) {
	if value == "" {
		return
	}
	if b.seen[cat] == nil {
		b.seen[cat] = make(map[string]struct{})
	}
	if _, dup := b.seen[cat][value]; dup {
		return
	}
	b.seen[cat][value] = struct{}{}
	b.values[cat] = append(b.values[cat], value)
}

// Values returns the entities in a category in first-seen order
func (b *EntityBag) Values(cat EntityCategory) []string {
	return b.values[cat]
}

// All returns every entity value, walking categories in canonical order
func (b *EntityBag) All() []string {
	var out []string
	for _, cat := range EntityCategories {
		out = append(out, b.values[cat]...)
	}
	return out
}

// NonEmptyCategories lists categories holding at least one entity
func (b *EntityBag) NonEmptyCategories() []EntityCategory {
	var out []EntityCategory
	for _, cat := range EntityCategories {
		if len(b.values[cat]) > 0 {
			out = append(out, cat)
		}
	}
	return out
}

// IsEmpty reports whether nothing was extracted
func (b *EntityBag) IsEmpty() bool {
	for _, vs := range b.values {
		if len(vs) > 0 {
			return false
		}
	}
	return true
}
