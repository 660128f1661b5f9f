package models

// Snapshot is the serializable shape of the full bakery state: one flat
// collection per entity type. The field sets of the entities double as
// the persisted schema and are kept stable across versions.
type Snapshot struct {
	Ingredients []Ingredient `json:"ingredients"`
	Products    []Product    `json:"products"`
	Orders      []Order      `json:"orders"`
	Staff       []Staff      `json:"staff"`
}
