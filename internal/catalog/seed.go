package catalog

// SeedVerbs returns the built-in starter verb list used when the store has
// no imported catalog.
func SeedVerbs() []Verb {
	return []Verb{
		{ID: "hablar", Family: FamilyRegular, FrequencyRank: 28},
		{ID: "comer", Family: FamilyRegular, FrequencyRank: 120},
		{ID: "vivir", Family: FamilyRegular, FrequencyRank: 57},
		{ID: "trabajar", Family: FamilyRegular, FrequencyRank: 95},
		{ID: "buscar", Family: FamilyOrthographic, FrequencyRank: 64},
		{ID: "llegar", Family: FamilyOrthographic, FrequencyRank: 40},
		{ID: "pensar", Family: FamilyStemChanging, FrequencyRank: 46},
		{ID: "dormir", Family: FamilyStemChanging, FrequencyRank: 310},
		{ID: "pedir", Family: FamilyStemChanging, FrequencyRank: 150},
		{ID: "ser", Family: FamilyIrregular, FrequencyRank: 1},
		{ID: "ir", Family: FamilyIrregular, FrequencyRank: 8},
		{ID: "tener", Family: FamilyIrregular, FrequencyRank: 6},
		{ID: "hacer", Family: FamilyIrregular, FrequencyRank: 10},
		{ID: "caber", Family: FamilyIrregular, FrequencyRank: 780},
	}
}

// Seed builds a catalog from SeedVerbs.
func Seed() *Catalog {
	c, err := New(SeedVerbs())
	if err != nil {
		panic("catalog: invalid seed: " + err.Error())
	}
	return c
}
