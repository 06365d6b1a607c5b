package schema

// Default returns the built-in vocabulary: the nine Bolivian departments,
// the main tourist cities, package destination types, service categories,
// the supported currencies and the customer tiers.
func Default() Vocabulary {
	return Vocabulary{
		Departments: []Term{
			{Value: "La Paz", Aliases: []string{"lapaz", "lpz"}},
			{Value: "Santa Cruz", Aliases: []string{"santacruz", "scz"}},
			{Value: "Cochabamba", Aliases: []string{"cbba"}},
			{Value: "Oruro"},
			{Value: "Potosí"},
			{Value: "Tarija"},
			{Value: "Chuquisaca"},
			{Value: "Beni"},
			{Value: "Pando"},
		},
		Cities: []Term{
			{Value: "Sucre"},
			{Value: "El Alto"},
			{Value: "Santa Cruz de la Sierra"},
			{Value: "Uyuni"},
			{Value: "Copacabana"},
			{Value: "Coroico"},
			{Value: "Sorata"},
			{Value: "Rurrenabaque"},
			{Value: "Samaipata"},
			{Value: "Tupiza"},
			{Value: "Trinidad"},
			{Value: "Cobija"},
			{Value: "Villa Tunari"},
			{Value: "Quillacollo"},
		},
		DestinationTypes: []Term{
			{Value: "Cultural", Aliases: []string{"culturales"}},
			{Value: "Natural", Aliases: []string{"naturales", "naturaleza"}},
			{Value: "Aventura", Aliases: []string{"aventuras", "adventure"}},
			{Value: "Rural", Aliases: []string{"rurales"}},
			{Value: "Urbano", Aliases: []string{"urbanos", "urbana", "urbanas"}},
		},
		Categories: []Term{
			{Value: "Aventura", Aliases: []string{"aventuras"}},
			{Value: "Cultural", Aliases: []string{"culturales"}},
			{Value: "Naturaleza"},
			{Value: "Histórico", Aliases: []string{"historicos", "historia"}},
			{Value: "Gastronómico", Aliases: []string{"gastronomicos", "gastronomia"}},
			{Value: "Urbano", Aliases: []string{"urbanos"}},
		},
		Currencies: []Term{
			{Value: "USD", Aliases: []string{"dolar", "dolares", "us$", "$us", "dollars"}},
			{Value: "BOB", Aliases: []string{"bs", "boliviano", "bolivianos"}},
		},
		Tiers: []Term{
			{Value: "nuevo", Aliases: []string{"nuevos", "new"}},
			{Value: "recurrente", Aliases: []string{"recurrentes", "frecuente", "frecuentes", "returning"}},
			{Value: "vip", Aliases: []string{"vips"}},
		},
	}
}
