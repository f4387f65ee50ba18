package domain

// AmenityGroup - тематическая группа значений amenity.
type AmenityGroup struct {
	Name      string
	Amenities []string
}

// AmenityCatalogue - всё, что запрашиваем у источника как заведения.
var AmenityCatalogue = []AmenityGroup{
	{Name: "food", Amenities: []string{"bar", "cafe", "food_court", "ice_cream", "pub", "restaurant"}},
	{Name: "education", Amenities: []string{"college", "library", "school", "university"}},
	{Name: "health", Amenities: []string{
		"clinic", "dentist", "doctors", "hospital", "nursing_home", "pharmacy", "social_facility", "veterinary",
	}},
	{Name: "finance", Amenities: []string{"atm", "bank", "bureau_de_change"}},
	{Name: "entertainment", Amenities: []string{
		"arts_centre", "cinema", "community_centre", "conference_centre", "events_venue", "nightclub", "theatre",
	}},
	{Name: "public_service", Amenities: []string{"courthouse", "fire_station", "police", "post_office", "prison", "townhall"}},
}

// AllAmenities - плоский список в порядке каталога.
func AllAmenities() []string {
	var out []string
	for _, g := range AmenityCatalogue {
		out = append(out, g.Amenities...)
	}
	return out
}

// ExpandCategories раскрывает имена групп ("food") в значения amenity, остальное оставляет как есть.
func ExpandCategories(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		expanded := false
		for _, g := range AmenityCatalogue {
			if g.Name == tok {
				out = append(out, g.Amenities...)
				expanded = true
				break
			}
		}
		if !expanded {
			out = append(out, tok)
		}
	}
	return out
}
