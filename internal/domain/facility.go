package domain

// Tags - OSM-теги узла.
type Tags map[string]string

func (t Tags) Amenity() string { return t["amenity"] }
func (t Tags) Name() string    { return t["name"] }

// IsFacility: заведение - это узел с amenity и name одновременно.
func (t Tags) IsFacility() bool {
	return t["amenity"] != "" && t["name"] != ""
}

// PlaceName выбирает имя по предпочтительным языкам (name:<lang>), иначе name.
func (t Tags) PlaceName(langs []string) string {
	for _, lang := range langs {
		if v, ok := t["name:"+lang]; ok && v != "" {
			return v
		}
	}
	return t["name"]
}

// Facility - точка интереса из источника гео-данных.
type Facility struct {
	ID   int64   `json:"id"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lon"`
	Tags Tags    `json:"tags,omitempty"`
}
