package models

// Outfit is an in-memory suggestion candidate. Outfits are filtered with a
// linear scan over mood/weather tags; they are not persisted by this service
// (the catalog is supplied by the caller).
type Outfit struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Moods    []string `json:"moods"`
	Weathers []string `json:"weathers"`
	ItemIDs  []string `json:"item_ids,omitempty"`
	Favorite bool     `json:"favorite"`
}

// FilterOutfitsRequest is the request body for filtering an outfit list
type FilterOutfitsRequest struct {
	Outfits []Outfit `json:"outfits"`
	Mood    string   `json:"mood,omitempty"`
	Weather string   `json:"weather,omitempty"`
}
