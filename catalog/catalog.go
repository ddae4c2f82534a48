// Package catalog holds the static collection of subjects a guide
// conversation can be opened on. Subjects are read-only; the conversation
// core only consumes ID, Name, ShortDescription and Context.
package catalog

// Position is a real-world coordinate pair. The core never reads it; it is
// carried for the rendering layer.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Subject is a point of interest with the descriptive context used to
// ground AI responses. Immutable for the lifetime of a conversation.
type Subject struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	ShortDescription string   `json:"shortDescription"`
	// Context is the extended free-text history fed to the model as
	// grounding material.
	Context  string   `json:"context"`
	Position Position `json:"position"`
	ImageURL string   `json:"imageUrl,omitempty"`
}

// Subjects returns the built-in catalog. Callers receive a fresh slice and
// may reorder it freely.
func Subjects() []Subject {
	out := make([]Subject, len(subjects))
	copy(out, subjects)
	return out
}

// ByID looks a subject up by its identifier.
func ByID(id string) (Subject, bool) {
	for _, s := range subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}

var subjects = []Subject{
	{
		ID:               "basilica-bom-jesus",
		Name:             "Basilica of Bom Jesus",
		ShortDescription: "A UNESCO World Heritage Site containing the mortal remains of St. Francis Xavier.",
		Context: "The Basilica of Bom Jesus is a Roman Catholic basilica located in Old Goa, India. " +
			"Completed in 1605, it is a prime example of Baroque architecture and one of the oldest " +
			"churches in Goa. It holds the mortal remains of St. Francis Xavier.",
		Position: Position{Lat: 15.5009, Lng: 73.9116},
		ImageURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/2/23/Basilica_of_Bom_Jesus%2C_Old_Goa.jpg/1280px-Basilica_of_Bom_Jesus%2C_Old_Goa.jpg",
	},
	{
		ID:               "rachol-seminary",
		Name:             "Rachol Seminary",
		ShortDescription: "The Patriarchal Seminary of Rachol is one of the oldest seminaries in Asia.",
		Context: "Established in 1609, the Rachol Seminary was originally a fortress. It has served as " +
			"a center for theological education for centuries and houses rich artifacts and religious art.",
		Position: Position{Lat: 15.3129, Lng: 73.9699},
		ImageURL: "https://upload.wikimedia.org/wikipedia/commons/e/e3/Rachol_Seminary_Goa.jpg",
	},
}
