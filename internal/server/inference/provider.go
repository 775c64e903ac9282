// Package inference calls an external LLM to extract wine metadata from
// label photos and to generate tasting notes. Responses must be
// interpretable as structured data; malformed output surfaces as an error
// rather than being silently defaulted.
package inference

import "context"

// WineDescription is the structured result of analyzing label photos.
// Fields the model could not read are empty strings, never omitted.
type WineDescription struct {
	Name    string `json:"name"`
	Grape   string `json:"grape"`
	Origin  string `json:"origin"`
	Year    string `json:"year"`
	Type    string `json:"type"`
	Alcohol string `json:"alcohol"`
}

// TasteRequest identifies a wine for tasting-note generation.
type TasteRequest struct {
	Name   string `json:"name"`
	Origin string `json:"origin"`
	Grape  string `json:"grape"`
	Year   string `json:"year"`
	Type   string `json:"type"`
}

// TastingNotes carries tag-style descriptors plus four sensory scores on a
// 0-100 scale.
type TastingNotes struct {
	Aroma     string `json:"aroma"`
	Taste     string `json:"taste"`
	Finish    string `json:"finish"`
	Sweetness int    `json:"sweetness"`
	Acidity   int    `json:"acidity"`
	Tannin    int    `json:"tannin"`
	Body      int    `json:"body"`
}

// Provider is the external AI collaborator. Both calls may fail or return
// malformed output; callers treat either as an upstream error.
type Provider interface {
	DescribeWineFromImages(ctx context.Context, images [][]byte) (*WineDescription, error)
	TasteProfile(ctx context.Context, req TasteRequest) (*TastingNotes, error)
}
