package models

import "time"

// Wine types as they appear on the wire and in the database.
const (
	WineTypeRed       = "red"
	WineTypeWhite     = "white"
	WineTypeSparkling = "sparkling"
	WineTypeRose      = "rose"
	WineTypeIcewine   = "icewine"
	WineTypeNatural   = "natural"
	WineTypeDessert   = "dessert"
)

// Wine is a deduplicated description of a wine, shared across all users'
// diary entries. The natural identity key is (Name, Origin, Grape, Year,
// Type); no two rows share it. Fields are never updated once the wine is
// first observed.
type Wine struct {
	ID         int64
	Name       string
	Origin     string
	Grape      string
	Year       string
	Alcohol    string
	Type       string
	AromaNote  string
	TasteNote  string
	FinishNote string
	Sweetness  int
	Acidity    int
	Tannin     int
	Body       int
	CreatedAt  time.Time
}
