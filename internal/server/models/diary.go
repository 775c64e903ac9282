package models

import "time"

// Image slots a diary entry can carry.
const (
	SlotFront     = "front"
	SlotBack      = "back"
	SlotThumbnail = "thumbnail"
	SlotDownload  = "download"
)

// Slots lists all image slots in upload order.
var Slots = []string{SlotFront, SlotBack, SlotThumbnail, SlotDownload}

// ValidSlot reports whether name is a known image slot.
func ValidSlot(name string) bool {
	for _, s := range Slots {
		if s == name {
			return true
		}
	}
	return false
}

// Diary is one user's record of tasting one wine on one occasion.
// Identity is the composite (UserID, Seq); Seq is dense and user-scoped.
// The referenced wine is shared and read-only from the diary's perspective.
type Diary struct {
	UserID         int64
	Seq            int64
	WineID         int64
	FrontImage     *string
	BackImage      *string
	ThumbnailImage *string
	DownloadImage  *string
	Rating         int
	Review         string
	Price          *int64
	IsPublic       bool
	DrinkDate      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ImageURL returns the stored URL for the given slot, or nil.
func (d *Diary) ImageURL(slot string) *string {
	switch slot {
	case SlotFront:
		return d.FrontImage
	case SlotBack:
		return d.BackImage
	case SlotThumbnail:
		return d.ThumbnailImage
	case SlotDownload:
		return d.DownloadImage
	}
	return nil
}
