package httpapi

import (
	"time"

	"github.com/winelog/winelog/internal/server/models"
	"github.com/winelog/winelog/internal/server/services"
)

// Form field names for the diary image slots, in the order the client
// presents them.
var slotFormFields = map[string]string{
	"frontImage":     models.SlotFront,
	"backImage":      models.SlotBack,
	"thumbnailImage": models.SlotThumbnail,
	"downloadImage":  models.SlotDownload,
}

type userResponse struct {
	ID           int64  `json:"id"`
	Nickname     string `json:"nickname"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
}

type wineResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Origin     string `json:"origin"`
	Grape      string `json:"grape"`
	Year       string `json:"year"`
	Alcohol    string `json:"alcohol"`
	Type       string `json:"type"`
	AromaNote  string `json:"aromaNote"`
	TasteNote  string `json:"tasteNote"`
	FinishNote string `json:"finishNote"`
	Sweetness  int    `json:"sweetness"`
	Acidity    int    `json:"acidity"`
	Tannin     int    `json:"tannin"`
	Body       int    `json:"body"`
}

type diaryResponse struct {
	UserID         int64         `json:"userId"`
	Seq            int64         `json:"seq"`
	WineID         int64         `json:"wineId"`
	FrontImage     *string       `json:"frontImage"`
	BackImage      *string       `json:"backImage"`
	ThumbnailImage *string       `json:"thumbnailImage"`
	DownloadImage  *string       `json:"downloadImage"`
	Rating         int           `json:"rating"`
	Review         string        `json:"review"`
	Price          *int64        `json:"price"`
	IsPublic       bool          `json:"isPublic"`
	DrinkDate      *time.Time    `json:"drinkDate"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	Wine           *wineResponse `json:"wine,omitempty"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Nickname:     u.Nickname,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
	}
}

func toWineResponse(w *models.Wine) *wineResponse {
	if w == nil {
		return nil
	}
	return &wineResponse{
		ID:         w.ID,
		Name:       w.Name,
		Origin:     w.Origin,
		Grape:      w.Grape,
		Year:       w.Year,
		Alcohol:    w.Alcohol,
		Type:       w.Type,
		AromaNote:  w.AromaNote,
		TasteNote:  w.TasteNote,
		FinishNote: w.FinishNote,
		Sweetness:  w.Sweetness,
		Acidity:    w.Acidity,
		Tannin:     w.Tannin,
		Body:       w.Body,
	}
}

func toDiaryResponse(e *services.DiaryEntry) diaryResponse {
	d := e.Diary
	return diaryResponse{
		UserID:         d.UserID,
		Seq:            d.Seq,
		WineID:         d.WineID,
		FrontImage:     d.FrontImage,
		BackImage:      d.BackImage,
		ThumbnailImage: d.ThumbnailImage,
		DownloadImage:  d.DownloadImage,
		Rating:         d.Rating,
		Review:         d.Review,
		Price:          d.Price,
		IsPublic:       d.IsPublic,
		DrinkDate:      d.DrinkDate,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		Wine:           toWineResponse(e.Wine),
	}
}

func toDiaryResponses(entries []*services.DiaryEntry) []diaryResponse {
	out := make([]diaryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toDiaryResponse(e))
	}
	return out
}
