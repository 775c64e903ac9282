package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/winelog/winelog/internal/common"
	"github.com/winelog/winelog/internal/server/services"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	drinkDateLayout  = "2006-01-02"
)

// handleDiaryCreate accepts a multipart form with the wine description,
// the diary fields and up to four image files, and records the tasting.
func (s *Server) handleDiaryCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthorized)
		return
	}

	// one extra MiB of form-field headroom on top of the image limits
	r.Body = http.MaxBytesReader(w, r.Body, int64(len(slotFormFields))*s.maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(s.maxUploadSize); err != nil {
		writeError(w, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}

	wine, err := wineInputFromForm(r)
	if err != nil {
		writeError(w, err)
		return
	}
	input, err := diaryInputFromForm(r)
	if err != nil {
		writeError(w, err)
		return
	}

	images := make(map[string][]byte)
	for field, slot := range slotFormFields {
		file, _, err := r.FormFile(field)
		if err == http.ErrMissingFile {
			continue
		}
		if err != nil {
			writeError(w, fmt.Errorf("%w: %s: %v", common.ErrorValidation, field, err))
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			writeError(w, fmt.Errorf("%w: %s: %v", common.ErrorValidation, field, err))
			return
		}
		images[slot] = data
	}

	entry, err := s.diaries.CreateWineDiary(r.Context(), userID, wine, input, images)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDiaryResponse(entry))
}

func (s *Server) handleDiaryList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthorized)
		return
	}

	offset, limit := pagination(r)
	entries, err := s.diaries.ListForUser(r.Context(), userID, offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDiaryResponses(entries))
}

func (s *Server) handleDiaryListPublic(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	entries, err := s.diaries.ListPublic(r.Context(), offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDiaryResponses(entries))
}

func (s *Server) handleDiaryGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthorized)
		return
	}
	seq, err := seqParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	entry, err := s.diaries.Get(r.Context(), userID, seq)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDiaryResponse(entry))
}

type diaryUpdateRequest struct {
	Rating    *int    `json:"rating"`
	Review    *string `json:"review"`
	Price     *int64  `json:"price"`
	IsPublic  *bool   `json:"isPublic"`
	DrinkDate *string `json:"drinkDate"`
}

func (s *Server) handleDiaryUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthorized)
		return
	}
	seq, err := seqParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req diaryUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid body: %v", common.ErrorValidation, err))
		return
	}

	upd := services.DiaryUpdate{
		Rating:   req.Rating,
		Review:   req.Review,
		Price:    req.Price,
		IsPublic: req.IsPublic,
	}
	if req.DrinkDate != nil {
		d, err := time.Parse(drinkDateLayout, *req.DrinkDate)
		if err != nil {
			writeError(w, fmt.Errorf("%w: invalid drinkDate", common.ErrorValidation))
			return
		}
		upd.DrinkDate = &d
	}

	entry, err := s.diaries.Update(r.Context(), userID, seq, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDiaryResponse(entry))
}

func (s *Server) handleDiaryDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthorized)
		return
	}
	seq, err := seqParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.diaries.Delete(r.Context(), userID, seq); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- form parsing helpers ---

func wineInputFromForm(r *http.Request) (services.WineInput, error) {
	wine := services.WineInput{
		Name:       r.FormValue("name"),
		Origin:     r.FormValue("origin"),
		Grape:      r.FormValue("grape"),
		Year:       r.FormValue("year"),
		Alcohol:    r.FormValue("alcohol"),
		Type:       r.FormValue("type"),
		AromaNote:  r.FormValue("aromaNote"),
		TasteNote:  r.FormValue("tasteNote"),
		FinishNote: r.FormValue("finishNote"),
	}

	for field, dst := range map[string]**int{
		"sweetness": &wine.Sweetness,
		"acidity":   &wine.Acidity,
		"tannin":    &wine.Tannin,
		"body":      &wine.Body,
	} {
		v := r.FormValue(field)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return wine, fmt.Errorf("%w: %s must be a number", common.ErrorValidation, field)
		}
		*dst = &n
	}
	return wine, nil
}

func diaryInputFromForm(r *http.Request) (services.DiaryInput, error) {
	input := services.DiaryInput{
		Review:   r.FormValue("review"),
		IsPublic: r.FormValue("isPublic") == "true",
	}

	if v := r.FormValue("rating"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return input, fmt.Errorf("%w: rating must be a number", common.ErrorValidation)
		}
		input.Rating = n
	}
	if v := r.FormValue("price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return input, fmt.Errorf("%w: price must be a number", common.ErrorValidation)
		}
		input.Price = &n
	}
	if v := r.FormValue("drinkDate"); v != "" {
		d, err := time.Parse(drinkDateLayout, v)
		if err != nil {
			return input, fmt.Errorf("%w: invalid drinkDate", common.ErrorValidation)
		}
		input.DrinkDate = &d
	}
	return input, nil
}

func seqParam(r *http.Request) (int64, error) {
	seq, err := strconv.ParseInt(chi.URLParam(r, "seq"), 10, 64)
	if err != nil || seq < 1 {
		return 0, fmt.Errorf("%w: invalid diary number", common.ErrorValidation)
	}
	return seq, nil
}

func pagination(r *http.Request) (offset, limit int) {
	limit = defaultPageLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxPageLimit {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return offset, limit
}
