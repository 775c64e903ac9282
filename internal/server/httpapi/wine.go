package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/winelog/winelog/internal/common"
	"github.com/winelog/winelog/internal/server/inference"
)

func (s *Server) handleWineList(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	ws, err := s.wines.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]*wineResponse, 0, len(ws))
	for _, wine := range ws {
		out = append(out, toWineResponse(wine))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleWineGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, fmt.Errorf("%w: invalid wine id", common.ErrorValidation))
		return
	}

	wine, err := s.wines.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWineResponse(wine))
}

// handleWineAnalysis reads exactly two label photos from the multipart form
// ("images" field, repeated) and returns the extracted wine description.
func (s *Server) handleWineAnalysis(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 2*s.maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(s.maxUploadSize); err != nil {
		writeError(w, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}

	if r.MultipartForm == nil {
		writeError(w, fmt.Errorf("%w: multipart form required", common.ErrorValidation))
		return
	}
	files := r.MultipartForm.File["images"]

	var images [][]byte
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeError(w, fmt.Errorf("%w: %v", common.ErrorValidation, err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, fmt.Errorf("%w: %v", common.ErrorValidation, err))
			return
		}
		images = append(images, data)
	}

	desc, err := s.wines.AnalyzeImages(r.Context(), images)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, desc)
}

// handleWineTaste generates tasting notes for a wine described in the JSON
// body.
func (s *Server) handleWineTaste(w http.ResponseWriter, r *http.Request) {
	var req inference.TasteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid body: %v", common.ErrorValidation, err))
		return
	}

	notes, err := s.wines.TasteProfile(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}
