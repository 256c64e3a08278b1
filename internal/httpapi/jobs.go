package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/akwaba-labs/djobi/internal/job"
	"github.com/akwaba-labs/djobi/internal/search"
)

// jobsResponse is the GET /api/jobs payload.
type jobsResponse struct {
	Jobs        []job.Offer      `json:"jobs"`
	Mode        string           `json:"mode"`
	Suggestions []string         `json:"suggestions,omitempty"`
	Analysis    *search.Analysis `json:"analysis,omitempty"`
}

// handleListJobs serves listing search. Query parameters:
//
//	q          free-text query (optional)
//	verified   all | verified | unverified (optional, default all)
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := search.Query{
		Text:         r.URL.Query().Get("q"),
		Verification: search.Verification(r.URL.Query().Get("verified")),
	}
	if q.Verification == "" {
		q.Verification = search.VerificationAll
	}
	if !q.Verification.IsValid() {
		writeError(w, http.StatusBadRequest, "paramètre verified invalide")
		return
	}

	res, err := s.pipeline.Search(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "recherche indisponible")
		return
	}
	writeJSON(w, http.StatusOK, jobsResponse{
		Jobs:        res.Offers,
		Mode:        string(res.Mode),
		Suggestions: res.Suggestions,
		Analysis:    res.Analysis,
	})
}

// createJobRequest is the POST /api/jobs body. Verified mirrors the outcome
// of the identity extraction step for this submission.
type createJobRequest struct {
	Title           string            `json:"title"`
	Location        string            `json:"location"`
	StoreName       string            `json:"storeName"`
	Country         string            `json:"country"`
	WorkMode        string            `json:"workMode"`
	RequiredProfile string            `json:"requiredProfile"`
	Phone           string            `json:"phone"`
	WhatsApp        string            `json:"whatsapp"`
	Verified        bool              `json:"verified"`
	Translations    *job.Translations `json:"translations"`
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corps de requête invalide")
		return
	}

	var missing []string
	for field, v := range map[string]string{
		"title":    req.Title,
		"location": req.Location,
		"phone":    req.Phone,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "champs requis manquants: "+strings.Join(missing, ", "))
		return
	}

	offer := job.Offer{
		Title:           req.Title,
		Location:        req.Location,
		StoreName:       req.StoreName,
		Country:         req.Country,
		WorkMode:        req.WorkMode,
		RequiredProfile: req.RequiredProfile,
		Phone:           req.Phone,
		WhatsApp:        req.WhatsApp,
		Certified:       req.Verified,
		Translations:    req.Translations,
	}
	if offer.Country == "" {
		offer.Country = "Côte d'Ivoire"
	}
	if offer.WhatsApp == "" {
		offer.WhatsApp = offer.Phone
	}

	added, err := s.store.Add(r.Context(), offer)
	if err != nil {
		if errors.Is(err, job.ErrDuplicateID) {
			writeError(w, http.StatusConflict, "annonce déjà existante")
			return
		}
		writeError(w, http.StatusInternalServerError, "enregistrement impossible")
		return
	}
	s.metrics.StoredListings.Add(r.Context(), 1)
	writeJSON(w, http.StatusCreated, added)
}
