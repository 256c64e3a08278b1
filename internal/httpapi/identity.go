package httpapi

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/akwaba-labs/djobi/pkg/provider/ocr"
)

// maxImageSize caps uploaded document scans at 10 MiB.
const maxImageSize = 10 << 20

// readImage extracts the "image" part from a multipart request.
func readImage(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		return nil, err
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, maxImageSize))
}

// handleIdentityExtract runs full CNI field extraction on an uploaded image.
func (s *Server) handleIdentityExtract(w http.ResponseWriter, r *http.Request) {
	if s.ocr == nil {
		writeError(w, http.StatusServiceUnavailable, "extraction de documents non configurée")
		return
	}

	image, err := readImage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image manquante ou invalide")
		return
	}

	start := time.Now()
	result, err := s.ocr.Extract(r.Context(), image)
	s.metrics.OCRDuration.Record(r.Context(), time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, ocr.ErrNotDetected) {
			writeJSON(w, http.StatusUnprocessableEntity, ocr.Result{Detected: false})
			return
		}
		writeError(w, http.StatusBadGateway, "service d'extraction indisponible")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleIdentityValidate is the cheap detection-only pass, used for fast
// feedback before a full extraction.
func (s *Server) handleIdentityValidate(w http.ResponseWriter, r *http.Request) {
	if s.ocr == nil {
		writeError(w, http.StatusServiceUnavailable, "extraction de documents non configurée")
		return
	}

	image, err := readImage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image manquante ou invalide")
		return
	}

	ok, err := s.ocr.Validate(r.Context(), image)
	if err != nil {
		writeError(w, http.StatusBadGateway, "service de validation indisponible")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valide": ok})
}
