package web

import (
	"fmt"
	"io"
	"net/http"
)

// maxSDSBytes caps safety data sheet uploads at 20 MB.
const maxSDSBytes = 20 << 20

func (s *Server) handleUploadSDS(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireActor(w, r); !ok {
		return
	}

	solventID := r.PathValue("id")
	solvent, err := s.catalog.GetSolvent(r.Context(), solventID)
	if err != nil {
		s.logger.Error("failed to load solvent", "error", err)
		writeServiceError(w, err)
		return
	}
	if solvent == nil {
		writeError(w, http.StatusNotFound, "not_found", "solvent not found")
		return
	}

	mimeType := r.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	body := http.MaxBytesReader(w, r.Body, maxSDSBytes)
	key, err := s.sdsBlobs.Save(r.Context(), "sds_"+solventID, mimeType, body)
	if err != nil {
		s.logger.Error("failed to store sds document", "solvent_id", solventID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to store document")
		return
	}

	doc, err := s.sdsMeta.Upsert(r.Context(), solventID, key, mimeType)
	if err != nil {
		s.logger.Error("failed to record sds document", "solvent_id", solventID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to record document")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"solventId":  doc.SolventID,
		"mimeType":   doc.MimeType,
		"uploadedAt": doc.UploadedAt,
	})
}

func (s *Server) handleGetSDS(w http.ResponseWriter, r *http.Request) {
	solventID := r.PathValue("id")
	doc, err := s.sdsMeta.GetBySolventID(r.Context(), solventID)
	if err != nil {
		s.logger.Error("failed to load sds record", "solvent_id", solventID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load document")
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "not_found", "no safety data sheet for this solvent")
		return
	}

	rc, mimeType, err := s.sdsBlobs.Get(r.Context(), doc.StorageKey)
	if err != nil {
		s.logger.Error("failed to open sds blob", "solvent_id", solventID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load document")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.StorageKey))
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error("failed to stream sds blob", "solvent_id", solventID, "error", err)
	}
}
