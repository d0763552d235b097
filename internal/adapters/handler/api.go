package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"imgforge/internal/core/domain"
)

type uploadResponse struct {
	JobID      string `json:"jobId"`
	PreviewURL string `json:"previewUrl"`
}

type fileResponse struct {
	FileID      string `json:"fileId"`
	DownloadURL string `json:"downloadUrl"`
}

type processRequest struct {
	JobID  string            `json:"jobId"`
	Tool   string            `json:"tool"`
	Params domain.ToolParams `json:"params"`
}

type shareRequest struct {
	FileID string `json:"fileId"`
}

type shareResponse struct {
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expiresAt"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		respondError(w, http.StatusBadRequest, "no file")
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		respondError(w, http.StatusBadRequest, "invalid type")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unreadable upload")
		return
	}

	meta, err := s.store.Put(r.Context(), data, header.Filename)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respond(w, http.StatusOK, uploadResponse{
		JobID:      meta.ID,
		PreviewURL: "/api/download/" + meta.ID,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.Stat(r.PathValue("id")); err != nil {
		respond(w, http.StatusNotFound, map[string]string{"status": "not_found"})
		return
	}

	respond(w, http.StatusOK, map[string]string{"status": "uploaded"})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, r.PathValue("id"))
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.JobID == "" || req.Tool == "" {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	transform, err := s.tools.Get(req.Tool)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unknown tool")
		return
	}

	src, meta, err := s.store.Get(r.Context(), req.JobID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	out, err := transform.Apply(r.Context(), src, req.Params)
	if err != nil {
		respondTransformError(w, err)
		return
	}

	result, err := s.store.Put(r.Context(), out, req.Tool+"-"+meta.DisplayName)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respond(w, http.StatusOK, fileResponse{
		FileID:      result.ID,
		DownloadURL: "/api/download/" + result.ID,
	})
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*int64(s.cfg.MaxMergeFiles))

	reader, err := r.MultipartReader()
	if err != nil {
		respondError(w, http.StatusBadRequest, "multipart body required")
		return
	}

	var images [][]byte
	for len(images) < s.cfg.MaxMergeFiles {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			respondError(w, http.StatusBadRequest, "malformed multipart body")
			return
		}
		if part.FileName() == "" {
			continue
		}

		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			respondError(w, http.StatusBadRequest, "unreadable upload")
			return
		}
		images = append(images, data)
	}

	if len(images) == 0 {
		respondError(w, http.StatusBadRequest, "no images")
		return
	}

	doc, err := s.assembler.Merge(r.Context(), images)
	if err != nil {
		if errors.Is(err, domain.ErrNoContent) {
			respondError(w, http.StatusBadRequest, "no images")
			return
		}
		log.Error().Err(err).Msg("merge failed")
		respondError(w, http.StatusInternalServerError, "merge failed")
		return
	}

	meta, err := s.store.Put(r.Context(), doc, "merged.pdf")
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respond(w, http.StatusOK, fileResponse{
		FileID:      meta.ID,
		DownloadURL: "/api/download/" + meta.ID,
	})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FileID == "" {
		respondError(w, http.StatusBadRequest, "fileId required")
		return
	}

	token, err := s.issuer.Issue(r.Context(), req.FileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		log.Error().Err(err).Msg("issuing share token failed")
		respondError(w, http.StatusInternalServerError, "share failed")
		return
	}

	respond(w, http.StatusOK, shareResponse{
		URL:       fmt.Sprintf("/api/public/%s?token=%s", req.FileID, token.Token),
		ExpiresAt: token.ExpiresAt.UnixMilli(),
	})
}

func (s *Server) handlePublic(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.issuer.Validate(r.URL.Query().Get("token"), id); err != nil {
		respondError(w, http.StatusForbidden, "invalid token")
		return
	}

	s.serveArtifact(w, r, id)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.PathValue("id")); err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	respond(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, id string) {
	data, meta, err := s.store.Get(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment",
		map[string]string{"filename": meta.DisplayName}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Debug().Str("id", id).Err(err).Msg("client went away mid-download")
	}
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed writing response")
	}
}

func respondError(w http.ResponseWriter, status int, reason string) {
	respond(w, status, map[string]string{"error": reason})
}

// respondStoreError keeps never-existed and reaped artifacts uniform.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrParameter):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("storage failure")
		respondError(w, http.StatusInternalServerError, "storage failure")
	}
}

func respondTransformError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrParameter):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDecode):
		respondError(w, http.StatusBadRequest, "undecodable image")
	default:
		log.Error().Err(err).Msg("transform failed")
		respondError(w, http.StatusInternalServerError, "transform failed")
	}
}
