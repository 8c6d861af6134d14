package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/sendry-io/sendry-server/internal/repositories"
	"github.com/sendry-io/sendry-server/internal/service"
	"github.com/sendry-io/sendry-server/internal/utils"
)

type DownloadHandler struct {
	svc *service.Service
}

func NewDownloadHandler(svc *service.Service) *DownloadHandler {
	return &DownloadHandler{svc: svc}
}

// GET /download/{fileID}?exp=&sig=
// Download godoc
// @Summary Download a single file
// @Description Streams one file's bytes. Requires a signed URL minted by a granted access.
// @Tags Share
// @Produce octet-stream
// @Param fileID path string true "File ID"
// @Param exp query int true "Signature expiry (unix seconds)"
// @Param sig query string true "HMAC signature"
// @Success 200 {file} binary
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/download/{fileID} [get]
func (h *DownloadHandler) Download(w http.ResponseWriter, r *http.Request) {
	rawID := r.PathValue("fileID")
	exp, err := strconv.ParseInt(r.URL.Query().Get("exp"), 10, 64)
	if err != nil || !h.svc.VerifyFileToken(rawID, exp, r.URL.Query().Get("sig")) {
		utils.JSONResponse(w, http.StatusForbidden, utils.Payload{
			Success: false,
			Message: "Invalid or expired download link",
		})
		return
	}

	fileID, err := uuid.Parse(rawID)
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid file ID",
		})
		return
	}

	file, rc, err := h.svc.OpenFile(r.Context(), fileID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
				Success: false,
				Message: "File not found",
			})
			return
		}
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to open file",
		})
		return
	}
	defer rc.Close()

	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(file.SizeBytes, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	if _, err := io.Copy(w, rc); err != nil {
		log.Printf("Failed to stream file %s: %v", fileID, err)
	}
}
