package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sendry-io/sendry-server/internal/api/middleware"
	"github.com/sendry-io/sendry-server/internal/config"
	"github.com/sendry-io/sendry-server/internal/repositories"
	"github.com/sendry-io/sendry-server/internal/service"
	"github.com/sendry-io/sendry-server/internal/utils"
)

type TransferHandler struct {
	svc *service.Service
}

func NewTransferHandler(svc *service.Service) *TransferHandler {
	return &TransferHandler{svc: svc}
}

// ownerID pulls the authenticated user out of the request context.
func ownerID(r *http.Request) (uuid.UUID, bool) {
	raw, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok || raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// POST /transfers
// Create godoc
// @Summary Create a transfer
// @Description Upload one or more files (folder structure preserved via paths) and receive a share link.
// @Tags Transfers
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files to upload" style(form) explode(true)
// @Param paths formData string false "Relative path per file, positionally paired (empty for standalone files)"
// @Param title formData string true "Transfer title"
// @Param description formData string false "Transfer description"
// @Param password formData string false "Optional access password"
// @Param expiresAt formData string false "Optional RFC3339 expiry"
// @Param maxDownloads formData int false "Optional download limit"
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/transfers [post]
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	maxUpload := config.Envs.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid file upload form",
		})
		return
	}

	formFiles := r.MultipartForm.File["files"]
	paths := r.MultipartForm.Value["paths"]

	input := service.CreateInput{
		OwnerID:     owner,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Password:    r.FormValue("password"),
	}

	if raw := r.FormValue("expiresAt"); raw != "" {
		expiresAt, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
				Success: false,
				Message: "Invalid expiresAt, must be RFC3339",
			})
			return
		}
		input.ExpiresAt = &expiresAt
	}
	if raw := r.FormValue("maxDownloads"); raw != "" {
		maxDownloads, err := strconv.Atoi(raw)
		if err != nil {
			utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
				Success: false,
				Message: "Invalid maxDownloads",
			})
			return
		}
		input.MaxDownloads = &maxDownloads
	}

	for i, handler := range formFiles {
		src, err := handler.Open()
		if err != nil {
			utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
				Success: false,
				Message: "Could not read uploaded file",
			})
			return
		}
		defer src.Close()

		relativePath := ""
		if i < len(paths) {
			relativePath = paths[i]
		}
		input.Files = append(input.Files, service.FileUpload{
			Name:         handler.Filename,
			RelativePath: relativePath,
			MimeType:     handler.Header.Get("Content-Type"),
			Size:         handler.Size,
			Content:      src,
		})
	}

	transfer, shareURL, err := h.svc.Create(r.Context(), input)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
				Success: false,
				Message: verr.Reason,
			})
			return
		}
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to store files",
		})
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Transfer created successfully",
		Data: map[string]any{
			"id":        transfer.ID,
			"shortCode": transfer.ShortCode,
			"shareUrl":  shareURL,
		},
	})
}

// GET /transfers/mine
// ListMine godoc
// @Summary List the caller's transfers
// @Description Returns every transfer owned by the authenticated user, files included, ungated.
// @Tags Transfers
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /api/v1/transfers/mine [get]
func (h *TransferHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	transfers, err := h.svc.ListMine(r.Context(), owner)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to list transfers",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Transfers retrieved successfully",
		Data: map[string]any{
			"transfers": transfers,
		},
	})
}

// DELETE /transfers/{id}
// Delete godoc
// @Summary Delete a transfer
// @Description Removes a transfer, its files, its blobs and its audit trail. Owner only.
// @Tags Transfers
// @Produce json
// @Param id path string true "Transfer ID"
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/transfers/{id} [delete]
func (h *TransferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	transferID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid transfer ID",
		})
		return
	}

	switch err := h.svc.Delete(r.Context(), owner, transferID); {
	case err == nil:
		utils.JSONResponse(w, http.StatusOK, utils.Payload{
			Success: true,
			Message: "Transfer deleted successfully",
		})
	case errors.Is(err, service.ErrForbidden):
		utils.JSONResponse(w, http.StatusForbidden, utils.Payload{
			Success: false,
			Message: "You do not own this transfer",
		})
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Transfer not found",
		})
	default:
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to delete transfer",
		})
	}
}
