package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"

	"github.com/sendry-io/sendry-server/internal/policy"
	"github.com/sendry-io/sendry-server/internal/repositories"
	"github.com/sendry-io/sendry-server/internal/service"
	"github.com/sendry-io/sendry-server/internal/utils"
)

type ShareHandler struct {
	svc *service.Service
}

func NewShareHandler(svc *service.Service) *ShareHandler {
	return &ShareHandler{svc: svc}
}

// clientIP prefers the usual proxy headers and falls back to the socket peer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// GET /t/{shortCode}/meta
// Meta godoc
// @Summary Resolve a share link
// @Description Returns display-safe transfer metadata. Never gates, never counts as a download.
// @Tags Share
// @Produce json
// @Param shortCode path string true "Share short code"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/t/{shortCode}/meta [get]
func (h *ShareHandler) Meta(w http.ResponseWriter, r *http.Request) {
	meta, err := h.svc.Resolve(r.Context(), r.PathValue("shortCode"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
				Success: false,
				Message: "Invalid or expired share link",
			})
			return
		}
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to resolve share link",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Share link resolved",
		Data:    meta,
	})
}

type accessRequest struct {
	Password string `json:"password"`
}

// POST /t/{shortCode}/access
// RequestAccess godoc
// @Summary Request download access
// @Description Applies expiry, download-limit and password gates in that order. On success returns ephemeral download URLs.
// @Tags Share
// @Accept json
// @Produce json
// @Param shortCode path string true "Share short code"
// @Param request body accessRequest false "Password, if the transfer has one"
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Failure 410 {object} utils.Payload
// @Router /api/v1/t/{shortCode}/access [post]
func (h *ShareHandler) RequestAccess(w http.ResponseWriter, r *http.Request) {
	var req accessRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
				Success: false,
				Message: "Invalid request body",
			})
			return
		}
	}

	meta := service.RequestMeta{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	}

	grant, err := h.svc.RequestAccess(r.Context(), r.PathValue("shortCode"), req.Password, meta)
	if err != nil {
		h.writeAccessError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Access granted",
		Data:    grant,
	})
}

func (h *ShareHandler) writeAccessError(w http.ResponseWriter, err error) {
	var denied *service.DeniedError
	switch {
	case errors.As(err, &denied):
		switch denied.Reason {
		case policy.DenyExpired:
			utils.JSONResponse(w, http.StatusGone, utils.Payload{
				Success: false,
				Message: "This link has expired",
			})
		case policy.DenyLimitReached:
			utils.JSONResponse(w, http.StatusForbidden, utils.Payload{
				Success: false,
				Message: "Download limit reached",
			})
		case policy.DenyPasswordRequired:
			utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
				Success: false,
				Message: "Password required",
			})
		case policy.DenyBadPassword:
			utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
				Success: false,
				Message: "Incorrect password",
			})
		default:
			utils.JSONResponse(w, http.StatusForbidden, utils.Payload{
				Success: false,
				Message: "Access denied",
			})
		}
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Invalid or expired share link",
		})
	case errors.Is(err, service.ErrConflictRetryExhausted):
		utils.JSONResponse(w, http.StatusServiceUnavailable, utils.Payload{
			Success: false,
			Message: "Transfer is busy, please try again",
		})
	default:
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to grant access",
		})
	}
}

// GET /t/{shortCode}/bundle?exp=&sig=
// Bundle godoc
// @Summary Download all files as a zip
// @Description Streams a zip of every file in the transfer. Requires a signed URL minted by a granted access.
// @Tags Share
// @Produce application/zip
// @Param shortCode path string true "Share short code"
// @Param exp query int true "Signature expiry (unix seconds)"
// @Param sig query string true "HMAC signature"
// @Success 200 {file} binary
// @Failure 403 {object} utils.Payload
// @Router /api/v1/t/{shortCode}/bundle [get]
func (h *ShareHandler) Bundle(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("shortCode")
	exp, err := strconv.ParseInt(r.URL.Query().Get("exp"), 10, 64)
	if err != nil || !h.svc.VerifyBundleToken(code, exp, r.URL.Query().Get("sig")) {
		utils.JSONResponse(w, http.StatusForbidden, utils.Payload{
			Success: false,
			Message: "Invalid or expired download link",
		})
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", code+".zip"))
	if err := h.svc.StreamBundle(r.Context(), code, w); err != nil {
		// Headers are gone by now; all we can do is log and cut the stream.
		log.Printf("Failed to stream bundle for %s: %v", code, err)
	}
}
