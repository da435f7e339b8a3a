package adaptor

import (
	"errors"
	"io"
	"net/http"

	"reuniteme/internal/dto/request"
	"reuniteme/internal/usecase"
	"reuniteme/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultMaxUploadMB = 10

type ContributionHandler struct {
	service  usecase.ContributionService
	maxBytes int64
	log      *zap.Logger
}

func NewContributionHandler(service usecase.ContributionService, maxUploadMB int64, log *zap.Logger) *ContributionHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = defaultMaxUploadMB
	}
	return &ContributionHandler{
		service:  service,
		maxBytes: maxUploadMB << 20,
		log:      log.With(zap.String("handler", "contribution")),
	}
}

// readForm parses the multipart body. A missing "file" part yields a nil file.
func (h *ContributionHandler) readForm(w http.ResponseWriter, r *http.Request) (*request.UploadFile, *request.ContributionMetadata, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			utils.ResponseBadRequest(w, "File too large", nil)
		case errors.Is(err, http.ErrNotMultipart):
			utils.ResponseBadRequest(w, usecase.MsgNoFile, nil)
		default:
			utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		}
		return nil, nil, false
	}

	meta := &request.ContributionMetadata{
		Name:        r.FormValue("name"),
		Address:     r.FormValue("address"),
		Phone:       r.FormValue("phone"),
		Description: r.FormValue("description"),
	}

	part, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, meta, true
	}
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return nil, nil, false
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		h.log.Warn("Failed to read uploaded file", zap.Error(err))
		utils.ResponseBadRequest(w, "Failed to read uploaded file", nil)
		return nil, nil, false
	}

	return &request.UploadFile{Filename: header.Filename, Data: data}, meta, true
}

// Upload handles POST /api/users/upload
func (h *ContributionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	file, meta, ok := h.readForm(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Upload(r.Context(), userID, file, meta)
	if err != nil {
		handleServiceError(w, h.log, err, "upload image")
		return
	}

	utils.ResponseCreated(w, "Image uploaded successfully!", resp)
}

// Update handles PUT /api/users/images/{imageId}
func (h *ContributionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	file, meta, ok := h.readForm(w, r)
	if !ok {
		return
	}

	if err := h.service.Update(r.Context(), userID, chi.URLParam(r, "imageId"), file, meta); err != nil {
		handleServiceError(w, h.log, err, "update image")
		return
	}

	utils.ResponseSuccess(w, "Reunite seeker information updated successfully!", nil)
}

// List handles GET /api/users/images
func (h *ContributionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	images, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list images")
		return
	}

	utils.ResponseSuccess(w, "Images retrieved successfully", images)
}

// GetURL handles GET /api/users/images/{imageId}
func (h *ContributionHandler) GetURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	resp, err := h.service.GetURL(r.Context(), userID, chi.URLParam(r, "imageId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get image url")
		return
	}

	utils.ResponseSuccess(w, "Image url generated successfully", resp)
}

// MapsURL handles GET /api/users/maps/{imageId}
func (h *ContributionHandler) MapsURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	resp, err := h.service.MapsURL(r.Context(), userID, chi.URLParam(r, "imageId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get image location")
		return
	}

	utils.ResponseSuccess(w, "Location retrieved successfully", resp)
}

// Delete handles DELETE /api/users/images/{imageId} and its GET alias
func (h *ContributionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "imageId")); err != nil {
		handleServiceError(w, h.log, err, "delete image")
		return
	}

	utils.ResponseSuccess(w, "Image deleted successfully!", nil)
}

// AllContributions handles GET /api/admins/users/all-contributions
func (h *ContributionHandler) AllContributions(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.AllContributions(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list all contributions")
		return
	}

	utils.ResponseSuccess(w, "Contributions retrieved successfully", all)
}

// PlotInfo handles GET /api/admins/users/plot-info
func (h *ContributionHandler) PlotInfo(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.PlotInfo(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get plot info")
		return
	}

	utils.ResponseSuccess(w, "Plot info retrieved successfully", points)
}
