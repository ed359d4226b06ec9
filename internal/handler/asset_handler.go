package handler

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"promodrive/internal/domain"
	"promodrive/internal/service"
)

const maxAssetSize = 512 << 20 // 512MB

type AssetHandler struct {
	assetService *service.AssetService
}

func NewAssetHandler(assetService *service.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

func (h *AssetHandler) UploadAsset(w http.ResponseWriter, r *http.Request) {
	log.Printf("[UploadAsset] Processing new asset upload")

	if err := r.ParseMultipartForm(maxAssetSize); err != nil {
		log.Printf("[UploadAsset] Failed to parse multipart form: %v", err)
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Printf("[UploadAsset] Missing file in form: %v", err)
		http.Error(w, "File is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("[UploadAsset] Failed to read file: %v", err)
		http.Error(w, "Failed to read file", http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}

	asset, err := h.assetService.RegisterAsset(r.Context(), domain.AssetUpload{
		ClientID: r.FormValue("client_id"),
		Name:     name,
		MIMEType: header.Header.Get("Content-Type"),
		Data:     data,
	})
	if err != nil {
		writeError(w, "UploadAsset", err)
		return
	}

	writeJSON(w, http.StatusCreated, asset)
}

func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, "GetAsset", domain.ValidationError("invalid asset uuid"))
		return
	}

	asset, err := h.assetService.GetAsset(r.Context(), id)
	if err != nil {
		writeError(w, "GetAsset", err)
		return
	}

	writeJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assetService.ListAssets(r.Context(), r.URL.Query().Get("client_id"))
	if err != nil {
		writeError(w, "ListAssets", err)
		return
	}

	if assets == nil {
		assets = []domain.Asset{}
	}

	writeJSON(w, http.StatusOK, assets)
}

func (h *AssetHandler) DownloadAsset(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, "DownloadAsset", domain.ValidationError("invalid asset uuid"))
		return
	}

	download, err := h.assetService.DownloadAsset(r.Context(), id)
	if err != nil {
		writeError(w, "DownloadAsset", err)
		return
	}

	w.Header().Set("Content-Type", download.Asset.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Asset.Name))
	w.Write(download.Data)
}
