package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"brandforge/internal/domain"
)

// ListAssets returns the caller's generated assets with pagination.
func (a *App) ListAssets(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	filter := domain.AssetFilter{
		BrandProfileID: r.URL.Query().Get("brandProfileId"),
		Type:           domain.AssetType(r.URL.Query().Get("assetType")),
		Limit:          limit,
		Offset:         offset,
	}
	assets, total, err := a.Assets.List(r.Context(), userID, filter)
	if err != nil {
		a.Logger.Error().Err(err).Msg("http: list assets failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load assets")
		return
	}
	items := make([]map[string]any, 0, len(assets))
	for i := range assets {
		items = append(items, assetView(&assets[i]))
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"assets":  items,
		"pagination": map[string]int{
			"total":  total,
			"limit":  filter.Limit,
			"offset": filter.Offset,
		},
	})
}

// SetPrimaryAsset flips the primary flag to the given asset and clears every
// sibling in the same scope.
func (a *App) SetPrimaryAsset(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	assetID := chi.URLParam(r, "assetID")
	asset, err := a.Assets.SetPrimary(r.Context(), assetID, userID)
	if err != nil {
		a.repoError(w, err, "asset not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "asset": assetView(asset)})
}

// DeleteAsset removes the asset's backing blob and then its row. The row is
// only deleted once the blob is gone, so a deleted asset's storage path can
// never keep serving; an orphaned blob failure leaves the row intact for a
// retry.
func (a *App) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	assetID := chi.URLParam(r, "assetID")
	asset, err := a.Assets.GetByID(r.Context(), assetID, userID)
	if err != nil {
		a.repoError(w, err, "asset not found")
		return
	}
	if asset.FilePath != "" && a.Blobs != nil {
		if err := a.Blobs.Remove(r.Context(), asset.FilePath); err != nil {
			a.Logger.Error().Err(err).Str("asset_id", assetID).Str("key", asset.FilePath).Msg("http: blob removal failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to delete asset file")
			return
		}
	}
	if _, err := a.Assets.Delete(r.Context(), assetID, userID); err != nil {
		a.repoError(w, err, "asset not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "message": "asset deleted"})
}

func assetView(asset *domain.Asset) map[string]any {
	view := map[string]any{
		"id":        asset.ID,
		"jobId":     asset.JobID,
		"assetType": asset.Type,
		"fileName":  asset.FileName,
		"fileUrl":   asset.FileURL,
		"fileSize":  asset.FileSize,
		"mimeType":  asset.MIMEType,
		"width":     asset.Width,
		"height":    asset.Height,
		"isPrimary": asset.IsPrimary,
		"aiPrompt":  asset.AIPrompt,
		"aiModel":   asset.AIModel,
		"createdAt": asset.CreatedAt.UTC().Format(time.RFC3339),
	}
	if asset.BrandProfileID != "" {
		view["brandProfileId"] = asset.BrandProfileID
	}
	if len(asset.ParamsJSON) > 0 {
		view["params"] = json.RawMessage(asset.ParamsJSON)
	}
	return view
}
