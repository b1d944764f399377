package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"brandforge/internal/domain"
)

func TestSetPrimaryAsset(t *testing.T) {
	app, _, assetRepo, _ := newTestApp()
	assetRepo.assets["asset-1"] = &domain.Asset{ID: "asset-1", UserID: "user-1", BrandProfileID: "p1", Type: domain.AssetTypeLogo, IsPrimary: true}
	assetRepo.assets["asset-2"] = &domain.Asset{ID: "asset-2", UserID: "user-1", BrandProfileID: "p1", Type: domain.AssetTypeLogo}

	req := httptest.NewRequest(http.MethodPatch, "/v1/assets/asset-2/primary", nil)
	rec := serve(app, "user-1", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	asset, _ := body["asset"].(map[string]any)
	if asset == nil || asset["isPrimary"] != true {
		t.Errorf("asset = %v, want isPrimary true", asset)
	}
	if assetRepo.assets["asset-1"].IsPrimary {
		t.Error("previous primary flag not cleared")
	}
}

func TestSetPrimaryAssetNotOwned(t *testing.T) {
	app, _, assetRepo, _ := newTestApp()
	assetRepo.assets["asset-1"] = &domain.Asset{ID: "asset-1", UserID: "other-user"}

	req := httptest.NewRequest(http.MethodPatch, "/v1/assets/asset-1/primary", nil)
	rec := serve(app, "user-1", req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteAssetRemovesBlob(t *testing.T) {
	app, _, assetRepo, _ := newTestApp()
	blobs := &fakeBlobs{}
	app.Blobs = blobs
	assetRepo.assets["asset-1"] = &domain.Asset{ID: "asset-1", UserID: "user-1", FilePath: "user-1/logo-1.png"}

	req := httptest.NewRequest(http.MethodDelete, "/v1/assets/asset-1", nil)
	rec := serve(app, "user-1", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := assetRepo.assets["asset-1"]; ok {
		t.Error("asset row still present")
	}
	if len(blobs.removed) != 1 || blobs.removed[0] != "user-1/logo-1.png" {
		t.Errorf("removed blobs = %v", blobs.removed)
	}
}

func TestDeleteAssetBlobFailureKeepsRow(t *testing.T) {
	app, _, assetRepo, _ := newTestApp()
	app.Blobs = &fakeBlobs{err: errFake}
	assetRepo.assets["asset-1"] = &domain.Asset{ID: "asset-1", UserID: "user-1", FilePath: "user-1/logo-1.png"}

	req := httptest.NewRequest(http.MethodDelete, "/v1/assets/asset-1", nil)
	rec := serve(app, "user-1", req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 when the blob cannot be removed", rec.Code)
	}
	if _, ok := assetRepo.assets["asset-1"]; !ok {
		t.Error("row deleted despite blob removal failure, leaving a dangling reference")
	}
}

func TestDeleteAssetWithoutBlobPath(t *testing.T) {
	app, _, assetRepo, _ := newTestApp()
	blobs := &fakeBlobs{}
	app.Blobs = blobs
	assetRepo.assets["asset-1"] = &domain.Asset{ID: "asset-1", UserID: "user-1"}

	req := httptest.NewRequest(http.MethodDelete, "/v1/assets/asset-1", nil)
	rec := serve(app, "user-1", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for an asset with no stored file", rec.Code)
	}
	if len(blobs.removed) != 0 {
		t.Errorf("removed = %v, want no blob calls", blobs.removed)
	}
}

func TestListAssetsPagination(t *testing.T) {
	app, _, assetRepo, _ := newTestApp()
	assetRepo.assets["asset-1"] = &domain.Asset{ID: "asset-1", UserID: "user-1", BrandProfileID: "p1"}
	assetRepo.assets["asset-2"] = &domain.Asset{ID: "asset-2", UserID: "user-1", BrandProfileID: "p2"}
	assetRepo.assets["asset-3"] = &domain.Asset{ID: "asset-3", UserID: "other-user"}

	req := httptest.NewRequest(http.MethodGet, "/v1/assets?brandProfileId=p1&limit=10", nil)
	rec := serve(app, "user-1", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	assets, _ := body["assets"].([]any)
	if len(assets) != 1 {
		t.Fatalf("assets = %d, want 1", len(assets))
	}
	pagination, _ := body["pagination"].(map[string]any)
	if pagination == nil || pagination["total"] != float64(1) {
		t.Errorf("pagination = %v", pagination)
	}
}
