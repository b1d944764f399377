package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"brandforge/internal/domain"
	"brandforge/internal/domaincheck"
	"brandforge/internal/providers/completion"
)

const (
	defaultNameCount = 10
	maxNameCount     = 20
)

type nameGenerateRequest struct {
	Niche        string   `json:"niche"`
	Style        string   `json:"style"`
	Keywords     []string `json:"keywords"`
	Count        int      `json:"count"`
	CheckDomains bool     `json:"checkDomains"`
}

type nameCheckRequest struct {
	NameIDs []string `json:"nameIds"`
}

// GenerateNames produces business name candidates synchronously, optionally
// annotated with domain availability.
func (a *App) GenerateNames(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req nameGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Niche = strings.TrimSpace(req.Niche)
	if len(req.Niche) < 2 {
		a.error(w, http.StatusBadRequest, "bad_request", "niche must be at least 2 characters")
		return
	}
	if req.Count <= 0 {
		req.Count = defaultNameCount
	}
	if req.Count > maxNameCount {
		req.Count = maxNameCount
	}
	if a.Completion == nil {
		a.error(w, http.StatusInternalServerError, "internal", "name generation unavailable")
		return
	}

	raw, err := a.Completion.Complete(r.Context(), completion.Request{
		System: "You are a brand naming expert. Respond only with a JSON array of strings.",
		Prompt: buildNamePrompt(req),
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("http: name generation call failed")
		a.error(w, http.StatusInternalServerError, "internal", "name generation failed")
		return
	}
	candidates, usedFallback, err := completion.ParseStringArray(raw, req.Count)
	if err != nil || len(candidates) == 0 {
		a.Logger.Error().Err(err).Msg("http: name response unparseable")
		a.error(w, http.StatusInternalServerError, "internal", "name generation failed")
		return
	}
	if usedFallback {
		a.Logger.Warn().Msg("http: name response parsed heuristically")
	}

	batchID := uuid.NewString()
	names := make([]domain.BrandName, 0, len(candidates))
	for _, candidate := range candidates {
		name := domain.BrandName{
			ID:      uuid.NewString(),
			UserID:  userID,
			BatchID: batchID,
			Name:    candidate,
			Niche:   req.Niche,
			Style:   req.Style,
		}
		if req.CheckDomains {
			if result, checkErr := a.Domains.CheckName(r.Context(), candidate); checkErr == nil {
				name.DomainAvailable = result.DomainAvailable
				name.DomainsJSON = marshalDomains(result)
			} else {
				a.Logger.Warn().Err(checkErr).Str("name", candidate).Msg("http: domain check failed")
			}
		}
		names = append(names, name)
	}
	if err := a.Names.SaveAll(r.Context(), names); err != nil {
		a.Logger.Error().Err(err).Msg("http: save names failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save names")
		return
	}

	items := make([]map[string]any, 0, len(names))
	for i := range names {
		items = append(items, nameView(&names[i]))
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"names":   items,
		"batchId": batchID,
	})
}

// CheckNameDomains re-runs domain availability for previously generated
// names and persists the refreshed snapshots.
func (a *App) CheckNameDomains(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req nameCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if len(req.NameIDs) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "nameIds must not be empty")
		return
	}
	names, err := a.Names.GetByIDs(r.Context(), req.NameIDs, userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("http: load names failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load names")
		return
	}
	if len(names) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no matching names")
		return
	}

	results := make([]map[string]any, 0, len(names))
	for i := range names {
		name := &names[i]
		result, checkErr := a.Domains.CheckName(r.Context(), name.Name)
		if checkErr != nil {
			a.Logger.Warn().Err(checkErr).Str("name", name.Name).Msg("http: domain re-check failed")
			results = append(results, map[string]any{
				"nameId":  name.ID,
				"name":    name.Name,
				"checked": false,
			})
			continue
		}
		name.DomainAvailable = result.DomainAvailable
		name.DomainsJSON = marshalDomains(result)
		if err := a.Names.UpdateDomains(r.Context(), name.ID, userID, result.DomainAvailable, name.DomainsJSON); err != nil {
			a.Logger.Error().Err(err).Str("name_id", name.ID).Msg("http: persist domain check failed")
		}
		results = append(results, map[string]any{
			"nameId":          name.ID,
			"name":            name.Name,
			"checked":         true,
			"domainAvailable": result.DomainAvailable,
			"domains":         result.Domains,
			"heuristic":       result.Heuristic,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "results": results})
}

func buildNamePrompt(req nameGenerateRequest) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Generate %d creative business names for the %q niche.", req.Count, req.Niche)
	if req.Style != "" {
		fmt.Fprintf(sb, " Naming style: %s.", req.Style)
	}
	if len(req.Keywords) > 0 {
		fmt.Fprintf(sb, " Incorporate or evoke these keywords where natural: %s.", strings.Join(req.Keywords, ", "))
	}
	sb.WriteString(" Names must be short, brandable and easy to pronounce.")
	sb.WriteString(` Respond strictly as a JSON array of strings, e.g. ["Nimbus","Loftly"].`)
	return sb.String()
}

func nameView(name *domain.BrandName) map[string]any {
	view := map[string]any{
		"id":              name.ID,
		"batchId":         name.BatchID,
		"name":            name.Name,
		"niche":           name.Niche,
		"style":           name.Style,
		"domainAvailable": name.DomainAvailable,
	}
	if len(name.DomainsJSON) > 0 {
		view["domains"] = json.RawMessage(name.DomainsJSON)
	}
	if !name.CreatedAt.IsZero() {
		view["createdAt"] = name.CreatedAt.UTC().Format(time.RFC3339)
	}
	return view
}

func marshalDomains(result domaincheck.NameResult) []byte {
	data, err := json.Marshal(result.Domains)
	if err != nil {
		return nil
	}
	return data
}
