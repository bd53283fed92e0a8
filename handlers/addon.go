package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"cinemind/models"
	"cinemind/services/catalog"
	"cinemind/services/tenant"
)

const (
	addonID      = "community.cinemind"
	addonVersion = "1.2.0"
	addonName    = "CineMind"
	addonDesc    = "AI movie and series suggestions resolved against TMDB. Search by title, mood or theme."

	searchCatalogID   = "cinemind-ai-search"
	trendingCatalogID = "cinemind-trending"
)

// catalogService is the pipeline surface the handlers depend on.
type catalogService interface {
	Catalog(ctx context.Context, tc tenant.Context, mediaType, query string, skip int) ([]models.Meta, error)
	Detail(ctx context.Context, tc tenant.Context, mediaType, id string) (*models.Meta, error)
	Trending(ctx context.Context, tc tenant.Context, mediaType string) []models.Meta
}

var _ catalogService = (*catalog.Service)(nil)

// AddonHandler serves the addon protocol: manifest, catalog and meta routes,
// plus the configure page. Every tenant-scoped route carries a configuration
// token as its first path segment.
type AddonHandler struct {
	Service catalogService
}

func NewAddonHandler(s catalogService) *AddonHandler {
	return &AddonHandler{Service: s}
}

// Register attaches all addon routes to the router.
func (h *AddonHandler) Register(r *mux.Router) {
	r.HandleFunc("/manifest.json", h.BaseManifest).Methods(http.MethodGet)
	r.HandleFunc("/configure", h.Configure).Methods(http.MethodGet)
	r.HandleFunc("/{token}/configure", h.Configure).Methods(http.MethodGet)
	r.HandleFunc("/{token}/manifest.json", h.Manifest).Methods(http.MethodGet)
	r.HandleFunc("/{token}/catalog/{type}/{id}/{extra}.json", h.Catalog).Methods(http.MethodGet)
	r.HandleFunc("/{token}/catalog/{type}/{id}.json", h.Catalog).Methods(http.MethodGet)
	r.HandleFunc("/{token}/meta/{type}/{id}.json", h.Meta).Methods(http.MethodGet)
}

// BaseManifest serves the tokenless manifest: installation requires
// configuration, so it advertises no capabilities.
func (h *AddonHandler) BaseManifest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildManifest(false))
}

// Manifest serves the per-tenant manifest. An undecodable token is a 404; a
// decodable but incomplete configuration gets the empty-capability manifest
// rather than an error, so the router simply has nothing to route.
func (h *AddonHandler) Manifest(w http.ResponseWriter, r *http.Request) {
	tc, err := tenant.Decode(mux.Vars(r)["token"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "invalid configuration"})
		return
	}
	writeJSON(w, http.StatusOK, buildManifest(tc.Configured()))
}

// Catalog resolves one catalog page. Apart from a missing search query this
// route never fails: provider-layer faults were already degraded to an empty
// page further down the pipeline.
func (h *AddonHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tc, err := tenant.Decode(vars["token"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "invalid configuration"})
		return
	}
	if !tc.Configured() {
		writeJSON(w, http.StatusOK, models.CatalogResponse{Metas: []models.Meta{}})
		return
	}

	mediaType := vars["type"]
	extra := parseExtra(vars["extra"])

	if vars["id"] == trendingCatalogID {
		metas := h.Service.Trending(r.Context(), tc, mediaType)
		writeJSON(w, http.StatusOK, models.CatalogResponse{Metas: metas})
		return
	}

	skip := 0
	if v := extra.Get("skip"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			skip = parsed
		}
	}

	metas, err := h.Service.Catalog(r.Context(), tc, mediaType, extra.Get("search"), skip)
	if errors.Is(err, catalog.ErrMissingQuery) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "search query is required"})
		return
	}
	if err != nil {
		// The pipeline contract degrades everything else internally;
		// treat an unexpected error the same way rather than leak it.
		log.Printf("[handlers] catalog %s/%s unexpected error: %v", mediaType, vars["id"], err)
		metas = []models.Meta{}
	}
	writeJSON(w, http.StatusOK, models.CatalogResponse{Metas: metas})
}

// Meta resolves one record by canonical id. Absent resolves to a null meta;
// provider faults surface as 502 because a single detail request has no
// degraded form other than "unknown".
func (h *AddonHandler) Meta(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tc, err := tenant.Decode(vars["token"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "invalid configuration"})
		return
	}
	if !tc.Configured() {
		writeJSON(w, http.StatusOK, models.MetaResponse{Meta: nil})
		return
	}

	meta, err := h.Service.Detail(r.Context(), tc, vars["type"], vars["id"])
	if err != nil {
		log.Printf("[handlers] meta %s/%s error: %v", vars["type"], vars["id"], err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "metadata provider unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, models.MetaResponse{Meta: meta})
}

// buildManifest advertises the addon's capabilities. Unconfigured tenants get
// no resources and no catalogs so the router never sends them requests.
func buildManifest(configured bool) models.Manifest {
	m := models.Manifest{
		ID:          addonID,
		Version:     addonVersion,
		Name:        addonName,
		Description: addonDesc,
		Resources:   []string{},
		Types:       []string{},
		Catalogs:    []models.CatalogDescriptor{},
		BehaviorHints: models.BehaviorHints{
			Configurable:          true,
			ConfigurationRequired: !configured,
		},
	}
	if !configured {
		return m
	}

	m.Resources = []string{"catalog", "meta"}
	m.Types = []string{"movie", "series"}
	m.IDPrefixes = []string{"tt"}
	searchExtra := []models.CatalogExtra{
		{Name: "search", IsRequired: true},
		{Name: "skip"},
	}
	m.Catalogs = []models.CatalogDescriptor{
		{Type: "movie", ID: searchCatalogID, Name: "AI Suggestions", Extra: searchExtra},
		{Type: "series", ID: searchCatalogID, Name: "AI Suggestions", Extra: searchExtra},
		{Type: "movie", ID: trendingCatalogID, Name: "Trending Today"},
		{Type: "series", ID: trendingCatalogID, Name: "Trending Today"},
	}
	return m
}

// parseExtra decodes the extra path segment ("search=blade+runner&skip=20").
// Malformed segments degrade to empty values.
func parseExtra(segment string) url.Values {
	if segment == "" {
		return url.Values{}
	}
	values, err := url.ParseQuery(segment)
	if err != nil {
		return url.Values{}
	}
	return values
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[handlers] write response: %v", err)
	}
}
