// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/moviematch/internal/database"
	"github.com/tomtom215/moviematch/internal/recommend"
)

const (
	defaultMediaLimit    = 20
	defaultMediaPageSize = 50
)

type itemPath struct {
	ItemID string `json:"item_id" validate:"required,itemid"`
}

type popularQuery struct {
	Limit int `query:"limit" validate:"min=1,max=100"`
}

type searchQuery struct {
	Query string `query:"q" validate:"required,min=1,max=200"`
	Limit int    `query:"limit" validate:"min=1,max=100"`
}

type mediaListQuery struct {
	Page       int      `query:"page" validate:"min=1"`
	PageSize   int      `query:"page_size" validate:"min=1,max=100"`
	SortBy     string   `query:"sort_by" validate:"oneof=primaryTitle averageRating"`
	SortDir    string   `query:"sort_dir" validate:"oneof=asc desc"`
	MinRating  float64  `query:"min_rating" validate:"min=0,max=10"`
	Search     string   `query:"search" validate:"max=200"`
	Categories []string `query:"categories" validate:"max=20,dive,min=1,max=64"`
}

// getFloatParam extracts a float query parameter. A malformed value yields
// -1 so range validation rejects it.
func getFloatParam(r *http.Request, key string, defaultValue float64) float64 {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return -1
	}
	return f
}

func getStringParam(r *http.Request, key, defaultValue string) string {
	if value := r.URL.Query().Get(key); value != "" {
		return value
	}
	return defaultValue
}

// ListMedia pages through the catalog with optional filters.
//
// @Summary List catalog ids
// @Description Pages through the catalog. Repeated categories must all match.
// @Tags Media
// @Produce json
// @Param page query int false "1-based page number" default(1)
// @Param page_size query int false "Items per page (1-100)" default(50)
// @Param sort_by query string false "Sort key" Enums(primaryTitle, averageRating) default(primaryTitle)
// @Param sort_dir query string false "Sort direction" Enums(asc, desc) default(asc)
// @Param min_rating query number false "Minimum average rating (0-10)"
// @Param search query string false "Title substring"
// @Param categories query []string false "Required categories" collectionFormat(multi)
// @Success 200 {object} APIResponse{data=database.MediaPage} "One page of ids"
// @Failure 400 {object} APIResponse "Invalid query"
// @Security BearerAuth
// @Router /api/v1/media [get]
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	req := mediaListQuery{
		Page:       getIntParam(r, "page", 1),
		PageSize:   getIntParam(r, "page_size", defaultMediaPageSize),
		SortBy:     getStringParam(r, "sort_by", database.MediaSortTitle),
		SortDir:    getStringParam(r, "sort_dir", "asc"),
		MinRating:  getFloatParam(r, "min_rating", 0),
		Search:     r.URL.Query().Get("search"),
		Categories: r.URL.Query()["categories"],
	}
	if !validateRequest(w, r, &req) {
		return
	}

	page, err := h.store.ListMedia(r.Context(), database.MediaFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		SortBy:     req.SortBy,
		SortDir:    req.SortDir,
		MinRating:  req.MinRating,
		Search:     req.Search,
		Categories: req.Categories,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, page)
}

// MediaCategories lists every category present in the catalog.
//
// @Summary List categories
// @Tags Media
// @Produce json
// @Success 200 {object} APIResponse{data=[]string} "Distinct categories, sorted"
// @Security BearerAuth
// @Router /api/v1/media/categories [get]
func (h *Handler) MediaCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.DistinctCategories(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	respondSuccess(w, r, http.StatusOK, categories)
}

// GetMedia returns one catalog item.
//
// @Summary Get a catalog item
// @Tags Media
// @Produce json
// @Param itemID path string true "Item id (tt1234567)"
// @Success 200 {object} APIResponse{data=recommend.Item} "Item"
// @Failure 404 {object} APIResponse "Unknown item"
// @Security BearerAuth
// @Router /api/v1/media/{itemID} [get]
func (h *Handler) GetMedia(w http.ResponseWriter, r *http.Request) {
	req := itemPath{ItemID: chi.URLParam(r, "itemID")}
	if !validateRequest(w, r, &req) {
		return
	}

	item, err := h.catalog.ItemByID(r.Context(), req.ItemID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, item)
}

// PopularMedia returns the most popular titles, for onboarding new users.
//
// @Summary Most popular titles
// @Tags Media
// @Produce json
// @Param limit query int false "Maximum items (1-100)" default(20)
// @Success 200 {object} APIResponse{data=[]recommend.Item} "Items, most voted first"
// @Failure 400 {object} APIResponse "Invalid limit"
// @Security BearerAuth
// @Router /api/v1/media/popular [get]
func (h *Handler) PopularMedia(w http.ResponseWriter, r *http.Request) {
	req := popularQuery{Limit: getIntParam(r, "limit", defaultMediaLimit)}
	if !validateRequest(w, r, &req) {
		return
	}

	items, err := h.catalog.MostPopular(r.Context(), req.Limit)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if items == nil {
		items = []recommend.Item{}
	}
	respondSuccess(w, r, http.StatusOK, items)
}

// SearchMedia finds titles by substring, most popular first.
//
// @Summary Search titles
// @Tags Media
// @Produce json
// @Param q query string true "Title substring"
// @Param limit query int false "Maximum items (1-100)" default(20)
// @Success 200 {object} APIResponse{data=[]recommend.Item} "Matching items"
// @Failure 400 {object} APIResponse "Missing or invalid query"
// @Security BearerAuth
// @Router /api/v1/media/search [get]
func (h *Handler) SearchMedia(w http.ResponseWriter, r *http.Request) {
	req := searchQuery{
		Query: r.URL.Query().Get("q"),
		Limit: getIntParam(r, "limit", defaultMediaLimit),
	}
	if !validateRequest(w, r, &req) {
		return
	}

	items, err := h.store.SearchTitles(r.Context(), req.Query, req.Limit)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if items == nil {
		items = []recommend.Item{}
	}
	respondSuccess(w, r, http.StatusOK, items)
}
