package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"

	dbpkg "statsheet/internal/db"
	httpctx "statsheet/internal/http/ctx"
)

// Item is a labeled value on a card; Value may be a number or "N/A".
type Item struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// PageResponse is the pagination envelope shared by every paginated
// endpoint. The JSON keys are camelCase by API convention.
type PageResponse struct {
	Data        any    `json:"data"`
	PageNumber  int    `json:"pageNumber"`
	PageSize    int    `json:"pageSize"`
	Total       int64  `json:"total"`
	TotalPages  int    `json:"totalPages"`
	LastUpdated string `json:"lastUpdated"`
}

// SearchResultItem is one autocomplete entry for the names endpoints.
type SearchResultItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SearchResult wraps the names endpoints' payload.
type SearchResult struct {
	Results []SearchResultItem `json:"results"`
}

func jsonResponse(ctx *fasthttp.RequestCtx, code int, v any) {
	ctx.SetStatusCode(code)
	ctx.SetContentType("application/json")
	body, _ := json.Marshal(v)
	ctx.SetBody(body)
}

// errDetail sends {"detail": msg}; validation failures use 400 and
// name the offending parameter.
func errDetail(ctx *fasthttp.RequestCtx, code int, msg string) {
	ctx.SetStatusCode(code)
	ctx.SetContentType("application/json")
	body, _ := json.Marshal(map[string]string{"detail": msg})
	ctx.SetBody(body)
}

// MustUser returns the current user from context, or sends 401 and
// returns (nil, false).
func MustUser(ctx *fasthttp.RequestCtx) (*dbpkg.User, bool) {
	user, ok := httpctx.User(ctx)
	if !ok {
		errDetail(ctx, fasthttp.StatusUnauthorized, "Invalid or missing authentication credentials")
		return nil, false
	}
	return user, true
}

// requireInt reads a mandatory integer query parameter, sending a 400
// itself when the parameter is missing or not an integer.
func requireInt(ctx *fasthttp.RequestCtx, name string) (int, bool) {
	s := string(ctx.QueryArgs().Peek(name))
	if s == "" {
		errDetail(ctx, fasthttp.StatusBadRequest, "Missing required parameter: "+name)
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		errDetail(ctx, fasthttp.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return v, true
}

// optionalInt reads an integer query parameter with a default. The
// bool is false only when the value is present but malformed.
func optionalInt(ctx *fasthttp.RequestCtx, name string, def int) (int, bool) {
	s := string(ctx.QueryArgs().Peek(name))
	if s == "" {
		return def, true
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func queryStr(ctx *fasthttp.RequestCtx, name string) string {
	return string(ctx.QueryArgs().Peek(name))
}

// Fixed allowed-value sets from the data pipeline.
var leagueIDs = []int{37, 38, 84, 39, 112}

const (
	seasonMinCards = 45 // exclusive, i.e. seasons 46..
	seasonMaxCards = 53 // exclusive, ..52
	seasonMaxTeams = 54 // teams have one extra season loaded

	maxPageSize = 500

	defaultCardPageSize  = 24
	defaultStatsPageSize = 100
)

func intBetween(v, gt, lt int) bool { return v > gt && v < lt }

func intOneOf(v int, allowed ...int) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func strOneOf(s string, allowed ...string) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}

// parseIDList parses the comma-separated player_ids parameter. Every
// entry must be a positive integer.
func parseIDList(s string) ([]int64, bool) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func totalPages(total int64, pageSize int) int {
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
