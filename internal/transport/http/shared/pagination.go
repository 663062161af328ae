package shared

import (
	"net/http"
	"strconv"
	"strings"

	"hrmconsole/internal/hrmapi"
)

// ParseListParams reads page, size, search and month from the query string.
// Invalid numbers are ignored; size is capped at maxSize when positive.
func ParseListParams(r *http.Request, defaultSize, maxSize int) hrmapi.ListParams {
	q := r.URL.Query()
	params := hrmapi.ListParams{
		Size:   defaultSize,
		Search: strings.TrimSpace(q.Get("search")),
		Month:  strings.TrimSpace(q.Get("month")),
	}
	if raw := q.Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			params.Page = v
		}
	}
	if raw := q.Get("size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			params.Size = v
		}
	}
	if maxSize > 0 && params.Size > maxSize {
		params.Size = maxSize
	}
	return params
}
