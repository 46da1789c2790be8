package response

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
)

// BoolQuery parses an optional boolean query parameter. Absent or malformed values yield nil.
func BoolQuery(r *http.Request, key string) *bool {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}

// TimeQuery parses an optional RFC 3339 or YYYY-MM-DD query parameter.
func TimeQuery(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, apperror.InvalidArgument("invalid %s: %q", key, raw)
}
