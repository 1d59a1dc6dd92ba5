package validators

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/stockmasterhq/stockmaster-backend/pkg/errors"
)

// ParseQueryUUID reads an optional uuid query parameter. Absent returns nil.
func ParseQueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a uuid").
			WithDetails(map[string]any{"field": key})
	}
	return &id, nil
}

// ParseQueryDate reads an optional date query parameter. Both RFC 3339
// timestamps and bare YYYY-MM-DD dates are accepted. The second return value
// reports a bare date, which a caller using the value as an end bound should
// widen to the end of that day; an explicit RFC 3339 midnight stays exact.
func ParseQueryDate(r *http.Request, key string) (*time.Time, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, false, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, false, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true, nil
	}
	return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be an RFC 3339 timestamp or YYYY-MM-DD date").
		WithDetails(map[string]any{"field": key})
}

// ParseQueryInt reads an optional positive integer query parameter. Absent
// returns 0.
func ParseQueryInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a positive integer").
			WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// QueryString reads an optional trimmed string query parameter.
func QueryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
