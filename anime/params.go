package anime

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Params is the query shape shared by every list operation. Providers
// translate the fields they understand and ignore the rest.
type Params struct {
	Page       int
	PerPage    int
	Sort       string
	Order      string // "asc" or "desc"
	Search     string
	Format     string
	Status     string
	Rating     string
	Genre      string
	Season     string
	SeasonYear int
}

// ParamsFromValues reads Params from a query string. Both the canonical names
// and the REST-style aliases (limit, order_by, q, type) are accepted; unknown
// keys and unparsable numbers are dropped.
func ParamsFromValues(v url.Values) Params {
	return Params{
		Page:       intValue(v, "page"),
		PerPage:    intValue(v, "perPage", "per_page", "limit"),
		Sort:       strValue(v, "sort", "order_by"),
		Order:      strings.ToLower(strValue(v, "order")),
		Search:     strValue(v, "search", "q"),
		Format:     strValue(v, "format", "type"),
		Status:     strValue(v, "status"),
		Rating:     strValue(v, "rating"),
		Genre:      strValue(v, "genre"),
		Season:     strings.ToLower(strValue(v, "season")),
		SeasonYear: intValue(v, "seasonYear", "season_year", "year"),
	}
}

func strValue(v url.Values, keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(v.Get(k)); s != "" {
			return s
		}
	}
	return ""
}

func intValue(v url.Values, keys ...string) int {
	for _, k := range keys {
		s := strings.TrimSpace(v.Get(k))
		if s == "" {
			continue
		}
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// Seasons in calendar order.
const (
	Winter = "winter"
	Spring = "spring"
	Summer = "summer"
	Fall   = "fall"
)

// CurrentSeason returns the broadcast season and year containing t.
// December belongs to the winter season of the same year.
func CurrentSeason(t time.Time) (year int, season string) {
	switch t.Month() {
	case time.March, time.April, time.May:
		season = Spring
	case time.June, time.July, time.August:
		season = Summer
	case time.September, time.October, time.November:
		season = Fall
	default:
		season = Winter
	}
	return t.Year(), season
}

// ValidSeason reports whether s names one of the four seasons.
func ValidSeason(s string) bool {
	switch s {
	case Winter, Spring, Summer, Fall:
		return true
	}
	return false
}
