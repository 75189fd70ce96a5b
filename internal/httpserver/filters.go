package httpserver

import (
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type queryError struct {
	field string
	msg   string
}

func (e *queryError) Error() string { return e.field + ": " + e.msg }

func parseDecimal(q url.Values, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, &queryError{key, "Enter a number."}
	}
	return &d, nil
}

func parseOrdering(raw string) []repo.SortField {
	var out []repo.SortField
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		out = append(out, repo.SortField{Column: strings.TrimPrefix(part, "-"), Desc: desc})
	}
	return out
}

func parseProductFilter(q url.Values) (repo.ProductFilter, error) {
	f := repo.ProductFilter{
		NameIExact:    q.Get("name__iexact"),
		NameIContains: q.Get("name__icontains"),
		Search:        strings.TrimSpace(q.Get("search")),
		Ordering:      parseOrdering(q.Get("ordering")),
	}

	var err error
	if f.Price, err = parseDecimal(q, "price"); err != nil {
		return f, err
	}
	if f.PriceLT, err = parseDecimal(q, "price__lt"); err != nil {
		return f, err
	}
	if f.PriceGT, err = parseDecimal(q, "price__gt"); err != nil {
		return f, err
	}

	if raw := q.Get("price__range"); raw != "" {
		loRaw, hiRaw, ok := strings.Cut(raw, ",")
		if !ok {
			return f, &queryError{"price__range", "Enter two numbers separated by a comma."}
		}
		lo, err1 := decimal.NewFromString(strings.TrimSpace(loRaw))
		hi, err2 := decimal.NewFromString(strings.TrimSpace(hiRaw))
		if err1 != nil || err2 != nil {
			return f, &queryError{"price__range", "Enter two numbers separated by a comma."}
		}
		f.PriceMin, f.PriceMax = &lo, &hi
	}
	return f, nil
}

const dateLayout = "2006-01-02"

// parseInstant accepts RFC 3339 or a bare date. dateOnly reports the latter.
func parseInstant(raw string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), false, nil
	}
	if t, err = time.Parse(dateLayout, raw); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, err
}

func parseOrderFilter(q url.Values) (repo.OrderFilter, error) {
	var f repo.OrderFilter

	if raw := q.Get("status"); raw != "" {
		st := models.OrderStatus(raw)
		if !st.Valid() {
			return f, &queryError{"status", "Select a valid choice."}
		}
		f.Status = st
	}

	if raw := q.Get("created_at"); raw != "" {
		t, dateOnly, err := parseInstant(raw)
		if err != nil {
			return f, &queryError{"created_at", "Enter a valid date/time."}
		}
		if dateOnly {
			f.CreatedOn = &t
		} else {
			f.CreatedAt = &t
		}
	}

	bounds := []struct {
		key string
		dst **time.Time
	}{
		{"created_at__lt", &f.CreatedBefore},
		{"created_at__gt", &f.CreatedAfter},
	}
	for _, b := range bounds {
		raw := q.Get(b.key)
		if raw == "" {
			continue
		}
		t, _, err := parseInstant(raw)
		if err != nil {
			return f, &queryError{b.key, "Enter a valid date/time."}
		}
		*b.dst = &t
	}
	return f, nil
}
