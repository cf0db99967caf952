package granularity

import (
	"strings"

	"github.com/cyp0633/libcalseries/errs"
)

// Parse maps a short code or a name to a built-in granularity: D/daily,
// W/weekly, M/monthly, Q/quarterly, Y/yearly.
func Parse(code string) (Granularity, error) {
	switch code {
	case "D", "daily":
		return Daily, nil
	case "W", "weekly":
		return Weekly, nil
	case "M", "monthly":
		return Monthly, nil
	case "Q", "quarterly":
		return Quarterly, nil
	case "Y", "yearly":
		return Yearly, nil
	default:
		return nil, errs.New(errs.Validation, "invalid granularity value: %q", code)
	}
}

// MustParse is like Parse but panics on error.
func MustParse(code string) Granularity {
	g, err := Parse(code)
	if err != nil {
		panic(err)
	}
	return g
}

// ParseList parses every code, in order.
func ParseList(codes ...string) ([]Granularity, error) {
	res := make([]Granularity, 0, len(codes))
	for _, code := range codes {
		g, err := Parse(strings.TrimSpace(code))
		if err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, nil
}
