package auth

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var relativeExpiry = regexp.MustCompile(`^(\d+)([dw])$`)

// ParseExpiration turns a CLI expiry flag into an absolute time. Accepted:
// "never" or "" (no expiry), any Go duration ("36h"), "30d", "4w", and a
// calendar date as dd/mm/yyyy or yyyy-mm-dd, which must lie in the future.
func ParseExpiration(in string, now time.Time) (*time.Time, error) {
	if in == "" || in == "never" {
		return nil, nil
	}

	if dur, err := time.ParseDuration(in); err == nil {
		if dur <= 0 {
			return nil, fmt.Errorf("expiration must be positive: %s", in)
		}
		t := now.Add(dur)
		return &t, nil
	}

	if m := relativeExpiry.FindStringSubmatch(in); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n == 0 {
			return nil, fmt.Errorf("invalid expiration: %s", in)
		}
		days := n
		if m[2] == "w" {
			days = n * 7
		}
		t := now.AddDate(0, 0, days)
		return &t, nil
	}

	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, in, now.Location()); err == nil {
			if !t.After(now) {
				return nil, fmt.Errorf("expiration date must be in the future: %s", in)
			}
			return &t, nil
		}
	}

	return nil, fmt.Errorf("invalid expiration format: %s (use 'never', '30d', '4w', '36h', '31/12/2026' or '2026-12-31')", in)
}
