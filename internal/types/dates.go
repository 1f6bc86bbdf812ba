package types

import "time"

const dateLayout = "2006-01-02"

// AddDays returns date shifted by n days, in YYYY-MM-DD form. An
// unparseable or empty date yields an empty string so callers can use
// it directly for row date defaults.
func AddDays(date string, n int) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, n).Format(dateLayout)
}
