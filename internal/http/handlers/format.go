package handlers

import (
	"math"
	"strconv"
	"time"
)

// Display formatting for card values. Missing stats render as the
// literal string "N/A" rather than null or zero.

const na = "N/A"

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func round(x float64, digits int) float64 {
	pow := math.Pow(10, float64(digits))
	return math.Round(x*pow) / pow
}

// naInt renders a nullable count.
func naInt(v *int64) any {
	if v == nil {
		return na
	}
	return *v
}

// naPercentile renders a 0..1 percentile as a whole 0..100 number.
func naPercentile(v *float64) any {
	if v == nil {
		return na
	}
	return int(math.Round(*v * 100))
}

// naRound renders a nullable float rounded to the given digits.
func naRound(v *float64, digits int) any {
	if v == nil {
		return na
	}
	return round(*v, digits)
}

// naRatioPct renders a 0..1 ratio as "12.3%".
func naRatioPct(v *float64) any {
	if v == nil {
		return na
	}
	return strconv.FormatFloat(round(*v*100, 1), 'f', -1, 64) + "%"
}

// record renders "W-L-OTL"; the pipeline fills all three together.
func record(wins, losses, otLosses *int64) any {
	if wins == nil {
		return na
	}
	var l, otl int64
	if losses != nil {
		l = *losses
	}
	if otLosses != nil {
		otl = *otLosses
	}
	return strconv.FormatInt(*wins, 10) + "-" + strconv.FormatInt(l, 10) + "-" + strconv.FormatInt(otl, 10)
}

// contractMillions renders a contract value in dollars as "4.5M".
func contractMillions(v *int64) any {
	if v == nil || *v == 0 {
		return na
	}
	return strconv.FormatFloat(float64(*v)/1_000_000, 'f', -1, 64) + "M"
}

func orZeroF(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func orZeroI(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func strOr(v *string, def string) string {
	if v == nil || *v == "" {
		return def
	}
	return *v
}

// formatLastUpdated renders a row timestamp for the pagination
// envelope, "N/A" when the result set is empty or unset.
func formatLastUpdated(t *time.Time) string {
	if t == nil {
		return na
	}
	return t.Format("2006-01-02")
}
