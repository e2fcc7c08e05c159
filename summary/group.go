package summary

import (
	"fmt"
	"sort"
)

// GroupKey selects how grouped summaries bin their samples.
type GroupKey string

const (
	GroupByHour  GroupKey = "hour"  // hour of day, 0-23
	GroupByMonth GroupKey = "month" // calendar month, 1-12
)

// maxGroupLines bounds the payload of a grouped summary. Callers that
// need full resolution should request the raw series instead.
const maxGroupLines = 12

var monthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// SummarizeGroups bins a cleaned series by hour-of-day or calendar
// month and reports per-bin non-zero frequency, mean, median and IQR.
// When the zero-inclusive IQR collapses to zero the non-zero-only IQR
// is reported alongside. Output is sorted by bin key ascending and
// capped at 12 lines.
func SummarizeGroups(pts []Point, group GroupKey) []string {
	if len(pts) == 0 {
		return []string{}
	}

	bins := make(map[int][]float64)
	for _, p := range pts {
		key := p.Time.Hour()
		if group == GroupByMonth {
			key = int(p.Time.Month())
		}
		bins[key] = append(bins[key], p.Value)
	}

	keys := make([]int, 0, len(bins))
	for k := range bins {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		v := bins[k]
		nz := positives(v)
		frac := float64(len(nz)) / float64(len(v)) * 100.0
		q25, q75 := quantile(v, 0.25), quantile(v, 0.75)
		line := fmt.Sprintf("%s - non-zero freq %.1f%%, mean %.2f, median %.2f, IQR %.2f-%.2f",
			groupLabel(k, group), frac, mean(v), quantile(v, 0.5), q25, q75)
		if q25 == 0 && q75 == 0 && len(nz) > 0 {
			nzQ25, nzQ75 := quantile(nz, 0.25), quantile(nz, 0.75)
			if nzQ75 > 0 {
				line += fmt.Sprintf(" (non-zero IQR %.2f-%.2f)", nzQ25, nzQ75)
			}
		}
		out = append(out, line)
	}

	if len(out) > maxGroupLines {
		out = out[:maxGroupLines]
	}
	return out
}

func groupLabel(key int, group GroupKey) string {
	if group == GroupByMonth {
		return monthNames[key-1]
	}
	return fmt.Sprintf("%02d UTC", key)
}
