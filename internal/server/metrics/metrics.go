// Package metrics derives per-activity figures and calendar buckets from
// stored activities and aggregates them into chart-ready series. Everything
// here is pure computation on already-fetched data; nothing is persisted.
package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/stravastats/internal/server/models"
)

// ActivityMetrics carries the derived figures for one activity.
// VelocityKmh is nil when the activity has zero moving time: velocity is
// undefined there, which is distinct from a defined velocity of zero.
type ActivityMetrics struct {
	ExternalID     int64     `json:"id"`
	Type           string    `json:"type"`
	StartDate      time.Time `json:"start_date"`
	DistanceKm     float64   `json:"distance_km"`
	MovingTimeMin  float64   `json:"moving_time_min"`
	ElapsedTimeMin float64   `json:"elapsed_time_min"`
	VelocityKmh    *float64  `json:"velocity_kmh,omitempty"`

	// WeekID is the ISO week bucket, e.g. "2025-01". It uses the ISO
	// week-numbering year: a late-December activity can fall into week 1
	// of the following year.
	WeekID  string `json:"week_id"`
	ISOYear int    `json:"-"`
	ISOWeek int    `json:"-"`

	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// WeekID formats the ISO week bucket key for t.
func WeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-%02d", year, week)
}

// Derive computes per-activity metrics. Empty input yields an empty slice.
func Derive(acts []models.Activity) []ActivityMetrics {
	result := make([]ActivityMetrics, 0, len(acts))
	for _, a := range acts {
		m := ActivityMetrics{
			ExternalID:     a.ExternalID,
			Type:           a.Type,
			StartDate:      a.StartDate,
			DistanceKm:     a.DistanceMeters / 1000,
			MovingTimeMin:  float64(a.MovingTimeSeconds) / 60,
			ElapsedTimeMin: float64(a.ElapsedTimeSeconds) / 60,
			Year:           a.StartDate.Year(),
			Month:          a.StartDate.Month(),
		}
		m.ISOYear, m.ISOWeek = a.StartDate.ISOWeek()
		m.WeekID = fmt.Sprintf("%04d-%02d", m.ISOYear, m.ISOWeek)

		if a.MovingTimeSeconds > 0 {
			v := m.DistanceKm / (float64(a.MovingTimeSeconds) / 3600)
			m.VelocityKmh = &v
		}

		result = append(result, m)
	}
	return result
}

// WeeklyStat aggregates one ISO week. AvgVelocityKmh averages only the
// activities with a defined velocity and is nil when the week has none.
type WeeklyStat struct {
	WeekID         string   `json:"week_id"`
	ISOYear        int      `json:"-"`
	ISOWeek        int      `json:"-"`
	Activities     int      `json:"activities"`
	DistanceKm     float64  `json:"distance_km"`
	AvgVelocityKmh *float64 `json:"avg_velocity_kmh,omitempty"`
}

// Weekly buckets activities into ISO weeks, ordered by the chronological
// start of each week (ISO year, then week number).
func Weekly(ms []ActivityMetrics) []WeeklyStat {
	type acc struct {
		stat          WeeklyStat
		velocitySum   float64
		velocityCount int
	}
	buckets := make(map[string]*acc)
	for _, m := range ms {
		b, ok := buckets[m.WeekID]
		if !ok {
			b = &acc{stat: WeeklyStat{WeekID: m.WeekID, ISOYear: m.ISOYear, ISOWeek: m.ISOWeek}}
			buckets[m.WeekID] = b
		}
		b.stat.Activities++
		b.stat.DistanceKm += m.DistanceKm
		if m.VelocityKmh != nil {
			b.velocitySum += *m.VelocityKmh
			b.velocityCount++
		}
	}

	result := make([]WeeklyStat, 0, len(buckets))
	for _, b := range buckets {
		if b.velocityCount > 0 {
			avg := b.velocitySum / float64(b.velocityCount)
			b.stat.AvgVelocityKmh = &avg
		}
		result = append(result, b.stat)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ISOYear != result[j].ISOYear {
			return result[i].ISOYear < result[j].ISOYear
		}
		return result[i].ISOWeek < result[j].ISOWeek
	})
	return result
}

// MonthlyStat aggregates one calendar month.
type MonthlyStat struct {
	Year       int        `json:"year"`
	Month      time.Month `json:"month"`
	Activities int        `json:"activities"`
	DistanceKm float64    `json:"distance_km"`
}

// Monthly buckets activities into calendar months, ordered chronologically.
func Monthly(ms []ActivityMetrics) []MonthlyStat {
	type key struct {
		year  int
		month time.Month
	}
	buckets := make(map[key]*MonthlyStat)
	for _, m := range ms {
		k := key{m.Year, m.Month}
		b, ok := buckets[k]
		if !ok {
			b = &MonthlyStat{Year: m.Year, Month: m.Month}
			buckets[k] = b
		}
		b.Activities++
		b.DistanceKm += m.DistanceKm
	}

	result := make([]MonthlyStat, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Month < result[j].Month
	})
	return result
}

// TypeStat aggregates one activity type.
type TypeStat struct {
	Type       string  `json:"type"`
	Activities int     `json:"activities"`
	DistanceKm float64 `json:"distance_km"`
}

// ByType buckets activities per type, most frequent first; ties break on the
// type name.
func ByType(ms []ActivityMetrics) []TypeStat {
	buckets := make(map[string]*TypeStat)
	for _, m := range ms {
		b, ok := buckets[m.Type]
		if !ok {
			b = &TypeStat{Type: m.Type}
			buckets[m.Type] = b
		}
		b.Activities++
		b.DistanceKm += m.DistanceKm
	}

	result := make([]TypeStat, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Activities != result[j].Activities {
			return result[i].Activities > result[j].Activities
		}
		return result[i].Type < result[j].Type
	})
	return result
}

// WeekdayStat counts activities on one day of the week.
type WeekdayStat struct {
	Day        string `json:"day"`
	Activities int    `json:"activities"`
}

// ByWeekday counts activities per day of the week. The result always holds
// all seven days, Monday first, so the series keeps a stable shape for
// charting even when some days are empty.
func ByWeekday(ms []ActivityMetrics) []WeekdayStat {
	counts := make(map[time.Weekday]int)
	for _, m := range ms {
		counts[m.StartDate.Weekday()]++
	}

	result := make([]WeekdayStat, 0, 7)
	for i := 0; i < 7; i++ {
		// rotate so the week starts on Monday
		day := time.Weekday((i + 1) % 7)
		result = append(result, WeekdayStat{Day: day.String(), Activities: counts[day]})
	}
	return result
}

// Summary is the dashboard's headline row.
type Summary struct {
	Activities      int     `json:"activities"`
	DistanceKm      float64 `json:"distance_km"`
	MovingTimeHours float64 `json:"moving_time_hours"`
	ActivityTypes   int     `json:"activity_types"`
}

// Summarize computes overall totals across all activities.
func Summarize(ms []ActivityMetrics) Summary {
	s := Summary{Activities: len(ms)}
	types := make(map[string]struct{})
	for _, m := range ms {
		s.DistanceKm += m.DistanceKm
		s.MovingTimeHours += m.MovingTimeMin / 60
		types[m.Type] = struct{}{}
	}
	s.ActivityTypes = len(types)
	return s
}
