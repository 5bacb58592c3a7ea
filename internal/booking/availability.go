package booking

import (
	"strconv"
	"time"

	"meeting-scheduler/internal/hubspot"
)

// AvailableDurations lists the durations the detail carries buckets for,
// in the provider's key order.
func (s *Scheduler) AvailableDurations() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detail == nil {
		return nil
	}
	keys := s.detail.LinkAvailability.LinkAvailabilityByDuration.Keys()
	out := make([]int64, 0, len(keys))
	for _, key := range keys {
		d, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			s.log.Warnf("non-numeric duration key %q", key)
			continue
		}
		out = append(out, d)
	}
	return out
}

// Availabilities groups the selected duration's future start instants by
// calendar day. Keys are local-midnight timestamps in epoch millis.
func (s *Scheduler) Availabilities() map[int64][]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deriveAvailabilities(s.detail, s.draft.Duration, s.now)
}

// IsValid reports whether the draft can be submitted: every top-level field
// set, the start time available on the selected day, and every required
// custom field filled in.
func (s *Scheduler) IsValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draft
	if d.Duration == 0 || d.Email == "" || d.FirstName == "" || d.LastName == "" ||
		d.Slug == "" || d.StartTime == 0 || d.Timezone == "" {
		return false
	}

	times, ok := deriveAvailabilities(s.detail, d.Duration, s.now)[s.selectedDate]
	if !ok || !containsTime(times, d.StartTime) {
		return false
	}

	if s.detail != nil {
		for _, field := range s.detail.CustomParams.FormFields {
			if field.IsRequired && !truthy(d.FormFields[field.Name]) {
				return false
			}
		}
	}
	return true
}

// deriveAvailabilities is a pure function of its inputs; re-deriving from
// the same detail and duration yields the same mapping.
func deriveAvailabilities(detail *hubspot.MeetingLinkDetail, duration, now int64) map[int64][]int64 {
	out := map[int64][]int64{}
	if detail == nil {
		return out
	}
	bucket, ok := detail.LinkAvailability.LinkAvailabilityByDuration.Get(strconv.FormatInt(duration, 10))
	if !ok {
		return out
	}
	for _, slot := range bucket.Availabilities {
		if slot.StartMillisUTC <= now {
			continue
		}
		// Within a day, provider order is preserved.
		day := dayKey(slot.StartMillisUTC)
		out[day] = append(out[day], slot.StartMillisUTC)
	}
	return out
}

// dayKey truncates an instant to the local midnight of its calendar date.
func dayKey(millis int64) int64 {
	t := time.UnixMilli(millis)
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location()).UnixMilli()
}

func containsTime(times []int64, t int64) bool {
	for _, v := range times {
		if v == t {
			return true
		}
	}
	return false
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	default:
		return true
	}
}
