package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meeting-scheduler/internal/hubspot"
)

// localMidnight computes a day key the same way a calendar widget would:
// the local midnight of the instant's calendar date.
func localMidnight(millis int64) int64 {
	t := time.UnixMilli(millis)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).UnixMilli()
}

func selectDetail(t *testing.T, detail *hubspot.MeetingLinkDetail) *Scheduler {
	t.Helper()
	api := &fakeAPI{
		links: []hubspot.MeetingLink{link("a")},
		detailFn: func(context.Context, string, string) (*hubspot.MeetingLinkDetail, error) {
			return detail, nil
		},
	}
	s := newScheduler(t, api, Options{})
	s.SelectMeeting(context.Background(), api.links[0])
	return s
}

func TestAvailabilitiesFilterPastInstants(t *testing.T) {
	past := time.Now().Add(-time.Hour).UnixMilli()
	future := time.Now().Add(time.Hour).UnixMilli()
	s := selectDetail(t, detailWithSlots(t, "", past, future))

	got := s.Availabilities()
	require.Len(t, got, 1)
	assert.Equal(t, []int64{future}, got[localMidnight(future)])
}

func TestAvailabilitiesGroupByCalendarDay(t *testing.T) {
	now := time.Now()
	tomorrow10 := time.Date(now.Year(), now.Month(), now.Day()+1, 10, 0, 0, 0, time.Local).UnixMilli()
	tomorrow11 := time.Date(now.Year(), now.Month(), now.Day()+1, 11, 0, 0, 0, time.Local).UnixMilli()
	dayAfter9 := time.Date(now.Year(), now.Month(), now.Day()+2, 9, 0, 0, 0, time.Local).UnixMilli()

	s := selectDetail(t, detailWithSlots(t, "", tomorrow10, tomorrow11, dayAfter9))

	got := s.Availabilities()
	require.Len(t, got, 2)
	// Provider order is preserved inside a day bucket.
	assert.Equal(t, []int64{tomorrow10, tomorrow11}, got[localMidnight(tomorrow10)])
	assert.Equal(t, []int64{dayAfter9}, got[localMidnight(dayAfter9)])
}

func TestAvailabilitiesEmptyForAbsentDuration(t *testing.T) {
	future := time.Now().Add(time.Hour).UnixMilli()
	s := selectDetail(t, detailWithSlots(t, "", future))

	s.SelectDuration(900000)
	assert.Empty(t, s.Availabilities())
	assert.Equal(t, []int64{1800000}, s.AvailableDurations())
}

func TestAvailabilitiesDerivationIsIdempotent(t *testing.T) {
	future := time.Now().Add(time.Hour).UnixMilli()
	s := selectDetail(t, detailWithSlots(t, "", future, future+1800000))

	first := s.Availabilities()
	second := s.Availabilities()
	assert.Equal(t, first, second)
}

func TestAvailableDurationsKeepProviderOrder(t *testing.T) {
	detail := detailFromJSON(t, `{
		"linkId": "l1",
		"customParams": {"formFields": []},
		"linkAvailability": {
			"linkAvailabilityByDuration": {
				"1800000": {"meetingDurationMillis": 1800000, "availabilities": []},
				"900000":  {"meetingDurationMillis": 900000,  "availabilities": []},
				"3600000": {"meetingDurationMillis": 3600000, "availabilities": []}
			},
			"hasMore": false
		}
	}`)
	s := selectDetail(t, detail)
	assert.Equal(t, []int64{1800000, 900000, 3600000}, s.AvailableDurations())
}

func TestAvailabilitiesEmptyBeforeDetailLoads(t *testing.T) {
	s := newScheduler(t, &fakeAPI{}, Options{})
	assert.Empty(t, s.Availabilities())
	assert.Nil(t, s.AvailableDurations())
}

func TestIsValid(t *testing.T) {
	future := time.Now().Add(time.Hour).UnixMilli()
	fields := `{"name": "color", "label": "Color", "fieldType": "text", "type": "string", "isCustom": true, "isRequired": true},
		{"name": "notes", "label": "Notes", "fieldType": "textarea", "type": "string", "isCustom": true, "isRequired": false}`

	setup := func(t *testing.T) *Scheduler {
		s := selectDetail(t, detailWithSlots(t, fields, future))
		s.ChangeFormField("email", "a@b.com")
		s.ChangeFormField("firstName", "Ada")
		s.ChangeFormField("lastName", "Lovelace")
		s.ChangeFormField("color", "blue")
		s.SelectDate(localMidnight(future))
		s.SelectTime(future)
		return s
	}

	t.Run("complete draft is valid", func(t *testing.T) {
		assert.True(t, setup(t).IsValid())
	})

	t.Run("optional custom field may stay empty", func(t *testing.T) {
		s := setup(t)
		s.ChangeFormField("notes", "")
		assert.True(t, s.IsValid())
	})

	t.Run("missing identity field", func(t *testing.T) {
		s := setup(t)
		s.ChangeFormField("email", "")
		assert.False(t, s.IsValid())
	})

	t.Run("empty required custom field", func(t *testing.T) {
		s := setup(t)
		s.ChangeFormField("color", "")
		assert.False(t, s.IsValid())
	})

	t.Run("start time not on the selected day", func(t *testing.T) {
		s := setup(t)
		s.SelectTime(future + 60_000)
		assert.False(t, s.IsValid())
	})

	t.Run("no day selected", func(t *testing.T) {
		s := setup(t)
		s.SelectDate(0)
		assert.False(t, s.IsValid())
	})
}
