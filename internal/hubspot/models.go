package hubspot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// MeetingLink is one bookable scheduling link from the listing endpoint.
type MeetingLink struct {
	ID                   string   `json:"id"`
	Slug                 string   `json:"slug"`
	Link                 string   `json:"link"`
	Name                 string   `json:"name"`
	Type                 string   `json:"type"` // PERSONAL_LINK, GROUP_CALENDAR, ROUND_ROBIN_CALENDAR
	OrganizerUserID      string   `json:"organizerUserId"`
	UserIDsOfLinkMembers []string `json:"userIdsOfLinkMembers"`
	DefaultLink          bool     `json:"defaultLink"`
	CreatedAt            string   `json:"createdAt"`
	UpdatedAt            string   `json:"updatedAt"`
}

// CustomFormField is a per-link extra booking question defined by the provider.
// FieldType drives rendering, Type drives the empty value shape.
type CustomFormField struct {
	Name       string `json:"name"`
	Label      string `json:"label"`
	FieldType  string `json:"fieldType"`
	Type       string `json:"type"` // string, number, date, datetime, enumeration
	IsCustom   bool   `json:"isCustom"`
	IsRequired bool   `json:"isRequired"`
}

type GuestSettings struct {
	CanAddGuests  bool `json:"canAddGuests"`
	MaxGuestCount int  `json:"maxGuestCount"`
}

// CustomParams carries the link's booking-page configuration. Consent and
// branding subtrees are passed through untouched.
type CustomParams struct {
	LegalConsentEnabled       bool              `json:"legalConsentEnabled"`
	OwnerPrioritized          bool              `json:"ownerPrioritized"`
	LegalConsentOptions       json.RawMessage   `json:"legalConsentOptions,omitempty"`
	FormFields                []CustomFormField `json:"formFields"`
	DisplayInfo               json.RawMessage   `json:"displayInfo,omitempty"`
	GuestSettings             GuestSettings     `json:"guestSettings"`
	MeetingBufferTime         int64             `json:"meetingBufferTime"`
	Availability              json.RawMessage   `json:"availability,omitempty"`
	StartTimeIncrementMinutes string            `json:"startTimeIncrementMinutes"`
	WeeksToAdvertise          int               `json:"weeksToAdvertise"`
	Durations                 []int64           `json:"durations"`
	Location                  string            `json:"location"`
	WelcomeScreenInfo         json.RawMessage   `json:"welcomeScreenInfo,omitempty"`
}

// Availability is one free slot computed by the provider, in epoch millis UTC.
type Availability struct {
	StartMillisUTC int64 `json:"startMillisUtc"`
	EndMillisUTC   int64 `json:"endMillisUtc"`
}

type DurationBucket struct {
	MeetingDurationMillis int64          `json:"meetingDurationMillis"`
	Availabilities        []Availability `json:"availabilities"`
}

// DurationBuckets maps a duration (millis, as a decimal string) to its
// availability bucket, preserving the provider's key order.
type DurationBuckets struct {
	keys    []string
	buckets map[string]DurationBucket
}

func (d *DurationBuckets) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil { // JSON null
		d.keys, d.buckets = nil, nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("linkAvailabilityByDuration: expected object, got %v", tok)
	}
	d.keys = nil
	d.buckets = make(map[string]DurationBucket)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("linkAvailabilityByDuration: non-string key %v", keyTok)
		}
		var bucket DurationBucket
		if err := dec.Decode(&bucket); err != nil {
			return err
		}
		if _, dup := d.buckets[key]; !dup {
			d.keys = append(d.keys, key)
		}
		d.buckets[key] = bucket
	}
	_, err = dec.Token()
	return err
}

func (d DurationBuckets) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(d.buckets[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Keys returns the duration keys in provider order.
func (d DurationBuckets) Keys() []string {
	return append([]string(nil), d.keys...)
}

func (d DurationBuckets) Get(key string) (DurationBucket, bool) {
	b, ok := d.buckets[key]
	return b, ok
}

func (d DurationBuckets) Len() int { return len(d.keys) }

type LinkAvailability struct {
	LinkAvailabilityByDuration DurationBuckets `json:"linkAvailabilityByDuration"`
	HasMore                    bool            `json:"hasMore"`
}

// MeetingLinkDetail is the full booking-page payload for one link.
type MeetingLinkDetail struct {
	LinkID            string           `json:"linkId"`
	IsOffline         bool             `json:"isOffline"`
	LinkType          string           `json:"linkType"`
	CustomParams      CustomParams     `json:"customParams"`
	AllUsersBusyTimes json.RawMessage  `json:"allUsersBusyTimes,omitempty"`
	BrandingMetadata  json.RawMessage  `json:"brandingMetadata,omitempty"`
	LinkAvailability  LinkAvailability `json:"linkAvailability"`
}

// AvailabilityPage is the availability-page endpoint's envelope; callers
// usually want only LinkAvailability.
type AvailabilityPage struct {
	AllUsersBusyTimes json.RawMessage  `json:"allUsersBusyTimes,omitempty"`
	LinkAvailability  LinkAvailability `json:"linkAvailability"`
}

// FormField is the name/value pair shape the booking endpoint requires.
type FormField struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// FormFieldList converts a name->value map into the list form the provider
// expects, sorted by name so the output is deterministic.
func FormFieldList(fields map[string]any) []FormField {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]FormField, 0, len(keys))
	for _, k := range keys {
		out = append(out, FormField{Name: k, Value: fields[k]})
	}
	return out
}

// BookingRequest is the upstream wire form of a booking.
type BookingRequest struct {
	Duration               int64       `json:"duration"`
	Email                  string      `json:"email"`
	FirstName              string      `json:"firstName"`
	LastName               string      `json:"lastName"`
	Slug                   string      `json:"slug"`
	StartTime              int64       `json:"startTime"`
	Timezone               string      `json:"timezone"`
	GuestEmails            []string    `json:"guestEmails"`
	LikelyAvailableUserIDs []string    `json:"likelyAvailableUserIds"`
	FormFields             []FormField `json:"formFields"`
}

type ConfirmedFormField struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Value     string `json:"value"`
	IsCustom  bool   `json:"isCustom"`
	FieldType string `json:"fieldType"`
}

// BookingConfirmation is the provider's success payload for a booking.
type BookingConfirmation struct {
	CalendarEventID        string               `json:"calendarEventId"`
	Start                  string               `json:"start"`
	End                    string               `json:"end"`
	Duration               int64                `json:"duration"`
	ContactID              string               `json:"contactId"`
	BookingTimezone        string               `json:"bookingTimezone"`
	Locale                 string               `json:"locale"`
	LegalConsentResponses  json.RawMessage      `json:"legalConsentResponses,omitempty"`
	FormFields             []ConfirmedFormField `json:"formFields"`
	GuestEmails            []string             `json:"guestEmails"`
	Subject                string               `json:"subject"`
	Location               string               `json:"location"`
	WebConferenceMeetingID string               `json:"webConferenceMeetingId"`
	WebConferenceURL       string               `json:"webConferenceUrl"`
	IsOffline              bool                 `json:"isOffline"`
}
