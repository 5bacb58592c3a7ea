// Package booking holds the form state of one in-progress meeting booking:
// link selection, per-timezone availability fetches, custom-field values and
// submission. One Scheduler instance owns one draft; it is never shared
// across bookings.
package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"meeting-scheduler/internal/hubspot"
)

const (
	DefaultDuration = 1_800_000 // 30 minutes in millis
	DefaultTimezone = "Europe/Paris"
)

// API is the surface the scheduler consumes; satisfied by *hubspot.Client
// or by any client of the proxy layer.
type API interface {
	ListMeetingLinks(ctx context.Context, params hubspot.ListParams) ([]hubspot.MeetingLink, error)
	GetMeetingLink(ctx context.Context, slug, timezone string) (*hubspot.MeetingLinkDetail, error)
	BookMeeting(ctx context.Context, booking hubspot.BookingRequest) (*hubspot.BookingConfirmation, error)
}

var _ API = (*hubspot.Client)(nil)

type UserInfo struct {
	Email     string
	FirstName string
	LastName  string
}

type Options struct {
	// CustomFormValues fully seeds the draft's custom fields; when set,
	// defaults are never auto-populated from the link detail.
	CustomFormValues map[string]any
	MeetingName      string
	MeetingType      string // PERSONAL_LINK, GROUP_CALENDAR, ROUND_ROBIN_CALENDAR
	OrganizerID      string
	StartDate        time.Time
	User             UserInfo
}

// Draft is the in-progress booking. FormFields maps custom field name to a
// value matching the field's declared value type.
type Draft struct {
	Duration   int64
	Email      string
	FirstName  string
	LastName   string
	Slug       string
	StartTime  int64
	Timezone   string
	FormFields map[string]any
}

// Scheduler drives the three-stage booking flow: list links, select one,
// fetch its detail and build a valid draft. All state is re-derived on read;
// "now" is captured once at construction and never re-evaluated, so a
// session left open across midnight keeps its original cutoff.
type Scheduler struct {
	log *logrus.Entry
	api API
	now int64 // epoch millis at construction

	mu           sync.Mutex
	filters      hubspot.ListParams
	links        []hubspot.MeetingLink
	selected     *hubspot.MeetingLink
	selectedDate int64
	detail       *hubspot.MeetingLinkDetail
	draft        Draft
	sealedFields bool // caller-supplied custom values, never reseed

	// Detail fetch bookkeeping: only the latest issued generation may
	// apply its response, so a slow stale fetch never overwrites a
	// fresher one.
	detailGen    uint64
	inFlightSlug string
	inFlightTZ   string
}

func New(ctx context.Context, log *logrus.Logger, api API, opts Options) *Scheduler {
	now := time.Now().UnixMilli()
	start := now
	if !opts.StartDate.IsZero() {
		start = opts.StartDate.UnixMilli()
	}

	s := &Scheduler{
		log: log.WithField("component", "booking"),
		api: api,
		now: now,
		draft: Draft{
			Duration:   DefaultDuration,
			Email:      opts.User.Email,
			FirstName:  opts.User.FirstName,
			LastName:   opts.User.LastName,
			StartTime:  start,
			Timezone:   DefaultTimezone,
			FormFields: map[string]any{},
		},
	}
	if opts.CustomFormValues != nil {
		for name, value := range opts.CustomFormValues {
			s.draft.FormFields[name] = value
		}
		s.sealedFields = true
	}

	s.SetFilters(ctx, hubspot.ListParams{
		Name:        opts.MeetingName,
		OrganizerID: opts.OrganizerID,
		Type:        opts.MeetingType,
	})
	return s
}

// SetFilters replaces the listing filters and re-fetches the link list.
// A failed fetch leaves the list empty; the caller may call again.
func (s *Scheduler) SetFilters(ctx context.Context, params hubspot.ListParams) {
	links, err := s.api.ListMeetingLinks(ctx, params)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = params
	if err != nil {
		s.log.Warnf("list meeting links: %v", err)
		s.links = nil
		return
	}
	s.links = links
}

func (s *Scheduler) Filters() hubspot.ListParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

func (s *Scheduler) MeetingLinks() []hubspot.MeetingLink {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]hubspot.MeetingLink(nil), s.links...)
}

// CanSelectMeeting reports whether the caller must offer an explicit choice.
func (s *Scheduler) CanSelectMeeting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.links) > 1
}

func (s *Scheduler) Selected() *hubspot.MeetingLink {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	link := *s.selected
	return &link
}

func (s *Scheduler) Detail() *hubspot.MeetingLinkDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detail
}

// Draft returns a copy of the current draft.
func (s *Scheduler) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draft
	d.FormFields = make(map[string]any, len(s.draft.FormFields))
	for name, value := range s.draft.FormFields {
		d.FormFields[name] = value
	}
	return d
}

func (s *Scheduler) SelectedDate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedDate
}

// SelectMeeting commits the link's slug into the draft and fetches its
// detail for the draft's timezone.
func (s *Scheduler) SelectMeeting(ctx context.Context, link hubspot.MeetingLink) {
	s.mu.Lock()
	s.selected = &link
	s.draft.Slug = link.Slug
	s.mu.Unlock()
	s.fetchDetail(ctx, false)
}

func (s *Scheduler) SelectDuration(duration int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Duration = duration
}

// SelectTimezone re-fetches the detail even if an identical fetch is in
// flight; the older response is superseded, never applied.
func (s *Scheduler) SelectTimezone(ctx context.Context, timezone string) {
	s.mu.Lock()
	s.draft.Timezone = timezone
	s.mu.Unlock()
	s.fetchDetail(ctx, true)
}

// SelectDate picks the calendar-day key the times are shown for.
func (s *Scheduler) SelectDate(day int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedDate = day
}

func (s *Scheduler) SelectTime(startTime int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.StartTime = startTime
}

// RefreshDetail re-issues the detail fetch for the current slug and
// timezone, de-duplicating against an identical in-flight request.
func (s *Scheduler) RefreshDetail(ctx context.Context) {
	s.fetchDetail(ctx, false)
}

func (s *Scheduler) fetchDetail(ctx context.Context, force bool) {
	s.mu.Lock()
	if s.selected == nil {
		s.mu.Unlock()
		return
	}
	slug, tz := s.draft.Slug, s.draft.Timezone
	if !force && s.inFlightSlug == slug && s.inFlightTZ == tz {
		s.mu.Unlock()
		return
	}
	s.detailGen++
	gen := s.detailGen
	s.inFlightSlug, s.inFlightTZ = slug, tz
	s.mu.Unlock()

	detail, err := s.api.GetMeetingLink(ctx, slug, tz)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.detailGen {
		// A newer fetch was issued while this one was in flight.
		return
	}
	s.inFlightSlug, s.inFlightTZ = "", ""
	if err != nil {
		s.log.Warnf("fetch meeting link %q: %v", slug, err)
		s.detail = nil
		return
	}
	s.detail = detail
	s.seedFormFields(detail.CustomParams.FormFields)
}

// Book submits the whole draft atomically. Not retried here: the provider
// contract has no idempotency key, so a retry may double-book.
func (s *Scheduler) Book(ctx context.Context) (*hubspot.BookingConfirmation, error) {
	s.mu.Lock()
	booking := hubspot.BookingRequest{
		Duration:               s.draft.Duration,
		Email:                  s.draft.Email,
		FirstName:              s.draft.FirstName,
		LastName:               s.draft.LastName,
		Slug:                   s.draft.Slug,
		StartTime:              s.draft.StartTime,
		Timezone:               s.draft.Timezone,
		GuestEmails:            []string{},
		LikelyAvailableUserIDs: []string{},
		FormFields:             hubspot.FormFieldList(s.draft.FormFields),
	}
	s.mu.Unlock()

	confirmation, err := s.api.BookMeeting(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("book meeting: %w", err)
	}
	return confirmation, nil
}
