package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meeting-scheduler/internal/hubspot"
)

type listQuery struct {
	Name        string `form:"name"`
	OrganizerID string `form:"organizerId"`
	Type        string `form:"type"`
}

// GET /meetings
// Returns the provider's results array only; the pagination envelope is dropped.
func (a *App) ListMeetingLinksHandler(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": FieldIssues(err)})
		return
	}
	if q.Name == "" {
		q.Name = a.cfg.DefaultMeetingName
	}
	if q.OrganizerID == "" {
		q.OrganizerID = a.cfg.DefaultOrganizerID
	}
	if q.Type == "" {
		q.Type = a.cfg.DefaultMeetingType
	}

	links, err := a.hubspot.ListMeetingLinks(c.Request.Context(), hubspot.ListParams{
		Name:        q.Name,
		OrganizerID: q.OrganizerID,
		Type:        q.Type,
	})
	if err != nil {
		a.log.Warnf("list meeting links: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream request failed"})
		return
	}
	if links == nil {
		links = []hubspot.MeetingLink{}
	}
	c.JSON(http.StatusOK, links)
}

// GET /meetings/:slug
func (a *App) GetMeetingLinkHandler(c *gin.Context) {
	slug := c.Param("slug")
	timezone := c.DefaultQuery("timezone", DefaultTimezone)

	detail, err := a.hubspot.GetMeetingLink(c.Request.Context(), slug, timezone)
	if err != nil {
		a.log.Warnf("get meeting link %q: %v", slug, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream request failed"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GET /meetings/availabilities/:slug
// Narrower projection than the detail endpoint: linkAvailability only.
func (a *App) GetAvailabilityHandler(c *gin.Context) {
	slug := c.Param("slug")
	timezone := c.DefaultQuery("timezone", DefaultTimezone)

	page, err := a.hubspot.GetAvailabilityPage(c.Request.Context(), slug, timezone)
	if err != nil {
		a.log.Warnf("get availability for %q: %v", slug, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream request failed"})
		return
	}
	c.JSON(http.StatusOK, page.LinkAvailability)
}

type bookRequest struct {
	Duration               int64          `json:"duration" binding:"required"`
	Email                  string         `json:"email" binding:"required,email"`
	FirstName              string         `json:"firstName" binding:"required"`
	LastName               string         `json:"lastName" binding:"required"`
	Slug                   string         `json:"slug" binding:"required"`
	StartTime              int64          `json:"startTime" binding:"required"`
	Timezone               string         `json:"timezone"`
	GuestEmails            []string       `json:"guestEmails"`
	LikelyAvailableUserIDs []string       `json:"likelyAvailableUserIds"`
	FormFields             map[string]any `json:"formFields"`
}

// POST /meetings/book
// Accepts formFields as a name->value map and forwards it in the list form
// the provider requires. Not idempotent: a retried request may double-book.
func (a *App) BookMeetingHandler(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": FieldIssues(err)})
		return
	}
	if req.Timezone == "" {
		req.Timezone = DefaultTimezone
	}
	if req.GuestEmails == nil {
		req.GuestEmails = []string{}
	}
	if req.LikelyAvailableUserIDs == nil {
		req.LikelyAvailableUserIDs = []string{}
	}

	confirmation, err := a.hubspot.BookMeeting(c.Request.Context(), hubspot.BookingRequest{
		Duration:               req.Duration,
		Email:                  req.Email,
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		Slug:                   req.Slug,
		StartTime:              req.StartTime,
		Timezone:               req.Timezone,
		GuestEmails:            req.GuestEmails,
		LikelyAvailableUserIDs: req.LikelyAvailableUserIDs,
		FormFields:             hubspot.FormFieldList(req.FormFields),
	})
	if err != nil {
		a.log.Warnf("book meeting %q: %v", req.Slug, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream request failed"})
		return
	}
	c.JSON(http.StatusOK, confirmation)
}
