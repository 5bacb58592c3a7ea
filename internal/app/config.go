package app

import (
	"fmt"
	"os"
	"strings"
)

const DefaultTimezone = "Europe/Paris"

// Config is built once at process start and injected; nothing reads the
// environment after that.
type Config struct {
	Addr string

	APIDomain string
	Token     string

	DefaultMeetingName string
	DefaultOrganizerID string
	DefaultMeetingType string

	// Inbound auth; both empty means the surface is open.
	StaticTokens []string
	JWTSecret    string
}

func ConfigFromEnv() (*Config, error) {
	token := strings.TrimSpace(os.Getenv("HUBSPOT_TOKEN"))
	if token == "" {
		return nil, fmt.Errorf("HUBSPOT_TOKEN required")
	}

	cfg := &Config{
		Addr:               ":8080",
		APIDomain:          "https://api.hubapi.com",
		Token:              token,
		DefaultMeetingName: os.Getenv("MEETING_NAME"),
		DefaultOrganizerID: os.Getenv("MEETING_ORGANIZER_ID"),
		DefaultMeetingType: os.Getenv("MEETING_TYPE"),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_HMAC_SECRET")),
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	if domain := os.Getenv("HUBSPOT_API_DOMAIN"); domain != "" {
		cfg.APIDomain = domain
	}
	if tokens := strings.TrimSpace(os.Getenv("STATIC_TOKENS")); tokens != "" {
		for _, t := range strings.Split(tokens, ",") {
			if t = strings.TrimSpace(t); t != "" {
				cfg.StaticTokens = append(cfg.StaticTokens, t)
			}
		}
	}
	return cfg, nil
}
