package services

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/sendry-io/sendry-server/internal/config"
)

var GoogleOauthConfig = &oauth2.Config{
	ClientID:     config.Envs.GoogleClientID,
	ClientSecret: config.Envs.GoogleClientSecret,
	RedirectURL:  config.Envs.PublicBaseURL + "/api/v1/auth/google/callback",
	Scopes: []string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
	},
	Endpoint: google.Endpoint,
}
