package api

import (
	"net/http"

	"github.com/RSAK56/NewsStream/app/auth"
	"github.com/RSAK56/NewsStream/app/database"
	"github.com/RSAK56/NewsStream/app/news"
	"github.com/RSAK56/NewsStream/app/prefs"
	"github.com/RSAK56/NewsStream/app/tasks"
)

type Handler struct {
	aggregator  *news.Aggregator
	filterer    *news.Filterer
	resultCache *news.ResultCache
	authService *auth.Service
	prefsStore  *prefs.Store
	scheduler   tasks.TaskSchedulerInterface
	extractor   *news.ContentExtractor
	httpClient  *http.Client
	userRepo    database.UserRepository
	sessionRepo database.SessionRepository
	prefRepo    database.PreferenceRepository
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type unsaveRequest struct {
	URL string `json:"url" binding:"required"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type signInResponse struct {
	Token       string               `json:"token"`
	User        userResponse         `json:"user"`
	Preferences news.UserPreferences `json:"preferences"`
}
