package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2v2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/sitecrew/daily_report_app/internal/core/domain"
	portssvc "github.com/sitecrew/daily_report_app/internal/core/ports/services"
	"github.com/sitecrew/daily_report_app/internal/middleware"
	"github.com/sitecrew/daily_report_app/internal/platform/config"
	"github.com/sitecrew/daily_report_app/internal/utils"
)

const oauthStateCookie = "oauth_state"

// googleOAuthHandler handles the Google OAuth redirect flow.
type googleOAuthHandler struct {
	oauthConfig *oauth2.Config
	userService portssvc.UserSvcFacade
	cfg         *config.Config
}

func newGoogleOAuthHandler(userService portssvc.UserSvcFacade, cfg *config.Config) *googleOAuthHandler {
	return &googleOAuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{oauth2v2.UserinfoEmailScope, oauth2v2.UserinfoProfileScope},
			Endpoint:     google.Endpoint,
		},
		userService: userService,
		cfg:         cfg,
	}
}

// registerGoogleOAuthRoutes registers the Google login and callback routes.
func registerGoogleOAuthRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade, cfg *config.Config) {
	h := newGoogleOAuthHandler(userService, cfg)

	grp := rg.Group("/google")
	{
		grp.GET("/login", h.login)
		grp.GET("/callback", h.callback)
	}
}

// login godoc
// @Summary Start Google OAuth login
// @Description Redirects to Google's consent screen with a CSRF state cookie
// @Tags oauth
// @Success 307
// @Router /auth/google/login [get]
func (h *googleOAuthHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	state, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		logger.Error("Failed to generate OAuth state", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start Google login"})
		return
	}

	c.SetCookie(oauthStateCookie, state, 600, "/", "", h.cfg.IsProduction, true)
	c.Redirect(http.StatusTemporaryRedirect, h.oauthConfig.AuthCodeURL(state))
}

// callback godoc
// @Summary Google OAuth callback
// @Description Exchanges the authorization code, provisions the account and redirects to the frontend with a JWT
// @Tags oauth
// @Success 307
// @Failure 400 {object} map[string]string "State mismatch or missing code"
// @Router /auth/google/callback [get]
func (h *googleOAuthHandler) callback(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	stateCookie, err := c.Cookie(oauthStateCookie)
	if err != nil || stateCookie == "" || c.Query("state") != stateCookie {
		logger.Warn("OAuth state mismatch")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.cfg.IsProduction, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization code missing"})
		return
	}

	token, err := h.oauthConfig.Exchange(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange authorization code", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to exchange authorization code"})
		return
	}

	oauthService, err := oauth2v2.NewService(ctx, option.WithTokenSource(h.oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		logger.Error("Failed to create Google userinfo client", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete Google login"})
		return
	}
	userinfo, err := oauthService.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		logger.Error("Failed to fetch Google userinfo", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch Google profile"})
		return
	}
	if userinfo.Email == "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Google profile has no email"})
		return
	}

	user, err := h.userService.FindOrCreateOAuthUser(ctx, userinfo.Email, userinfo.GivenName, userinfo.FamilyName, domain.ProviderGoogle)
	if err != nil {
		logger.Error("Failed to provision federated user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete Google login"})
		return
	}

	jwtToken, err := utils.GenerateJWT(user.UserID, h.cfg.JWTSecret, h.cfg.JWTExpiryDuration, h.cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to generate token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete Google login"})
		return
	}

	logger.Info("Google login completed", slog.String("user_id", user.UserID))
	redirect := fmt.Sprintf("%s/oauth/complete?token=%s", h.cfg.FrontendBaseURL, url.QueryEscape(jwtToken))
	c.Redirect(http.StatusTemporaryRedirect, redirect)
}
