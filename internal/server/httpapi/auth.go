package httpapi

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/markbates/goth/gothic"

	"github.com/winelog/winelog/internal/common"
	"github.com/winelog/winelog/internal/server/models"
	"github.com/winelog/winelog/internal/server/services"
)

// handleAuthBegin redirects the browser to the OAuth provider.
func (s *Server) handleAuthBegin(w http.ResponseWriter, r *http.Request) {
	r = withProvider(r)
	if gothUser, err := gothic.CompleteUserAuth(w, r); err == nil {
		// already authenticated with the provider, no round-trip needed
		s.finishLogin(w, r, gothUser.UserID, gothUser.NickName, gothUser.Email, gothUser.AvatarURL)
		return
	}
	gothic.BeginAuthHandler(w, r)
}

// handleAuthCallback completes the OAuth exchange, upserts the user and
// sets the token cookies before redirecting to the front-end.
func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	r = withProvider(r)
	gothUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		s.logger.Warn(r.Context(), "oauth callback failed", "error", err)
		writeError(w, common.ErrorUnauthorized)
		return
	}
	s.finishLogin(w, r, gothUser.UserID, gothUser.NickName, gothUser.Email, gothUser.AvatarURL)
}

func (s *Server) finishLogin(w http.ResponseWriter, r *http.Request, providerID, nickname, email, avatar string) {
	user, pair, err := s.users.LoginWithKakao(r.Context(), services.KakaoProfile{
		KakaoID:      providerID,
		Nickname:     nickname,
		Email:        email,
		ProfileImage: avatar,
	})
	if err != nil {
		s.logger.Error(r.Context(), "login failed", "error", err)
		writeError(w, err)
		return
	}

	// mobile apps cannot receive HttpOnly cookies across the OAuth redirect,
	// so they get the tokens handed off via the callback URL instead
	if platform := r.URL.Query().Get("state"); platform == "ios" || platform == "android" {
		http.Redirect(w, r, s.mobileCallbackURL(user, pair), http.StatusFound)
		return
	}

	s.setTokenCookies(w, pair)
	http.Redirect(w, r, s.frontURL, http.StatusTemporaryRedirect)
}

func (s *Server) mobileCallbackURL(user *models.User, pair *services.TokenPair) string {
	q := url.Values{}
	q.Set("success", "1")
	q.Set("access_token", pair.AccessToken)
	q.Set("refresh_token", pair.RefreshToken)
	q.Set("user_id", strconv.FormatInt(user.ID, 10))
	q.Set("nickname", user.Nickname)
	return strings.TrimRight(s.frontURL, "/") + "/login/callback?" + q.Encode()
}

// handleAuthRefresh rotates the refresh token from the cookie and reissues
// both cookies.
func (s *Server) handleAuthRefresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(common.RefreshTokenCookieName)
	if err != nil || c.Value == "" {
		writeError(w, common.ErrorUnauthorized)
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), c.Value)
	if err != nil {
		writeError(w, err)
		return
	}

	s.setTokenCookies(w, pair)
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// handleAuthLogout discards the stored refresh token and clears cookies.
func (s *Server) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(common.RefreshTokenCookieName); err == nil {
		if err := s.users.Logout(r.Context(), c.Value); err != nil {
			s.logger.Warn(r.Context(), "logout cleanup failed", "error", err)
		}
	}

	s.clearTokenCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// handleAuthMe returns the authenticated user's profile.
func (s *Server) handleAuthMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthorized)
		return
	}

	user, err := s.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) setTokenCookies(w http.ResponseWriter, pair *services.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    pair.AccessToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     common.RefreshTokenCookieName,
		Value:    pair.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(s.refreshTTL),
	})
}

func (s *Server) clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{common.AccessTokenCookieName, common.RefreshTokenCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})
	}
}

// withProvider makes the {provider} route param visible to gothic.
func withProvider(r *http.Request) *http.Request {
	provider := chi.URLParam(r, "provider")
	return gothic.GetContextWithProvider(r, provider)
}
