package common

// Cookie names used to carry tokens between the browser and the API.
const (
	AccessTokenCookieName  = "access_token"
	RefreshTokenCookieName = "refresh_token"
)
