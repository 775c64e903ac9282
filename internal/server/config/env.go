package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays configuration from environment variables. An unset or
// empty variable leaves the current value untouched. Duration variables use
// Go duration syntax ("15m", "720h").
func parseEnv(config *Config) {
	envString(&config.EndpointAddr, "ENDPOINT_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "SECRET_KEY")
	envDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_VALIDITY_DURATION")
	envDuration(&config.RefreshTokenValidityDuration, "REFRESH_TOKEN_VALIDITY_DURATION")
	envString(&config.S3AccessKey, "S3_ACCESS_KEY")
	envString(&config.S3SecretKey, "S3_SECRET_KEY")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&config.S3PublicBaseURL, "S3_PUBLIC_BASE_URL")
	envString(&config.KakaoKey, "KAKAO_KEY")
	envString(&config.KakaoSecret, "KAKAO_SECRET")
	envString(&config.KakaoCallbackURL, "KAKAO_CALLBACK_URL")
	envString(&config.FrontURL, "FRONT_URL")
	envString(&config.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envString(&config.InferenceModel, "INFERENCE_MODEL")
	envInt64(&config.MaxUploadSize, "MAX_UPLOAD_SIZE")
}

func envString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func envDuration(dst *time.Duration, name string) {
	if v := os.Getenv(name); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func envInt64(dst *int64, name string) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}
