package config

import (
	"encoding/json"
	"os"

	"github.com/winelog/winelog/internal/flagx"
	"github.com/winelog/winelog/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr                 string         `json:"endpoint_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	S3AccessKey                  string         `json:"s3_access_key"`
	S3SecretKey                  string         `json:"s3_secret_key"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	S3PublicBaseURL              string         `json:"s3_public_base_url"`
	KakaoKey                     string         `json:"kakao_key"`
	KakaoSecret                  string         `json:"kakao_secret"`
	KakaoCallbackURL             string         `json:"kakao_callback_url"`
	FrontURL                     string         `json:"front_url"`
	AnthropicAPIKey              string         `json:"anthropic_api_key"`
	InferenceModel               string         `json:"inference_model"`
	MaxUploadSize                int64          `json:"max_upload_size"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics. Only non-zero values
// override the existing configuration.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	jc := &JsonConfig{}
	if err := json.Unmarshal(data, jc); err != nil {
		panic(err)
	}

	setIfNotEmpty(&config.EndpointAddr, jc.EndpointAddr)
	setIfNotEmpty(&config.DatabaseDSN, jc.DatabaseDSN)
	setIfNotEmpty(&config.SecretKey, jc.SecretKey)
	if jc.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = jc.AccessTokenValidityDuration.Duration
	}
	if jc.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = jc.RefreshTokenValidityDuration.Duration
	}
	setIfNotEmpty(&config.S3AccessKey, jc.S3AccessKey)
	setIfNotEmpty(&config.S3SecretKey, jc.S3SecretKey)
	setIfNotEmpty(&config.S3Bucket, jc.S3Bucket)
	setIfNotEmpty(&config.S3Region, jc.S3Region)
	setIfNotEmpty(&config.S3BaseEndpoint, jc.S3BaseEndpoint)
	setIfNotEmpty(&config.S3PublicBaseURL, jc.S3PublicBaseURL)
	setIfNotEmpty(&config.KakaoKey, jc.KakaoKey)
	setIfNotEmpty(&config.KakaoSecret, jc.KakaoSecret)
	setIfNotEmpty(&config.KakaoCallbackURL, jc.KakaoCallbackURL)
	setIfNotEmpty(&config.FrontURL, jc.FrontURL)
	setIfNotEmpty(&config.AnthropicAPIKey, jc.AnthropicAPIKey)
	setIfNotEmpty(&config.InferenceModel, jc.InferenceModel)
	if jc.MaxUploadSize != 0 {
		config.MaxUploadSize = jc.MaxUploadSize
	}
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
