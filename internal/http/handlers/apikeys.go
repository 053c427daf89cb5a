package handlers

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "statsheet/internal/db"
)

// APIKeyResponse returns the freshly generated key. It is shown once;
// only the stored copy on the user row can authenticate afterwards.
type APIKeyResponse struct {
	APIKey  string `json:"api_key"`
	Message string `json:"message"`
}

func generateAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "sk_" + base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateAPIKey serves POST /v1/api-keys/generate, replacing any
// existing key for the user.
func GenerateAPIKey(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}

		key, err := generateAPIKey()
		if err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "failed to generate API key")
			return
		}

		if err := db.Model(&dbpkg.User{}).Where("id = ?", user.ID).Update("api_key", key).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "failed to store API key")
			return
		}

		jsonResponse(ctx, fasthttp.StatusOK, APIKeyResponse{
			APIKey:  key,
			Message: "API key generated successfully. Store it securely - it won't be shown again!",
		})
	}
}

// RevokeAPIKey serves DELETE /v1/api-keys/revoke.
func RevokeAPIKey(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}

		if err := db.Model(&dbpkg.User{}).Where("id = ?", user.ID).Update("api_key", nil).Error; err != nil {
			errDetail(ctx, fasthttp.StatusInternalServerError, "failed to revoke API key")
			return
		}

		jsonResponse(ctx, fasthttp.StatusOK, map[string]string{"message": "API key revoked successfully"})
	}
}
