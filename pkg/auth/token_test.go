package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/stockmasterhq/stockmaster-backend/pkg/config"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "stockmaster",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	userID := uuid.New()

	payload := AccessTokenPayload{
		UserID: userID,
		Role:   enums.MemberRoleManager,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.Role != enums.MemberRoleManager {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestMintAccessTokenRejectsInvalidRole(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "stockmaster", ExpirationMinutes: 30}
	_, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: "superuser"})
	if err == nil || !strings.Contains(err.Error(), "invalid member role") {
		t.Fatalf("expected invalid role error, got %v", err)
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	mintCfg := config.JWTConfig{Secret: "secret", Issuer: "someone-else", ExpirationMinutes: 30}
	token, err := MintAccessToken(mintCfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.MemberRoleViewer})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	parseCfg := config.JWTConfig{Secret: "secret", Issuer: "stockmaster", ExpirationMinutes: 30}
	if _, err := ParseAccessToken(parseCfg, token); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}

func TestParseAccessTokenRejectsTampering(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "stockmaster", ExpirationMinutes: 30}
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.MemberRoleViewer})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	cfg.Secret = "other-secret"
	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}
