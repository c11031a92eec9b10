package service

import (
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"
)

// buildInitData builds a valid init_data string for tests using the same
// algorithm as ValidateTelegramInitData.
func buildInitData(t *testing.T, botToken string, fields map[string]string) string {
	t.Helper()
	var parts []string
	for k, v := range fields {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)

	vals := url.Values{}
	for k, v := range fields {
		vals.Add(k, v)
	}
	vals.Add("hash", hex.EncodeToString(initDataHash(botToken, strings.Join(parts, "\n"))))
	return vals.Encode()
}

func TestValidateTelegramInitData_Valid(t *testing.T) {
	botToken := "test-bot-token"
	now := time.Now()
	fields := map[string]string{
		"auth_date": strconv.FormatInt(now.Unix(), 10),
		"user":      `{"id":1,"username":"u","first_name":"F"}`,
	}

	initData := buildInitData(t, botToken, fields)

	vals, ok := ValidateTelegramInitData(initData, botToken, now)
	if !ok {
		t.Fatalf("expected valid init data")
	}
	if vals.Get("user") == "" {
		t.Fatalf("expected user field in values")
	}

	user, err := ParseTelegramUser(initData, botToken, now)
	if err != nil {
		t.Fatalf("parse user: %v", err)
	}
	if user.Address() != "tg:1" {
		t.Fatalf("expected tg:1, got %s", user.Address())
	}
}

func TestValidateTelegramInitData_Tampered(t *testing.T) {
	botToken := "test-bot-token"
	now := time.Now()
	fields := map[string]string{
		"auth_date": strconv.FormatInt(now.Unix(), 10),
		"user":      `{"id":1,"username":"u","first_name":"F"}`,
	}
	initData := buildInitData(t, botToken, fields)

	// tamper with data by appending an extra field (will break the hash)
	tampered := initData + "&x=1"

	if _, ok := ValidateTelegramInitData(tampered, botToken, now); ok {
		t.Fatalf("expected tampered init data to be invalid")
	}
}

func TestValidateTelegramInitData_Expired(t *testing.T) {
	botToken := "test-bot-token"
	now := time.Now()
	fields := map[string]string{
		"auth_date": strconv.FormatInt(now.Add(-2*time.Hour).Unix(), 10),
		"user":      `{"id":1}`,
	}
	initData := buildInitData(t, botToken, fields)

	if _, err := ParseTelegramUser(initData, botToken, now); err != ErrInvalidInitData {
		t.Fatalf("expected ErrInvalidInitData, got %v", err)
	}
}

func TestJWTRoundTrip(t *testing.T) {
	InitJWT("test-secret")

	tok, err := GenerateJWT("tg:42")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	address, err := ParseJWT(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if address != "tg:42" {
		t.Fatalf("expected tg:42, got %s", address)
	}

	if _, err := ParseJWT(tok + "x"); err == nil {
		t.Fatalf("expected tampered token to fail")
	}
}
