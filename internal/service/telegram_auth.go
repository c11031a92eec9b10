package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidInitData = errors.New("invalid telegram init data")

type TelegramUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// Address is the player address bound to a Telegram account.
func (u TelegramUser) Address() string {
	return "tg:" + strconv.FormatInt(u.ID, 10)
}

// ValidateTelegramInitData verifies Telegram WebApp init_data HMAC and checks
// that the auth_date is recent (within 1 hour) to mitigate replay attacks.
func ValidateTelegramInitData(initData, botToken string, now time.Time) (url.Values, bool) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, false
	}

	hash := values.Get("hash")
	if hash == "" {
		return nil, false
	}
	values.Del("hash")

	var dataCheck []string
	for k, v := range values {
		dataCheck = append(dataCheck, k+"="+strings.Join(v, ""))
	}
	sort.Strings(dataCheck)

	provided, err := hex.DecodeString(hash)
	if err != nil {
		return nil, false
	}
	if !hmac.Equal(initDataHash(botToken, strings.Join(dataCheck, "\n")), provided) {
		return nil, false
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, false
	}
	// allow small clock skew, but reject anything older than 1 hour
	if now.Unix()-authDate > 3600 || authDate-now.Unix() > 300 {
		return nil, false
	}

	return values, true
}

// initDataHash is HMAC-SHA256(data) keyed with HMAC-SHA256("WebAppData", botToken).
func initDataHash(botToken, data string) []byte {
	sk := hmac.New(sha256.New, []byte("WebAppData"))
	sk.Write([]byte(botToken))

	h := hmac.New(sha256.New, sk.Sum(nil))
	h.Write([]byte(data))
	return h.Sum(nil)
}

// ParseTelegramUser validates init_data and extracts the Telegram user.
func ParseTelegramUser(initData, botToken string, now time.Time) (*TelegramUser, error) {
	values, ok := ValidateTelegramInitData(initData, botToken, now)
	if !ok {
		return nil, ErrInvalidInitData
	}

	var user TelegramUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil || user.ID == 0 {
		return nil, ErrInvalidInitData
	}
	return &user, nil
}
