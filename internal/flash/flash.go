package flash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

var ErrInvalid = errors.New("invalid flash cookie")

type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Message is a one-shot notification carried across a redirect or a
// form submission response. The browser shows it once, then it is gone.
type Message struct {
	Kind Kind   `json:"kind"`
	Text string `json:"message"`
}

// Codec signs and encodes flash messages into a cookie value so the
// client cannot forge or tamper with them.
type Codec struct {
	Secret     []byte
	CookieName string
	Secure     bool
}

func NewCodec(secret []byte, cookieName string, secure bool) *Codec {
	return &Codec{Secret: secret, CookieName: cookieName, Secure: secure}
}

// Encode produces base64(json).base64(hmac).
func (c *Codec) Encode(m Message) (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(b)
	return payload + "." + sign(c.Secret, payload), nil
}

func (c *Codec) Decode(v string) (*Message, error) {
	parts := strings.Split(v, ".")
	if len(parts) != 2 {
		return nil, ErrInvalid
	}
	payload, sig := parts[0], parts[1]
	if !verify(c.Secret, payload, sig) {
		return nil, ErrInvalid
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalid
	}
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, ErrInvalid
	}
	if strings.TrimSpace(m.Text) == "" {
		return nil, ErrInvalid
	}
	return &m, nil
}

// CookieMaxAge keeps the flash short lived, just long enough to survive
// the redirect that follows a form submission.
func (c *Codec) CookieMaxAge() int {
	return int((2 * time.Minute).Seconds())
}

// Set writes the flash cookie on the response.
func (c *Codec) Set(w http.ResponseWriter, m Message) {
	val, err := c.Encode(m)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.CookieName,
		Value:    val,
		Path:     "/",
		MaxAge:   c.CookieMaxAge(),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Take reads and clears the flash cookie. The cookie is cleared even
// when the value fails to decode so a bad value is never retried.
func (c *Codec) Take(w http.ResponseWriter, r *http.Request) *Message {
	cookie, err := r.Cookie(c.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	c.clear(w)

	m, err := c.Decode(cookie.Value)
	if err != nil {
		return nil
	}
	return m
}

func (c *Codec) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func sign(secret []byte, payload string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func verify(secret []byte, payload, sig string) bool {
	expected := sign(secret, payload)
	return hmac.Equal([]byte(expected), []byte(sig))
}
