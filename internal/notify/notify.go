// Package notify carries short-lived toast notifications across a
// redirect in a one-shot cookie.
package notify

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
)

// CookieName is the flash cookie holding pending notifications.
const CookieName = "themeflex-flash"

// maxNotifications bounds what a single flash cookie may carry.
const maxNotifications = 5

// Kind distinguishes success and error toasts.
type Kind string

// Notification kinds.
const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a transient message shown once to the visitor.
type Notification struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Success builds a success notification.
func Success(title, description string) Notification {
	return Notification{Kind: KindSuccess, Title: title, Description: description}
}

// Error builds an error notification.
func Error(title, description string) Notification {
	return Notification{Kind: KindError, Title: title, Description: description}
}

// Encode serializes notifications into a cookie-safe string.
func Encode(notes []Notification) (string, error) {
	if len(notes) > maxNotifications {
		notes = notes[len(notes)-maxNotifications:]
	}
	raw, err := json.Marshal(notes)
	if err != nil {
		return "", fmt.Errorf("encoding notifications: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode is the inverse of Encode. Unknown kinds are dropped.
func Decode(value string) ([]Notification, error) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decoding notifications: %w", err)
	}
	var notes []Notification
	if err := json.Unmarshal(raw, &notes); err != nil {
		return nil, fmt.Errorf("decoding notifications: %w", err)
	}

	valid := notes[:0]
	for _, n := range notes {
		if n.Kind == KindSuccess || n.Kind == KindError {
			valid = append(valid, n)
		}
	}
	return valid, nil
}

// SetFlash stores notes for the next request.
func SetFlash(w http.ResponseWriter, notes ...Notification) error {
	value, err := Encode(notes)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ConsumeFlash returns the pending notifications and expires the cookie so
// they are shown exactly once. A corrupt cookie yields no notifications.
func ConsumeFlash(w http.ResponseWriter, r *http.Request) []Notification {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	notes, err := Decode(c.Value)
	if err != nil {
		return nil
	}
	return notes
}
