package notify

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	notes := []Notification{
		Success("Message Sent!", "Thank you for your message. We'll get back to you soon."),
		Error("Error", "Failed to fetch products"),
	}

	value, err := Encode(notes)
	require.NoError(t, err)
	assert.NotContains(t, value, ";")
	assert.NotContains(t, value, " ")

	got, err := Decode(value)
	require.NoError(t, err)
	assert.Equal(t, notes, got)
}

func TestEncode_KeepsMostRecent(t *testing.T) {
	var notes []Notification
	for i := range 8 {
		notes = append(notes, Success(string(rune('a'+i)), ""))
	}

	value, err := Encode(notes)
	require.NoError(t, err)
	got, err := Decode(value)
	require.NoError(t, err)

	require.Len(t, got, maxNotifications)
	assert.Equal(t, "h", got[len(got)-1].Title)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode("%%%")
	assert.Error(t, err)

	_, err = Decode("bm90IGpzb24") // "not json"
	assert.Error(t, err)
}

func TestDecode_DropsUnknownKinds(t *testing.T) {
	value, err := Encode([]Notification{{Kind: "info", Title: "x"}, Success("ok", "")})
	require.NoError(t, err)

	got, err := Decode(value)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].Title)
}

func TestFlashRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, SetFlash(rec, Success("Message Sent!", "")))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/contact", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()

	got := ConsumeFlash(rec, req)
	require.Len(t, got, 1)
	assert.Equal(t, KindSuccess, got[0].Kind)

	expired := rec.Result().Cookies()
	require.Len(t, expired, 1)
	assert.Equal(t, CookieName, expired[0].Name)
	assert.Less(t, expired[0].MaxAge, 0)
}

func TestConsumeFlash_NoCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.Nil(t, ConsumeFlash(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Empty(t, rec.Result().Cookies())
}

func TestConsumeFlash_CorruptCookieIsCleared(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage!"})
	rec := httptest.NewRecorder()

	assert.Nil(t, ConsumeFlash(rec, req))
	require.Len(t, rec.Result().Cookies(), 1)
}
