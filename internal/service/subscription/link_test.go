package subscription

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

func TestBuildConfirmURL(t *testing.T) {
	got := BuildConfirmURL("https://www.example.org", 1730509011, "user@example.com", "1337")

	if !strings.HasPrefix(got, "https://www.example.org/newsletter/confirm?") {
		t.Fatalf("unexpected URL prefix: %s", got)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("built URL does not parse: %v", err)
	}
	q := u.Query()
	if q.Get("timestamp") != "1730509011" {
		t.Errorf("timestamp = %q", q.Get("timestamp"))
	}
	if q.Get("email") != "user@example.com" {
		t.Errorf("email = %q", q.Get("email"))
	}
	if q.Get("mailinglistId") != "1337" {
		t.Errorf("mailinglistId = %q", q.Get("mailinglistId"))
	}
}

func TestBuildConfirmURL_TrailingSlashBase(t *testing.T) {
	got := BuildConfirmURL("https://www.example.org/", 1, "a@b.co", "9")
	if strings.Contains(got, "org//newsletter") {
		t.Errorf("double slash in URL: %s", got)
	}
}

func TestConfirmLink_RoundTrip(t *testing.T) {
	cases := []struct {
		createdAt int64
		email     string
		listID    string
	}{
		{1730509011, "user@example.com", "1337"},
		{1, "a+tag@sub.example.co.uk", "list-x"},
		{9999999999, "weird&chars=ok@example.com", "42"},
	}

	for _, tc := range cases {
		u, err := url.Parse(BuildConfirmURL("https://www.example.org", tc.createdAt, tc.email, tc.listID))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		createdAt, email, listID, err := ParseConfirmQuery(u.Query())
		if err != nil {
			t.Fatalf("ParseConfirmQuery(%s): %v", u, err)
		}
		if createdAt != tc.createdAt || email != tc.email || listID != tc.listID {
			t.Errorf("round trip mismatch: got (%d, %q, %q), want (%d, %q, %q)",
				createdAt, email, listID, tc.createdAt, tc.email, tc.listID)
		}
	}
}

func TestParseConfirmQuery_Malformed(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"empty", ""},
		{"missing timestamp", "email=a@b.co&mailinglistId=1"},
		{"missing email", "timestamp=1&mailinglistId=1"},
		{"missing list id", "timestamp=1&email=a@b.co"},
		{"non-numeric timestamp", "timestamp=yesterday&email=a@b.co&mailinglistId=1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := url.ParseQuery(tc.query)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			_, _, _, err = ParseConfirmQuery(q)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
