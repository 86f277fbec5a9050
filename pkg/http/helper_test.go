package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractLimitOffset(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedLimit  int
		expectedOffset int64
		expectError    bool
		description    string
	}{
		{
			name:           "no parameters",
			query:          "",
			expectedLimit:  10,
			expectedOffset: 0,
			description:    "absent parameters fall back to the defaults",
		},
		{
			name:           "explicit values",
			query:          "limit=25&offset=100",
			expectedLimit:  25,
			expectedOffset: 100,
			description:    "in-range values pass through",
		},
		{
			name:           "limit above the cap",
			query:          "limit=500",
			expectedLimit:  50,
			expectedOffset: 0,
			description:    "oversized limits clamp to the cap",
		},
		{
			name:           "negative offset",
			query:          "offset=-5",
			expectedLimit:  10,
			expectedOffset: 0,
			description:    "negative offsets clamp to zero",
		},
		{
			name:        "non numeric limit",
			query:       "limit=lots",
			expectError: true,
			description: "garbage limit is a client error",
		},
		{
			name:        "non numeric offset",
			query:       "offset=far",
			expectError: true,
			description: "garbage offset is a client error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/flight-schedules?"+tt.query, nil)
			limit, offset, err := ExtractLimitOffset(r)

			if tt.expectError {
				if err == nil {
					t.Errorf("ExtractLimitOffset() = nil error, expected failure: %s", tt.description)
				}
				return
			}

			if err != nil {
				t.Fatalf("ExtractLimitOffset() error = %v: %s", err, tt.description)
			}
			if limit != tt.expectedLimit {
				t.Errorf("limit = %d, expected %d: %s", limit, tt.expectedLimit, tt.description)
			}
			if offset != tt.expectedOffset {
				t.Errorf("offset = %d, expected %d: %s", offset, tt.expectedOffset, tt.description)
			}
		})
	}
}

func TestReadCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "skyseat_guest_id", Value: "guest-1"})

	if got := ReadCookie(r, "skyseat_guest_id"); got != "guest-1" {
		t.Errorf("ReadCookie() = %s, expected guest-1", got)
	}
	if got := ReadCookie(r, "missing"); got != "" {
		t.Errorf("ReadCookie() = %q, expected empty for an absent cookie", got)
	}
}
