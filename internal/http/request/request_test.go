package request_test

import (
	"errors"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/condobill/internal/apperr"
	"github.com/MrJamesThe3rd/condobill/internal/http/request"
)

type body struct {
	CustomerID string `json:"customer_id" validate:"required"`
	Status     *int   `json:"status" validate:"required,oneof=0 1"`
}

func details(t *testing.T, err error) map[string]any {
	t.Helper()

	var e *apperr.Error
	require.True(t, errors.As(err, &e))

	return e.Details
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantErr  error
		required []string
		fields   map[string]string
	}{
		{name: "Valid", payload: `{"customer_id":"c1","status":1}`},
		{name: "Malformed", payload: `{"customer_id":`, wantErr: request.ErrMalformedBody},
		{
			name:     "MissingFields",
			payload:  `{}`,
			wantErr:  request.ErrMissing,
			required: []string{"customer_id", "status"},
		},
		{
			name:    "OutOfSet",
			payload: `{"customer_id":"c1","status":2}`,
			wantErr: request.ErrInvalid,
			fields:  map[string]string{"status": "oneof"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.payload))

			var dst body
			err := request.Decode(r, &dst)

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, "c1", dst.CustomerID)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)

			if tt.required != nil {
				assert.Equal(t, tt.required, details(t, err)["required"])
			}

			if tt.fields != nil {
				assert.Equal(t, tt.fields, details(t, err)["fields"])
			}
		})
	}
}

func TestRequire(t *testing.T) {
	q := url.Values{"customer_id": {"c1"}, "bill_id": {"  "}}

	require.NoError(t, request.Require(q, "customer_id"))

	err := request.Require(q, "customer_id", "bill_id", "house_no")
	require.ErrorIs(t, err, request.ErrMissing)
	assert.Equal(t, []string{"bill_id", "house_no"}, details(t, err)["required"])
}

func TestInt64(t *testing.T) {
	q := url.Values{"bill_id": {"42"}, "bad": {"x"}}

	n, err := request.Int64(q, "bill_id")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, int64(42), *n)

	n, err = request.Int64(q, "missing")
	require.NoError(t, err)
	assert.Nil(t, n)

	_, err = request.Int64(q, "bad")
	require.ErrorIs(t, err, request.ErrInvalid)
}

func TestInts(t *testing.T) {
	got, err := request.Ints(url.Values{"excluded_rows": {"1, 4,,7"}}, "excluded_rows")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 7}, got)

	_, err = request.Ints(url.Values{"excluded_rows": {"1,a"}}, "excluded_rows")
	require.ErrorIs(t, err, request.ErrInvalid)
}

func TestDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "2025-06-30", want: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)},
		{in: "2025-06-30T10:11:12", want: time.Date(2025, 6, 30, 10, 11, 12, 0, time.UTC)},
		{in: "2025-06-30T10:11:12Z", want: time.Date(2025, 6, 30, 10, 11, 12, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := request.Date("expire_date", tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}

	_, err := request.Date("expire_date", "30/06/2025")
	require.ErrorIs(t, err, request.ErrInvalid)
}
