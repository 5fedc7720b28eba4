package holiday

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/workday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/holiday/info/2024-10-01", r.URL.Path)
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

var testDate = time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)

func TestClient_Lookup_Holiday(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"code":0,"type":{"type":2,"name":"国庆节","week":2},"holiday":{"holiday":true,"name":"国庆节"}}`)
	c := NewClient(srv.URL+"/api/holiday/", time.Second)

	info, err := c.Lookup(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, workday.DayHoliday, info.Type)
	assert.Equal(t, "国庆节", info.HolidayName)
	assert.Equal(t, workday.SourceCalendar, info.Source)
	assert.False(t, info.IsWorkday())
}

func TestClient_Lookup_Makeup(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"code":0,"type":{"type":3,"name":"国庆节后补班"}}`)
	c := NewClient(srv.URL+"/api/holiday", time.Second)

	info, err := c.Lookup(context.Background(), testDate)
	require.NoError(t, err)
	assert.True(t, info.IsWorkday())
}

func TestClient_Lookup_Failures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusInternalServerError, `oops`, workday.ErrCalendarUnavailable},
		{"rejected code", http.StatusOK, `{"code":-1}`, workday.ErrCalendarRejected},
		{"not json", http.StatusOK, `<html>`, workday.ErrMalformedResponse},
		{"missing code", http.StatusOK, `{"type":{"type":0}}`, workday.ErrMalformedResponse},
		{"missing type", http.StatusOK, `{"code":0}`, workday.ErrMalformedResponse},
		{"unknown type", http.StatusOK, `{"code":0,"type":{"type":9}}`, workday.ErrMalformedResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, tc.status, tc.body)
			c := NewClient(srv.URL+"/api/holiday", time.Second)

			_, err := c.Lookup(context.Background(), testDate)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestClient_Lookup_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"code":0,"type":{"type":0}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond)
	_, err := c.Lookup(context.Background(), testDate)
	assert.ErrorIs(t, err, workday.ErrCalendarUnavailable)
}
