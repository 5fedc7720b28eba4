package employee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmployee_EligibleOn(t *testing.T) {
	date := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	hiredBefore := date.AddDate(0, -1, 0)
	hiredAfter := date.AddDate(0, 0, 1)

	cases := []struct {
		name string
		emp  Employee
		want bool
	}{
		{"onboarded no hire date", Employee{IsActive: true, OnboardStatus: OnboardOnboarded}, true},
		{"hired before", Employee{IsActive: true, OnboardStatus: OnboardOnboarded, HireDate: &hiredBefore}, true},
		{"hired same day", Employee{IsActive: true, OnboardStatus: OnboardOnboarded, HireDate: &date}, true},
		{"hired after", Employee{IsActive: true, OnboardStatus: OnboardOnboarded, HireDate: &hiredAfter}, false},
		{"pending", Employee{IsActive: true, OnboardStatus: OnboardPending}, false},
		{"inactive", Employee{IsActive: false, OnboardStatus: OnboardOnboarded}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.emp.EligibleOn(date))
		})
	}
}

func TestOnboardStatus_Label(t *testing.T) {
	assert.Equal(t, "已离职", OnboardResigned.Label())
	assert.Equal(t, "未知", OnboardStatus("x").Label())
}
