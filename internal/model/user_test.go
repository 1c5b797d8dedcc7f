package model

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUser() User {
	return User{
		ID:           7,
		FirstName:    sql.NullString{String: "Jane", Valid: true},
		LastName:     sql.NullString{String: "Doe", Valid: true},
		Email:        sql.NullString{String: "jane@example.com", Valid: true},
		Password:     sql.NullString{String: "password1", Valid: true},
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhash",
		IsActive:     sql.NullBool{Bool: true, Valid: true},
		Metric:       sql.NullBool{Bool: false, Valid: true},
		Created:      time.Date(2023, 6, 15, 7, 30, 0, 0, time.UTC),
		Updated:      time.Date(2023, 6, 16, 8, 0, 0, 0, time.UTC),
	}
}

func TestUserValidateOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*User)
		want   string
	}{
		{"missing first name", func(u *User) { u.FirstName = sql.NullString{} }, "Must supply first name"},
		{"missing last name", func(u *User) { u.LastName = sql.NullString{} }, "Must supply last name"},
		{"missing email", func(u *User) { u.Email = sql.NullString{} }, "Must supply email"},
		{"bad email", func(u *User) { u.Email.String = "not-an-email" }, "Invalid email address"},
		{"empty email fails format, not presence", func(u *User) { u.Email.String = "" }, "Invalid email address"},
		{"missing password", func(u *User) { u.Password = sql.NullString{} }, "Must supply password"},
		{"bad is_active", func(u *User) { u.IsActive = sql.NullBool{} }, "Invalid is_active value"},
		{"bad metric", func(u *User) { u.Metric = sql.NullBool{} }, "Invalid metric value"},
		{"short password", func(u *User) { u.Password.String = "short" }, "Password must be at least 8 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUser()
			tt.mutate(&u)
			err := u.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestUserValidateFirstFailureWins(t *testing.T) {
	// Several rules fail at once; only the earliest in the fixed order is reported.
	u := validUser()
	u.FirstName = sql.NullString{}
	u.Email = sql.NullString{}
	u.Password = sql.NullString{String: "x", Valid: true}
	err := u.Validate()
	require.Error(t, err)
	assert.Equal(t, "Must supply first name", err.Error())
}

func TestUserValidateEmptyNameAccepted(t *testing.T) {
	// An explicitly supplied empty string is present; only absence fails the rule.
	u := validUser()
	u.FirstName = sql.NullString{String: "", Valid: true}
	assert.NoError(t, u.Validate())
}

func TestUserSerializeNeverExposesPassword(t *testing.T) {
	u := validUser()
	data := u.Serialize()

	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "password_hash")
	assert.Equal(t, uint64(7), data["id"])
	assert.Equal(t, "Jane", data["first_name"])
	assert.Equal(t, "Doe", data["last_name"])
	assert.Equal(t, "jane@example.com", data["email"])
	assert.Equal(t, true, data["is_active"])
	assert.Equal(t, false, data["metric"])
	assert.Equal(t, "2023-06-15T07:30:00", data["created"])
	assert.Equal(t, "2023-06-16T08:00:00", data["updated"])

	withRuns := u.SerializeWithRuns([]map[string]any{})
	assert.NotContains(t, withRuns, "password")
	assert.NotContains(t, withRuns, "password_hash")
}

func TestUserSerializeWithRuns(t *testing.T) {
	u := validUser()
	base := u.Serialize()
	assert.NotContains(t, base, "runs")

	run := validRun()
	expanded := u.SerializeWithRuns([]map[string]any{run.Serialize(&u)})
	require.Contains(t, expanded, "runs")
	runs := expanded["runs"].([]map[string]any)
	require.Len(t, runs, 1)
	// Nested run re-embeds the user's own base projection.
	assert.Equal(t, "jane@example.com", runs[0]["user"].(map[string]any)["email"])
}
