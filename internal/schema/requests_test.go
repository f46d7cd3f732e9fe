package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBody(t *testing.T, raw string) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	return body
}

func TestParseMethodRequest(t *testing.T) {
	req, err := ParseMethodRequest(mustBody(t, `{
		"account": "horns&hoofs",
		"login": "h&f",
		"token": "sometoken",
		"method": "online_score",
		"arguments": {"phone": "71234567890"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "horns&hoofs", req.Account)
	assert.Equal(t, "h&f", req.Login)
	assert.Equal(t, "online_score", req.Method)
	assert.False(t, req.IsAdmin())
	assert.Equal(t, "71234567890", req.Arguments["phone"])
}

func TestParseMethodRequest_MissingToken(t *testing.T) {
	_, err := ParseMethodRequest(mustBody(t, `{
		"login": "h&f",
		"method": "online_score",
		"arguments": {}
	}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingRequired)
	assert.Contains(t, err.Error(), "token")
}

func TestParseMethodRequest_IsAdmin(t *testing.T) {
	req, err := ParseMethodRequest(mustBody(t, `{
		"login": "admin",
		"token": "t",
		"method": "online_score",
		"arguments": {}
	}`))
	require.NoError(t, err)
	assert.True(t, req.IsAdmin())
}

func TestParseOnlineScoreRequest_PairRule(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"только first_name и birthday — ни одной пары", `{"first_name": "a", "birthday": "01.01.2000"}`, true},
		{"пара имя и фамилия", `{"first_name": "a", "last_name": "b"}`, false},
		{"пара телефон и почта", `{"phone": "71234567890", "email": "a@b.c"}`, false},
		{"пара дата рождения и пол", `{"birthday": "01.01.2000", "gender": 1}`, false},
		{"явные null считаются переданными", `{"phone": null, "email": null}`, false},
		{"пустые аргументы", `{}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOnlineScoreRequest(mustBody(t, tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValueInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseOnlineScoreRequest_TypedValues(t *testing.T) {
	req, err := ParseOnlineScoreRequest(mustBody(t, `{
		"first_name": "Ivan",
		"last_name": "Petrov",
		"phone": 71234567890,
		"email": "ivan@example.com",
		"birthday": "31.12.1990",
		"gender": 0
	}`))
	require.NoError(t, err)

	require.NotNil(t, req.Phone)
	assert.Equal(t, "71234567890", *req.Phone)
	require.NotNil(t, req.Gender)
	assert.Equal(t, GenderUnknown, *req.Gender)
	require.NotNil(t, req.Birthday)
	assert.Equal(t, 1990, req.Birthday.Year())
	assert.Equal(t,
		[]string{"first_name", "last_name", "email", "phone", "birthday", "gender"},
		req.PresentedFields())
}

func TestParseOnlineScoreRequest_NullValuesStayEmpty(t *testing.T) {
	req, err := ParseOnlineScoreRequest(mustBody(t, `{"phone": null, "email": null}`))
	require.NoError(t, err)

	assert.Nil(t, req.Phone)
	assert.Nil(t, req.Email)
	assert.Equal(t, []string{"email", "phone"}, req.PresentedFields())
}

func TestParseClientsInterestsRequest(t *testing.T) {
	req, err := ParseClientsInterestsRequest(mustBody(t, `{
		"client_ids": [1, 2, 3],
		"date": "19.07.2017"
	}`))
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, req.ClientIDs)
	require.NotNil(t, req.Date)
	assert.Equal(t, 2017, req.Date.Year())
}

func TestParseClientsInterestsRequest_Invalid(t *testing.T) {
	_, err := ParseClientsInterestsRequest(mustBody(t, `{}`))
	assert.ErrorIs(t, err, ErrMissingRequired)

	_, err = ParseClientsInterestsRequest(mustBody(t, `{"client_ids": []}`))
	assert.ErrorIs(t, err, ErrValueInvalid)

	_, err = ParseClientsInterestsRequest(mustBody(t, `{"client_ids": ["1"]}`))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}
