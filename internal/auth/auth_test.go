package auth

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/scoring-api/internal/schema"
)

func digest(parts ...string) string {
	var joined string
	for _, p := range parts {
		joined += p
	}
	sum := sha512.Sum512([]byte(joined))
	return hex.EncodeToString(sum[:])
}

func TestCheck_UserToken(t *testing.T) {
	a := New("Otus", "42")

	req := &schema.MethodRequest{
		Account: "horns&hoofs",
		Login:   "h&f",
		Token:   digest("horns&hoofs", "h&f", "Otus"),
	}
	assert.True(t, a.Check(req, time.Now()))

	req.Token = "invalid"
	assert.False(t, a.Check(req, time.Now()))
}

func TestCheck_AdminToken(t *testing.T) {
	a := New("Otus", "42")
	now := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)

	req := &schema.MethodRequest{
		Login: schema.AdminLogin,
		Token: digest(now.Format("2006010215"), "42"),
	}
	assert.True(t, a.Check(req, now))

	// токен действует только в пределах того же часа
	assert.False(t, a.Check(req, now.Add(time.Hour)))
	// внутри часа — действует
	assert.True(t, a.Check(req, now.Add(20*time.Minute)))
}

func TestCheck_AdminIgnoresAccountSalt(t *testing.T) {
	a := New("Otus", "42")
	now := time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC)

	req := &schema.MethodRequest{
		Account: "anything",
		Login:   schema.AdminLogin,
		Token:   digest("anything", schema.AdminLogin, "Otus"),
	}
	// для администратора пользовательская формула не подходит
	assert.False(t, a.Check(req, now))
}
