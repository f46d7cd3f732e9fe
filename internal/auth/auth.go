// Package auth проверяет токен конверта по схеме разделяемого секрета.
//
// Для администратора ожидаемый токен — sha512 от метки текущего часа UTC
// в формате YYYYMMDDHH, склеенной с административной солью: такой токен
// действует ровно один час, это осознанный контракт. Смещение часов между
// клиентом и сервером на границе часа делает токен недействительным —
// известный эксплуатационный риск.
// Для остальных — sha512 от account + login + общей соли.
package auth

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/magabrotheeeer/scoring-api/internal/schema"
)

// Authenticator хранит соли и вычисляет ожидаемый токен конверта.
type Authenticator struct {
	salt      string
	adminSalt string
}

// New создает Authenticator с заданными солями.
func New(salt, adminSalt string) *Authenticator {
	return &Authenticator{salt: salt, adminSalt: adminSalt}
}

// Check сообщает, совпадает ли токен конверта с ожидаемым hex-дайджестом.
// Чистая функция от полей конверта и переданного времени.
func (a *Authenticator) Check(req *schema.MethodRequest, now time.Time) bool {
	var sum [sha512.Size]byte
	if req.IsAdmin() {
		sum = sha512.Sum512([]byte(now.UTC().Format("2006010215") + a.adminSalt))
	} else {
		sum = sha512.Sum512([]byte(req.Account + req.Login + a.salt))
	}
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(req.Token)) == 1
}
