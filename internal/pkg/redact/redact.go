// redact маскирует секреты перед записью в лог: bearer-токены ActivityPub
// и admin-ключи формата id:secret.
package redact

import "strings"

// tokenVisible - сколько символов токена допустимо показать в логе.
const tokenVisible = 6

// TokenPrefix оставляет только первые символы токена.
//
// Примеры:
//
//	"eyJhbGciOiJIUzI1NiJ9.x.y" -> "eyJhbG…"
//	"abc"                      -> "[REDACTED_TOKEN]"
func TokenPrefix(token string) string {
	r := []rune(token)
	if len(r) <= tokenVisible*2 {
		return Token()
	}

	return string(r[:tokenVisible]) + "…"
}

// AdminKey оставляет идентификатор ключа и прячет секрет.
// Строка без ':' считается целиком секретной.
func AdminKey(key string) string {
	id, _, ok := strings.Cut(key, ":")
	if !ok || id == "" {
		return "***"
	}

	return id + ":***"
}

// Token возвращает литерал-заглушку для токена в логах.
func Token() string { return "[REDACTED_TOKEN]" }
