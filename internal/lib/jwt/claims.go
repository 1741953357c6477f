// Package jwt реализует генерацию и парсинг JWT токенов, удостоверяющих профиль
// участника маркетплейса. Токен несёт идентификатор профиля и роль; разрешение
// идентичности по токену выполняется в middleware HTTP-слоя.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга токенов профиля.
type Maker interface {
	// GenerateToken создаёт токен для профиля с указанной ролью.
	GenerateToken(profileID int64, role string) (string, error)
	// ParseToken проверяет подпись и срок действия, возвращает claims.
	ParseToken(tokenStr string) (*ProfileClaims, error)
}

// MakerImpl реализует Maker на секретном ключе HS256 и фиксированном TTL.
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый MakerImpl.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
