// Package identity разбирает предъявленный токен личности и даёт
// остальным пакетам статус аутентификации и источник токена.
// Подпись токена здесь не проверяется: выпуск и обновление принадлежат
// внешнему провайдеру личности.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthStatus — состояние аутентификации клиента.
type AuthStatus string

// Состояния аутентификации.
const (
	StatusConfiguring     AuthStatus = "configuring"
	StatusUnauthenticated AuthStatus = "unauthenticated"
	StatusAuthenticated   AuthStatus = "authenticated"
)

// Ошибки разбора токена личности.
var (
	ErrNoToken      = errors.New("no identity token")
	ErrTokenExpired = errors.New("identity token expired")
)

// Session — разобранный токен личности текущего клиента.
type Session struct {
	Subject   string
	Token     string
	ExpiresAt time.Time
}

// SessionFromToken разбирает токен личности без проверки подписи.
func SessionFromToken(raw string) (*Session, error) {
	if raw == "" {
		return nil, ErrNoToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("parse identity token: %w", err)
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("parse identity token: %w", err)
	}

	session := &Session{Subject: subject, Token: raw}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.Time
	}
	return session, nil
}

// Status возвращает состояние аутентификации сеанса.
func (s *Session) Status() AuthStatus {
	if s == nil {
		return StatusUnauthenticated
	}
	if !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt) {
		return StatusUnauthenticated
	}
	return StatusAuthenticated
}

// IDToken выдаёт токен сеанса. Просроченный сеанс токена не выдаёт.
func (s *Session) IDToken(ctx context.Context) (string, error) {
	if s == nil || s.Token == "" {
		return "", ErrNoToken
	}
	if s.Status() != StatusAuthenticated {
		return "", ErrTokenExpired
	}
	return s.Token, nil
}

type sessionContextKey struct{}

// WithSession кладёт сеанс в контекст запроса.
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// SessionFromContext достаёт сеанс из контекста запроса.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(*Session)
	return session, ok && session != nil
}

// ContextTokenSource — источник токена, читающий сеанс из контекста
// запроса. Им клиент платформы подписывает запросы от имени клиента.
type ContextTokenSource struct{}

// IDToken выдаёт токен сеанса из контекста.
func (ContextTokenSource) IDToken(ctx context.Context) (string, error) {
	session, ok := SessionFromContext(ctx)
	if !ok {
		return "", ErrNoToken
	}
	return session.IDToken(ctx)
}
