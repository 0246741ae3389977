package middleware

import (
	"net/http"
	"strings"

	"github.com/ageha-live/liver-front/internal/identity"
)

// Session извлекает токен личности из заголовка Authorization, разбирает
// его и кладёт сеанс в контекст запроса. Запросы без действующего
// сеанса отклоняются со статусом 401.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		session, err := identity.SessionFromToken(raw)
		if err != nil || session.Status() != identity.StatusAuthenticated {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		ctx := identity.WithSession(r.Context(), session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}
