package middleware

import "net/http"

// LimitBytes ограничивает размер тела запроса; превышение даст ошибку чтения
// в обработчике, а не тихое переполнение.
func LimitBytes(max int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if max > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, max)
			}
			next.ServeHTTP(w, r)
		})
	}
}
