package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
)

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

type bodyCacheWriter struct {
	http.ResponseWriter
	status int
	body   *bytes.Buffer
}

func (w *bodyCacheWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Cache is an in-memory TTL cache for GET responses, keyed by request URI.
// Only successful responses are cached.
func Cache(store *cache.Cache, duration time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			key := c.Request().RequestURI
			if resp, found := store.Get(key); found {
				cached := resp.(cachedResponse)
				res := c.Response()
				for k, v := range cached.headers {
					res.Header()[k] = v
				}
				res.WriteHeader(cached.status)
				_, err := res.Write(cached.body)
				return err
			}

			res := c.Response()
			bcw := &bodyCacheWriter{ResponseWriter: res.Writer, status: http.StatusOK, body: bytes.NewBuffer(nil)}
			res.Writer = bcw

			if err := next(c); err != nil {
				return err
			}

			if bcw.status >= 200 && bcw.status < 300 {
				store.Set(key, cachedResponse{
					status:  bcw.status,
					headers: res.Header().Clone(),
					body:    bcw.body.Bytes(),
				}, duration)
			}
			return nil
		}
	}
}
