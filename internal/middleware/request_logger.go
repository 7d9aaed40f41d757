package middleware

import (
	"github.com/anonto42/loop/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger attaches a request-scoped zerolog logger to the request
// context and writes one line per completed request.
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogRoutePath: true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		BeforeNextFunc: func(c echo.Context) {
			req := c.Request()
			l := base.With().
				Str(logger.FieldRequestID, c.Response().Header().Get(echo.HeaderXRequestID)).
				Str(logger.FieldMethod, req.Method).
				Str(logger.FieldPath, req.URL.Path).
				Str(logger.FieldClientIP, c.RealIP()).
				Logger()
			c.SetRequest(req.WithContext(logger.WithLogger(req.Context(), l)))
		},
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			l := logger.Ctx(c.Request().Context())
			var ev *zerolog.Event
			switch {
			case v.Status >= 500:
				ev = l.Error().Err(v.Error)
			case v.Status >= 400:
				ev = l.Warn()
			default:
				ev = l.Info()
			}
			ev.Str(logger.FieldRoute, v.RoutePath).
				Int(logger.FieldStatus, v.Status).
				Int64(logger.FieldLatency, v.Latency.Milliseconds()).
				Msg("request completed")
			return nil
		},
	})
}
