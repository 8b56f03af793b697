package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/poliklinik-antrian/internal/common/models"
)

const (
	RoleAdmin       = "admin"
	RolePendaftaran = "pendaftaran"
	RoleLoket       = "loket"
	RoleFarmasi     = "farmasi"
)

// RequireRole memeriksa apakah role di klaim JWT termasuk salah satu roles.
// Admin selalu lolos.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return unauthorized(c, "Missing or invalid JWT claims")
			}
			if claims.Role == RoleAdmin {
				return next(c)
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Anda tidak memiliki hak akses",
				Data:    nil,
			})
		}
	}
}
