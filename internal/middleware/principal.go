package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-allocation/internal/identity"
)

// principalKey is the echo context key holding the resolved principal id.
const principalKey = "principal_id"

// Principal resolves the acting principal with r and stores it in the echo
// context.  Requests without a principal are rejected before reaching the
// handler; the error handler renders the Unauthorized error as 401.
func Principal(r identity.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := r.Resolve(c.Request())
			if err != nil {
				return err
			}
			c.Set(principalKey, id)
			return next(c)
		}
	}
}

// PrincipalID returns the principal stored by Principal, or "" when none.
func PrincipalID(c echo.Context) string {
	id, _ := c.Get(principalKey).(string)
	return id
}
