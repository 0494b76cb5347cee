package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"devcamp-api/internal/domain/repository"
	"devcamp-api/pkg/apierror"
	"devcamp-api/pkg/response"
	"devcamp-api/pkg/validation"
)

const pgUniqueViolation = "23505"

// ErrorNormalizer is the single boundary translating internal failures into
// the client-facing envelope. Handlers attach errors with c.Error and never
// write failure JSON themselves.
func ErrorNormalizer(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		status, message := normalize(err)
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"status": status,
				"method": c.Request.Method,
				"path":   c.FullPath(),
			}).Error("request failed")
		}
		response.Fail(c, status, message)
	}
}

func normalize(err error) (int, string) {
	// Typed API errors carry their own status.
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status, apiErr.Message
	}

	// Missing row or malformed identifier.
	if errors.Is(err, repository.ErrNotFound) {
		return http.StatusNotFound, "Resource not found"
	}

	// Postgres constraint violations.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		field := constraintField(pgErr.ConstraintName)
		return http.StatusBadRequest, "Duplicate field value entered for " + field
	}

	// Binding/validation failures.
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest, validation.JoinMessages(validation.ToDetails(err))
	}

	return http.StatusInternalServerError, "Server Error"
}

// constraintField extracts the column from index names like users_email_key.
func constraintField(constraint string) string {
	if constraint == "" {
		return "field"
	}
	parts := strings.Split(constraint, "_")
	if len(parts) >= 2 {
		return parts[1]
	}
	return constraint
}
