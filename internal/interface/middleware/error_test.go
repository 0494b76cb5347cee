package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devcamp-api/internal/domain/repository"
	"devcamp-api/pkg/apierror"
	"devcamp-api/pkg/response"
)

func TestErrorNormalizer(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			"typed api error keeps its status",
			apierror.Unauthorized("Invalid credentials"),
			http.StatusUnauthorized,
			"Invalid credentials",
		},
		{
			"missing row",
			repository.ErrNotFound,
			http.StatusNotFound,
			"Resource not found",
		},
		{
			"wrapped missing row",
			errors.Join(errors.New("load bootcamp"), repository.ErrNotFound),
			http.StatusNotFound,
			"Resource not found",
		},
		{
			"unique violation names the field",
			&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"},
			http.StatusBadRequest,
			"Duplicate field value entered for email",
		},
		{
			"unknown error is opaque",
			errors.New("pgx: connection refused"),
			http.StatusInternalServerError,
			"Server Error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorNormalizer(nil))
			r.GET("/boom", func(c *gin.Context) {
				_ = c.Error(tc.err)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

			assert.Equal(t, tc.status, w.Code)
			var env response.Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.False(t, env.Success)
			assert.Equal(t, tc.message, env.Error)
		})
	}
}

func TestErrorNormalizerLeavesWrittenResponsesAlone(t *testing.T) {
	r := gin.New()
	r.Use(ErrorNormalizer(nil))
	r.GET("/ok", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"fine": true})
		_ = c.Error(errors.New("late failure after write"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestConstraintField(t *testing.T) {
	assert.Equal(t, "email", constraintField("users_email_key"))
	assert.Equal(t, "name", constraintField("bootcamps_name_key"))
	assert.Equal(t, "field", constraintField(""))
	assert.Equal(t, "odd", constraintField("odd"))
}
