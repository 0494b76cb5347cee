package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform JSON body for every response:
// {success, data?, token?, count?, error?}.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Token   string `json:"token,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
}

func Success(c *gin.Context, status int, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, Envelope{Success: true, Data: data})
}

// SuccessList includes a count alongside the data, used by list endpoints.
func SuccessList(c *gin.Context, status int, data any, count int) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, Envelope{Success: true, Data: data, Count: &count})
}

// Token responds with a session token in the body. The cookie is set by the
// handler before calling this.
func Token(c *gin.Context, status int, token string) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, Envelope{Success: true, Token: token})
}

func Fail(c *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, Envelope{Success: false, Error: message})
}
