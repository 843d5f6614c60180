package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope codes. The first three digits mirror the HTTP status family.
const (
	CodeOK              = 0
	CodeInvalidArgument = 10001
	CodeUnsupported     = 10002
	CodeAuth            = 40102
	CodeNotFound        = 40401
	CodeInactive        = 40901
	CodeUnreachable     = 50201
	CodeBackend         = 50202
	CodeInternal        = 50001
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    CodeOK,
		"message": "ok",
		"data":    data,
	})
}

func Fail(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
		"data":    nil,
	})
}

// FailErr maps an error's kind onto the HTTP status and envelope code.
func FailErr(c *gin.Context, err error) {
	msg := err.Error()
	switch KindOf(err) {
	case ErrInvalidArgument:
		Fail(c, http.StatusBadRequest, CodeInvalidArgument, msg)
	case ErrUnsupported:
		Fail(c, http.StatusBadRequest, CodeUnsupported, msg)
	case ErrAuth:
		Fail(c, http.StatusUnauthorized, CodeAuth, msg)
	case ErrNotFound:
		Fail(c, http.StatusNotFound, CodeNotFound, msg)
	case ErrInactive:
		Fail(c, http.StatusConflict, CodeInactive, msg)
	case ErrUnreachable:
		Fail(c, http.StatusBadGateway, CodeUnreachable, msg)
	case ErrBackend:
		status := UpstreamOf(err)
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		Fail(c, status, CodeBackend, msg)
	default:
		Fail(c, http.StatusInternalServerError, CodeInternal, msg)
	}
}
