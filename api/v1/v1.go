package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func HandleSuccess(ctx *gin.Context, data interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	resp := Response{Code: errorCodeMap[ErrSuccess], Message: ErrSuccess.Error(), Data: data}
	ctx.JSON(http.StatusOK, resp)
}

// HandleError writes err with the business code of the first registered error it wraps.
func HandleError(ctx *gin.Context, httpCode int, err error, data interface{}) {
	if data == nil {
		data = map[string]string{}
	}
	code, ok := CodeOf(err)
	if !ok {
		ctx.JSON(httpCode, Response{Code: 500, Message: "unknown error", Data: data})
		return
	}
	ctx.JSON(httpCode, Response{Code: code, Message: err.Error(), Data: data})
}

// CodeOf resolves the business code of err. The wrap tree is searched breadth first,
// so the outermost registered error wins over causes nested deeper.
func CodeOf(err error) (int, bool) {
	queue := []error{err}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if e == nil {
			continue
		}
		if code, ok := errorCodeMap[e]; ok {
			return code, true
		}
		switch u := e.(type) {
		case interface{ Unwrap() error }:
			queue = append(queue, u.Unwrap())
		case interface{ Unwrap() []error }:
			queue = append(queue, u.Unwrap()...)
		}
	}
	return 0, false
}

var errorCodeMap = map[error]int{}

func newError(code int, msg string) error {
	err := errors.New(msg)
	errorCodeMap[err] = code
	return err
}
