package middleware

import (
	"bytes"
	"io"
	"time"

	"cloudrent/pkg/log"

	"github.com/duke-git/lancet/v2/cryptor"
	"github.com/duke-git/lancet/v2/random"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxLogBody caps how much of a request or response body is logged.
const maxLogBody = 4096

func RequestLogMiddleware(logger *log.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		uuid, err := random.UUIdV4()
		if err != nil {
			return
		}
		trace := cryptor.Md5String(uuid)
		ctx.Header("X-Trace-Id", trace)
		logger.WithValue(ctx,
			zap.String("trace", trace),
			zap.String("request_method", ctx.Request.Method),
			zap.String("request_url", ctx.Request.URL.String()),
		)

		if ctx.Request.Body != nil {
			bodyBytes, _ := ctx.GetRawData()
			// restore the body for the handlers
			ctx.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			logger.WithContext(ctx).Info("Request", zap.ByteString("request_params", redact(truncate(bodyBytes))))
		} else {
			logger.WithContext(ctx).Info("Request")
		}
		ctx.Next()
	}
}

func ResponseLogMiddleware(logger *log.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: ctx.Writer}
		ctx.Writer = blw
		startTime := time.Now()
		ctx.Next()
		logger.WithContext(ctx).Info("Response",
			zap.Int("status", ctx.Writer.Status()),
			zap.ByteString("response_body", truncate(blw.body.Bytes())),
			zap.Duration("time", time.Since(startTime)),
		)
	}
}

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func truncate(b []byte) []byte {
	if len(b) > maxLogBody {
		return b[:maxLogBody]
	}
	return b
}

// redact hides container passwords from the request log.
func redact(b []byte) []byte {
	if !bytes.Contains(b, []byte(`"password"`)) {
		return b
	}
	return []byte("[body with credentials omitted]")
}
