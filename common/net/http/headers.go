package http

const (
	headerCorrelationID = "X-Correlation-Id"
	headerUserAgent     = "User-Agent"
	headerRealIP        = "X-Real-Ip"
	headerForwardedFor  = "X-Forwarded-For"
	headerAuthorization = "Authorization"
)
