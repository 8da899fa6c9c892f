package controllers

import (
	"time"

	"guildhall/auth"
	"guildhall/metrics"
	"guildhall/services"

	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"
)

// AccessLog logs every request after it has been served.
func AccessLog(logger *zap.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		startTime := time.Now()

		chain.ProcessFilter(req, resp)

		logger.Info("Request",
			zap.String("client_ip", req.Request.RemoteAddr),
			zap.String("method", req.Request.Method),
			zap.Int("status_code", resp.StatusCode()),
			zap.Duration("latency", time.Since(startTime)),
			zap.String("user_agent", req.Request.UserAgent()),
			zap.String("path", req.Request.URL.Path),
		)
	}
}

// RequestMetrics records request counts and latencies by route template.
func RequestMetrics(m *metrics.Metrics) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		startTime := time.Now()

		chain.ProcessFilter(req, resp)

		route := req.SelectedRoutePath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(req.Request.Method, route, resp.StatusCode(), time.Since(startTime))
	}
}

// LastSeen stamps the authenticated user's last_seen before the handler runs.
// It must follow the auth filter.
func LastSeen(users services.UserService) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		if userID, ok := auth.RequestUserID(req); ok {
			if err := users.TouchLastSeen(req.Request.Context(), userID); err != nil {
				zap.L().Warn("Failed to update last_seen", zap.Uint("user_id", userID), zap.Error(err))
			}
		}
		chain.ProcessFilter(req, resp)
	}
}
