package auth

import (
	"net/http"
	"strings"

	restful "github.com/emicklei/go-restful/v3"
)

// Request attribute keys set by AuthFilter.
const (
	AttrUserID   = "user_id"
	AttrUsername = "username"
	AttrClaims   = "claims"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthFilter creates a go-restful FilterFunction for JWT authentication.
func AuthFilter(tokens *TokenManager) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		authHeader := req.HeaderParameter("Authorization")
		if authHeader == "" {
			_ = resp.WriteHeaderAndJson(http.StatusUnauthorized, map[string]string{"message": "Authorization header required"}, restful.MIME_JSON)
			return
		}

		tokenString, ok := BearerToken(authHeader)
		if !ok {
			_ = resp.WriteHeaderAndJson(http.StatusUnauthorized, map[string]string{"message": "Invalid authorization header format"}, restful.MIME_JSON)
			return
		}

		claims, err := tokens.ParseAndValidateToken(req.Request.Context(), tokenString)
		if err != nil {
			_ = resp.WriteHeaderAndJson(http.StatusUnauthorized, map[string]string{"message": err.Error()}, restful.MIME_JSON)
			return
		}

		req.SetAttribute(AttrUserID, claims.UserID)
		req.SetAttribute(AttrUsername, claims.Username)
		req.SetAttribute(AttrClaims, claims)

		chain.ProcessFilter(req, resp)
	}
}

// RequestUserID extracts the user ID set by AuthFilter.
func RequestUserID(req *restful.Request) (uint, bool) {
	userID, ok := req.Attribute(AttrUserID).(uint)
	return userID, ok
}

// RequestClaims extracts the validated claims set by AuthFilter.
func RequestClaims(req *restful.Request) (*CustomClaims, bool) {
	claims, ok := req.Attribute(AttrClaims).(*CustomClaims)
	return claims, ok
}
