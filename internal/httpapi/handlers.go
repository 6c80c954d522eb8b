package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"

	"github.com/gatehouse/gatehouse/internal/observability"
	"github.com/gatehouse/gatehouse/pkg/errutil"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

type signupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// outcomeResponse is the shape of signup/login replies.
type outcomeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// handleSignup registers a new account and sets the session cookie.
func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.count(func(m *observability.Metrics) { m.RegistrationsTotal.WithLabelValues("invalid").Inc() })
		c.JSON(http.StatusBadRequest, outcomeResponse{
			Success: false,
			Message: "email, password and username are required",
		})
		return
	}

	account, token, err := s.svc.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		switch errorCode(err) {
		case "AUTH_INVALID_INPUT":
			s.count(func(m *observability.Metrics) { m.RegistrationsTotal.WithLabelValues("invalid").Inc() })
			c.JSON(http.StatusBadRequest, outcomeResponse{Success: false, Message: safeMessage(err)})
		case "AUTH_DUPLICATE_ACCOUNT":
			s.count(func(m *observability.Metrics) { m.RegistrationsTotal.WithLabelValues("duplicate").Inc() })
			c.JSON(http.StatusConflict, outcomeResponse{Success: false, Message: "Account already exists"})
		default:
			s.count(func(m *observability.Metrics) { m.RegistrationsTotal.WithLabelValues("error").Inc() })
			errutil.LogError(s.logger, "signup failed", err)
			c.JSON(http.StatusServiceUnavailable, outcomeResponse{Success: false, Message: "Service temporarily unavailable"})
		}
		return
	}

	s.count(func(m *observability.Metrics) { m.RegistrationsTotal.WithLabelValues("success").Inc() })
	s.setSessionCookie(c, token)
	s.logger.Info("signup succeeded", "email", account.Email)
	c.JSON(http.StatusCreated, outcomeResponse{Success: true, Message: "Account created successfully"})
}

// handleLogin authenticates an account and sets the session cookie.
// Unknown email and wrong password produce the identical response.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.count(func(m *observability.Metrics) { m.LoginsTotal.WithLabelValues("invalid").Inc() })
		c.JSON(http.StatusBadRequest, outcomeResponse{
			Success: false,
			Message: "email and password are required",
		})
		return
	}

	account, token, err := s.svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errorCode(err) == "AUTH_INVALID_CREDENTIALS" {
			s.count(func(m *observability.Metrics) { m.LoginsTotal.WithLabelValues("denied").Inc() })
			c.JSON(http.StatusUnauthorized, outcomeResponse{Success: false, Message: "Invalid credentials"})
			return
		}
		s.count(func(m *observability.Metrics) { m.LoginsTotal.WithLabelValues("error").Inc() })
		errutil.LogError(s.logger, "login failed", err)
		c.JSON(http.StatusServiceUnavailable, outcomeResponse{Success: false, Message: "Service temporarily unavailable"})
		return
	}

	s.count(func(m *observability.Metrics) { m.LoginsTotal.WithLabelValues("success").Inc() })
	s.setSessionCookie(c, token)
	s.logger.Info("login succeeded", "email", account.Email)
	c.JSON(http.StatusOK, outcomeResponse{Success: true, Message: "Logged in successfully"})
}

// handleVerify resolves the session cookie to an identity. An absent or
// invalid cookie is the normal unauthenticated reply, never an error.
func (s *Server) handleVerify(c *gin.Context) {
	carrier, err := c.Cookie(SessionCookieName)
	if err != nil {
		carrier = ""
	}

	intro, err := s.svc.Introspect(c.Request.Context(), carrier)
	if err != nil {
		s.count(func(m *observability.Metrics) { m.IntrospectionsTotal.WithLabelValues("error").Inc() })
		errutil.LogError(s.logger, "introspection failed", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": false})
		return
	}

	if !intro.Authenticated {
		s.count(func(m *observability.Metrics) { m.IntrospectionsTotal.WithLabelValues("denied").Inc() })
		c.JSON(http.StatusOK, gin.H{"status": false})
		return
	}

	s.count(func(m *observability.Metrics) { m.IntrospectionsTotal.WithLabelValues("confirmed").Inc() })
	c.JSON(http.StatusOK, gin.H{"status": true, "user": intro.Username})
}

// handleHealth is the liveness probe, with a best-effort database check.
func (s *Server) handleHealth(c *gin.Context) {
	health := gin.H{"status": "ok"}

	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.pinger.Ping(ctx); err != nil {
			health["database"] = "down"
			c.JSON(http.StatusServiceUnavailable, health)
			return
		}
		health["database"] = "up"
	}

	c.JSON(http.StatusOK, health)
}

// handleCORSTest echoes the caller's origin so deployments can verify
// the allow-list without involving account state.
func (s *Server) handleCORSTest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "CORS is configured correctly",
		"origin":  c.GetHeader("Origin"),
	})
}

// setSessionCookie attaches the token with expiry matching the token's
// lifetime. Production uses SameSite=None; Secure so the cookie travels
// on cross-site credentialed fetches; development stays on Lax over
// plain HTTP.
func (s *Server) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(s.svc.TokenTTL().Seconds())
	secure := s.cfg.IsProduction()

	if secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(SessionCookieName, token, maxAge, "/", s.cfg.CookieDomain, secure, true)
}

// errorCode extracts the oops error code, or empty for plain errors.
func errorCode(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		return oopsErr.Code()
	}
	return ""
}

// safeMessage returns the user-facing message for validation failures.
// Coded validation errors carry caller-safe text; anything else gets a
// generic reply.
func safeMessage(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		return oopsErr.Error()
	}
	return "invalid input"
}
