package handler

import (
	"net/http"
	"time"

	accountsvc "task-service/internal/account"
	"task-service/internal/audit"
	"task-service/internal/auth"
	apperrors "task-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

// CookieSettings describes the token cookie set on login.
type CookieSettings struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	accounts Authenticator
	tokens   TokenIssuer
	cookie   CookieSettings
	auditor  AuditRecorder
}

func NewAuthHandler(accounts Authenticator, tokens TokenIssuer, cookie CookieSettings, auditor AuditRecorder) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		tokens:   tokens,
		cookie:   cookie,
		auditor:  auditor,
	}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Type     string `json:"type"`
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type MeResponse struct {
	Type        string   `json:"type"`
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Authorities []string `json:"authorities"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	acc, err := h.accounts.Register(c.Request().Context(), accountsvc.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	h.audit(c, audit.ResourceTypeAccount, &acc.ID, audit.ActionCreate, audit.StatusSuccess, map[string]any{"username": acc.Username})
	return c.JSON(http.StatusCreated, acc.Summary())
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	acc, err := h.accounts.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeInvalidCredentials {
			h.audit(c, audit.ResourceTypeSession, nil, audit.ActionLogin, audit.StatusFailure, map[string]any{"username": req.Username})
		}
		return err
	}

	token, err := h.tokens.Issue(acc.Username)
	if err != nil {
		return apperrors.InternalServer(msgGenerateTokenFail, err)
	}

	c.SetCookie(h.tokenCookie(token.Value, token.ExpiresAt))
	h.audit(c, audit.ResourceTypeSession, &acc.ID, audit.ActionLogin, audit.StatusSuccess, nil)

	return c.JSON(http.StatusOK, LoginResponse{
		Token:    token.Value,
		Type:     tokenTypeBearer,
		ID:       acc.ID,
		Username: acc.Username,
		Email:    acc.Email,
		Role:     string(acc.Role),
	})
}

// Logout clears the token cookie. Issued tokens stay valid until expiry.
func (h *AuthHandler) Logout(c echo.Context) error {
	if p, ok := auth.PrincipalFrom(c); ok {
		id := p.ID()
		h.audit(c, audit.ResourceTypeSession, &id, audit.ActionLogout, audit.StatusSuccess, nil)
	}

	c.SetCookie(h.tokenCookie("", time.Unix(0, 0)))
	return respondMessage(c, http.StatusOK, msgLoggedOut)
}

func (h *AuthHandler) Me(c echo.Context) error {
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MeResponse{
		Type:        tokenTypeBearer,
		ID:          p.ID(),
		Username:    p.Username(),
		Email:       p.Email(),
		Role:        string(p.Role()),
		Authorities: p.Authorities(),
	})
}

func (h *AuthHandler) tokenCookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}

func (h *AuthHandler) audit(c echo.Context, resourceType audit.ResourceType, resourceID *int64, action audit.Action, status audit.Status, metadata map[string]any) {
	if h.auditor != nil {
		h.auditor.LogFromContext(c, resourceType, resourceID, action, status, metadata)
	}
}
