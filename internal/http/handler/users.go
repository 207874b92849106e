package handler

import (
	"fmt"
	"net/http"
	"strconv"

	accountsvc "task-service/internal/account"
	"task-service/internal/audit"
	"task-service/internal/auth"
	"task-service/internal/domain/account"
	apperrors "task-service/pkg/errors"
	"task-service/pkg/validator"

	"github.com/labstack/echo/v4"
)

type UsersHandler struct {
	accounts AccountAdministration
}

func NewUsersHandler(accounts AccountAdministration) *UsersHandler {
	return &UsersHandler{accounts: accounts}
}

type RoleUpdateRequest struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

type PermissionsResponse struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func (h *UsersHandler) ListUsers(c echo.Context) error {
	limit, err := queryInt(c, queryLimit)
	if err != nil {
		return err
	}
	offset, err := queryInt(c, queryOffset)
	if err != nil {
		return err
	}

	accounts, err := h.accounts.List(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}

	summaries := make([]account.Summary, 0, len(accounts))
	for _, a := range accounts {
		summaries = append(summaries, a.Summary())
	}
	return c.JSON(http.StatusOK, summaries)
}

// UpdateRole serves every role-mutation route. Route guards decide who may
// call it; the account service decides which role value is allowed.
func (h *UsersHandler) UpdateRole(c echo.Context) error {
	var req RoleUpdateRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	if err := validator.UserID(req.UserID); err != nil {
		return apperrors.Validation(err.Error())
	}
	if err := validator.RoleName(req.Role); err != nil {
		return apperrors.Validation(err.Error())
	}

	p, err := auth.GetPrincipal(c)
	if err != nil {
		return err
	}

	role, err := h.accounts.ChangeRole(c.Request().Context(), accountsvc.RoleChangeRequest{
		ActorID:  p.ID(),
		TargetID: req.UserID,
		Role:     req.Role,
		Meta:     audit.MetaFromContext(c),
	})
	if err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, fmt.Sprintf(msgRoleUpdatedFmt, role))
}

// MyPermissions lists the caller's effective permissions.
func (h *UsersHandler) MyPermissions(c echo.Context) error {
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PermissionsResponse{
		Role:        string(p.Role()),
		Permissions: p.Permissions(),
	})
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.BadRequest(msgInvalidPagination)
	}
	return n, nil
}
