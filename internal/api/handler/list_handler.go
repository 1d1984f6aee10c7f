package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/todo-system/internal/api/metrics"
	"github.com/taskhive/todo-system/internal/core/domain"
	"github.com/taskhive/todo-system/internal/core/ports"
)

// ListHandler handles collaborative list and membership endpoints.
type ListHandler struct {
	lists ports.ListService
}

func NewListHandler(lists ports.ListService) *ListHandler {
	return &ListHandler{lists: lists}
}

func toListResponse(l *domain.List, access domain.AccessLevel) listResponse {
	resp := listResponse{
		ID:        l.ID,
		Name:      l.Name,
		OwnerID:   l.OwnerID,
		MemberIDs: l.MemberIDs,
		CreatedAt: l.CreatedAt,
	}
	if access != "" {
		resp.Access = string(access)
	}
	return resp
}

// List handles GET /api/lists — everything the requester owns or belongs to.
func (h *ListHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	lists, err := h.lists.ListsForUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	out := make([]listResponse, 0, len(lists))
	for _, l := range lists {
		out = append(out, toListResponse(l, l.ClassifyAccess(userID)))
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /api/lists.
func (h *ListHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	list, err := h.lists.CreateList(c.Request().Context(), userID, req.Name)
	if err != nil {
		return err
	}

	metrics.ListsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toListResponse(list, domain.AccessOwner))
}

// Get handles GET /api/lists/:list_id.
func (h *ListHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	detail, err := h.lists.GetList(c.Request().Context(), c.Param("list_id"), userID)
	if err != nil {
		return countDenied(err, "list")
	}
	return c.JSON(http.StatusOK, toListResponse(detail.List, detail.Access))
}

// Rename handles PUT /api/lists/:list_id. Owner-only.
func (h *ListHandler) Rename(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req renameListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	list, err := h.lists.RenameList(c.Request().Context(), c.Param("list_id"), userID, req.Name)
	if err != nil {
		return countDenied(err, "list")
	}
	return c.JSON(http.StatusOK, toListResponse(list, domain.AccessOwner))
}

// Delete handles DELETE /api/lists/:list_id. Owner-only; cascades to tasks.
func (h *ListHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.lists.DeleteList(c.Request().Context(), c.Param("list_id"), userID); err != nil {
		return countDenied(err, "list")
	}
	return c.NoContent(http.StatusNoContent)
}

// Members handles GET /api/lists/:list_id/members.
func (h *ListHandler) Members(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	members, err := h.lists.ListMembers(c.Request().Context(), c.Param("list_id"), userID)
	if err != nil {
		return countDenied(err, "member")
	}

	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, memberResponse{ID: m.ID, Name: m.Name, Username: m.Username})
	}
	return c.JSON(http.StatusOK, out)
}

// AddMember handles POST /api/lists/:list_id/members. Owner-only.
func (h *ListHandler) AddMember(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req addMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	member, err := h.lists.AddMember(c.Request().Context(), c.Param("list_id"), userID, req.Username)
	if err != nil {
		return countDenied(err, "member")
	}

	metrics.MembershipChangesTotal.WithLabelValues("add").Inc()
	return c.JSON(http.StatusCreated, memberResponse{ID: member.ID, Name: member.Name, Username: member.Username})
}

// RemoveMember handles DELETE /api/lists/:list_id/members/:member_id. Owner-only.
func (h *ListHandler) RemoveMember(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	err = h.lists.RemoveMember(c.Request().Context(), c.Param("list_id"), userID, c.Param("member_id"))
	if err != nil {
		return countDenied(err, "member")
	}

	metrics.MembershipChangesTotal.WithLabelValues("remove").Inc()
	return c.NoContent(http.StatusNoContent)
}

// countDenied bumps the denial counter for forbidden outcomes before handing
// the error to the central mapper.
func countDenied(err error, resource string) error {
	if errors.Is(err, domain.ErrForbidden) {
		metrics.AccessDeniedTotal.WithLabelValues(resource).Inc()
	}
	return err
}
