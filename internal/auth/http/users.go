package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
	"github.com/aussiebroadwan/greencity/internal/auth/service"
	"github.com/aussiebroadwan/greencity/pkg/authsdk"
	"github.com/aussiebroadwan/greencity/pkg/httpx"
)

// UsersHandler serves account administration under /user.
type UsersHandler struct {
	Users *service.UserService
}

// HandleCurrentUser handles GET /user
//
//	@Summary		Current user
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	authsdk.UserInfo
//	@Failure		401	{object}	authsdk.GateErrorResponse
//	@Security		BearerAuth
//	@Router			/user [get]
func (h *UsersHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	u, err := h.Users.GetCurrentUser(r.Context(), p.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userInfo(u))
}

// HandleLanguage handles GET /user/lang
//
//	@Summary		Current user's language
//	@Tags			Users
//	@Produce		plain
//	@Success		200	{string}	string	"en or ua"
//	@Security		BearerAuth
//	@Router			/user/lang [get]
func (h *UsersHandler) HandleLanguage(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	lang, err := h.Users.GetLanguage(r.Context(), p.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(lang))
}

// HandleRoles handles GET /user/roles
//
//	@Summary		Assignable roles
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	authsdk.RolesResponse
//	@Failure		403	{object}	authsdk.GateErrorResponse
//	@Security		BearerAuth
//	@Router			/user/roles [get]
func (h *UsersHandler) HandleRoles(w http.ResponseWriter, r *http.Request) {
	roles := h.Users.Roles()
	out := authsdk.RolesResponse{Roles: make([]string, len(roles))}
	for i, role := range roles {
		out.Roles[i] = string(role)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleActivatedUsersAmount handles GET /user/activatedUsersAmount
//
//	@Summary		Number of activated users
//	@Tags			Users
//	@Produce		json
//	@Success		200	{integer}	int64
//	@Router			/user/activatedUsersAmount [get]
func (h *UsersHandler) HandleActivatedUsersAmount(w http.ResponseWriter, r *http.Request) {
	n, err := h.Users.CountActivatedUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, n)
}

// HandleUpdateStatus handles PATCH /user/status
//
//	@Summary		Change user status
//	@Description	Nobody can change their own status. Moderators cannot touch admins or other moderators.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.UserStatusRequest	true	"Target and status"
//	@Success		200		{object}	authsdk.UserStatusResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"BadUpdateRequest"
//	@Failure		403		{object}	authsdk.ErrorResponse	"LowRoleLevel"
//	@Failure		404		{object}	authsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/user/status [patch]
func (h *UsersHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req userStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	status, _ := domain.ParseUserStatus(req.UserStatus)

	u, err := h.Users.UpdateStatus(r.Context(), req.ID, status, p.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserStatusResponse{ID: u.ID, UserStatus: string(u.Status)})
}

// HandleUpdateRole handles PATCH /user/{id}/role
//
//	@Summary		Change user role
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"User id"
//	@Param			body	body		authsdk.UserRoleRequest	true	"Role"
//	@Success		200		{object}	authsdk.UserRoleResponse
//	@Failure		400		{object}	authsdk.ErrorResponse
//	@Failure		404		{object}	authsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/user/{id}/role [patch]
func (h *UsersHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeFieldErrors(w, []authsdk.FieldError{{Name: "id", Message: "must be a positive integer"}})
		return
	}
	var req userRoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	role, _ := domain.ParseRole(req.Role)

	u, err := h.Users.UpdateRole(r.Context(), id, role, p.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserRoleResponse{ID: u.ID, Role: string(u.Role)})
}

// HandleDeactivate handles PUT /user/deactivate
//
//	@Summary		Deactivate user
//	@Description	Stores the reasons and mails the ones in the user's language
//	@Tags			Users
//	@Accept			json
//	@Param			id		query	int			true	"User id"
//	@Param			body	body	[]string	true	"Reasons tagged {en}..{en} or {ua}..{ua}"
//	@Success		200
//	@Failure		404	{object}	authsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/user/deactivate [put]
func (h *UsersHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := queryInt64(w, r, "id")
	if !ok {
		return
	}
	var reasons []string
	if !decodeBody(w, r, &reasons) {
		return
	}

	if err := h.Users.DeactivateUser(r.Context(), id, reasons); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleActivate handles PUT /user/activate
//
//	@Summary		Activate user
//	@Tags			Users
//	@Param			id	query	int	true	"User id"
//	@Success		200
//	@Failure		404	{object}	authsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/user/activate [put]
func (h *UsersHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	id, ok := queryInt64(w, r, "id")
	if !ok {
		return
	}

	if _, err := h.Users.SetActivatedStatus(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleReasons handles GET /user/reasons
//
//	@Summary		Deactivation reasons
//	@Tags			Users
//	@Produce		json
//	@Param			id		query		int		true	"User id"
//	@Param			admin	query		string	false	"Language to show the reasons in"
//	@Success		200		{array}		string
//	@Failure		404		{object}	authsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/user/reasons [get]
func (h *UsersHandler) HandleReasons(w http.ResponseWriter, r *http.Request) {
	id, ok := queryInt64(w, r, "id")
	if !ok {
		return
	}

	reasons, err := h.Users.GetDeactivationReason(r.Context(), id, r.URL.Query().Get("admin"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if reasons == nil {
		reasons = []string{}
	}

	httpx.WriteJSON(w, http.StatusOK, reasons)
}

// HandleDeactivateAll handles PUT /user/deactivateAll
//
//	@Summary		Deactivate many users
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body	[]int64	true	"User ids"
//	@Success		200		{array}	int64	"Ids that existed"
//	@Security		BearerAuth
//	@Router			/user/deactivateAll [put]
func (h *UsersHandler) HandleDeactivateAll(w http.ResponseWriter, r *http.Request) {
	var ids []int64
	if !decodeBody(w, r, &ids) {
		return
	}

	done, err := h.Users.DeactivateAllUsers(r.Context(), ids)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, done)
}

func userInfo(u domain.User) authsdk.UserInfo {
	info := authsdk.UserInfo{
		ID:             u.ID,
		UUID:           u.UUID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           string(u.Role),
		UserStatus:     string(u.Status),
		Language:       u.Language,
		DateOfRegistry: u.RegisteredAt.UTC().Format(time.RFC3339),
	}
	if u.LastActivityAt != nil {
		s := u.LastActivityAt.UTC().Format(time.RFC3339)
		info.LastActivity = &s
	}
	return info
}
