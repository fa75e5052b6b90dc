package authsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Management operations. The server decides who may call them: listing
// roles needs ADMIN, MODERATOR or EMPLOYEE, employee sign-up needs
// UBS_EMPLOYEE and everything else ADMIN.

// ListRoles returns the assignable roles.
func (s *Session) ListRoles(ctx context.Context) ([]string, error) {
	out, err := authCall[RolesResponse](ctx, s, http.MethodGet, "/user/roles", nil)
	if err != nil {
		return nil, err
	}
	return out.Roles, nil
}

// UpdateStatus changes a user's status.
func (s *Session) UpdateStatus(ctx context.Context, id int64, status string) (*UserStatusResponse, error) {
	return authCall[UserStatusResponse](ctx, s, http.MethodPatch, "/user/status",
		UserStatusRequest{ID: id, UserStatus: status})
}

// UpdateRole changes a user's role.
func (s *Session) UpdateRole(ctx context.Context, id int64, role string) (*UserRoleResponse, error) {
	return authCall[UserRoleResponse](ctx, s, http.MethodPatch, fmt.Sprintf("/user/%d/role", id),
		UserRoleRequest{Role: role})
}

// DeactivateUser deactivates id. Each reason is tagged with one language,
// "{en}Spam{en}" or "{ua}Спам{ua}"; the user is mailed the ones in their
// language.
func (s *Session) DeactivateUser(ctx context.Context, id int64, reasons []string) error {
	if reasons == nil {
		reasons = []string{}
	}
	resp, err := s.doAuthRequest(ctx, http.MethodPut, idPath("/user/deactivate", id), reasons)
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusOK)
}

// ActivateUser sets id back to ACTIVATED.
func (s *Session) ActivateUser(ctx context.Context, id int64) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, idPath("/user/activate", id), nil)
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusOK)
}

// DeactivationReasons returns the latest deactivation reasons of id in
// adminLang, or in the user's language when adminLang is empty.
func (s *Session) DeactivationReasons(ctx context.Context, id int64, adminLang string) ([]string, error) {
	path := withQuery("/user/reasons", url.Values{
		"id":    {strconv.FormatInt(id, 10)},
		"admin": {adminLang},
	})
	out, err := authCall[[]string](ctx, s, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// DeactivateAll deactivates every listed user and returns the ids that
// existed.
func (s *Session) DeactivateAll(ctx context.Context, ids []int64) ([]int64, error) {
	if ids == nil {
		ids = []int64{}
	}
	out, err := authCall[[]int64](ctx, s, http.MethodPut, "/user/deactivateAll", ids)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// RegisterUser creates an account from the management panel. The new
// user gets an approval email with a link to set their password.
func (s *Session) RegisterUser(ctx context.Context, req RegisterUserRequest) (*UserInfo, error) {
	return authCall[UserInfo](ctx, s, http.MethodPost, "/ownSecurity/register", req)
}

// SignUpEmployee registers a UBS employee.
func (s *Session) SignUpEmployee(ctx context.Context, req EmployeeSignUpRequest, lang string) (*SuccessSignUp, error) {
	path := withQuery("/ownSecurity/sign-up-employee", url.Values{"lang": {lang}})
	return authCall[SuccessSignUp](ctx, s, http.MethodPost, path, req)
}

func idPath(path string, id int64) string {
	return withQuery(path, url.Values{"id": {strconv.FormatInt(id, 10)}})
}
