package http

import (
	"net/http"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
	"github.com/aussiebroadwan/greencity/pkg/httpx"
)

const userLink = "/user"

var (
	user        = string(domain.RoleUser)
	admin       = string(domain.RoleAdmin)
	moderator   = string(domain.RoleModerator)
	employee    = string(domain.RoleEmployee)
	ubsEmployee = string(domain.RoleUBSEmployee)

	anyAccountRole = httpx.AnyRole(user, admin, ubsEmployee, moderator, employee)
	staffRole      = httpx.AnyRole(admin, ubsEmployee, moderator, employee)
	managerRole    = httpx.AnyRole(admin, moderator, employee)
	adminRole      = httpx.AnyRole(admin)
)

// NewPolicy returns the access table of the whole GreenCity user API. Some
// rules cover routes served by sibling services behind the same gateway;
// they are kept so the table stays the single source of truth. Anything
// not listed needs ADMIN.
func NewPolicy() *httpx.Policy {
	return httpx.NewPolicy(adminRole,
		httpx.Rule{Patterns: []string{"/error"}, Access: httpx.Public()},
		httpx.Rule{Patterns: []string{"/static/css/**", "/static/img/**"}, Access: httpx.Public()},
		httpx.Rule{Method: http.MethodOptions, Patterns: []string{"/**"}, Access: httpx.Public()},
		httpx.Rule{
			Patterns: []string{
				"/v2/api-docs/**", "/v3/api-docs/**", "/swagger.json", "/swagger-ui.html",
				"/swagger-resources/**", "/webjars/**", "/swagger-ui/**", "/swagger/**",
			},
			Access: httpx.Public(),
		},
		httpx.Rule{
			Method:   http.MethodGet,
			Patterns: []string{"/livez", "/readyz", "/.well-known/jwks.json"},
			Access:   httpx.Public(),
		},
		httpx.Rule{
			Method: http.MethodGet,
			Patterns: []string{
				"/ownSecurity/verifyEmail",
				"/ownSecurity/updateAccessToken",
				"/ownSecurity/restorePassword",
				"/googleAuth/getToken",
				"/facebookSecurity/generateFacebookAuthorizeURL",
				"/facebookSecurity/facebook",
				"/user/activatedUsersAmount",
				"/user/{userId}/habit/assign",
				"/token",
				"/socket/**",
				"/user/findAllByEmailNotification",
				"/user/checkByUuid",
				"/user/get-user-rating",
			},
			Access: httpx.Public(),
		},
		httpx.Rule{
			Method:   http.MethodPost,
			Patterns: []string{"/ownSecurity/signUp", "/ownSecurity/signIn", "/ownSecurity/updatePassword"},
			Access:   httpx.Public(),
		},
		httpx.Rule{Method: http.MethodGet, Patterns: []string{"/user/isOnline/{userId}"}, Access: httpx.Authenticated()},
		httpx.Rule{Method: http.MethodPost, Patterns: []string{"/user/changePassword"}, Access: httpx.Authenticated()},
		httpx.Rule{
			Method: http.MethodGet,
			Patterns: []string{
				userLink,
				"/user/shopping-list-items/habits/{habitId}/shopping-list",
				"/user/{userId}/{habitId}/custom-shopping-list-items/available",
				"/user/{userId}/profile",
				"/user/isOnline/{userId}",
				"/user/{userId}/profileStatistics",
				"/user/userAndSixFriendsWithOnlineStatus",
				"/user/userAndAllFriendsWithOnlineStatus",
				"/user/findByIdForAchievement",
				"/user/findNotDeactivatedByEmail",
				"/user/findByEmail",
				"/user/findIdByEmail",
				"/user/findAllUsersCities",
				"/user/findById",
				"/user/findUserByName/**",
				"/user/findByUuId",
				"/user/findUuidByEmail",
				"/user/lang",
				"/user/createUbsRecord",
				"/user/{userId}/sixUserFriends",
				"/ownSecurity/password-status",
				"/user/emailNotifications",
			},
			Access: anyAccountRole,
		},
		httpx.Rule{
			Method: http.MethodPost,
			Patterns: []string{
				userLink,
				"/user/shopping-list-items",
				"/user/{userId}/habit",
				"/ownSecurity/set-password",
				"/email/sendReport",
				"/email/sendHabitNotification",
				"/email/addEcoNews",
				"/email/changePlaceStatus",
				"/email/general/notification",
			},
			Access: anyAccountRole,
		},
		httpx.Rule{
			Method: http.MethodPut,
			Patterns: []string{
				"/ownSecurity/changePassword",
				"/user/profile",
				"/user/{id}/updateUserLastActivityTime/{date}",
				"/user/language/{languageId}",
				"/user/employee-email",
			},
			Access: anyAccountRole,
		},
		httpx.Rule{
			Method: http.MethodPut,
			Patterns: []string{
				"/user/edit-authorities",
				"/user/authorities",
				"/user/deactivate-employee",
				"/user/markUserAsDeactivated",
				"/user/markUserAsActivated",
			},
			Access: staffRole,
		},
		httpx.Rule{
			Method: http.MethodGet,
			Patterns: []string{
				"/user/get-all-authorities",
				"/user/get-positions-authorities",
				"/user/get-employee-login-positions",
			},
			Access: staffRole,
		},
		httpx.Rule{
			Method:   http.MethodPatch,
			Patterns: []string{"/user/shopping-list-items/{userShoppingListItemId}", "/user/profilePicture", "/user/deleteProfilePicture"},
			Access:   anyAccountRole,
		},
		httpx.Rule{
			Method:   http.MethodDelete,
			Patterns: []string{"/user/shopping-list-items/user-shopping-list-items", "/user/shopping-list-items"},
			Access:   anyAccountRole,
		},
		httpx.Rule{
			Method:   http.MethodGet,
			Patterns: []string{"/user/all", "/user/roles", "/user/findUserForManagement", "/user/searchBy", "/user/findAll"},
			Access:   managerRole,
		},
		httpx.Rule{Method: http.MethodPost, Patterns: []string{"/ownSecurity/sign-up-employee"}, Access: httpx.AnyRole(ubsEmployee)},
		httpx.Rule{Method: http.MethodPost, Patterns: []string{"/user/filter", "/ownSecurity/register"}, Access: adminRole},
		httpx.Rule{Method: http.MethodPut, Patterns: []string{"/user/{id}"}, Access: adminRole},
		httpx.Rule{Method: http.MethodPatch, Patterns: []string{"/user/status", "/user/{id}/role", "/user/update/role"}, Access: adminRole},
		// Remember-me login maps to any signed-in caller.
		httpx.Rule{Method: http.MethodPost, Patterns: []string{"/management/login"}, Access: httpx.Authenticated()},
		httpx.Rule{Method: http.MethodGet, Patterns: []string{"/management/login"}, Access: httpx.Public()},
		httpx.Rule{Patterns: []string{"/css/**", "/img/**"}, Access: httpx.Public()},
		httpx.Rule{Method: http.MethodPut, Patterns: []string{"/user/user-rating"}, Access: anyAccountRole},
	)
}
