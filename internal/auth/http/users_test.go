package http

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
	"github.com/aussiebroadwan/greencity/internal/auth/notify"
	"github.com/aussiebroadwan/greencity/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestUpdateStatus(t *testing.T) {
	s := newTestServer(t)
	adm := s.seedUser(t, "admin@example.com", domain.RoleAdmin, domain.StatusActivated)
	other := s.seedUser(t, "other-admin@example.com", domain.RoleAdmin, domain.StatusActivated)
	usr := s.seedUser(t, "user@example.com", domain.RoleUser, domain.StatusActivated)
	tok := s.accessToken(t, adm)

	tests := []struct {
		name     string
		req      authsdk.UserStatusRequest
		wantCode int
		wantName string
	}{
		{"blocks a user", authsdk.UserStatusRequest{ID: usr.ID, UserStatus: "BLOCKED"}, http.StatusOK, ""},
		{"admin may block another admin", authsdk.UserStatusRequest{ID: other.ID, UserStatus: "BLOCKED"}, http.StatusOK, ""},
		{"not on yourself", authsdk.UserStatusRequest{ID: adm.ID, UserStatus: "BLOCKED"}, http.StatusBadRequest, "BadUpdateRequest"},
		{"unknown user", authsdk.UserStatusRequest{ID: 9999, UserStatus: "BLOCKED"}, http.StatusNotFound, "NotFound"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := s.do(t, http.MethodPatch, "/user/status", tok, tc.req)
			requireStatus(t, rr, tc.wantCode)
			if tc.wantName != "" {
				require.Equal(t, tc.wantName, decode[authsdk.ErrorResponse](t, rr).Name)
				return
			}
			resp := decode[authsdk.UserStatusResponse](t, rr)
			require.Equal(t, tc.req.ID, resp.ID)
			require.Equal(t, tc.req.UserStatus, resp.UserStatus)
		})
	}

	t.Run("unknown status fails validation", func(t *testing.T) {
		rr := s.do(t, http.MethodPatch, "/user/status", tok, authsdk.UserStatusRequest{ID: usr.ID, UserStatus: "ASLEEP"})
		requireStatus(t, rr, http.StatusBadRequest)
		fields := decode[[]authsdk.FieldError](t, rr)
		require.Equal(t, "userStatus", fields[0].Name)
	})

	t.Run("blocked user cannot sign in", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/ownSecurity/signIn", "", authsdk.SignInRequest{Email: usr.Email, Password: testPassword})
		requireStatus(t, rr, http.StatusBadRequest)
		require.Equal(t, "BadUserStatus", decode[authsdk.ErrorResponse](t, rr).Name)
	})
}

func TestUpdateRole(t *testing.T) {
	s := newTestServer(t)
	adm := s.seedUser(t, "admin@example.com", domain.RoleAdmin, domain.StatusActivated)
	usr := s.seedUser(t, "user@example.com", domain.RoleUser, domain.StatusActivated)
	tok := s.accessToken(t, adm)

	rr := s.do(t, http.MethodPatch, "/user/"+itoa(usr.ID)+"/role", tok, authsdk.UserRoleRequest{Role: "ROLE_MODERATOR"})
	requireStatus(t, rr, http.StatusOK)
	require.Equal(t, "MODERATOR", decode[authsdk.UserRoleResponse](t, rr).Role)

	rr = s.do(t, http.MethodPatch, "/user/"+itoa(adm.ID)+"/role", tok, authsdk.UserRoleRequest{Role: "USER"})
	requireStatus(t, rr, http.StatusBadRequest)
	require.Equal(t, "BadUpdateRequest", decode[authsdk.ErrorResponse](t, rr).Name)

	rr = s.do(t, http.MethodPatch, "/user/abc/role", tok, authsdk.UserRoleRequest{Role: "USER"})
	requireStatus(t, rr, http.StatusBadRequest)
	require.Equal(t, "id", decode[[]authsdk.FieldError](t, rr)[0].Name)

	// The new role shows up on the next token.
	rr = s.do(t, http.MethodPost, "/ownSecurity/signIn", "", authsdk.SignInRequest{Email: usr.Email, Password: testPassword})
	requireStatus(t, rr, http.StatusOK)
	modTok := decode[authsdk.SuccessSignIn](t, rr).AccessToken
	requireStatus(t, s.do(t, http.MethodGet, "/user/roles", modTok, nil), http.StatusOK)
}

func TestDeactivateAndActivate(t *testing.T) {
	s := newTestServer(t)
	adm := s.seedUser(t, "admin@example.com", domain.RoleAdmin, domain.StatusActivated)
	usr := s.seedUser(t, "user@example.com", domain.RoleUser, domain.StatusActivated)
	tok := s.accessToken(t, adm)
	id := itoa(usr.ID)

	reasons := []string{"{en}Spam{en}", "{ua}Спам{ua}", "{en}Abuse{en}", "{ua}Образи{ua}"}
	rr := s.do(t, http.MethodPut, "/user/deactivate?id="+id, tok, reasons)
	requireStatus(t, rr, http.StatusOK)

	ev := s.lastEvent(t, notify.EventDeactivation, usr.Email)
	require.Equal(t, domain.LangEN, ev.Lang)
	require.Len(t, ev.Reasons, 2)

	rr = s.do(t, http.MethodGet, "/user/reasons?id="+id+"&admin=ua", tok, nil)
	requireStatus(t, rr, http.StatusOK)
	require.Len(t, decode[[]string](t, rr), 2)

	rr = s.do(t, http.MethodPost, "/ownSecurity/signIn", "", authsdk.SignInRequest{Email: usr.Email, Password: testPassword})
	requireStatus(t, rr, http.StatusBadRequest)

	rr = s.do(t, http.MethodPut, "/user/activate?id="+id, tok, nil)
	requireStatus(t, rr, http.StatusOK)
	s.lastEvent(t, notify.EventActivation, usr.Email)

	rr = s.do(t, http.MethodPost, "/ownSecurity/signIn", "", authsdk.SignInRequest{Email: usr.Email, Password: testPassword})
	requireStatus(t, rr, http.StatusOK)

	t.Run("missing id", func(t *testing.T) {
		rr := s.do(t, http.MethodPut, "/user/activate", tok, nil)
		requireStatus(t, rr, http.StatusBadRequest)
		require.Equal(t, "id", decode[[]authsdk.FieldError](t, rr)[0].Name)
	})

	t.Run("deactivate all", func(t *testing.T) {
		rr := s.do(t, http.MethodPut, "/user/deactivateAll", tok, []int64{usr.ID, 9999})
		requireStatus(t, rr, http.StatusOK)
		require.Equal(t, []int64{usr.ID}, decode[[]int64](t, rr))

		rr = s.do(t, http.MethodGet, "/user/activatedUsersAmount", "", nil)
		requireStatus(t, rr, http.StatusOK)
		require.EqualValues(t, 1, decode[int64](t, rr))
	})
}

func TestRegisterFromManagement(t *testing.T) {
	s := newTestServer(t)
	adm := s.seedUser(t, "admin@example.com", domain.RoleAdmin, domain.StatusActivated)
	tok := s.accessToken(t, adm)

	rr := s.do(t, http.MethodPost, "/ownSecurity/register", tok, authsdk.RegisterUserRequest{
		Name: "Employee", Email: "Staff@Example.com", Role: "EMPLOYEE", UserStatus: "ACTIVATED",
	})
	requireStatus(t, rr, http.StatusOK)
	info := decode[authsdk.UserInfo](t, rr)
	require.Equal(t, "staff@example.com", info.Email)
	require.Equal(t, "EMPLOYEE", info.Role)

	ev := s.lastEvent(t, notify.EventApproval, "staff@example.com")
	require.NotEmpty(t, ev.Token)

	// The approval link is a restore link: it sets the first real password.
	rr = s.do(t, http.MethodPost, "/ownSecurity/updatePassword", "", authsdk.RestorePasswordRequest{
		Token: ev.Token, Password: "Approved1!", ConfirmPassword: "Approved1!",
	})
	requireStatus(t, rr, http.StatusOK)

	rr = s.do(t, http.MethodPost, "/ownSecurity/signIn", "", authsdk.SignInRequest{Email: info.Email, Password: "Approved1!"})
	requireStatus(t, rr, http.StatusOK)

	rr = s.do(t, http.MethodPost, "/ownSecurity/register", tok, authsdk.RegisterUserRequest{
		Name: "Again", Email: "staff@example.com", Role: "EMPLOYEE", UserStatus: "ACTIVATED",
	})
	requireStatus(t, rr, http.StatusConflict)
}
