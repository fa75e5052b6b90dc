package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
	"github.com/aussiebroadwan/greencity/internal/auth/service"
	"github.com/aussiebroadwan/greencity/pkg/authsdk"
	"github.com/aussiebroadwan/greencity/pkg/httpx"
)

// OwnSecurityHandler serves the email and password flows under /ownSecurity
// plus POST /user/changePassword.
type OwnSecurityHandler struct {
	OwnSecurity *service.OwnSecurityService
	Users       *service.UserService
}

// HandleSignUp handles POST /ownSecurity/signUp
//
//	@Summary		Sign up
//	@Description	Registers a user and mails a verification link in the requested language
//	@Tags			Own Security
//	@Accept			json
//	@Produce		json
//	@Param			lang	query		string					false	"Mail language (en, ua)"
//	@Param			body	body		authsdk.SignUpRequest	true	"New account"
//	@Success		200		{object}	authsdk.SuccessSignUp
//	@Failure		400		{array}		authsdk.FieldError		"Validation failed"
//	@Failure		409		{object}	authsdk.ErrorResponse	"Email already registered"
//	@Failure		429		{object}	authsdk.GateErrorResponse
//	@Router			/ownSecurity/signUp [post]
func (h *OwnSecurityHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.OwnSecurity.SignUp(r.Context(), service.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		IsUbs:    req.IsUbs,
	}, r.URL.Query().Get("lang"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, signUpResponse(res))
}

// HandleSignIn handles POST /ownSecurity/signIn
//
//	@Summary		Sign in
//	@Description	Checks the email, the password, pending verification and account status in that order and issues a token pair
//	@Tags			Own Security
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.SignInRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.SuccessSignIn
//	@Failure		400		{object}	authsdk.ErrorResponse	"WrongEmail, WrongPassword, EmailNotVerified or BadUserStatus"
//	@Failure		429		{object}	authsdk.GateErrorResponse
//	@Router			/ownSecurity/signIn [post]
func (h *OwnSecurityHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.OwnSecurity.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SuccessSignIn{
		UserID:           res.UserID,
		AccessToken:      res.AccessToken,
		RefreshToken:     res.RefreshToken,
		Name:             res.Name,
		OwnRegistrations: res.OwnRegistrations,
	})
}

// HandleUpdateAccessToken handles GET /ownSecurity/updateAccessToken
//
//	@Summary		Refresh tokens
//	@Description	Exchanges a refresh token for a new pair. The presented token is burned even when the call fails.
//	@Tags			Own Security
//	@Produce		json
//	@Param			refreshToken	query		string	true	"Refresh token"
//	@Success		200				{object}	authsdk.TokenPair
//	@Failure		400				{object}	authsdk.ErrorResponse	"BadUserStatus"
//	@Failure		401				{object}	authsdk.ErrorResponse	"BadRefreshToken"
//	@Router			/ownSecurity/updateAccessToken [get]
func (h *OwnSecurityHandler) HandleUpdateAccessToken(w http.ResponseWriter, r *http.Request) {
	token, ok := queryRequired(w, r, "refreshToken")
	if !ok {
		return
	}

	pair, err := h.OwnSecurity.UpdateAccessTokens(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// HandleVerifyEmail handles GET /ownSecurity/verifyEmail
//
//	@Summary		Verify email
//	@Description	Confirms an address with the token from the verification mail and activates the account
//	@Tags			Own Security
//	@Produce		json
//	@Param			token	query		string	true	"Token from the mail"
//	@Param			user_id	query		int		true	"User id"
//	@Success		200		{boolean}	boolean
//	@Failure		400		{object}	authsdk.ErrorResponse
//	@Router			/ownSecurity/verifyEmail [get]
func (h *OwnSecurityHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	token, ok := queryRequired(w, r, "token")
	if !ok {
		return
	}
	userID, ok := queryInt64(w, r, "user_id")
	if !ok {
		return
	}

	if err := h.OwnSecurity.VerifyEmail(r.Context(), userID, token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, true)
}

// HandleRestorePassword handles GET /ownSecurity/restorePassword
//
//	@Summary		Start password restore
//	@Description	Mails a single-use restore link. An earlier link for the same user stops working.
//	@Tags			Own Security
//	@Param			email	query	string	true	"Account email"
//	@Param			lang	query	string	false	"Mail language, defaults to the user's"
//	@Param			ubs		query	bool	false	"Link into the UBS client"
//	@Success		200
//	@Failure		404	{object}	authsdk.ErrorResponse	"No user with this email"
//	@Failure		429	{object}	authsdk.GateErrorResponse
//	@Router			/ownSecurity/restorePassword [get]
func (h *OwnSecurityHandler) HandleRestorePassword(w http.ResponseWriter, r *http.Request) {
	email, ok := queryRequired(w, r, "email")
	if !ok {
		return
	}
	q := r.URL.Query()
	isUbs, _ := strconv.ParseBool(q.Get("ubs"))

	if err := h.OwnSecurity.RestorePassword(r.Context(), email, q.Get("lang"), isUbs); err != nil {
		writeServiceErrorWith(w, r, err, map[service.Kind]int{service.KindWrongEmail: http.StatusNotFound})
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleUpdatePassword handles POST /ownSecurity/updatePassword
//
//	@Summary		Finish password restore
//	@Description	Sets a new password with a restore token. A not yet verified account is activated.
//	@Tags			Own Security
//	@Accept			json
//	@Param			body	body	authsdk.RestorePasswordRequest	true	"Token and new password"
//	@Success		200
//	@Failure		400	{object}	authsdk.ErrorResponse
//	@Router			/ownSecurity/updatePassword [post]
func (h *OwnSecurityHandler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req restorePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.OwnSecurity.UpdatePasswordByToken(r.Context(), req.Token, req.Password, req.ConfirmPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleUpdateCurrentPassword handles PUT /ownSecurity/changePassword
//
//	@Summary		Replace password
//	@Description	Replaces the caller's password without asking for the current one
//	@Tags			Own Security
//	@Accept			json
//	@Param			body	body	authsdk.UpdatePasswordRequest	true	"New password"
//	@Success		200
//	@Failure		400	{object}	authsdk.ErrorResponse
//	@Failure		401	{object}	authsdk.GateErrorResponse
//	@Security		BearerAuth
//	@Router			/ownSecurity/changePassword [put]
func (h *OwnSecurityHandler) HandleUpdateCurrentPassword(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req updatePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.OwnSecurity.UpdateCurrentPassword(r.Context(), p.Email, req.Password, req.ConfirmPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandlePasswordStatus handles GET /ownSecurity/password-status
//
//	@Summary		Password status
//	@Description	Reports whether the caller has a password
//	@Tags			Own Security
//	@Produce		json
//	@Success		200	{object}	authsdk.PasswordStatus
//	@Failure		401	{object}	authsdk.GateErrorResponse
//	@Security		BearerAuth
//	@Router			/ownSecurity/password-status [get]
func (h *OwnSecurityHandler) HandlePasswordStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	has, err := h.OwnSecurity.HasPassword(r.Context(), p.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.PasswordStatus{HasPassword: has})
}

// HandleSetPassword handles POST /ownSecurity/set-password
//
//	@Summary		Set first password
//	@Description	Gives a password to an account created without one
//	@Tags			Own Security
//	@Accept			json
//	@Param			body	body	authsdk.UpdatePasswordRequest	true	"Password"
//	@Success		200
//	@Failure		400	{object}	authsdk.ErrorResponse	"AlreadyHasPassword or PasswordsDoNotMatch"
//	@Security		BearerAuth
//	@Router			/ownSecurity/set-password [post]
func (h *OwnSecurityHandler) HandleSetPassword(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req updatePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.OwnSecurity.SetPassword(r.Context(), p.Email, req.Password, req.ConfirmPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleSignUpEmployee handles POST /ownSecurity/sign-up-employee
//
//	@Summary		Register UBS employee
//	@Description	Creates a UBS_EMPLOYEE account and mails a link to set the password
//	@Tags			Own Security
//	@Accept			json
//	@Produce		json
//	@Param			lang	query		string							false	"Mail language"
//	@Param			body	body		authsdk.EmployeeSignUpRequest	true	"Employee"
//	@Success		200		{object}	authsdk.SuccessSignUp
//	@Failure		403		{object}	authsdk.GateErrorResponse
//	@Failure		409		{object}	authsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/ownSecurity/sign-up-employee [post]
func (h *OwnSecurityHandler) HandleSignUpEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeSignUpRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.OwnSecurity.SignUpEmployee(r.Context(), service.EmployeeSignUpInput{
		Name:  req.Name,
		Email: req.Email,
		UUID:  req.UUID,
		IsUbs: req.IsUbs,
	}, r.URL.Query().Get("lang"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, signUpResponse(res))
}

// HandleRegister handles POST /ownSecurity/register
//
//	@Summary		Register user from management
//	@Description	Creates an account with the given role and status and mails an approval link
//	@Tags			Own Security
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.RegisterUserRequest	true	"Account"
//	@Success		200		{object}	authsdk.UserInfo
//	@Failure		403		{object}	authsdk.GateErrorResponse
//	@Failure		409		{object}	authsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/ownSecurity/register [post]
func (h *OwnSecurityHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	role, _ := domain.ParseRole(req.Role)
	status, _ := domain.ParseUserStatus(req.UserStatus)

	u, err := h.OwnSecurity.ManagementRegisterUser(r.Context(), service.RegisterInput{
		Name:   req.Name,
		Email:  req.Email,
		Role:   role,
		Status: status,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userInfo(u))
}

// HandleChangePassword handles POST /user/changePassword
//
//	@Summary		Change password
//	@Description	Checks the current password, then the complexity of the new one, then the confirmation. Refresh tokens stay valid.
//	@Tags			Users
//	@Accept			json
//	@Param			body	body	authsdk.ChangePasswordRequest	true	"Passwords"
//	@Success		200
//	@Failure		400	{object}	authsdk.ErrorResponse
//	@Failure		401	{object}	authsdk.GateErrorResponse
//	@Failure		404	{object}	authsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/user/changePassword [post]
func (h *OwnSecurityHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req changePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	u, err := h.Users.GetCurrentUser(r.Context(), p.Email)
	if errors.Is(err, service.ErrWrongEmail) {
		err = service.ErrNotFound
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.OwnSecurity.ChangePassword(r.Context(), u.ID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func signUpResponse(res service.SignUpResult) authsdk.SuccessSignUp {
	return authsdk.SuccessSignUp{
		UserID:           res.UserID,
		Name:             res.Name,
		Email:            res.Email,
		OwnRegistrations: res.Success,
	}
}
