package http

import (
	"github.com/aussiebroadwan/greencity/internal/auth/domain"
	"github.com/aussiebroadwan/greencity/internal/auth/service"
	"github.com/aussiebroadwan/greencity/pkg/authsdk"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Request bodies share their wire shape with the SDK; these local types add
// validation. Validation runs before any service call and only checks form,
// so the service keeps its documented error precedence.

var (
	strongPassword = validation.NewStringRule(service.IsValidPassword,
		"must be at least 8 characters and contain a digit, a lowercase letter, an uppercase letter and a special character")
	knownRole = validation.By(func(v interface{}) error {
		_, err := domain.ParseRole(v.(string))
		return err
	})
	knownStatus = validation.By(func(v interface{}) error {
		_, err := domain.ParseUserStatus(v.(string))
		return err
	})
)

type signUpRequest authsdk.SignUpRequest

func (r signUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 30)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, strongPassword),
	)
}

type signInRequest authsdk.SignInRequest

func (r signInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type restorePasswordRequest authsdk.RestorePasswordRequest

func (r restorePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.ConfirmPassword, validation.Required),
	)
}

type updatePasswordRequest authsdk.UpdatePasswordRequest

func (r updatePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required, strongPassword),
		validation.Field(&r.ConfirmPassword, validation.Required),
	)
}

type changePasswordRequest authsdk.ChangePasswordRequest

func (r changePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required),
		validation.Field(&r.ConfirmPassword, validation.Required),
	)
}

type employeeSignUpRequest authsdk.EmployeeSignUpRequest

func (r employeeSignUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 30)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.UUID, validation.Required, is.UUID),
	)
}

type registerUserRequest authsdk.RegisterUserRequest

func (r registerUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 30)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Role, validation.Required, knownRole),
		validation.Field(&r.UserStatus, validation.Required, knownStatus),
	)
}

type userStatusRequest authsdk.UserStatusRequest

func (r userStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required, validation.Min(1)),
		validation.Field(&r.UserStatus, validation.Required, knownStatus),
	)
}

type userRoleRequest authsdk.UserRoleRequest

func (r userRoleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.Required, knownRole),
	)
}
