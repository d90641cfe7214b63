package frontend

import (
	"context"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/logger"

	"go.uber.org/zap"
)

const registeredMessage = "Account created successfully! You will now be redirected to the login page."

// LoginMessage maps a sign-in failure to the text shown to the user.
func LoginMessage(err error) string {
	switch domain.AuthCode(err) {
	case domain.AuthCodeWrongPassword, domain.AuthCodeUserNotFound, domain.AuthCodeInvalidCredential:
		return "Login Failed: The email or password you entered is incorrect."
	case domain.AuthCodeInvalidEmail:
		return "Login Failed: The email address format is not valid."
	case domain.AuthCodeTooManyRequests:
		return "Access to this account has been temporarily disabled due to many failed login attempts. You can reset your password or try again later."
	default:
		return "Login Failed. Password Incorrect. Please try again."
	}
}

// RegisterMessage maps a registration failure to the text shown to the user.
func RegisterMessage(err error) string {
	switch domain.AuthCode(err) {
	case domain.AuthCodeEmailInUse:
		return "Registration Failed: This email address is already in use."
	case domain.AuthCodeWeakPassword:
		return "Registration Failed: Password should be at least 6 characters long."
	case domain.AuthCodeInvalidEmail:
		return "Registration Failed: The email address is not valid."
	default:
		return "Registration Failed. An unexpected error occurred. Please try again."
	}
}

// LoginForm submits credentials to the auth provider.
type LoginForm struct {
	auth  AuthProvider
	nav   Navigator
	alert Alerter
}

func NewLoginForm(auth AuthProvider, nav Navigator, alert Alerter) *LoginForm {
	return &LoginForm{auth: auth, nav: nav, alert: alert}
}

// Submit signs in and moves to /home. A failure is alerted and returned;
// the user has to submit again.
func (f *LoginForm) Submit(ctx context.Context, email, password string) error {
	if _, err := f.auth.SignIn(ctx, email, password); err != nil {
		logger.Get().Warn("Sign-in failed", zap.String("code", domain.AuthCode(err)), zap.Error(err))
		f.alert.Alert(LoginMessage(err))
		return err
	}
	f.nav.Navigate(PathHome)
	return nil
}

// RegisterForm creates an account with the auth provider.
type RegisterForm struct {
	auth  AuthProvider
	nav   Navigator
	alert Alerter
}

func NewRegisterForm(auth AuthProvider, nav Navigator, alert Alerter) *RegisterForm {
	return &RegisterForm{auth: auth, nav: nav, alert: alert}
}

func (f *RegisterForm) Submit(ctx context.Context, email, password string) error {
	if _, err := f.auth.Register(ctx, email, password); err != nil {
		logger.Get().Warn("Registration failed", zap.String("code", domain.AuthCode(err)), zap.Error(err))
		f.alert.Alert(RegisterMessage(err))
		return err
	}
	f.alert.Alert(registeredMessage)
	f.nav.Navigate(PathLogin)
	return nil
}
