package web

import (
	"net/http"
	"net/url"
	"strings"

	"shopfront/internal/client"
	"shopfront/internal/model"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

type loginView struct {
	Email     string
	ReturnURL string
}

func (a *App) loginForm(w http.ResponseWriter, r *http.Request) {
	returnURL := safeReturn(r.URL.Query().Get("returnUrl"))
	if identity, ok := IdentityFrom(r.Context()); ok && !identity.Expired(a.now()) {
		http.Redirect(w, r, returnURL, http.StatusSeeOther)
		return
	}
	a.render(w, r, http.StatusOK, "login", "Log in", loginView{ReturnURL: returnURL})
}

func (a *App) login(w http.ResponseWriter, r *http.Request) error {
	req := &model.LoginRequest{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	returnURL := safeReturn(r.PostFormValue("returnUrl"))

	resp, err := a.api.Login(r.Context(), req)
	if err != nil {
		// A 401 here means bad credentials, not an expired session.
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			a.flashError(r, apiErr.Message)
			a.render(w, r, http.StatusUnauthorized, "login", "Log in", loginView{Email: req.Email, ReturnURL: returnURL})
			return nil
		}
		if msg, ok := rejection(err); ok {
			a.flashError(r, msg)
			a.render(w, r, http.StatusBadRequest, "login", "Log in", loginView{Email: req.Email, ReturnURL: returnURL})
			return nil
		}
		return err
	}

	if err := a.sessions.RenewToken(r.Context()); err != nil {
		return errors.Wrap(err, "renew session")
	}
	a.sessions.Put(r.Context(), SessionToken, resp.Token)
	a.flashSuccess(r, "Welcome back, "+resp.UserName+".")

	a.logger.Info().Str("email", resp.Email).Msg("user signed in")
	http.Redirect(w, r, returnURL, http.StatusSeeOther)
	return nil
}

func (a *App) logout(w http.ResponseWriter, r *http.Request) error {
	if err := a.sessions.Destroy(r.Context()); err != nil {
		return errors.Wrap(err, "destroy session")
	}
	a.flashSuccess(r, "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return nil
}

func (a *App) registerForm(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "register", "Register", model.RegisterRequest{})
}

func (a *App) register(w http.ResponseWriter, r *http.Request) error {
	req := &model.RegisterRequest{
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		Password:    r.PostFormValue("password"),
		UserName:    strings.TrimSpace(r.PostFormValue("userName")),
		PhoneNumber: strings.TrimSpace(r.PostFormValue("phoneNumber")),
		PostalCode:  strings.TrimSpace(r.PostFormValue("postalCode")),
		Address:     strings.TrimSpace(r.PostFormValue("address")),
	}

	msg, err := a.api.Register(r.Context(), req)
	if err != nil {
		rejected, ok := rejection(err)
		if !ok {
			return err
		}
		a.flashError(r, rejected)
		req.Password = ""
		a.render(w, r, http.StatusBadRequest, "register", "Register", req)
		return nil
	}

	a.flashSuccess(r, msg)
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
	return nil
}

func (a *App) confirmEmail(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	userID, token := q.Get("userId"), q.Get("token")
	if userID == "" || token == "" {
		a.flashError(r, "The confirmation link is incomplete.")
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return nil
	}

	msg, err := a.api.ConfirmEmail(r.Context(), userID, token)
	if err != nil {
		return a.rejected(w, r, err, "/auth/login")
	}

	a.flashSuccess(r, msg)
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
	return nil
}

func (a *App) forgotPasswordForm(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "forgot", "Forgot password", nil)
}

func (a *App) forgotPassword(w http.ResponseWriter, r *http.Request) error {
	msg, err := a.api.ForgotPassword(r.Context(), strings.TrimSpace(r.PostFormValue("email")))
	if err != nil {
		return a.rejected(w, r, err, "/auth/forgot-password")
	}

	a.flashSuccess(r, msg)
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
	return nil
}

type resetView struct {
	UserID string
	Token  string
}

func (a *App) resetPasswordForm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("userId") == "" || q.Get("token") == "" {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	a.render(w, r, http.StatusOK, "reset", "Reset password", resetView{UserID: q.Get("userId"), Token: q.Get("token")})
}

func (a *App) resetPassword(w http.ResponseWriter, r *http.Request) error {
	userID, err := uuid.Parse(r.PostFormValue("userId"))
	if err != nil {
		a.flashError(r, "The reset link is invalid.")
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return nil
	}

	req := &model.ResetPasswordRequest{
		UserID:          userID,
		Token:           r.PostFormValue("token"),
		NewPassword:     r.PostFormValue("newPassword"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}
	msg, err := a.api.ResetPassword(r.Context(), req)
	if err != nil {
		back := "/auth/reset-password?" + url.Values{"userId": {userID.String()}, "token": {req.Token}}.Encode()
		return a.rejected(w, r, err, back)
	}

	a.flashSuccess(r, msg)
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
	return nil
}
