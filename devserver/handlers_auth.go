package devserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nutricare/nutrikit/internal/util"
)

const (
	minPasswordLen    = 8
	activationCodeLen = 6
	resetCodeLen      = 6
)

// SeedAccount registers an already-activated account. Used by the serve
// command to provision demo users and by tests.
func (s *Server) SeedAccount(email, password, fullName, role string) error {
	hash, err := util.HashPassword(password, util.DefaultArgon2idParams())
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	first, last := util.SplitName(fullName)
	email = util.NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[email] = &account{
		ID:           s.nextID,
		Email:        email,
		Username:     usernameFor(email),
		FirstName:    first,
		LastName:     last,
		Role:         role,
		PasswordHash: hash,
		Active:       true,
	}
	s.nextID++
	return nil
}

func usernameFor(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}

func payloadFor(acct *account) UserPayload {
	return UserPayload{
		ID:        acct.ID,
		Email:     acct.Email,
		Username:  acct.Username,
		FirstName: acct.FirstName,
		LastName:  acct.LastName,
		Role:      acct.Role,
	}
}

// issueTokens mints a fresh access and refresh token pair for the
// account. Caller must hold s.mu.
func (s *Server) issueTokens(acct *account) (access, refresh string) {
	access = uuid.NewString()
	refresh = uuid.NewString()
	now := s.now()
	s.tokens[access] = tokenInfo{Email: acct.Email, ExpiresAt: now.Add(accessTokenTTL)}
	s.refresh[refresh] = tokenInfo{Email: acct.Email, ExpiresAt: now.Add(refreshTokenTTL)}
	return access, refresh
}

func (s *Server) writeRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/users/refresh/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  s.now().Add(refreshTokenTTL),
	})
}

func clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/users/refresh/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// Login handles POST /users/login/.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[LoginRequest](w, r, maxBodySize)
	if !ok {
		return
	}
	email := util.NormalizeEmail(req.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[email]
	if !ok {
		s.logger.Info("login failed", "email", email, "reason", "unknown account")
		writeCredentialError(w)
		return
	}
	match, err := util.VerifyPassword(req.Password, acct.PasswordHash, util.DefaultArgon2idParams())
	if err != nil || !match {
		s.logger.Info("login failed", "email", email, "reason", "bad password")
		writeCredentialError(w)
		return
	}
	if !acct.Active {
		writeError(w, http.StatusBadRequest, "account is not activated")
		return
	}

	access, refresh := s.issueTokens(acct)
	s.writeRefreshCookie(w, refresh)

	s.logger.Info("login", "email", email, "user_id", acct.ID)
	writeJSON(w, http.StatusOK, LoginResponse{
		Token:        access,
		RefreshToken: refresh,
		User:         payloadFor(acct),
	})
}

// Register handles POST /users/register/.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[RegisterRequest](w, r, maxBodySize)
	if !ok {
		return
	}
	email := util.NormalizeEmail(req.Email)
	switch {
	case email == "":
		writeError(w, http.StatusBadRequest, "email is required")
		return
	case req.Password == "":
		writeError(w, http.StatusBadRequest, "password is required")
		return
	case len(req.Password) < minPasswordLen:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("password must be at least %d characters", minPasswordLen))
		return
	case req.Password != req.ConfirmPassword:
		writeError(w, http.StatusBadRequest, "passwords do not match")
		return
	case !req.AgreeToTerms:
		writeError(w, http.StatusBadRequest, "terms must be accepted")
		return
	}

	hash, err := util.HashPassword(req.Password, util.DefaultArgon2idParams())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	code, err := util.RandomDigits(activationCodeLen)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	first, last := util.SplitName(req.FullName)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[email]; exists {
		writeError(w, http.StatusConflict, "an account with this email already exists")
		return
	}
	s.accounts[email] = &account{
		ID:             s.nextID,
		Email:          email,
		Username:       usernameFor(email),
		FirstName:      first,
		LastName:       last,
		Role:           "dietitian",
		PasswordHash:   hash,
		ActivationCode: code,
	}
	s.nextID++

	// There is no mail sender here; the code is logged instead.
	s.logger.Info("registered", "email", email, "activation_code", code)
	writeJSON(w, http.StatusCreated, MessageResponse{Message: "activation code sent"})
}

// Activate handles POST /users/activate/. A successful activation logs
// the account in.
func (s *Server) Activate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[ActivationRequest](w, r, maxBodySize)
	if !ok {
		return
	}
	email := util.NormalizeEmail(req.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[email]
	if !ok || acct.ActivationCode == "" || acct.ActivationCode != req.ActivationCode {
		writeError(w, http.StatusBadRequest, "invalid activation code")
		return
	}
	acct.Active = true
	acct.ActivationCode = ""

	access, refresh := s.issueTokens(acct)
	s.writeRefreshCookie(w, refresh)

	s.logger.Info("activated", "email", email, "user_id", acct.ID)
	writeJSON(w, http.StatusOK, ActivationResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         payloadFor(acct),
	})
}

// ResendActivation handles POST /users/sendactivate/.
func (s *Server) ResendActivation(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[ResendActivationRequest](w, r, maxBodySize)
	if !ok {
		return
	}
	email := util.NormalizeEmail(req.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[email]
	if !ok || acct.Active {
		// Do not reveal whether the account exists.
		writeJSON(w, http.StatusOK, MessageResponse{Message: "activation code sent"})
		return
	}
	code, err := util.RandomDigits(activationCodeLen)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	acct.ActivationCode = code

	s.logger.Info("activation code resent", "email", email, "activation_code", code)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "activation code sent"})
}

// Refresh handles POST /users/refresh/. The refresh token arrives only
// via the httpOnly cookie, never in the body.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "refresh token missing")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.refresh[cookie.Value]
	if !ok || s.now().After(info.ExpiresAt) {
		delete(s.refresh, cookie.Value)
		writeError(w, http.StatusUnauthorized, "refresh token expired")
		return
	}
	acct, ok := s.accounts[info.Email]
	if !ok {
		writeError(w, http.StatusUnauthorized, "account no longer exists")
		return
	}

	access := uuid.NewString()
	s.tokens[access] = tokenInfo{Email: acct.Email, ExpiresAt: s.now().Add(accessTokenTTL)}

	s.logger.Info("token refreshed", "email", acct.Email)
	writeJSON(w, http.StatusOK, RefreshResponse{
		Access:    access,
		ExpiresIn: int(accessTokenTTL.Seconds()),
	})
}

// Logout handles POST /users/logout/. Revokes the bearer token and the
// refresh cookie.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if token := bearerToken(r); token != "" {
		delete(s.tokens, token)
	}
	if cookie, err := r.Cookie(RefreshCookieName); err == nil {
		delete(s.refresh, cookie.Value)
	}
	s.mu.Unlock()

	clearRefreshCookie(w)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "logged out"})
}

// RequestPasswordReset handles POST /users/resetpassword/.
func (s *Server) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[PasswordResetRequest](w, r, maxBodySize)
	if !ok {
		return
	}
	email := util.NormalizeEmail(req.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if acct, ok := s.accounts[email]; ok {
		code, err := util.RandomCode(resetCodeLen)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		acct.ResetCode = code
		s.logger.Info("password reset requested", "email", email, "reset_code", code)
	}
	// Same response whether or not the account exists.
	writeJSON(w, http.StatusOK, MessageResponse{Message: "reset code sent"})
}

// VerifyPasswordReset handles POST /users/resetpassword-verify/.
func (s *Server) VerifyPasswordReset(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[PasswordResetVerifyRequest](w, r, maxBodySize)
	if !ok {
		return
	}
	email := util.NormalizeEmail(req.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[email]
	if !ok || acct.ResetCode == "" || acct.ResetCode != req.ResetCode {
		writeError(w, http.StatusBadRequest, "invalid reset code")
		return
	}
	acct.ResetCode = ""

	s.logger.Info("password reset verified", "email", email)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "reset code verified"})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return ""
	}
	return token
}

// AuthMiddleware requires a valid unexpired bearer token.
func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		s.mu.Lock()
		info, ok := s.tokens[token]
		if ok && s.now().After(info.ExpiresAt) {
			delete(s.tokens, token)
			ok = false
		}
		s.mu.Unlock()

		if !ok {
			s.logger.Debug("rejected bearer token", slog.String("path", r.URL.Path))
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
