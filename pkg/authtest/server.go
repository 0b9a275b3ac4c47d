package authtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/trailquest/trailquest-go/pkg/authapi"
	"github.com/trailquest/trailquest-go/pkg/credential"
)

type account struct {
	profile credential.UserProfile
	email   string
	secret  string
}

// Server is a fake TrailQuest auth service
type Server struct {
	httpSrv    *httptest.Server
	signingKey []byte

	accessTTL     time.Duration
	refreshTTL    time.Duration
	rotateRefresh bool
	refreshDelay  time.Duration

	mu           sync.Mutex
	accounts     map[string]*account // keyed by user ID
	validRefresh map[string]string   // refresh credential -> user ID

	loginCalls   int32
	refreshCalls int32
	logoutCalls  int32

	refreshFailStatus int32 // non-zero forces the refresh endpoint to fail
}

// Option configures the fake server
type Option func(*Server)

// WithAccessTTL sets the lifetime of issued access credentials
func WithAccessTTL(d time.Duration) Option {
	return func(s *Server) { s.accessTTL = d }
}

// WithRefreshTTL sets the lifetime of issued refresh credentials
func WithRefreshTTL(d time.Duration) Option {
	return func(s *Server) { s.refreshTTL = d }
}

// WithRotation makes every renewal also rotate the refresh credential
func WithRotation() Option {
	return func(s *Server) { s.rotateRefresh = true }
}

// WithRefreshDelay holds the renewal endpoint open for the given duration,
// widening the window in which concurrent callers overlap
func WithRefreshDelay(d time.Duration) Option {
	return func(s *Server) { s.refreshDelay = d }
}

// NewServer starts a fake auth service. Callers must Close it.
func NewServer(opts ...Option) *Server {
	s := &Server{
		// unique per instance so tokens from one fake never verify on another
		signingKey:   []byte("authtest-" + uuid.NewString()),
		accessTTL:    time.Hour,
		refreshTTL:   30 * 24 * time.Hour,
		accounts:     make(map[string]*account),
		validRefresh: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := mux.NewRouter()
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	s.httpSrv = httptest.NewServer(r)
	return s
}

// URL returns the server's base URL
func (s *Server) URL() string { return s.httpSrv.URL }

// Close shuts the server down
func (s *Server) Close() { s.httpSrv.Close() }

// Seed registers a user directly and returns its profile
func (s *Server) Seed(username, email, secret string) credential.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := &account{
		profile: credential.UserProfile{
			ID:         uuid.NewString(),
			Username:   username,
			RenewalKey: uuid.NewString(),
		},
		email:  email,
		secret: secret,
	}
	s.accounts[acct.profile.ID] = acct
	return acct.profile
}

// RefreshCalls reports how many renewal requests the server has seen
func (s *Server) RefreshCalls() int { return int(atomic.LoadInt32(&s.refreshCalls)) }

// LoginCalls reports how many login requests the server has seen
func (s *Server) LoginCalls() int { return int(atomic.LoadInt32(&s.loginCalls)) }

// LogoutCalls reports how many logout requests the server has seen
func (s *Server) LogoutCalls() int { return int(atomic.LoadInt32(&s.logoutCalls)) }

// FailRefresh makes subsequent renewal requests fail with the given status.
// Passing 0 restores normal behavior.
func (s *Server) FailRefresh(status int) {
	atomic.StoreInt32(&s.refreshFailStatus, int32(status))
}

// IssueAccess mints an access credential with an arbitrary lifetime,
// bypassing the login flow. Useful for placing a nearly expired credential
// into a store under test.
func (s *Server) IssueAccess(userID string, ttl time.Duration) string {
	return s.mint(userID, "access", ttl)
}

// IssueRefresh mints a refresh credential the server will accept
func (s *Server) IssueRefresh(userID string, ttl time.Duration) string {
	tok := s.mint(userID, "refresh", ttl)
	s.mu.Lock()
	s.validRefresh[tok] = userID
	s.mu.Unlock()
	return tok
}

// RevokeRefresh invalidates a previously issued refresh credential
func (s *Server) RevokeRefresh(token string) {
	s.mu.Lock()
	delete(s.validRefresh, token)
	s.mu.Unlock()
}

// ValidAccess reports whether the token is an access credential this server
// signed and that has not expired. Domain-endpoint fakes use it to guard
// their routes the way the real API does.
func (s *Server) ValidAccess(token string) bool {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return false
	}
	kind, _ := claims["kind"].(string)
	return kind == "access"
}

func (s *Server) mint(userID, kind string, ttl time.Duration) string {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"kind": kind,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	signed, err := tok.SignedString(s.signingKey)
	if err != nil {
		panic("authtest: failed to sign token: " + err.Error())
	}
	return signed
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&s.loginCalls, 1)

	var req authapi.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	var found *account
	for _, acct := range s.accounts {
		if acct.profile.Username == req.Identifier || acct.email == req.Identifier {
			found = acct
			break
		}
	}
	s.mu.Unlock()

	if found == nil || found.secret != req.Secret {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	profile := found.profile
	resp := authapi.LoginResponse{
		Success:           true,
		User:              &profile,
		AccessCredential:  s.mint(profile.ID, "access", s.accessTTL),
		RefreshCredential: s.IssueRefresh(profile.ID, s.refreshTTL),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req authapi.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Secret == "" {
		writeError(w, http.StatusBadRequest, "email, username and secret are required")
		return
	}

	s.mu.Lock()
	for _, acct := range s.accounts {
		if acct.profile.Username == req.Username || acct.email == req.Email {
			s.mu.Unlock()
			writeError(w, http.StatusConflict, "account already exists")
			return
		}
	}
	s.mu.Unlock()

	profile := s.Seed(req.Username, req.Email, req.Secret)
	writeJSON(w, http.StatusCreated, authapi.Account{
		ID:       profile.ID,
		Email:    req.Email,
		Username: req.Username,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&s.refreshCalls, 1)
	if s.refreshDelay > 0 {
		time.Sleep(s.refreshDelay)
	}

	if status := atomic.LoadInt32(&s.refreshFailStatus); status != 0 {
		writeError(w, int(status), "refresh rejected")
		return
	}

	var req authapi.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	userID, ok := s.validRefresh[req.RefreshCredential]
	acct := s.accounts[userID]
	s.mu.Unlock()

	if !ok || acct == nil || acct.profile.RenewalKey != req.RenewalKey {
		writeError(w, http.StatusUnauthorized, "invalid refresh credential")
		return
	}

	resp := authapi.RefreshResponse{
		AccessCredential: s.mint(userID, "access", s.accessTTL),
	}
	if s.rotateRefresh {
		s.RevokeRefresh(req.RefreshCredential)
		resp.RefreshCredential = s.IssueRefresh(userID, s.refreshTTL)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&s.logoutCalls, 1)

	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || !s.ValidAccess(token) {
		writeError(w, http.StatusUnauthorized, "missing or invalid access credential")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
