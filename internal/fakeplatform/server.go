package fakeplatform

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/okian/learnboard/internal/adapters/platform"
	"github.com/okian/learnboard/pkg/logger"
)

const defaultRole = "user"

// HasuraClaims is the claim set Hasura reads its session variables from.
type HasuraClaims struct {
	UserID       string   `json:"x-hasura-user-id"`
	DefaultRole  string   `json:"x-hasura-default-role"`
	AllowedRoles []string `json:"x-hasura-allowed-roles"`
}

// Claims are the claims of an issued token.
type Claims struct {
	Hasura HasuraClaims `json:"https://hasura.io/jwt/claims"`
	jwt.RegisteredClaims
}

// Server answers sign-in and GraphQL requests.
type Server struct {
	cfg    Config
	data   Dataset
	now    func() time.Time
	logger logger.Logger

	issued  atomic.Int64
	queries atomic.Int64
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets a custom logger for the server.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source used to issue and verify tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a Server whose dataset is generated from cfg.
func New(cfg Config, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		data:   Generate(cfg),
		now:    time.Now,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the platform routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(platform.DefaultSignInPath, s.handleSignIn)
	mux.HandleFunc(platform.DefaultGraphQLPath, s.handleGraphQL)
	return mux
}

// Stats reports how many tokens were issued and queries answered.
func (s *Server) Stats() (issued, queries int64) {
	return s.issued.Load(), s.queries.Load()
}

// Mint issues a signed token for the configured user.
func (s *Server) Mint() (string, error) {
	now := s.now()
	claims := Claims{
		Hasura: HasuraClaims{
			UserID:       strconv.Itoa(*s.data.User.ID),
			DefaultRole:  defaultRole,
			AllowedRoles: []string{defaultRole},
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.Itoa(*s.data.User.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	s.issued.Add(1)
	return signed, nil
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	id, pw, ok := r.BasicAuth()
	if !ok || !s.knows(id) || pw != s.cfg.Password {
		s.logger.Info(r.Context(), "sign-in rejected", logger.String("identifier", id))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "User does not exist or password incorrect"})
		return
	}
	token, err := s.Mint()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.logger.Info(r.Context(), "token issued", logger.String("identifier", id))
	writeJSON(w, http.StatusOK, token)
}

func (s *Server) knows(identifier string) bool {
	return identifier != "" && (identifier == s.cfg.Identifier || identifier == s.data.User.Email)
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if err := s.verify(r.Header.Get("Authorization")); err != nil {
		s.logger.Info(r.Context(), "graphql rejected", logger.Error(err))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": err.Error()})
		return
	}

	var req platform.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGraphQLError(w, "invalid request body: "+err.Error())
		return
	}
	s.queries.Add(1)

	switch req.OperationName {
	case platform.OpUserData:
		writeJSON(w, http.StatusOK, platform.Response{Data: s.userData(req.Variables)})
	case platform.OpSkillScores:
		writeJSON(w, http.StatusOK, platform.Response{Data: s.skillScores(req.Variables)})
	default:
		writeGraphQLError(w, fmt.Sprintf("unknown operation %q", req.OperationName))
	}
}

func (s *Server) verify(header string) error {
	raw, err := platform.BearerToken(header)
	if err != nil {
		return err
	}
	claims := &Claims{}
	_, err = jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return errors.New("Could not verify JWT: JWTExpired")
	case err != nil:
		return errors.New("Could not verify JWT: JWSError JWSInvalidSignature")
	case claims.Hasura.UserID == "":
		return errors.New("JWT is missing x-hasura-user-id")
	}
	return nil
}

func (s *Server) userData(vars map[string]any) platform.UserDataPayload {
	payload := platform.UserDataPayload{
		User:        []platform.UserRow{s.data.User},
		Transaction: []platform.XPRow{},
		Progress:    s.data.Progress,
	}
	if path, _ := vars["path"].(string); path == s.cfg.EventPath {
		payload.Transaction = s.data.XP
	}
	return payload
}

func (s *Server) skillScores(vars map[string]any) platform.SkillScoresPayload {
	wanted := map[string]bool{}
	if types, ok := vars["types"].([]any); ok {
		for _, t := range types {
			if name, ok := t.(string); ok {
				wanted[strings.TrimSpace(name)] = true
			}
		}
	}
	rows := make([]platform.SkillRow, 0, len(s.data.Skills))
	for _, r := range s.data.Skills {
		if wanted[*r.Type] {
			rows = append(rows, r)
		}
	}
	if s.cfg.DistinctSkills {
		rows = DistinctSkills(rows)
	}
	return platform.SkillScoresPayload{Transaction: rows}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeGraphQLError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, platform.Response{Errors: []platform.ResponseError{{Message: msg}}})
}
