package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gorilla/mux"
)

// stubService mimics the transaction service's HTTP contract closely
// enough to drive the console end to end. It is not a real backend.
type stubService struct {
	mu           sync.Mutex
	users        map[string]stubUser // keyed by email
	tokens       map[string]string   // token -> email
	transactions []map[string]any
}

type stubUser struct {
	ID       string
	Name     string
	Password string
	Role     string
}

func newStubService() *stubService {
	return &stubService{
		users:  make(map[string]stubUser),
		tokens: make(map[string]string),
		transactions: []map[string]any{
			{"id": "1", "description": "Deposit", "amount": 10.0, "status": "pending", "userName": "Bob", "timestamp": "2025-03-01T10:00:00Z"},
			{"id": "42", "description": "Withdrawal", "amount": 12.5, "status": "pending", "userName": "Alice", "timestamp": "2025-03-02T09:30:00Z"},
			{"id": "3", "description": "Transfer", "amount": 3.0, "status": "completed", "userName": "Carol", "timestamp": "2025-03-02T11:00:00Z"},
		},
	}
}

func (s *stubService) start() *httptest.Server {
	r := mux.NewRouter()
	r.HandleFunc("/api/auth/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/me", s.me).Methods(http.MethodGet)
	r.HandleFunc("/api/transactions", s.list).Methods(http.MethodGet)
	r.HandleFunc("/api/transactions/{id}/status", s.confirm).Methods(http.MethodPatch)
	r.HandleFunc("/api/dev/promote", s.promote).Methods(http.MethodPost)
	return httptest.NewServer(r)
}

func (s *stubService) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (s *stubService) authed(r *http.Request) (stubUser, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.tokens[token]
	if !ok {
		return stubUser{}, false
	}
	return s.users[email], true
}

func (s *stubService) register(w http.ResponseWriter, r *http.Request) {
	var body struct{ Name, Email, Password string }
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid payload"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[body.Email]; exists {
		s.writeJSON(w, http.StatusConflict, map[string]string{"message": "email already registered"})
		return
	}
	s.users[body.Email] = stubUser{ID: "u-" + body.Email, Name: body.Name, Password: body.Password, Role: "user"}
	s.writeJSON(w, http.StatusCreated, map[string]string{"message": "registered"})
}

func (s *stubService) login(w http.ResponseWriter, r *http.Request) {
	var body struct{ Email, Password string }
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid payload"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[body.Email]
	if !ok || u.Password != body.Password {
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "bad credentials"})
		return
	}
	token := "tok-" + body.Email
	s.tokens[token] = body.Email
	// nested data envelope, one of the shapes real builds emit
	s.writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"token": token,
			"user":  map[string]any{"id": u.ID, "name": u.Name, "email": body.Email, "role": u.Role},
		},
	})
}

func (s *stubService) me(w http.ResponseWriter, r *http.Request) {
	u, ok := s.authed(r)
	if !ok {
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid token"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{"id": u.ID, "name": u.Name, "role": u.Role, "balance": 100.0},
	})
}

func (s *stubService) list(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authed(r); !ok {
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid token"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, map[string]any{"data": s.transactions})
}

func (s *stubService) confirm(w http.ResponseWriter, r *http.Request) {
	u, ok := s.authed(r)
	if !ok {
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid token"})
		return
	}
	if !strings.EqualFold(u.Role, "admin") {
		s.writeJSON(w, http.StatusForbidden, map[string]string{"error": "admin role required"})
		return
	}
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.transactions {
		if tx["id"] == id {
			tx["status"] = "completed"
			s.writeJSON(w, http.StatusOK, map[string]any{"data": tx})
			return
		}
	}
	s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "transaction not found"})
}

func (s *stubService) promote(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.tokens[token]
	if !ok {
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid token"})
		return
	}
	u := s.users[email]
	u.Role = "admin"
	s.users[email] = u
	s.writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{"id": u.ID, "name": u.Name, "email": email, "role": u.Role},
	})
}
