// Package hubstub serves an in-memory imitation of the hub.docker.com web API for tests.
package hubstub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/julienschmidt/httprouter"
)

const authScheme = "JWT "

// Request is what the stub saw of an incoming call.
type Request struct {
	Method        string
	Path          string
	Authorization string
	Body          map[string]interface{}
}

type Server struct {
	*httptest.Server

	mu          sync.Mutex
	users       map[string]string
	tokens      map[string]string
	repos       map[string]map[string]interface{}
	requests    []Request
	nextToken   int
	loginStatus int
	omitToken   bool
}

func New() *Server {
	s := &Server{
		users:  make(map[string]string),
		tokens: make(map[string]string),
		repos:  make(map[string]map[string]interface{}),
	}

	router := httprouter.New()
	router.RedirectTrailingSlash = false
	router.POST("/v2/users/login/", s.login)
	router.GET("/v2/repositories/:namespace/:repo/", s.getRepository)
	router.PATCH("/v2/repositories/:namespace/:repo/", s.patchRepository)
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.record(r, nil)
		respond(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	})

	s.Server = httptest.NewServer(router)
	return s
}

func (s *Server) AddUser(username, password string) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = password
	return s
}

// AddToken registers a token as if it had been issued to username.
func (s *Server) AddToken(token, username string) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = username
	return s
}

func (s *Server) AddRepository(namespace, repo string) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repos[namespace+"/"+repo] = map[string]interface{}{
		"user":             namespace,
		"name":             repo,
		"namespace":        namespace,
		"repository_type":  "image",
		"status":           1,
		"description":      "",
		"is_private":       false,
		"is_automated":     false,
		"can_edit":         true,
		"star_count":       3,
		"pull_count":       1024,
		"last_updated":     "2020-04-01T10:00:00.000000Z",
		"has_starred":      false,
		"full_description": "",
		"affiliation":      nil,
		"permissions": map[string]interface{}{
			"read":  true,
			"write": true,
			"admin": true,
		},
	}
	return s
}

// WithLoginStatus makes every login answer with the given status code.
func (s *Server) WithLoginStatus(status int) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginStatus = status
	return s
}

// WithoutToken makes successful logins answer without a token field.
func (s *Server) WithoutToken() *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitToken = true
	return s
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) LastRequest() Request {
	requests := s.Requests()
	if len(requests) == 0 {
		return Request{}
	}
	return requests[len(requests)-1]
}

func (s *Server) Repository(namespace, repo string) map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repos[namespace+"/"+repo]
}

func (s *Server) record(r *http.Request, body map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, Request{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		Body:          body,
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.record(r, nil)
		respond(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}
	s.record(r, body)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loginStatus != 0 && s.loginStatus != http.StatusOK {
		respond(w, s.loginStatus, map[string]string{"detail": http.StatusText(s.loginStatus)})
		return
	}

	username, _ := body["username"].(string)
	password, _ := body["password"].(string)
	if expected, ok := s.users[username]; !ok || expected != password {
		respond(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect authentication credentials."})
		return
	}

	if s.omitToken {
		respond(w, http.StatusOK, map[string]string{"detail": "ok"})
		return
	}

	s.nextToken++
	token := fmt.Sprintf("token-%s-%d", username, s.nextToken)
	s.tokens[token] = username
	respond(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) getRepository(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.record(r, nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	repo, ok := s.repos[ps.ByName("namespace")+"/"+ps.ByName("repo")]
	if !ok {
		respond(w, http.StatusNotFound, map[string]string{"detail": "Object not found"})
		return
	}
	respond(w, http.StatusOK, repo)
}

func (s *Server) patchRepository(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.record(r, nil)
		respond(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}
	s.record(r, body)

	s.mu.Lock()
	defer s.mu.Unlock()

	username, ok := s.tokens[strings.TrimPrefix(r.Header.Get("Authorization"), authScheme)]
	if !ok || !strings.HasPrefix(r.Header.Get("Authorization"), authScheme) {
		respond(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
		return
	}

	namespace := ps.ByName("namespace")
	repo, found := s.repos[namespace+"/"+ps.ByName("repo")]
	if !found {
		respond(w, http.StatusNotFound, map[string]string{"detail": "Object not found"})
		return
	}
	if username != namespace {
		respond(w, http.StatusForbidden, map[string]string{"detail": "You do not have permission to perform this action."})
		return
	}

	for _, field := range []string{"full_description", "description"} {
		if value, ok := body[field]; ok {
			repo[field] = value
		}
	}
	respond(w, http.StatusOK, repo)
}

func respond(w http.ResponseWriter, code int, obj interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(obj)
}
