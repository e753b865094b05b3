// Package apitest runs an in-memory stand-in for the task management API
// over httptest, for tests of the api client and the sync layer.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/julienschmidt/httprouter"
)

// Credentials accepted by a new server
const (
	Email    = "admin@example.com"
	Password = "secret"
	Token    = "test-token"
	UserID   = "u-admin"
)

// Record is a JSON object as stored and served by the fake API
type Record = map[string]any

type failure struct {
	status  int
	message string
}

// Server is a fake API. Records are kept in wire form so tests can seed
// values the client has to normalize.
type Server struct {
	*httptest.Server

	mu              sync.Mutex
	beforeListTasks func()
	users           []Record
	projects        []Record
	tasks           []Record
	nextID          int
	failures        map[string]failure
	hits            map[string]int
}

// NewServer starts a fake API that is closed with the test
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		users: []Record{
			{"Id": UserID, "Name": "Admin User", "Email": Email, "Role": "Admin"},
		},
		failures: map[string]failure{},
		hits:     map[string]int{},
	}

	router := httprouter.New()
	s.handle(router, http.MethodPost, "/auth/login", s.login, false)
	s.handle(router, http.MethodGet, "/users", s.listUsers, true)
	s.handle(router, http.MethodGet, "/projects", s.listProjects, true)
	s.handle(router, http.MethodPost, "/projects", s.createProject, true)
	s.handle(router, http.MethodPut, "/projects/:id", s.updateProject, true)
	s.handle(router, http.MethodDelete, "/projects/:id", s.deleteProject, true)
	s.handle(router, http.MethodGet, "/tasks", s.listTasks, true)
	s.handle(router, http.MethodGet, "/tasks/gettasks", s.listTasks, true)
	s.handle(router, http.MethodPost, "/tasks", s.createTask, true)
	s.handle(router, http.MethodPut, "/tasks/:id", s.updateTask, true)
	s.handle(router, http.MethodDelete, "/tasks/:id", s.deleteTask, true)

	s.Server = httptest.NewServer(router)
	t.Cleanup(s.Close)
	return s
}

// Fail makes every request to method+route answer status with message
// until ClearFailures. route is the registered pattern, e.g. "/tasks/:id".
func (s *Server) Fail(method, route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+route] = failure{status: status, message: message}
}

// OnListTasks sets fn to run after the task list snapshot is taken and
// before it is written, to interleave other requests with an in-flight
// fetch. fn runs on the handler goroutine.
func (s *Server) OnListTasks(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beforeListTasks = fn
}

// ClearFailures removes every injected failure
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]failure{}
}

// Hits returns how many requests reached method+route
func (s *Server) Hits(method, route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+route]
}

// SeedUsers replaces the user list; the login user is kept first
func (s *Server) SeedUsers(users ...Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users[:1:1], users...)
}

// SeedProjects replaces the project list
func (s *Server) SeedProjects(projects ...Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append([]Record(nil), projects...)
}

// SeedTasks replaces the task list
func (s *Server) SeedTasks(tasks ...Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append([]Record(nil), tasks...)
}

// Tasks returns a copy of the stored tasks
func (s *Server) Tasks() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.tasks...)
}

// Projects returns a copy of the stored projects
func (s *Server) Projects() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.projects...)
}

func (s *Server) handle(router *httprouter.Router, method, route string, h httprouter.Handle, auth bool) {
	key := method + " " + route
	router.Handle(method, route, func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		s.mu.Lock()
		s.hits[key]++
		f, failing := s.failures[key]
		s.mu.Unlock()

		if auth && r.Header.Get("Authorization") != "Bearer "+Token {
			writeJSON(w, http.StatusUnauthorized, Record{"message": "Unauthenticated"})
			return
		}
		if failing {
			http.Error(w, f.message, f.status)
			return
		}
		h(w, r, p)
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, Record{"message": "malformed body"})
		return
	}
	if body.Email != Email || body.Password != Password {
		writeJSON(w, http.StatusUnauthorized, Record{"message": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, Record{
		"token": Token,
		"user": Record{
			"id":    UserID,
			"email": Email,
			"name":  "Admin User",
			"role":  "admin",
		},
	})
}

func (s *Server) listUsers(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.mu.Lock()
	users := append([]Record(nil), s.users...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) listProjects(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, s.Projects())
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rec, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	if name, _ := rec["name"].(string); strings.TrimSpace(name) == "" {
		writeJSON(w, http.StatusBadRequest, Record{"message": "name is required"})
		return
	}
	s.mu.Lock()
	rec["id"] = s.newIDLocked("p")
	rec["ownerId"] = UserID
	s.projects = append(s.projects, rec)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	body, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.projects, p.ByName("id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, Record{"message": "project not found"})
		return
	}
	rec := copyRecord(s.projects[i])
	rec["name"] = body["Name"]
	rec["description"] = body["Description"]
	rec["memberIds"] = body["MemberIds"]
	s.projects[i] = rec
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) deleteProject(w http.ResponseWriter, _ *http.Request, p httprouter.Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.projects, p.ByName("id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, Record{"message": "project not found"})
		return
	}
	s.projects = append(s.projects[:i:i], s.projects[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTasks(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.mu.Lock()
	snapshot := append([]Record(nil), s.tasks...)
	hook := s.beforeListTasks
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	writeJSON(w, http.StatusOK, snapshot)
}

var taskStatusNames = []string{"pending", "in-progress", "completed"}
var priorityNames = []string{"low", "medium", "high"}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rec, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	if title, _ := rec["title"].(string); strings.TrimSpace(title) == "" {
		writeJSON(w, http.StatusBadRequest, Record{"message": "title is required"})
		return
	}
	// the API answers with string enums even though it takes integer codes
	rec["status"] = enumName(rec["status"], taskStatusNames)
	rec["priority"] = enumName(rec["priority"], priorityNames)

	s.mu.Lock()
	rec["id"] = s.newIDLocked("t")
	for _, u := range s.users {
		if u["Id"] == rec["assignedTo"] {
			rec["assignedToName"] = u["Name"]
		}
	}
	s.tasks = append(s.tasks, rec)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	body, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.tasks, p.ByName("id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, Record{"message": "task not found"})
		return
	}
	body["id"] = p.ByName("id")
	body["updatedAt"] = "2024-02-01T00:00:00Z"
	s.tasks[i] = body
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) deleteTask(w http.ResponseWriter, _ *http.Request, p httprouter.Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.tasks, p.ByName("id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, Record{"message": "task not found"})
		return
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) newIDLocked(prefix string) string {
	s.nextID++
	return prefix + strconv.Itoa(s.nextID)
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (Record, bool) {
	var rec Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil || rec == nil {
		writeJSON(w, http.StatusBadRequest, Record{"message": "malformed body"})
		return nil, false
	}
	return rec, true
}

func indexOf(records []Record, id string) int {
	for i, rec := range records {
		if rec["id"] == id {
			return i
		}
	}
	return -1
}

func copyRecord(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func enumName(v any, names []string) any {
	if f, ok := v.(float64); ok && int(f) >= 0 && int(f) < len(names) {
		return names[int(f)]
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
