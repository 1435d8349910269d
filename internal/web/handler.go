package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mschirtzinger/taskmgr/internal/tasks"
)

// maxBodyBytes caps form and JSON request bodies.
const maxBodyBytes = 64 << 10

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, snap); err != nil {
		s.logger.Printf("Failed to render page: %v", err)
	}
}

// handleAdd is the form post behind the "Add Task" button.
func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if _, err := s.session.Submit(r.Context(), r.PostFormValue("title")); err != nil {
		s.logger.Printf("Warning: add not persisted: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Toggle(r.Context(), pathIndex(r)); err != nil {
		s.logger.Printf("Warning: toggle not persisted: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Delete(r.Context(), pathIndex(r)); err != nil {
		s.logger.Printf("Warning: delete not persisted: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// pathIndex returns the {index} path value; anything unparseable maps to -1
// so the command is an out-of-range no-op.
func pathIndex(r *http.Request) int {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		return -1
	}
	return i
}

func (s *Server) handleAPITasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// handleAPIAction dispatches a JSON action such as
// {"type":"TOGGLE_TASK","index":0} and responds with the new snapshot.
func (s *Server) handleAPIAction(w http.ResponseWriter, r *http.Request) {
	var action tasks.Action
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&action); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid action: " + err.Error()})
		return
	}

	var err error
	switch cmd := action.Command().(type) {
	case tasks.Add:
		_, err = s.session.Submit(r.Context(), cmd.Title)
	default:
		_, err = s.session.Dispatch(r.Context(), cmd)
	}
	if err != nil {
		s.logger.Printf("Warning: %s not persisted: %v", action.Type, err)
	}

	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
