package ui

import (
	"encoding/json"
	"net/http"

	"github.com/dhamidi/tsmeta/format"
	"github.com/dhamidi/tsmeta/typescript/scanner"
)

// Server exposes the scanner over a JSON API:
//
//	POST /scan        submit a scan job
//	GET  /scans       list scan jobs
//	GET  /scans/{id}  poll one scan job
//	GET  /components  list recovered components
//	GET  /c/{name}    full component metadata by class name or tag
type Server struct {
	scanner *scanner.Scanner
	mux     *http.ServeMux
}

func NewServer() *Server {
	s := &Server{
		scanner: scanner.New(),
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /scan", s.handleScan)
	s.mux.HandleFunc("GET /scans", s.handleListScans)
	s.mux.HandleFunc("GET /scans/{id}", s.handleGetScan)
	s.mux.HandleFunc("GET /components", s.handleComponents)
	s.mux.HandleFunc("GET /c/{name}", s.handleComponent)

	return s
}

// Scanner returns the scan queue backing this server.
func (s *Server) Scanner() *scanner.Scanner {
	return s.scanner
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanner.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Path == "" && len(req.Files) == 0 {
		http.Error(w, "must provide path or files", http.StatusBadRequest)
		return
	}

	id := s.scanner.Submit(req)
	w.Header().Set("Location", "/scans/"+id)
	writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
}

func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	results := s.scanner.List()
	views := make([]scanView, 0, len(results))
	for _, result := range results {
		views = append(views, toScanView(result))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	result, ok := s.scanner.Get(id)
	if !ok {
		http.Error(w, "scan not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toScanView(result))
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	components := s.scanner.AllComponents()
	refs := make([]componentRef, 0, len(components))
	for _, c := range components {
		refs = append(refs, componentRef{
			Name: c.Class.Name,
			Tag:  c.Tag(),
			Path: c.Path,
		})
	}
	writeJSON(w, http.StatusOK, refs)
}

func (s *Server) handleComponent(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	component := s.scanner.FindComponent(name)
	if component == nil {
		http.Error(w, "component not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := format.NewJSONEncoder(w).Encode(component); err != nil {
		http.Error(w, "encode component: "+err.Error(), http.StatusInternalServerError)
	}
}

type scanView struct {
	ID         string         `json:"id"`
	Status     string         `json:"status"`
	Progress   int            `json:"progress"`
	Total      int            `json:"total"`
	Percent    int            `json:"percent"`
	Error      string         `json:"error,omitempty"`
	Errors     []string       `json:"errors,omitempty"`
	Components []componentRef `json:"components,omitempty"`
}

type componentRef struct {
	Name string `json:"name"`
	Tag  string `json:"tag"`
	Path string `json:"path,omitempty"`
}

func toScanView(result *scanner.Result) scanView {
	view := scanView{
		ID:       result.ID,
		Status:   string(result.Status),
		Progress: result.Progress,
		Total:    result.Total,
		Percent:  result.ProgressPercent(),
		Error:    result.Error,
		Errors:   result.Errors,
	}
	for _, c := range result.Components {
		view.Components = append(view.Components, componentRef{
			Name: c.Class.Name,
			Tag:  c.Tag(),
			Path: c.Path,
		})
	}
	return view
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
