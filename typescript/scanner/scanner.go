package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/tsmeta/typescript"
)

var log = commonlog.GetLogger("tsmeta.scanner")

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Request describes one scan job. Path scans a directory tree for
// declaration listings; Files names them directly. Annotations holds the
// decorator names stripped from rewritten compiled sources.
type Request struct {
	ID          string
	Path        string
	Files       []string
	Annotations []string
	CreatedAt   time.Time
}

type Result struct {
	ID         string
	Status     Status
	Request    Request
	Components []*typescript.Component
	Error      string
	Errors     []string
	StartedAt  time.Time
	EndedAt    time.Time
	Progress   int
	Total      int
}

func (r *Result) ProgressPercent() int {
	if r.Total == 0 {
		return 0
	}
	return (r.Progress * 100) / r.Total
}

// Scanner runs scan jobs on a background goroutine and keeps their
// results for later retrieval.
type Scanner struct {
	mu       sync.RWMutex
	scans    map[string]*Result
	requests chan Request
}

func New() *Scanner {
	s := &Scanner{
		scans:    make(map[string]*Result),
		requests: make(chan Request, 100),
	}
	go s.run()
	return s
}

func (s *Scanner) run() {
	for req := range s.requests {
		s.processScan(req)
	}
}

type scanResult struct {
	components []*typescript.Component
	errors     []string
}

func (s *Scanner) processScan(req Request) {
	s.mu.Lock()
	result := s.scans[req.ID]
	result.Status = StatusInProgress
	result.StartedAt = time.Now()
	s.mu.Unlock()

	var sr scanResult

	if req.Path != "" {
		sr = s.scanDirectory(req.ID, req.Path, req.Annotations)
	} else if len(req.Files) > 0 {
		sr = s.scanFiles(req.ID, req.Files, req.Annotations)
	} else {
		sr.errors = append(sr.errors, "no path or files provided")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	result.EndedAt = time.Now()
	result.Components = sr.components
	result.Errors = sr.errors
	if len(sr.errors) > 0 && len(sr.components) == 0 {
		result.Status = StatusFailed
		result.Error = sr.errors[0]
		log.Errorf("scan %s failed: %s", req.ID, result.Error)
	} else {
		result.Status = StatusCompleted
		log.Infof("scan %s: %d components, %d errors", req.ID, len(sr.components), len(sr.errors))
	}
}

func (s *Scanner) scanDirectory(id, path string, annotations []string) scanResult {
	var files []string
	var errors []string
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			errors = append(errors, fmt.Sprintf("walk %s: %v", p, err))
			return nil
		}
		if d.IsDir() {
			if name := d.Name(); p != path && (strings.HasPrefix(name, ".") || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(p, ".d.ts") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		errors = append(errors, fmt.Sprintf("walk %s: %v", path, err))
	}
	sr := s.scanFiles(id, files, annotations)
	sr.errors = append(errors, sr.errors...)
	return sr
}

func (s *Scanner) scanFiles(id string, files []string, annotations []string) scanResult {
	s.mu.Lock()
	s.scans[id].Total = len(files)
	s.mu.Unlock()

	var sr scanResult
	for i, file := range files {
		if strings.HasSuffix(file, ".d.ts") {
			component, errs := loadComponent(file, annotations)
			sr.errors = append(sr.errors, errs...)
			if component != nil {
				sr.components = append(sr.components, component)
			}
		}

		s.mu.Lock()
		s.scans[id].Progress = i + 1
		s.mu.Unlock()
	}
	return sr
}

// loadComponent parses one declaration listing and, when a compiled
// sibling exists, its compiled metadata. A sibling that fails to parse
// is reported but does not discard the component.
func loadComponent(path string, annotations []string) (*typescript.Component, []string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []string{fmt.Sprintf("read %s: %v", path, err)}
	}

	class, err := typescript.ParseDeclaration(data)
	if err != nil {
		return nil, []string{fmt.Sprintf("parse %s: %v", path, err)}
	}

	component := &typescript.Component{Path: path, Class: class}

	compiledPath := strings.TrimSuffix(path, ".d.ts") + ".js"
	js, err := os.ReadFile(compiledPath)
	if err != nil {
		if os.IsNotExist(err) {
			return component, nil
		}
		return component, []string{fmt.Sprintf("read %s: %v", compiledPath, err)}
	}

	compiled, err := typescript.ParseCompiled(js, class, typescript.WithAnnotations(annotations...))
	if err != nil {
		return component, []string{fmt.Sprintf("parse %s: %v", compiledPath, err)}
	}
	component.Compiled = compiled

	return component, nil
}

// Submit queues a scan job and returns its ID.
func (s *Scanner) Submit(req Request) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	req.ID = uuid.NewString()
	req.CreatedAt = time.Now()

	s.scans[req.ID] = &Result{
		ID:      req.ID,
		Status:  StatusPending,
		Request: req,
	}

	s.requests <- req
	return req.ID
}

// Get returns a snapshot of the scan with the given ID.
func (s *Scanner) Get(id string) (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.scans[id]
	if !ok {
		return nil, false
	}
	snapshot := *result
	return &snapshot, true
}

// List returns snapshots of all known scans.
func (s *Scanner) List() []*Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]*Result, 0, len(s.scans))
	for _, r := range s.scans {
		snapshot := *r
		results = append(results, &snapshot)
	}
	return results
}

// AllComponents returns the components of all completed scans, sorted
// by class name.
func (s *Scanner) AllComponents() []*typescript.Component {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []*typescript.Component
	for _, scan := range s.scans {
		if scan.Status == StatusCompleted {
			all = append(all, scan.Components...)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Class.Name < all[j].Class.Name
	})
	return all
}

// FindComponent returns the first completed component whose class name
// or tag matches, or nil.
func (s *Scanner) FindComponent(name string) *typescript.Component {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, scan := range s.scans {
		if scan.Status != StatusCompleted {
			continue
		}
		for _, c := range scan.Components {
			if c.Class.Name == name || c.Tag() == name {
				return c
			}
		}
	}
	return nil
}
