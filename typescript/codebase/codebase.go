package codebase

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/iancoleman/strcase"

	"github.com/dhamidi/tsmeta/typescript"
)

// Codebase is an in-memory view of a component source tree. Declaration
// listings are parsed into class models; other tracked files only keep
// their content so editor buffers can be inspected.
type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*FileInfo
	classes []*typescript.ClassModel
}

type FileInfo struct {
	Path     string
	Content  []byte
	Class    *typescript.ClassModel
	ParseErr error
}

func New(rootDir string) *Codebase {
	return &Codebase{
		rootDir: rootDir,
		files:   make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

func (c *Codebase) ScanAll() error {
	return filepath.WalkDir(c.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if name := d.Name(); path != c.rootDir && (strings.HasPrefix(name, ".") || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".d.ts") {
			c.ScanFile(path)
		}
		return nil
	})
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.UpdateFile(path, content)
}

func (c *Codebase) UpdateFile(path string, content []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	info := &FileInfo{
		Path:    path,
		Content: content,
	}
	if strings.HasSuffix(path, ".d.ts") {
		info.Class, info.ParseErr = typescript.ParseDeclaration(content)
	}
	c.files[path] = info

	c.rebuildClassesLocked()
	return nil
}

func (c *Codebase) rebuildClassesLocked() {
	var all []*typescript.ClassModel
	for _, f := range c.files {
		if f.Class != nil {
			all = append(all, f.Class)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})
	c.classes = all
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
	c.rebuildClassesLocked()
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

func (c *Codebase) AllClasses() []*typescript.ClassModel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.classes
}

func (c *Codebase) FindClass(name string) *typescript.ClassModel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, class := range c.classes {
		if class.Name == name {
			return class
		}
	}
	return nil
}

// ClassForFile resolves the class a source file belongs to by matching
// the file base name against class names and their kebab-case tags, so
// square.js, Square.ts and status-badge.d.ts all find their class.
func (c *Codebase) ClassForFile(path string) *typescript.ClassModel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.classForFileLocked(path)
}

func (c *Codebase) classForFileLocked(path string) *typescript.ClassModel {
	base := fileBase(path)
	for _, class := range c.classes {
		if strings.EqualFold(class.Name, base) || strcase.ToKebab(class.Name) == base {
			return class
		}
	}
	return nil
}

func fileBase(path string) string {
	name := filepath.Base(path)
	if strings.HasSuffix(name, ".d.ts") {
		return strings.TrimSuffix(name, ".d.ts")
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// CompletionsAt returns member completions when the position sits on a
// "this." access inside a file whose class is known. line is 1-based,
// col is the byte offset of the dot within that line.
func (c *Codebase) CompletionsAt(path string, line, col int) []CompletionItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f := c.files[path]
	if f == nil {
		return nil
	}
	if !thisBefore(f.Content, line, col) {
		return nil
	}

	class := c.classForFileLocked(path)
	if class == nil {
		return nil
	}

	var items []CompletionItem

	for i := range class.Methods {
		m := &class.Methods[i]
		items = append(items, CompletionItem{
			Label:      m.Name,
			Kind:       CompletionKindMethod,
			Detail:     formatMethodSignature(m),
			InsertText: formatMethodInsert(m),
		})
	}

	for i := range class.Properties {
		p := &class.Properties[i]
		items = append(items, CompletionItem{
			Label:      p.Name,
			Kind:       CompletionKindProperty,
			Detail:     string(p.Type),
			InsertText: p.Name,
		})
	}

	return items
}

// thisBefore reports whether the identifier directly before the dot at
// (line, col) is the keyword this.
func thisBefore(content []byte, line, col int) bool {
	lines := strings.Split(string(content), "\n")
	if line <= 0 || line > len(lines) {
		return false
	}
	text := lines[line-1]
	if col < 0 || col >= len(text) || text[col] != '.' {
		return false
	}

	start := col
	for start > 0 && isWordChar(text[start-1]) {
		start--
	}
	return text[start:col] == "this"
}

func isWordChar(ch byte) bool {
	return ch == '_' || ch == '$' ||
		'a' <= ch && ch <= 'z' ||
		'A' <= ch && ch <= 'Z' ||
		'0' <= ch && ch <= '9'
}

type CompletionKind int

const (
	CompletionKindMethod CompletionKind = iota
	CompletionKindProperty
	CompletionKindClass
)

type CompletionItem struct {
	Label      string
	Kind       CompletionKind
	Detail     string
	InsertText string
}

func formatMethodSignature(m *typescript.FieldModel) string {
	var params []string
	for _, p := range m.Params {
		if p.Type == "" {
			params = append(params, p.Name)
			continue
		}
		params = append(params, p.Name+": "+string(p.Type))
	}
	sig := m.Name + "(" + strings.Join(params, ", ") + ")"
	if m.Type != "" {
		sig += ": " + string(m.Type)
	}
	return sig
}

func formatMethodInsert(m *typescript.FieldModel) string {
	if len(m.Params) == 0 {
		return m.Name + "()"
	}
	var placeholders []string
	for i, p := range m.Params {
		name := p.Name
		if name == "" {
			name = "arg" + strconv.Itoa(i+1)
		}
		placeholders = append(placeholders, "${"+strconv.Itoa(i+1)+":"+name+"}")
	}
	return m.Name + "(" + strings.Join(placeholders, ", ") + ")"
}
