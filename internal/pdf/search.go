package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultTemplatePattern matches every supported template below a directory
const DefaultTemplatePattern = "**/*.{pdf,txt,md}"

// Search discovers templates in a directory tree
type Search struct {
	maxFileSize int64
	validator   *Validator
}

// NewSearch creates a new template search handler with the specified constraints
func NewSearch(maxFileSize int64) *Search {
	return &Search{
		maxFileSize: maxFileSize,
		validator:   NewValidator(maxFileSize),
	}
}

// SearchDirectory lists templates under req.Directory whose slash-separated
// relative path matches req.Pattern (a doublestar glob) and whose name
// contains every word of req.Query. Hidden directories are skipped.
func (s *Search) SearchDirectory(req TemplateSearchRequest) (*TemplateSearchResult, error) {
	if req.Directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}
	pattern := req.Pattern
	if pattern == "" {
		pattern = DefaultTemplatePattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern: %s", pattern)
	}

	if _, err := os.Stat(req.Directory); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", req.Directory)
	}

	absDirectory, err := filepath.Abs(req.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))
	var files []FileInfo

	err = filepath.WalkDir(absDirectory, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Continue walking even if we encounter an error with a specific file
			return nil
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != absDirectory {
				return filepath.SkipDir
			}
			return nil
		}
		// symlinks could point outside the directory
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(absDirectory, path)
		if err != nil {
			return nil
		}
		matched, err := doublestar.Match(pattern, filepath.ToSlash(rel))
		if err != nil || !matched {
			return nil
		}

		kind, ok := KindOf(path)
		if !ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if err := s.validator.ValidateFileInfo(path, info); err != nil {
			return nil
		}
		if !matchesQuery(info.Name(), query) {
			return nil
		}

		files = append(files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Kind:         kind,
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	return &TemplateSearchResult{
		Files:       files,
		TotalCount:  len(files),
		Directory:   absDirectory,
		Pattern:     pattern,
		SearchQuery: req.Query,
	}, nil
}

// matchesQuery reports whether every word of query occurs in the file name
func matchesQuery(filename, query string) bool {
	if query == "" {
		return true
	}
	name := strings.ToLower(filename)
	for _, word := range strings.Fields(query) {
		if !strings.Contains(name, word) {
			return false
		}
	}
	return true
}
