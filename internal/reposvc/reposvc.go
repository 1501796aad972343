// Package reposvc discovers, validates, and tracks the repositories a
// server instance indexes. Discovery and project-marker detection are
// ported from the original's repo.rs; glob matching for the starred
// marker uses doublestar, following internal/indexing's own choice of
// glob library.
package reposvc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultMaxDiscoveryDepth bounds how deep DiscoverRepos recurses below
// the base path before giving up on a subtree, matching the original's
// caller-supplied max_depth convention.
const DefaultMaxDiscoveryDepth = 6

// projectMarkers are the files/dirs whose presence marks a directory as
// a repository root, ported verbatim from repo.rs's project_markers.
var projectMarkers = []string{
	"Cargo.toml", "package.json", "pyproject.toml", "setup.py", "go.mod",
	"pom.xml", "build.gradle", "CMakeLists.txt", "Makefile", ".project",
}

// globMarkers are markers expressed as a glob rather than an exact name.
var globMarkers = []string{"*.sln"}

// Config mirrors the original's RepoConfig: the per-repository indexing
// policy (exclude/include patterns, size cap, symlink behavior).
type Config struct {
	Name            string
	Path            string
	ExcludePatterns []string
	IncludePatterns []string
	MaxFileSize     int64
	FollowSymlinks  bool
}

// DefaultExcludePatterns is the standard ignore list, ported from
// RepoConfig::default.exclude_patterns.
func DefaultExcludePatterns() []string {
	return []string{
		"**/node_modules/**", "**/target/**", "**/.git/**", "**/vendor/**",
		"**/__pycache__/**", "**/dist/**", "**/build/**",
		"**/*.min.js", "**/*.min.css",
		"**/package-lock.json", "**/yarn.lock", "**/Cargo.lock",
	}
}

// DefaultConfig returns a Config for path with the standard excludes, a
// 1MB max file size, and symlinks not followed.
func DefaultConfig(name, path string) Config {
	return Config{
		Name:            name,
		Path:            path,
		ExcludePatterns: DefaultExcludePatterns(),
		MaxFileSize:     1024 * 1024,
		FollowSymlinks:  false,
	}
}

// Excluded reports whether relPath (slash-separated, relative to the
// repository root) matches one of cfg's exclude patterns, and isn't
// rescued by an include pattern.
func (cfg Config) Excluded(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, pat := range cfg.ExcludePatterns {
		if ok, _ := doublestar.Match(pat, relPath); ok {
			if len(cfg.IncludePatterns) == 0 {
				return true
			}
			for _, inc := range cfg.IncludePatterns {
				if ok, _ := doublestar.Match(inc, relPath); ok {
					return false
				}
			}
			return true
		}
	}
	return false
}

// IsRepository reports whether path is a repository root: it has a
// .git directory or one of the recognized project markers, ported from
// is_repository.
func IsRepository(path string) bool {
	if info, err := os.Stat(filepath.Join(path, ".git")); err == nil && info != nil {
		return true
	}
	for _, marker := range projectMarkers {
		if _, err := os.Stat(filepath.Join(path, marker)); err == nil {
			return true
		}
	}
	for _, pat := range globMarkers {
		matches, _ := filepath.Glob(filepath.Join(path, pat))
		if len(matches) > 0 {
			return true
		}
	}
	return false
}

// NameFromPath derives a repository name from its root directory name,
// ported from repo_name_from_path.
func NameFromPath(path string) string {
	name := filepath.Base(filepath.Clean(path))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "unknown"
	}
	return name
}

// ValidatePath reports an error if path doesn't exist, isn't a
// directory, or can't be read, ported from validate_repo_path.
func ValidatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read directory %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != nil && !isEOF(err) {
		return fmt.Errorf("cannot read directory %s: %w", path, err)
	}
	return nil
}

func isEOF(err error) bool {
	return strings.Contains(err.Error(), "EOF")
}

// DiscoverRepos walks basePath looking for repository roots, bounded by
// maxDepth, and does not recurse into a directory once it's recognized
// as a repository — ported from discover_repos/discover_repos_recursive.
// Hidden directories (dotfile-prefixed) are never descended into.
func DiscoverRepos(basePath string, maxDepth int) ([]string, error) {
	var repos []string
	if err := discoverReposRecursive(basePath, 0, maxDepth, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func discoverReposRecursive(path string, depth, maxDepth int, repos *[]string) error {
	if depth > maxDepth {
		return nil
	}
	if IsRepository(path) {
		*repos = append(*repos, path)
		return nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil // unreadable directories are skipped, not fatal
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if err := discoverReposRecursive(filepath.Join(path, name), depth+1, maxDepth, repos); err != nil {
			return err
		}
	}
	return nil
}

// Repository is a tracked, validated repository and its indexing policy.
type Repository struct {
	Name   string
	Path   string
	Config Config
}

// Manager tracks the set of repositories a server instance serves.
type Manager struct {
	repos map[string]Repository
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{repos: make(map[string]Repository)}
}

// Add validates path and registers it under name (or a name derived
// from path if name is empty), returning the error from ValidatePath
// if the path is unusable.
func (m *Manager) Add(name, path string) (Repository, error) {
	if err := ValidatePath(path); err != nil {
		return Repository{}, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if name == "" {
		name = NameFromPath(abs)
	}
	repo := Repository{Name: name, Path: abs, Config: DefaultConfig(name, abs)}
	m.repos[name] = repo
	return repo, nil
}

// Remove unregisters a repository by name.
func (m *Manager) Remove(name string) {
	delete(m.repos, name)
}

// Get returns the repository registered under name.
func (m *Manager) Get(name string) (Repository, bool) {
	r, ok := m.repos[name]
	return r, ok
}

// List returns every registered repository, ordered by name.
func (m *Manager) List() []Repository {
	names := make([]string, 0, len(m.repos))
	for n := range m.repos {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]Repository, 0, len(names))
	for _, n := range names {
		out = append(out, m.repos[n])
	}
	return out
}
