// Package safety classifies paths that must never be handed to the wipe
// engine: the filesystem root and the operating system's own directories.
package safety

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrCritical is returned by Check for paths the guard refuses to release.
var ErrCritical = errors.New("refusing to wipe critical system path")

var unixCritical = []string{
	"/bin", "/boot", "/dev", "/etc", "/lib", "/lib32", "/lib64",
	"/proc", "/run", "/sbin", "/sys", "/usr", "/var",
}

var darwinCritical = []string{
	"/System", "/Library", "/Applications", "/cores",
	"/private/etc", "/private/var/db",
}

// darwinScratch holds the per-user temporary trees under /var. Entries below
// them are ordinary user data; the directories themselves stay protected.
var darwinScratch = []string{"/var/folders", "/private/var/folders"}

// Classifier decides whether a path is critical for a given operating system.
// The zero value is not usable; use Host or construct one explicitly in tests.
type Classifier struct {
	Getenv func(string) string
	GOOS   string
}

// Host returns a Classifier for the running operating system.
func Host() Classifier {
	return Classifier{GOOS: runtime.GOOS, Getenv: os.Getenv}
}

// IsCritical reports whether path is the filesystem root or lies under an
// OS-critical directory on the running system.
func IsCritical(path string) bool {
	return Host().IsCritical(path)
}

// Check returns an error wrapping ErrCritical when path is critical.
func Check(path string) error {
	if IsCritical(path) {
		return fmt.Errorf("%w: %s", ErrCritical, path)
	}
	return nil
}

// IsCritical resolves path to an absolute form and classifies it. On the
// running system the parent directory is also resolved through symlinks, and
// the path is critical if either form is. The last element is never followed,
// so a symlink target stays unlink-only. A path that cannot be resolved is
// treated as critical.
func (c Classifier) IsCritical(path string) bool {
	if c.classify(path) {
		return true
	}
	if c.GOOS != runtime.GOOS {
		return false
	}
	resolved, ok := resolveParent(path)
	return ok && c.classify(resolved)
}

func (c Classifier) classify(path string) bool {
	if c.GOOS == "windows" {
		return c.isCriticalWindows(path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return true
	}
	abs = filepath.Clean(abs)
	if abs == "/" {
		return true
	}

	dirs := unixCritical
	if c.GOOS == "darwin" {
		for _, scratch := range darwinScratch {
			if strings.HasPrefix(abs, scratch+"/") {
				return false
			}
		}
		dirs = append(append([]string{}, unixCritical...), darwinCritical...)
	}
	for _, crit := range dirs {
		if within(abs, crit, "/", false) {
			return true
		}
	}
	return false
}

// resolveParent returns path with its directory resolved through symlinks.
// ok is false when the directory does not exist; there is nothing to wipe
// there and the lexical form has already been checked.
func resolveParent(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	dir, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		return "", false
	}
	return filepath.Join(dir, filepath.Base(abs)), true
}

// isCriticalWindows works on the string form of the path so the table can
// be exercised on any host. Comparison is case-insensitive.
func (c Classifier) isCriticalWindows(path string) bool {
	p := strings.ReplaceAll(path, "/", `\`)
	if !isWindowsAbs(p) {
		// Relative paths are resolved against the process working directory.
		cwd, err := os.Getwd()
		if err != nil {
			return true
		}
		p = strings.ReplaceAll(cwd, "/", `\`) + `\` + p
	}
	p = cleanWindows(p)

	// Bare volume root, e.g. C:\.
	if len(p) <= 3 && len(p) >= 2 && p[1] == ':' {
		return true
	}

	roots := []string{c.getenv("SystemRoot", `C:\Windows`)}
	for _, key := range []string{"ProgramFiles", "ProgramFiles(x86)", "ProgramData"} {
		if v := c.getenv(key, ""); v != "" {
			roots = append(roots, v)
		}
	}
	for _, root := range roots {
		if within(p, cleanWindows(root), `\`, true) {
			return true
		}
	}
	return false
}

func (c Classifier) getenv(key, fallback string) string {
	if c.Getenv == nil {
		return fallback
	}
	if v := c.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// within reports whether path equals dir or lies beneath it, matching whole
// path components only ("/usr" covers "/usr/lib" but not "/usrdata").
func within(path, dir, sep string, fold bool) bool {
	if fold {
		path = strings.ToLower(path)
		dir = strings.ToLower(dir)
	}
	dir = strings.TrimSuffix(dir, sep)
	return path == dir || strings.HasPrefix(path, dir+sep)
}

func isWindowsAbs(p string) bool {
	if strings.HasPrefix(p, `\\`) {
		return true
	}
	return len(p) >= 3 && p[1] == ':' && p[2] == '\\'
}

// cleanWindows collapses "." and ".." elements of a backslash path.
func cleanWindows(p string) string {
	prefix := ""
	rest := p
	switch {
	case strings.HasPrefix(p, `\\`):
		prefix, rest = `\\`, p[2:]
	case len(p) >= 2 && p[1] == ':':
		prefix, rest = p[:2]+`\`, strings.TrimPrefix(p[2:], `\`)
	}

	var parts []string
	for _, part := range strings.Split(rest, `\`) {
		switch part {
		case "", ".":
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		default:
			parts = append(parts, part)
		}
	}
	return prefix + strings.Join(parts, `\`)
}
