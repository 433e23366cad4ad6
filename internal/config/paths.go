package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExecutableDir returns the directory where the current executable resides.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err == nil && strings.TrimSpace(exe) != "" {
		if resolved, resolveErr := filepath.EvalSymlinks(exe); resolveErr == nil && strings.TrimSpace(resolved) != "" {
			exe = resolved
		}
		return filepath.Dir(exe)
	}

	if wd, wdErr := os.Getwd(); wdErr == nil && strings.TrimSpace(wd) != "" {
		return wd
	}
	return "."
}

// ResolveRelative resolves a relative file reference against baseDir.
// Bare names without a separator or extension are returned unchanged so that
// embedded lexicon profiles keep working.
func ResolveRelative(ref, baseDir string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || filepath.IsAbs(ref) {
		return ref
	}
	if !strings.ContainsAny(ref, `/\`) && filepath.Ext(ref) == "" {
		return ref
	}
	if strings.TrimSpace(baseDir) == "" {
		baseDir = ExecutableDir()
	}
	return filepath.Clean(filepath.Join(baseDir, ref))
}
