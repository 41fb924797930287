package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	homeShortcutConstant       = "~"
	parentDirectoryConstant    = ".."
	homeShortcutPrefixConstant = homeShortcutConstant + string(os.PathSeparator)
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// DirectoryResolver normalizes configured directory paths.
type DirectoryResolver struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	initializationGuard   sync.Once
}

// NewDirectoryResolver constructs a DirectoryResolver using the operating system home lookup.
func NewDirectoryResolver() *DirectoryResolver {
	return NewDirectoryResolverWithProvider(os.UserHomeDir)
}

// NewDirectoryResolverWithProvider constructs a DirectoryResolver with a custom home lookup.
func NewDirectoryResolverWithProvider(provider HomeDirectoryProvider) *DirectoryResolver {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &DirectoryResolver{homeDirectoryProvider: provider}
}

// Normalize trims whitespace, expands a leading "~" and cleans the path.
// Empty input stays empty.
func (resolver *DirectoryResolver) Normalize(candidatePath string) string {
	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		return ""
	}
	if resolver != nil && (trimmedPath == homeShortcutConstant || strings.HasPrefix(trimmedPath, homeShortcutPrefixConstant)) {
		if homeDirectory := resolver.resolveHomeDirectory(); len(homeDirectory) > 0 {
			trimmedPath = filepath.Join(homeDirectory, strings.TrimPrefix(trimmedPath, homeShortcutConstant))
		}
	}
	return filepath.Clean(trimmedPath)
}

// ExistingDirectory reports whether path names an existing directory.
func ExistingDirectory(path string) bool {
	info, statError := os.Stat(path)
	return statError == nil && info.IsDir()
}

// IsWithin reports whether candidate equals parent or is located below it.
func IsWithin(parent string, candidate string) bool {
	relativePath, relativeError := filepath.Rel(filepath.Clean(parent), filepath.Clean(candidate))
	if relativeError != nil {
		return false
	}
	return relativePath != parentDirectoryConstant && !strings.HasPrefix(relativePath, parentDirectoryConstant+string(os.PathSeparator))
}

// Overlaps reports whether either path equals or contains the other.
func Overlaps(first string, second string) bool {
	return IsWithin(first, second) || IsWithin(second, first)
}

func (resolver *DirectoryResolver) resolveHomeDirectory() string {
	resolver.initializationGuard.Do(func() {
		homeDirectory, homeDirectoryError := resolver.homeDirectoryProvider()
		if homeDirectoryError == nil {
			resolver.homeDirectory = homeDirectory
		}
	})
	return resolver.homeDirectory
}
