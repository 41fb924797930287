package repoerrors

import "fmt"

const (
	repoManagementMessageConstant = "repository management error"
	fileMessageConstant           = "file error"
	fileNotFoundMessageConstant   = "file not found"
	validationMessageConstant     = "validation error"
	pathErrorTemplateConstant     = "%s '%s': %v"
	plainErrorTemplateConstant    = "%s: %v"
)

// Kind identifies a class of repository management failures.
type Kind struct {
	message string
	parent  *Kind
}

// Error returns the kind description.
func (kind *Kind) Error() string {
	return kind.message
}

// Is reports whether the kind, or one of its parents, equals target.
func (kind *Kind) Is(target error) bool {
	targetKind, isKind := target.(*Kind)
	if !isKind {
		return false
	}
	for current := kind; current != nil; current = current.parent {
		if current == targetKind {
			return true
		}
	}
	return false
}

// Error kinds.
var (
	ErrRepoManagement = &Kind{message: repoManagementMessageConstant}
	ErrFile           = &Kind{message: fileMessageConstant, parent: ErrRepoManagement}
	ErrFileNotFound   = &Kind{message: fileNotFoundMessageConstant, parent: ErrFile}
	ErrValidation     = &Kind{message: validationMessageConstant, parent: ErrRepoManagement}
)

// Error couples a Kind with the offending path and the underlying cause.
type Error struct {
	Kind  *Kind
	Path  string
	Cause error
}

// New builds an Error of the provided kind.
func New(kind *Kind, path string, cause error) *Error {
	return &Error{Kind: kind, Path: path, Cause: cause}
}

// Newf builds an Error of the provided kind with a formatted cause.
func Newf(kind *Kind, path string, format string, arguments ...any) *Error {
	return New(kind, path, fmt.Errorf(format, arguments...))
}

// Error renders the kind, path and cause.
func (repositoryError *Error) Error() string {
	kindMessage := repoManagementMessageConstant
	if repositoryError.Kind != nil {
		kindMessage = repositoryError.Kind.message
	}
	if len(repositoryError.Path) == 0 {
		return fmt.Sprintf(plainErrorTemplateConstant, kindMessage, repositoryError.Cause)
	}
	return fmt.Sprintf(pathErrorTemplateConstant, kindMessage, repositoryError.Path, repositoryError.Cause)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (repositoryError *Error) Unwrap() []error {
	unwrapped := make([]error, 0, 2)
	if repositoryError.Kind != nil {
		unwrapped = append(unwrapped, repositoryError.Kind)
	}
	if repositoryError.Cause != nil {
		unwrapped = append(unwrapped, repositoryError.Cause)
	}
	return unwrapped
}
