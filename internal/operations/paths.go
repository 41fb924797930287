package operations

import (
	"errors"
	"io/fs"
	"os"

	"github.com/Cyberx9901/arch-repo-management/internal/repoerrors"
)

const (
	fileMissingTemplateConstant      = "the file '%s' does not exist"
	notAFileTemplateConstant         = "not a file: %s"
	directoryMissingTemplateConstant = "the directory '%s' does not exist"
	notADirectoryTemplateConstant    = "not a directory: %s"
	inspectPathTemplateConstant      = "unable to inspect '%s': %w"
)

// RequireFile ensures path exists and is not a directory.
func RequireFile(path string) error {
	info, statError := os.Stat(path)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return repoerrors.Newf(repoerrors.ErrFileNotFound, "", fileMissingTemplateConstant, path)
		}
		return repoerrors.Newf(repoerrors.ErrFile, "", inspectPathTemplateConstant, path, statError)
	}
	if info.IsDir() {
		return repoerrors.Newf(repoerrors.ErrFile, "", notAFileTemplateConstant, path)
	}
	return nil
}

// RequireDirectory ensures path exists and is a directory.
func RequireDirectory(path string) error {
	info, statError := os.Stat(path)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return repoerrors.Newf(repoerrors.ErrFileNotFound, "", directoryMissingTemplateConstant, path)
		}
		return repoerrors.Newf(repoerrors.ErrFile, "", inspectPathTemplateConstant, path, statError)
	}
	if !info.IsDir() {
		return repoerrors.Newf(repoerrors.ErrFile, "", notADirectoryTemplateConstant, path)
	}
	return nil
}
