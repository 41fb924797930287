package repodb

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/Cyberx9901/arch-repo-management/internal/defaults"
	"github.com/Cyberx9901/arch-repo-management/internal/models"
	"github.com/Cyberx9901/arch-repo-management/internal/repoerrors"
)

const (
	memberPathSeparatorConstant       = "/"
	memberCurrentDirectoryConstant    = "./"
	memberNameSeparatorConstant       = "-"
	memberVersionComponentsConstant   = 2
	openDatabaseErrorTemplateConstant = "unable to open database: %w"
	readDatabaseErrorTemplateConstant = "unable to read database: %w"
	memberNameErrorTemplateConstant   = "member '%s' does not carry a package version"
)

// ArchiveMember is a single tar entry of a repository database.
type ArchiveMember struct {
	Name      string
	Directory bool
	Data      []byte
}

// Archive is the in-memory content of a repository database.
type Archive struct {
	Path    string
	members []ArchiveMember
}

// ReadDBFile decompresses the database at path and loads all of its members.
func ReadDBFile(path string, compression defaults.Compression) (*Archive, error) {
	databaseFile, openError := os.Open(path)
	if openError != nil {
		if errors.Is(openError, fs.ErrNotExist) {
			return nil, repoerrors.New(repoerrors.ErrFileNotFound, path, openError)
		}
		return nil, repoerrors.New(repoerrors.ErrFile, path, fmt.Errorf(openDatabaseErrorTemplateConstant, openError))
	}
	defer databaseFile.Close()

	if _, parseError := defaults.ParseCompression(string(compression)); parseError != nil {
		return nil, parseError
	}

	decompressor, decompressorError := newDecompressor(databaseFile, compression)
	if decompressorError != nil {
		return nil, repoerrors.New(repoerrors.ErrFile, path, fmt.Errorf(readDatabaseErrorTemplateConstant, decompressorError))
	}
	defer decompressor.Close()

	archive := &Archive{Path: path}
	tarReader := tar.NewReader(decompressor)
	for {
		header, nextError := tarReader.Next()
		if errors.Is(nextError, io.EOF) {
			break
		}
		if nextError != nil {
			return nil, repoerrors.New(repoerrors.ErrFile, path, fmt.Errorf(readDatabaseErrorTemplateConstant, nextError))
		}

		member := ArchiveMember{Name: normalizeMemberName(header.Name)}
		switch header.Typeflag {
		case tar.TypeDir:
			member.Directory = true
		case tar.TypeReg:
			data, dataError := io.ReadAll(tarReader)
			if dataError != nil {
				return nil, repoerrors.New(repoerrors.ErrFile, path, fmt.Errorf(readDatabaseErrorTemplateConstant, dataError))
			}
			member.Data = data
		default:
			continue
		}
		archive.members = append(archive.members, member)
	}

	return archive, nil
}

// Names lists the member names in archive order.
func (archive *Archive) Names() []string {
	names := make([]string, 0, len(archive.members))
	for _, member := range archive.members {
		names = append(names, member.Name)
	}
	return names
}

// Members returns every desc and files member in archive order.
func (archive *Archive) Members(executionContext context.Context) ([]models.RepoDbMemberData, error) {
	memberData := make([]models.RepoDbMemberData, 0, len(archive.members))
	for _, member := range archive.members {
		if contextError := executionContext.Err(); contextError != nil {
			return nil, contextError
		}
		if member.Directory {
			continue
		}

		memberType := MemberType(member.Name)
		if memberType == defaults.RepoDbMemberTypeUnknown {
			continue
		}

		packageName := ExtractMemberPackageName(member.Name)
		if len(packageName) == 0 {
			return nil, repoerrors.Newf(repoerrors.ErrValidation, archive.Path, memberNameErrorTemplateConstant, member.Name)
		}

		memberData = append(memberData, models.RepoDbMemberData{
			MemberType: memberType,
			Name:       packageName,
			Data:       member.Data,
		})
	}
	return memberData, nil
}

// MemberType classifies a member by its trailing file name.
func MemberType(name string) defaults.RepoDbMemberType {
	switch {
	case strings.HasSuffix(name, memberPathSeparatorConstant+defaults.DescMemberName):
		return defaults.RepoDbMemberTypeDesc
	case strings.HasSuffix(name, memberPathSeparatorConstant+defaults.FilesMemberName):
		return defaults.RepoDbMemberTypeFiles
	default:
		return defaults.RepoDbMemberTypeUnknown
	}
}

// ExtractMemberPackageName derives the package name from a member name such as
// "foo-bar-1.0.0-42/desc". An empty string is returned when the name carries no
// pkgver and pkgrel.
func ExtractMemberPackageName(name string) string {
	directoryName := normalizeMemberName(name)
	directoryName = strings.TrimSuffix(directoryName, memberPathSeparatorConstant+defaults.DescMemberName)
	directoryName = strings.TrimSuffix(directoryName, memberPathSeparatorConstant+defaults.FilesMemberName)
	directoryName = strings.TrimSuffix(directoryName, memberPathSeparatorConstant)

	components := strings.Split(directoryName, memberNameSeparatorConstant)
	if len(components) <= memberVersionComponentsConstant {
		return ""
	}
	return strings.Join(components[:len(components)-memberVersionComponentsConstant], memberNameSeparatorConstant)
}

func normalizeMemberName(name string) string {
	return strings.TrimPrefix(name, memberCurrentDirectoryConstant)
}
