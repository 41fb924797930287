package defaults

import (
	"fmt"
	"strings"
)

const (
	descSectionBaseConstant         = "%BASE%"
	descSectionVersionConstant      = "%VERSION%"
	descSectionMakeDependsConstant  = "%MAKEDEPENDS%"
	descSectionCheckDependsConstant = "%CHECKDEPENDS%"
	descSectionFileNameConstant     = "%FILENAME%"
	descSectionNameConstant         = "%NAME%"
	descSectionDescConstant         = "%DESC%"
	descSectionGroupsConstant       = "%GROUPS%"
	descSectionCSizeConstant        = "%CSIZE%"
	descSectionISizeConstant        = "%ISIZE%"
	descSectionMd5SumConstant       = "%MD5SUM%"
	descSectionSha256SumConstant    = "%SHA256SUM%"
	descSectionPgpSigConstant       = "%PGPSIG%"
	descSectionURLConstant          = "%URL%"
	descSectionLicenseConstant      = "%LICENSE%"
	descSectionArchConstant         = "%ARCH%"
	descSectionBuildDateConstant    = "%BUILDDATE%"
	descSectionPackagerConstant     = "%PACKAGER%"
	descSectionReplacesConstant     = "%REPLACES%"
	descSectionConflictsConstant    = "%CONFLICTS%"
	descSectionProvidesConstant     = "%PROVIDES%"
	descSectionDependsConstant      = "%DEPENDS%"
	descSectionOptDependsConstant   = "%OPTDEPENDS%"
	descSectionBackupConstant       = "%BACKUP%"
	filesSectionFilesConstant       = "%FILES%"

	sectionMarkerConstant = "%"

	unsupportedCompressionTemplateConstant  = "unsupported compression: %s"
	unsupportedDatabaseTypeTemplateConstant = "unsupported database type: %s"
)

// Archive entry ownership and permissions used for generated repository databases.
const (
	DBUser     = "root"
	DBGroup    = "root"
	DBDirMode  = 0o755
	DBFileMode = 0o644
)

// Locations of the system wide settings file and its override directory.
const (
	SettingsLocation         = "/etc/arch-repo-management/config.toml"
	SettingsOverrideLocation = "/etc/arch-repo-management/config.d"
)

// Member file names inside a repository database package directory.
const (
	DescMemberName  = "desc"
	FilesMemberName = "files"
)

// DescJSON maps the sections of a desc entry to their JSON keys.
var DescJSON = map[string]string{
	descSectionBaseConstant:         "base",
	descSectionVersionConstant:      "version",
	descSectionMakeDependsConstant:  "makedepends",
	descSectionCheckDependsConstant: "checkdepends",
	descSectionFileNameConstant:     "filename",
	descSectionNameConstant:         "name",
	descSectionDescConstant:         "desc",
	descSectionGroupsConstant:       "groups",
	descSectionCSizeConstant:        "csize",
	descSectionISizeConstant:        "isize",
	descSectionMd5SumConstant:       "md5sum",
	descSectionSha256SumConstant:    "sha256sum",
	descSectionPgpSigConstant:       "pgpsig",
	descSectionURLConstant:          "url",
	descSectionLicenseConstant:      "license",
	descSectionArchConstant:         "arch",
	descSectionBuildDateConstant:    "builddate",
	descSectionPackagerConstant:     "packager",
	descSectionReplacesConstant:     "replaces",
	descSectionConflictsConstant:    "conflicts",
	descSectionProvidesConstant:     "provides",
	descSectionDependsConstant:      "depends",
	descSectionOptDependsConstant:   "optdepends",
	descSectionBackupConstant:       "backup",
}

// FilesJSON maps the sections of a files entry to their JSON keys.
var FilesJSON = map[string]string{
	filesSectionFilesConstant: "files",
}

// DescSectionOrder lists desc sections in the order repo-add writes them.
var DescSectionOrder = []string{
	descSectionFileNameConstant,
	descSectionNameConstant,
	descSectionBaseConstant,
	descSectionVersionConstant,
	descSectionDescConstant,
	descSectionGroupsConstant,
	descSectionCSizeConstant,
	descSectionISizeConstant,
	descSectionMd5SumConstant,
	descSectionSha256SumConstant,
	descSectionPgpSigConstant,
	descSectionURLConstant,
	descSectionLicenseConstant,
	descSectionArchConstant,
	descSectionBuildDateConstant,
	descSectionPackagerConstant,
	descSectionReplacesConstant,
	descSectionConflictsConstant,
	descSectionProvidesConstant,
	descSectionDependsConstant,
	descSectionOptDependsConstant,
	descSectionMakeDependsConstant,
	descSectionCheckDependsConstant,
	descSectionBackupConstant,
}

// SectionHeader wraps a bare section name (e.g. "FILES") in percent markers.
func SectionHeader(name string) string {
	return sectionMarkerConstant + name + sectionMarkerConstant
}

// SectionName strips the percent markers from a section header.
func SectionName(header string) string {
	return strings.TrimSuffix(strings.TrimPrefix(header, sectionMarkerConstant), sectionMarkerConstant)
}

// FilesHeader is the mandatory first line of a files entry.
const FilesHeader = filesSectionFilesConstant

// RepoDbMemberType identifies the kind of a repository database member.
type RepoDbMemberType string

// Supported repository database member types.
const (
	RepoDbMemberTypeUnknown RepoDbMemberType = "unknown"
	RepoDbMemberTypeDesc    RepoDbMemberType = "desc"
	RepoDbMemberTypeFiles   RepoDbMemberType = "files"
)

// RepoDbType identifies the flavour of a repository database.
type RepoDbType string

// Supported repository database flavours.
const (
	RepoDbTypeDefault RepoDbType = "default"
	RepoDbTypeFiles   RepoDbType = "files"
)

// ParseRepoDbType converts user input into a RepoDbType.
func ParseRepoDbType(value string) (RepoDbType, error) {
	switch RepoDbType(strings.ToLower(strings.TrimSpace(value))) {
	case "", RepoDbTypeDefault:
		return RepoDbTypeDefault, nil
	case RepoDbTypeFiles:
		return RepoDbTypeFiles, nil
	default:
		return "", fmt.Errorf(unsupportedDatabaseTypeTemplateConstant, value)
	}
}

// UnmarshalText parses configuration values into a RepoDbType.
func (dbType *RepoDbType) UnmarshalText(text []byte) error {
	parsedType, parseError := ParseRepoDbType(string(text))
	if parseError != nil {
		return parseError
	}
	*dbType = parsedType
	return nil
}

// Compression identifies the stream compression of a repository database.
type Compression string

// Supported compressions.
const (
	CompressionGzip  Compression = "gz"
	CompressionBzip2 Compression = "bz2"
	CompressionXz    Compression = "xz"
	CompressionZstd  Compression = "zst"
	CompressionNone  Compression = "none"
)

// DefaultCompression is used when no compression is configured.
const DefaultCompression = CompressionGzip

// SupportedCompressions lists every accepted compression value.
func SupportedCompressions() []string {
	return []string{
		string(CompressionGzip),
		string(CompressionBzip2),
		string(CompressionXz),
		string(CompressionZstd),
		string(CompressionNone),
	}
}

// ParseCompression converts user input into a Compression.
func ParseCompression(value string) (Compression, error) {
	normalized := Compression(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case "":
		return DefaultCompression, nil
	case CompressionGzip, CompressionBzip2, CompressionXz, CompressionZstd, CompressionNone:
		return normalized, nil
	default:
		return "", fmt.Errorf(unsupportedCompressionTemplateConstant, value)
	}
}

// UnmarshalText parses configuration values into a Compression.
func (compression *Compression) UnmarshalText(text []byte) error {
	parsedCompression, parseError := ParseCompression(string(text))
	if parseError != nil {
		return parseError
	}
	*compression = parsedCompression
	return nil
}
