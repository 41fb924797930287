package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Cyberx9901/arch-repo-management/internal/repoerrors"
	pathutils "github.com/Cyberx9901/arch-repo-management/internal/utils/path"
)

const (
	noRepositoriesMessageConstant           = "at least one repository must be configured"
	repositoryInvalidTemplateConstant       = "repository '%s' is invalid: %w"
	baseInvalidTemplateConstant             = "%s is invalid: %w"
	relativeDirectoryTemplateConstant       = "%s '%s' must be an absolute path"
	missingDirectoryTemplateConstant        = "%s '%s' is not an existing directory"
	duplicateRepositoryNameTemplateConstant = "repository name '%s' is used more than once"
	overlappingDirectoriesTemplateConstant  = "%s '%s' and %s '%s' must not be equal or nested"
	requiredValueMessageConstant            = "a value is required"
	mapstructureTagNameConstant             = "mapstructure"
)

// Directory roles checked for overlaps.
const (
	RoleManagementRepo  = "management_repo"
	RolePackagePool     = "package_pool"
	RoleSourcePool      = "source_pool"
	RolePackageRepoBase = "package_repo_base"
	RoleSourceRepoBase  = "source_repo_base"
	RoleRepository      = "repository"
)

// ManagementRepo is the git repository holding pkgbase JSON documents.
type ManagementRepo struct {
	Directory string `mapstructure:"directory" yaml:"directory" validate:"required"`
	URL       string `mapstructure:"url" yaml:"url" validate:"required,url"`
}

// PackageRepo configures one binary repository and its optional overrides.
type PackageRepo struct {
	Name           string          `mapstructure:"name" yaml:"name"`
	Architecture   string          `mapstructure:"architecture" yaml:"architecture,omitempty"`
	PackagePool    string          `mapstructure:"package_pool" yaml:"package_pool,omitempty"`
	SourcePool     string          `mapstructure:"source_pool" yaml:"source_pool,omitempty"`
	Staging        string          `mapstructure:"staging" yaml:"staging,omitempty"`
	Testing        string          `mapstructure:"testing" yaml:"testing,omitempty"`
	ManagementRepo *ManagementRepo `mapstructure:"management_repo" yaml:"management_repo,omitempty"`
}

// Settings holds the global defaults and the configured repositories.
type Settings struct {
	Architecture    string          `mapstructure:"architecture" yaml:"architecture,omitempty"`
	ManagementRepo  *ManagementRepo `mapstructure:"management_repo" yaml:"management_repo,omitempty"`
	Repositories    []PackageRepo   `mapstructure:"repositories" yaml:"repositories"`
	PackagePool     string          `mapstructure:"package_pool" yaml:"package_pool,omitempty"`
	SourcePool      string          `mapstructure:"source_pool" yaml:"source_pool,omitempty"`
	PackageRepoBase string          `mapstructure:"package_repo_base" yaml:"package_repo_base"`
	SourceRepoBase  string          `mapstructure:"source_repo_base" yaml:"source_repo_base"`
}

// ResolvedRepository is a repository with every global default applied.
type ResolvedRepository struct {
	Name             string         `yaml:"name" mapstructure:"name" validate:"required,excludesall=/"`
	Architecture     string         `yaml:"architecture" mapstructure:"architecture" validate:"required,excludesall=/"`
	ManagementRepo   ManagementRepo `yaml:"management_repo" mapstructure:"management_repo"`
	PackagePool      string         `yaml:"package_pool" mapstructure:"package_pool" validate:"required"`
	SourcePool       string         `yaml:"source_pool" mapstructure:"source_pool" validate:"required"`
	Staging          string         `yaml:"staging,omitempty" mapstructure:"staging" validate:"omitempty,excludesall=/"`
	Testing          string         `yaml:"testing,omitempty" mapstructure:"testing" validate:"omitempty,excludesall=/"`
	PackageDirectory string         `yaml:"package_directory" mapstructure:"package_directory"`
	SourceDirectory  string         `yaml:"source_directory" mapstructure:"source_directory"`
	StagingDirectory string         `yaml:"staging_directory,omitempty" mapstructure:"staging_directory"`
	TestingDirectory string         `yaml:"testing_directory,omitempty" mapstructure:"testing_directory"`
}

type roleDirectory struct {
	role string
	path string
}

var settingsValidator = newSettingsValidator()

func newSettingsValidator() *validator.Validate {
	instance := validator.New(validator.WithRequiredStructEnabled())
	instance.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get(mapstructureTagNameConstant), ",", 2)[0]
		if len(name) == 0 {
			return field.Name
		}
		return name
	})
	return instance
}

// Validate checks the settings without returning the resolved repositories.
func (settings Settings) Validate() error {
	_, resolveError := settings.Resolved()
	return resolveError
}

// Resolved applies the global defaults to every repository and validates the
// resulting layout.
func (settings Settings) Resolved() ([]ResolvedRepository, error) {
	return settings.ResolvedWith(pathutils.NewDirectoryResolver())
}

// ResolvedWith is Resolved using the provided directory resolver.
func (settings Settings) ResolvedWith(resolver *pathutils.DirectoryResolver) ([]ResolvedRepository, error) {
	if len(settings.Repositories) == 0 {
		return nil, repoerrors.Newf(repoerrors.ErrValidation, "", noRepositoriesMessageConstant)
	}

	packageRepoBase := resolver.Normalize(settings.PackageRepoBase)
	sourceRepoBase := resolver.Normalize(settings.SourceRepoBase)
	roleDirectories := []roleDirectory{
		{role: RolePackageRepoBase, path: packageRepoBase},
		{role: RoleSourceRepoBase, path: sourceRepoBase},
	}
	if baseError := requireExistingDirectories(roleDirectories); baseError != nil {
		return nil, baseError
	}

	resolvedRepositories := make([]ResolvedRepository, 0, len(settings.Repositories))
	repositoryNames := make(map[string]struct{})
	for _, repository := range settings.Repositories {
		resolvedRepository := settings.resolveRepository(repository, resolver, packageRepoBase, sourceRepoBase)
		if validationError := settingsValidator.Struct(resolvedRepository); validationError != nil {
			return nil, repoerrors.Newf(repoerrors.ErrValidation, "", repositoryInvalidTemplateConstant, resolvedRepository.Name, validationError)
		}

		repositoryDirectories := []roleDirectory{
			{role: RoleManagementRepo, path: resolvedRepository.ManagementRepo.Directory},
			{role: RolePackagePool, path: resolvedRepository.PackagePool},
			{role: RoleSourcePool, path: resolvedRepository.SourcePool},
		}
		if directoryError := requireExistingDirectories(repositoryDirectories); directoryError != nil {
			return nil, directoryError
		}
		roleDirectories = append(roleDirectories, repositoryDirectories...)

		for _, name := range []string{resolvedRepository.Name, resolvedRepository.Staging, resolvedRepository.Testing} {
			if len(name) == 0 {
				continue
			}
			if _, seen := repositoryNames[name]; seen {
				return nil, repoerrors.Newf(repoerrors.ErrValidation, "", duplicateRepositoryNameTemplateConstant, name)
			}
			repositoryNames[name] = struct{}{}
			roleDirectories = append(roleDirectories,
				roleDirectory{role: RoleRepository, path: filepath.Join(packageRepoBase, name, resolvedRepository.Architecture)},
				roleDirectory{role: RoleRepository, path: filepath.Join(sourceRepoBase, name, resolvedRepository.Architecture)},
			)
		}

		resolvedRepositories = append(resolvedRepositories, resolvedRepository)
	}

	if overlapError := ensureSeparatedRoles(roleDirectories); overlapError != nil {
		return nil, overlapError
	}

	return resolvedRepositories, nil
}

func (settings Settings) resolveRepository(repository PackageRepo, resolver *pathutils.DirectoryResolver, packageRepoBase string, sourceRepoBase string) ResolvedRepository {
	managementRepo := settings.ManagementRepo
	if repository.ManagementRepo != nil {
		managementRepo = repository.ManagementRepo
	}

	resolvedRepository := ResolvedRepository{
		Name:         repository.Name,
		Architecture: firstNonEmpty(repository.Architecture, settings.Architecture),
		PackagePool:  resolver.Normalize(firstNonEmpty(repository.PackagePool, settings.PackagePool)),
		SourcePool:   resolver.Normalize(firstNonEmpty(repository.SourcePool, settings.SourcePool)),
		Staging:      repository.Staging,
		Testing:      repository.Testing,
	}
	if managementRepo != nil {
		resolvedRepository.ManagementRepo = ManagementRepo{
			Directory: resolver.Normalize(managementRepo.Directory),
			URL:       managementRepo.URL,
		}
	}

	resolvedRepository.PackageDirectory = filepath.Join(packageRepoBase, resolvedRepository.Name, resolvedRepository.Architecture)
	resolvedRepository.SourceDirectory = filepath.Join(sourceRepoBase, resolvedRepository.Name, resolvedRepository.Architecture)
	if len(resolvedRepository.Staging) > 0 {
		resolvedRepository.StagingDirectory = filepath.Join(packageRepoBase, resolvedRepository.Staging, resolvedRepository.Architecture)
	}
	if len(resolvedRepository.Testing) > 0 {
		resolvedRepository.TestingDirectory = filepath.Join(packageRepoBase, resolvedRepository.Testing, resolvedRepository.Architecture)
	}
	return resolvedRepository
}

func requireExistingDirectories(roleDirectories []roleDirectory) error {
	for _, candidate := range roleDirectories {
		if len(candidate.path) == 0 {
			return repoerrors.New(repoerrors.ErrValidation, "", fmt.Errorf(baseInvalidTemplateConstant, candidate.role, errors.New(requiredValueMessageConstant)))
		}
		if !filepath.IsAbs(candidate.path) {
			return repoerrors.Newf(repoerrors.ErrValidation, "", relativeDirectoryTemplateConstant, candidate.role, candidate.path)
		}
		if !pathutils.ExistingDirectory(candidate.path) {
			return repoerrors.Newf(repoerrors.ErrValidation, "", missingDirectoryTemplateConstant, candidate.role, candidate.path)
		}
	}
	return nil
}

func ensureSeparatedRoles(roleDirectories []roleDirectory) error {
	for firstIndex, first := range roleDirectories {
		for _, second := range roleDirectories[firstIndex+1:] {
			if first.role == second.role || isRepositoryBelowBase(first, second) || isRepositoryBelowBase(second, first) {
				continue
			}
			if pathutils.Overlaps(first.path, second.path) {
				return repoerrors.Newf(repoerrors.ErrValidation, "", overlappingDirectoriesTemplateConstant, first.role, first.path, second.role, second.path)
			}
		}
	}
	return nil
}

func isRepositoryBelowBase(repository roleDirectory, base roleDirectory) bool {
	if repository.role != RoleRepository {
		return false
	}
	return (base.role == RolePackageRepoBase || base.role == RoleSourceRepoBase) && pathutils.IsWithin(base.path, repository.path)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmedValue := strings.TrimSpace(value); len(trimmedValue) > 0 {
			return trimmedValue
		}
	}
	return ""
}
