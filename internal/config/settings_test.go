package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Cyberx9901/arch-repo-management/internal/config"
	"github.com/Cyberx9901/arch-repo-management/internal/repoerrors"
	pathutils "github.com/Cyberx9901/arch-repo-management/internal/utils/path"
)

const (
	architectureConstant        = "x86_64"
	parentURLConstant           = "https://parent.foo.bar"
	childURLConstant            = "https://child.foo.bar"
	managementDirectoryConstant = "management"
	packagePoolConstant         = "package_pool"
	sourcePoolConstant          = "source_pool"
	packageRepoBaseConstant     = "repos"
	sourceRepoBaseConstant      = "sources"
	childManagementConstant     = "child_management"
	childPackagePoolConstant    = "child_package_pool"
	childSourcePoolConstant     = "child_source_pool"
)

func createDirectories(testInstance *testing.T, root string, names ...string) {
	testInstance.Helper()
	for _, name := range names {
		require.NoError(testInstance, os.MkdirAll(filepath.Join(root, name), 0o755))
	}
}

func baseSettings(root string) config.Settings {
	return config.Settings{
		Architecture:    architectureConstant,
		ManagementRepo:  &config.ManagementRepo{Directory: filepath.Join(root, managementDirectoryConstant), URL: parentURLConstant},
		Repositories:    []config.PackageRepo{{Name: "core", Staging: "core-staging", Testing: "core-testing"}},
		PackagePool:     filepath.Join(root, packagePoolConstant),
		SourcePool:      filepath.Join(root, sourcePoolConstant),
		PackageRepoBase: filepath.Join(root, packageRepoBaseConstant),
		SourceRepoBase:  filepath.Join(root, sourceRepoBaseConstant),
	}
}

func TestSettingsResolvedAppliesDefaults(testInstance *testing.T) {
	root := testInstance.TempDir()
	createDirectories(testInstance, root, managementDirectoryConstant, packagePoolConstant, sourcePoolConstant, packageRepoBaseConstant, sourceRepoBaseConstant)

	resolvedRepositories, resolveError := baseSettings(root).Resolved()
	require.NoError(testInstance, resolveError)
	require.Len(testInstance, resolvedRepositories, 1)

	repository := resolvedRepositories[0]
	require.Equal(testInstance, "core", repository.Name)
	require.Equal(testInstance, architectureConstant, repository.Architecture)
	require.Equal(testInstance, filepath.Join(root, managementDirectoryConstant), repository.ManagementRepo.Directory)
	require.Equal(testInstance, parentURLConstant, repository.ManagementRepo.URL)
	require.Equal(testInstance, filepath.Join(root, packagePoolConstant), repository.PackagePool)
	require.Equal(testInstance, filepath.Join(root, sourcePoolConstant), repository.SourcePool)
	require.Equal(testInstance, filepath.Join(root, packageRepoBaseConstant, "core", architectureConstant), repository.PackageDirectory)
	require.Equal(testInstance, filepath.Join(root, sourceRepoBaseConstant, "core", architectureConstant), repository.SourceDirectory)
	require.Equal(testInstance, filepath.Join(root, packageRepoBaseConstant, "core-staging", architectureConstant), repository.StagingDirectory)
	require.Equal(testInstance, filepath.Join(root, packageRepoBaseConstant, "core-testing", architectureConstant), repository.TestingDirectory)
}

func TestSettingsResolvedAppliesOverrides(testInstance *testing.T) {
	root := testInstance.TempDir()
	createDirectories(testInstance, root,
		managementDirectoryConstant, packagePoolConstant, sourcePoolConstant, packageRepoBaseConstant, sourceRepoBaseConstant,
		childManagementConstant, childPackagePoolConstant, childSourcePoolConstant,
	)

	settings := baseSettings(root)
	settings.Repositories = append(settings.Repositories, config.PackageRepo{
		Name:           "extra",
		Architecture:   "aarch64",
		PackagePool:    filepath.Join(root, childPackagePoolConstant),
		SourcePool:     filepath.Join(root, childSourcePoolConstant),
		ManagementRepo: &config.ManagementRepo{Directory: filepath.Join(root, childManagementConstant), URL: childURLConstant},
	})

	resolvedRepositories, resolveError := settings.Resolved()
	require.NoError(testInstance, resolveError)
	require.Len(testInstance, resolvedRepositories, 2)

	extra := resolvedRepositories[1]
	require.Equal(testInstance, "aarch64", extra.Architecture)
	require.Equal(testInstance, childURLConstant, extra.ManagementRepo.URL)
	require.Equal(testInstance, filepath.Join(root, childPackagePoolConstant), extra.PackagePool)
	require.Equal(testInstance, filepath.Join(root, childSourcePoolConstant), extra.SourcePool)
	require.Empty(testInstance, extra.StagingDirectory)
}

func TestSettingsResolvedExpandsHomeDirectory(testInstance *testing.T) {
	root := testInstance.TempDir()
	createDirectories(testInstance, root, managementDirectoryConstant, packagePoolConstant, sourcePoolConstant, packageRepoBaseConstant, sourceRepoBaseConstant)

	settings := baseSettings(root)
	settings.PackageRepoBase = "~/" + packageRepoBaseConstant
	resolver := pathutils.NewDirectoryResolverWithProvider(func() (string, error) { return root, nil })

	resolvedRepositories, resolveError := settings.ResolvedWith(resolver)
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, filepath.Join(root, packageRepoBaseConstant, "core", architectureConstant), resolvedRepositories[0].PackageDirectory)
}

func TestSettingsValidateRejectsInvalidLayouts(testInstance *testing.T) {
	testCases := []struct {
		name        string
		directories []string
		mutate      func(root string, settings *config.Settings)
	}{
		{
			name: "no_repositories",
			mutate: func(_ string, settings *config.Settings) {
				settings.Repositories = nil
			},
		},
		{
			name: "no_architecture",
			mutate: func(_ string, settings *config.Settings) {
				settings.Architecture = ""
			},
		},
		{
			name: "no_management_repo",
			mutate: func(_ string, settings *config.Settings) {
				settings.ManagementRepo = nil
			},
		},
		{
			name: "invalid_management_repo_url",
			mutate: func(_ string, settings *config.Settings) {
				settings.ManagementRepo.URL = "not a url"
			},
		},
		{
			name: "no_package_pool",
			mutate: func(_ string, settings *config.Settings) {
				settings.PackagePool = ""
			},
		},
		{
			name: "no_source_pool",
			mutate: func(_ string, settings *config.Settings) {
				settings.SourcePool = ""
			},
		},
		{
			name: "missing_package_repo_base",
			mutate: func(root string, settings *config.Settings) {
				settings.PackageRepoBase = filepath.Join(root, "missing")
			},
		},
		{
			name: "relative_source_repo_base",
			mutate: func(_ string, settings *config.Settings) {
				settings.SourceRepoBase = sourceRepoBaseConstant
			},
		},
		{
			name: "missing_child_package_pool",
			mutate: func(root string, settings *config.Settings) {
				settings.Repositories[0].PackagePool = filepath.Join(root, childPackagePoolConstant)
			},
		},
		{
			name: "repository_name_equals_staging_name",
			mutate: func(_ string, settings *config.Settings) {
				settings.Repositories = append(settings.Repositories, config.PackageRepo{Name: "core-staging"})
			},
		},
		{
			name: "repository_name_equals_testing_name",
			mutate: func(_ string, settings *config.Settings) {
				settings.Repositories = append(settings.Repositories, config.PackageRepo{Name: "extra", Testing: "core"})
			},
		},
		{
			name: "staging_equals_testing",
			mutate: func(_ string, settings *config.Settings) {
				settings.Repositories[0].Testing = "core-staging"
			},
		},
		{
			name: "duplicate_repositories",
			mutate: func(_ string, settings *config.Settings) {
				settings.Repositories = append(settings.Repositories, config.PackageRepo{Name: "core"})
			},
		},
		{
			name: "repository_name_with_separator",
			mutate: func(_ string, settings *config.Settings) {
				settings.Repositories[0].Name = "core/extra"
			},
		},
		{
			name: "package_repo_base_equals_source_repo_base",
			mutate: func(_ string, settings *config.Settings) {
				settings.SourceRepoBase = settings.PackageRepoBase
			},
		},
		{
			name:        "source_repo_base_below_package_repo_base",
			directories: []string{filepath.Join(packageRepoBaseConstant, "sources")},
			mutate: func(root string, settings *config.Settings) {
				settings.SourceRepoBase = filepath.Join(root, packageRepoBaseConstant, "sources")
			},
		},
		{
			name:        "management_repo_below_package_repo_base",
			directories: []string{filepath.Join(packageRepoBaseConstant, managementDirectoryConstant)},
			mutate: func(root string, settings *config.Settings) {
				settings.ManagementRepo.Directory = filepath.Join(root, packageRepoBaseConstant, managementDirectoryConstant)
			},
		},
		{
			name:        "management_repo_below_source_pool",
			directories: []string{filepath.Join(sourcePoolConstant, managementDirectoryConstant)},
			mutate: func(root string, settings *config.Settings) {
				settings.ManagementRepo.Directory = filepath.Join(root, sourcePoolConstant, managementDirectoryConstant)
			},
		},
		{
			name:        "package_pool_below_source_pool",
			directories: []string{filepath.Join(sourcePoolConstant, packagePoolConstant)},
			mutate: func(root string, settings *config.Settings) {
				settings.PackagePool = filepath.Join(root, sourcePoolConstant, packagePoolConstant)
			},
		},
		{
			name: "source_pool_equals_package_pool",
			mutate: func(_ string, settings *config.Settings) {
				settings.SourcePool = settings.PackagePool
			},
		},
		{
			name:        "management_repo_inside_repository_directory",
			directories: []string{filepath.Join(packageRepoBaseConstant, "core", architectureConstant)},
			mutate: func(root string, settings *config.Settings) {
				settings.ManagementRepo.Directory = filepath.Join(root, packageRepoBaseConstant, "core", architectureConstant)
			},
		},
		{
			name:        "child_package_pool_below_management_repo",
			directories: []string{filepath.Join(managementDirectoryConstant, childPackagePoolConstant)},
			mutate: func(root string, settings *config.Settings) {
				settings.Repositories[0].PackagePool = filepath.Join(root, managementDirectoryConstant, childPackagePoolConstant)
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			root := subTest.TempDir()
			createDirectories(subTest, root, managementDirectoryConstant, packagePoolConstant, sourcePoolConstant, packageRepoBaseConstant, sourceRepoBaseConstant)
			createDirectories(subTest, root, testCase.directories...)

			settings := baseSettings(root)
			testCase.mutate(root, &settings)

			validationError := settings.Validate()
			require.Error(subTest, validationError)
			require.ErrorIs(subTest, validationError, repoerrors.ErrValidation)
		})
	}
}

func TestSettingsSharedRoleDirectoriesAreAccepted(testInstance *testing.T) {
	root := testInstance.TempDir()
	createDirectories(testInstance, root, managementDirectoryConstant, packagePoolConstant, sourcePoolConstant, packageRepoBaseConstant, sourceRepoBaseConstant)

	settings := baseSettings(root)
	settings.Repositories = append(settings.Repositories, config.PackageRepo{
		Name:        "extra",
		PackagePool: filepath.Join(root, packagePoolConstant),
	})
	require.NoError(testInstance, settings.Validate())
}
