package models

import (
	"fmt"

	"github.com/Cyberx9901/arch-repo-management/internal/repoerrors"
)

const (
	duplicatePackageNameTemplateConstant = "package '%s' is listed more than once in pkgbase '%s'"
)

// OutputPackage is the JSON model of a single package inside a pkgbase document.
type OutputPackage struct {
	Arch       string   `json:"arch" validate:"required"`
	Backup     []string `json:"backup,omitempty"`
	BuildDate  int64    `json:"builddate" validate:"min=0"`
	Conflicts  []string `json:"conflicts,omitempty"`
	CSize      int64    `json:"csize" validate:"min=0"`
	Depends    []string `json:"depends,omitempty"`
	Desc       string   `json:"desc" validate:"required"`
	FileName   string   `json:"filename" validate:"required"`
	Files      []string `json:"files,omitempty"`
	Groups     []string `json:"groups,omitempty"`
	ISize      int64    `json:"isize" validate:"min=0"`
	License    []string `json:"license" validate:"required,min=1,dive,required"`
	Md5Sum     string   `json:"md5sum" validate:"required"`
	Name       string   `json:"name" validate:"required,pkgname"`
	OptDepends []string `json:"optdepends,omitempty"`
	PgpSig     string   `json:"pgpsig,omitempty"`
	Provides   []string `json:"provides,omitempty"`
	Replaces   []string `json:"replaces,omitempty"`
	Sha256Sum  string   `json:"sha256sum" validate:"required"`
	URL        string   `json:"url" validate:"required"`
}

// OutputPackageBase is the JSON model of a pkgbase and all packages built from it.
type OutputPackageBase struct {
	Base         string          `json:"base" validate:"required,pkgname"`
	CheckDepends []string        `json:"checkdepends,omitempty"`
	MakeDepends  []string        `json:"makedepends,omitempty"`
	Packager     string          `json:"packager" validate:"required"`
	Packages     []OutputPackage `json:"packages" validate:"required,min=1,dive"`
	Version      string          `json:"version" validate:"required,pkgversion"`
}

// PackageModels pairs the desc and files entries of one package.
type PackageModels struct {
	Desc  PackageDesc
	Files Files
}

// Validate checks the pkgbase, each of its packages, and package name uniqueness.
func (packageBase OutputPackageBase) Validate() error {
	if validationError := Validate(packageBase); validationError != nil {
		return validationError
	}

	seenNames := make(map[string]struct{}, len(packageBase.Packages))
	for _, outputPackage := range packageBase.Packages {
		if _, seen := seenNames[outputPackage.Name]; seen {
			return repoerrors.New(repoerrors.ErrValidation, "", fmt.Errorf(duplicatePackageNameTemplateConstant, outputPackage.Name, packageBase.Base))
		}
		seenNames[outputPackage.Name] = struct{}{}
	}

	return nil
}

// PackagesAsModels rebuilds the desc and files entries of every package in the pkgbase.
func (packageBase OutputPackageBase) PackagesAsModels() []PackageModels {
	packageModels := make([]PackageModels, 0, len(packageBase.Packages))
	for _, outputPackage := range packageBase.Packages {
		packageModels = append(packageModels, PackageModels{
			Desc: PackageDesc{
				Arch:         outputPackage.Arch,
				Backup:       outputPackage.Backup,
				Base:         packageBase.Base,
				BuildDate:    outputPackage.BuildDate,
				CheckDepends: packageBase.CheckDepends,
				Conflicts:    outputPackage.Conflicts,
				CSize:        outputPackage.CSize,
				Depends:      outputPackage.Depends,
				Desc:         outputPackage.Desc,
				FileName:     outputPackage.FileName,
				Groups:       outputPackage.Groups,
				ISize:        outputPackage.ISize,
				License:      outputPackage.License,
				MakeDepends:  packageBase.MakeDepends,
				Md5Sum:       outputPackage.Md5Sum,
				Name:         outputPackage.Name,
				OptDepends:   outputPackage.OptDepends,
				Packager:     packageBase.Packager,
				PgpSig:       outputPackage.PgpSig,
				Provides:     outputPackage.Provides,
				Replaces:     outputPackage.Replaces,
				Sha256Sum:    outputPackage.Sha256Sum,
				URL:          outputPackage.URL,
				Version:      packageBase.Version,
			},
			Files: Files{Files: outputPackage.Files},
		})
	}
	return packageModels
}

// NewOutputPackageBase starts a pkgbase document from the desc of its first package.
func NewOutputPackageBase(desc PackageDesc, files *Files) OutputPackageBase {
	return OutputPackageBase{
		Base:         desc.Base,
		CheckDepends: desc.CheckDepends,
		MakeDepends:  desc.MakeDepends,
		Packager:     desc.Packager,
		Version:      desc.Version,
		Packages:     []OutputPackage{desc.OutputPackage(files)},
	}
}
