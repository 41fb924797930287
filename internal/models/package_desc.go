package models

import (
	"fmt"
	"strconv"

	"github.com/Cyberx9901/arch-repo-management/internal/repoerrors"
)

const (
	unknownSectionKeyTemplateConstant   = "unknown section key: %s"
	scalarSectionValuesTemplateConstant = "section '%s' expects a single value, got %d"
	integerSectionValueTemplateConstant = "section '%s' expects an integer, got '%s'"
)

// PackageDesc holds every section of a desc entry in a repository database.
type PackageDesc struct {
	Arch         string   `json:"arch" validate:"required"`
	Backup       []string `json:"backup,omitempty"`
	Base         string   `json:"base" validate:"required,pkgname"`
	BuildDate    int64    `json:"builddate" validate:"min=0"`
	CheckDepends []string `json:"checkdepends,omitempty"`
	Conflicts    []string `json:"conflicts,omitempty"`
	CSize        int64    `json:"csize" validate:"min=0"`
	Depends      []string `json:"depends,omitempty"`
	Desc         string   `json:"desc" validate:"required"`
	FileName     string   `json:"filename" validate:"required"`
	Groups       []string `json:"groups,omitempty"`
	ISize        int64    `json:"isize" validate:"min=0"`
	License      []string `json:"license" validate:"required,min=1,dive,required"`
	MakeDepends  []string `json:"makedepends,omitempty"`
	Md5Sum       string   `json:"md5sum" validate:"required"`
	Name         string   `json:"name" validate:"required,pkgname"`
	OptDepends   []string `json:"optdepends,omitempty"`
	Packager     string   `json:"packager" validate:"required"`
	PgpSig       string   `json:"pgpsig,omitempty"`
	Provides     []string `json:"provides,omitempty"`
	Replaces     []string `json:"replaces,omitempty"`
	Sha256Sum    string   `json:"sha256sum" validate:"required"`
	URL          string   `json:"url" validate:"required"`
	Version      string   `json:"version" validate:"required,pkgversion"`
}

// Files holds the content of a files entry in a repository database.
type Files struct {
	Files []string `json:"files,omitempty"`
}

// Validate checks the desc against its invariants.
func (desc PackageDesc) Validate() error {
	return Validate(desc)
}

// SetSection assigns the values of the section identified by its JSON key.
func (desc *PackageDesc) SetSection(key string, values []string) error {
	if listField := desc.listField(key); listField != nil {
		*listField = append([]string(nil), values...)
		return nil
	}

	if integerField := desc.integerField(key); integerField != nil {
		value, singleError := singleSectionValue(key, values)
		if singleError != nil {
			return singleError
		}
		parsedValue, parseError := strconv.ParseInt(value, 10, 64)
		if parseError != nil {
			return repoerrors.Newf(repoerrors.ErrValidation, "", integerSectionValueTemplateConstant, key, value)
		}
		*integerField = parsedValue
		return nil
	}

	if stringField := desc.stringField(key); stringField != nil {
		value, singleError := singleSectionValue(key, values)
		if singleError != nil {
			return singleError
		}
		*stringField = value
		return nil
	}

	return fmt.Errorf(unknownSectionKeyTemplateConstant, key)
}

// SectionValues returns the values of the section identified by its JSON key.
// Unset scalar fields and empty lists yield nil.
func (desc PackageDesc) SectionValues(key string) []string {
	if listField := desc.listField(key); listField != nil {
		if len(*listField) == 0 {
			return nil
		}
		return append([]string(nil), (*listField)...)
	}
	if integerField := desc.integerField(key); integerField != nil {
		return []string{strconv.FormatInt(*integerField, 10)}
	}
	if stringField := desc.stringField(key); stringField != nil {
		if len(*stringField) == 0 {
			return nil
		}
		return []string{*stringField}
	}
	return nil
}

// OutputPackage converts the desc, and optionally its files entry, into the per-package JSON model.
func (desc PackageDesc) OutputPackage(files *Files) OutputPackage {
	outputPackage := OutputPackage{
		Arch:       desc.Arch,
		Backup:     desc.Backup,
		BuildDate:  desc.BuildDate,
		Conflicts:  desc.Conflicts,
		CSize:      desc.CSize,
		Depends:    desc.Depends,
		Desc:       desc.Desc,
		FileName:   desc.FileName,
		Groups:     desc.Groups,
		ISize:      desc.ISize,
		License:    desc.License,
		Md5Sum:     desc.Md5Sum,
		Name:       desc.Name,
		OptDepends: desc.OptDepends,
		PgpSig:     desc.PgpSig,
		Provides:   desc.Provides,
		Replaces:   desc.Replaces,
		Sha256Sum:  desc.Sha256Sum,
		URL:        desc.URL,
	}
	if files != nil {
		outputPackage.Files = files.Files
	}
	return outputPackage
}

func (desc *PackageDesc) listField(key string) *[]string {
	switch key {
	case "backup":
		return &desc.Backup
	case "checkdepends":
		return &desc.CheckDepends
	case "conflicts":
		return &desc.Conflicts
	case "depends":
		return &desc.Depends
	case "groups":
		return &desc.Groups
	case "license":
		return &desc.License
	case "makedepends":
		return &desc.MakeDepends
	case "optdepends":
		return &desc.OptDepends
	case "provides":
		return &desc.Provides
	case "replaces":
		return &desc.Replaces
	}
	return nil
}

func (desc *PackageDesc) integerField(key string) *int64 {
	switch key {
	case "builddate":
		return &desc.BuildDate
	case "csize":
		return &desc.CSize
	case "isize":
		return &desc.ISize
	}
	return nil
}

func (desc *PackageDesc) stringField(key string) *string {
	switch key {
	case "arch":
		return &desc.Arch
	case "base":
		return &desc.Base
	case "desc":
		return &desc.Desc
	case "filename":
		return &desc.FileName
	case "md5sum":
		return &desc.Md5Sum
	case "name":
		return &desc.Name
	case "packager":
		return &desc.Packager
	case "pgpsig":
		return &desc.PgpSig
	case "sha256sum":
		return &desc.Sha256Sum
	case "url":
		return &desc.URL
	case "version":
		return &desc.Version
	}
	return nil
}

func singleSectionValue(key string, values []string) (string, error) {
	switch len(values) {
	case 0:
		return "", nil
	case 1:
		return values[0], nil
	default:
		return "", repoerrors.Newf(repoerrors.ErrValidation, "", scalarSectionValuesTemplateConstant, key, len(values))
	}
}
