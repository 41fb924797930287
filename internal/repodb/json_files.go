package repodb

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/Cyberx9901/arch-repo-management/internal/defaults"
	"github.com/Cyberx9901/arch-repo-management/internal/models"
	"github.com/Cyberx9901/arch-repo-management/internal/repoerrors"
)

const (
	jsonFilePatternConstant         = "*.json"
	jsonFileExtensionConstant       = ".json"
	jsonIndentConstant              = "  "
	noJSONFilesTemplateConstant     = "no JSON files found in '%s'"
	listJSONErrorTemplateConstant   = "unable to list JSON files: %w"
	readJSONErrorTemplateConstant   = "unable to read JSON file: %w"
	decodeJSONErrorTemplateConstant = "unable to decode JSON file: %w"
	encodeJSONErrorTemplateConstant = "unable to encode pkgbase '%s': %w"
	writeJSONErrorTemplateConstant  = "unable to write JSON file: %w"
)

// JSONFilesInDirectory lists the JSON files directly inside path in lexical order.
func JSONFilesInDirectory(path string) ([]string, error) {
	matches, globError := filepath.Glob(filepath.Join(path, jsonFilePatternConstant))
	if globError != nil {
		return nil, repoerrors.New(repoerrors.ErrFile, path, fmt.Errorf(listJSONErrorTemplateConstant, globError))
	}

	jsonFiles := make([]string, 0, len(matches))
	for _, match := range matches {
		info, statError := os.Stat(match)
		if statError != nil || !info.Mode().IsRegular() {
			continue
		}
		jsonFiles = append(jsonFiles, match)
	}
	if len(jsonFiles) == 0 {
		return nil, repoerrors.Newf(repoerrors.ErrFileNotFound, path, noJSONFilesTemplateConstant, path)
	}

	sort.Strings(jsonFiles)
	return jsonFiles, nil
}

// ReadPackageBaseJSONFile decodes and validates a pkgbase document.
func ReadPackageBaseJSONFile(path string) (models.OutputPackageBase, error) {
	content, readError := os.ReadFile(path)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return models.OutputPackageBase{}, repoerrors.New(repoerrors.ErrFileNotFound, path, readError)
		}
		return models.OutputPackageBase{}, repoerrors.New(repoerrors.ErrFile, path, fmt.Errorf(readJSONErrorTemplateConstant, readError))
	}

	var packageBase models.OutputPackageBase
	if decodeError := json.Unmarshal(content, &packageBase); decodeError != nil {
		return models.OutputPackageBase{}, repoerrors.New(repoerrors.ErrFile, path, fmt.Errorf(decodeJSONErrorTemplateConstant, decodeError))
	}
	if validationError := packageBase.Validate(); validationError != nil {
		return models.OutputPackageBase{}, repoerrors.New(repoerrors.ErrValidation, path, validationError)
	}
	return packageBase, nil
}

// PackageBaseJSONFileName returns the file name of a pkgbase document.
func PackageBaseJSONFileName(base string) string {
	return base + jsonFileExtensionConstant
}

// EncodePackageBase renders a pkgbase document with two space indentation.
// The encoder terminates the document with a newline.
func EncodePackageBase(packageBase models.OutputPackageBase) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", jsonIndentConstant)
	if encodeError := encoder.Encode(packageBase); encodeError != nil {
		return nil, fmt.Errorf(encodeJSONErrorTemplateConstant, packageBase.Base, encodeError)
	}
	return buffer.Bytes(), nil
}

// WritePackageBaseJSONFile writes packageBase as <base>.json inside directory.
func WritePackageBaseJSONFile(directory string, packageBase models.OutputPackageBase) (string, error) {
	content, encodeError := EncodePackageBase(packageBase)
	if encodeError != nil {
		return "", encodeError
	}

	outputPath := filepath.Join(directory, PackageBaseJSONFileName(packageBase.Base))
	if writeError := os.WriteFile(outputPath, content, defaults.DBFileMode); writeError != nil {
		return "", repoerrors.New(repoerrors.ErrFile, outputPath, fmt.Errorf(writeJSONErrorTemplateConstant, writeError))
	}
	return outputPath, nil
}
