package convert

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Cyberx9901/arch-repo-management/internal/defaults"
	"github.com/Cyberx9901/arch-repo-management/internal/models"
	"github.com/Cyberx9901/arch-repo-management/internal/repoerrors"
)

const (
	sectionMarkerConstant               = "%"
	missingFilesHeaderTemplateConstant  = "the 'files' data misses its header: '%s' was provided"
	valueOutsideSectionTemplateConstant = "the 'desc' data has a value outside of any section: '%s'"
	readDataErrorTemplateConstant       = "unable to read entry data: %w"
)

// ParseDesc reads a desc entry into a validated PackageDesc.
func ParseDesc(reader io.Reader) (models.PackageDesc, error) {
	sections, parseError := readSections(reader)
	if parseError != nil {
		return models.PackageDesc{}, parseError
	}

	desc := models.PackageDesc{}
	for _, currentSection := range sections {
		jsonKey, known := defaults.DescJSON[currentSection.header]
		if !known {
			continue
		}
		if assignError := desc.SetSection(jsonKey, currentSection.values); assignError != nil {
			return models.PackageDesc{}, assignError
		}
	}

	if validationError := desc.Validate(); validationError != nil {
		return models.PackageDesc{}, validationError
	}

	return desc, nil
}

// ParseFiles reads a files entry. The first line has to be the %FILES% header.
// Empty data yields an empty list.
func ParseFiles(reader io.Reader) (models.Files, error) {
	scanner := newLineScanner(reader)

	if !scanner.Scan() {
		if scanError := scanner.Err(); scanError != nil {
			return models.Files{}, fmt.Errorf(readDataErrorTemplateConstant, scanError)
		}
		return models.Files{Files: []string{}}, nil
	}

	headerLine := strings.TrimSpace(scanner.Text())
	if _, isHeader := defaults.FilesJSON[headerLine]; !isHeader {
		return models.Files{}, repoerrors.Newf(repoerrors.ErrValidation, "", missingFilesHeaderTemplateConstant, headerLine)
	}

	files := models.Files{Files: []string{}}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		if _, isHeader := defaults.FilesJSON[line]; isHeader {
			continue
		}
		files.Files = append(files.Files, line)
	}
	if scanError := scanner.Err(); scanError != nil {
		return models.Files{}, fmt.Errorf(readDataErrorTemplateConstant, scanError)
	}

	return files, nil
}

type section struct {
	header string
	values []string
}

func readSections(reader io.Reader) ([]section, error) {
	scanner := newLineScanner(reader)

	var sections []section
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		if startsSection(sections, line) {
			sections = append(sections, section{header: line})
			continue
		}

		if len(sections) == 0 {
			return nil, repoerrors.Newf(repoerrors.ErrValidation, "", valueOutsideSectionTemplateConstant, line)
		}
		lastIndex := len(sections) - 1
		sections[lastIndex].values = append(sections[lastIndex].values, line)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf(readDataErrorTemplateConstant, scanError)
	}

	return sections, nil
}

// startsSection reports whether line opens a new section. Known headers always
// do. Any other %NAME% line is the first value of a known section that has
// none yet, and opens an ignored section otherwise.
func startsSection(sections []section, line string) bool {
	if _, known := defaults.DescJSON[line]; known {
		return true
	}
	if !isSectionHeader(line) {
		return false
	}
	if len(sections) == 0 {
		return true
	}
	current := sections[len(sections)-1]
	_, currentKnown := defaults.DescJSON[current.header]
	return !currentKnown || len(current.values) > 0
}

func isSectionHeader(line string) bool {
	return len(line) > 2 && strings.HasPrefix(line, sectionMarkerConstant) && strings.HasSuffix(line, sectionMarkerConstant) && !strings.ContainsAny(line, " \t")
}

func newLineScanner(reader io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(reader)
	// PGPSIG values are a single long base64 line
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return scanner
}
