package convert

import (
	"embed"
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/Cyberx9901/arch-repo-management/internal/defaults"
	"github.com/Cyberx9901/arch-repo-management/internal/models"
)

const (
	templatesPatternConstant            = "templates/*.tmpl"
	descTemplateNameConstant            = "desc.tmpl"
	filesTemplateNameConstant           = "files.tmpl"
	templateParseErrorTemplateConstant  = "unable to parse entry templates: %w"
	templateRenderErrorTemplateConstant = "unable to render %s entry for '%s': %w"
	descEntryLabelConstant              = "desc"
	filesEntryLabelConstant             = "files"
)

//go:embed templates/*.tmpl
var entryTemplates embed.FS

// RepoDbFile renders desc and files entries of a repository database.
type RepoDbFile struct {
	templates *template.Template
}

type renderedSection struct {
	Name   string
	Values []string
}

type descTemplateData struct {
	Sections []renderedSection
}

type filesTemplateData struct {
	Files []string
}

// NewRepoDbFile parses the embedded entry templates.
func NewRepoDbFile() (*RepoDbFile, error) {
	parsedTemplates, parseError := template.New(descTemplateNameConstant).Funcs(sprig.TxtFuncMap()).ParseFS(entryTemplates, templatesPatternConstant)
	if parseError != nil {
		return nil, fmt.Errorf(templateParseErrorTemplateConstant, parseError)
	}
	return &RepoDbFile{templates: parsedTemplates}, nil
}

// RenderDesc writes the desc entry of a package.
func (repoDbFile *RepoDbFile) RenderDesc(desc models.PackageDesc, output io.Writer) error {
	data := descTemplateData{Sections: make([]renderedSection, 0, len(defaults.DescSectionOrder))}
	for _, header := range defaults.DescSectionOrder {
		values := desc.SectionValues(defaults.DescJSON[header])
		if len(values) == 0 {
			continue
		}
		data.Sections = append(data.Sections, renderedSection{Name: defaults.SectionName(header), Values: values})
	}

	if executeError := repoDbFile.templates.ExecuteTemplate(output, descTemplateNameConstant, data); executeError != nil {
		return fmt.Errorf(templateRenderErrorTemplateConstant, descEntryLabelConstant, desc.Name, executeError)
	}
	return nil
}

// RenderFiles writes the files entry of a package.
func (repoDbFile *RepoDbFile) RenderFiles(name string, files models.Files, output io.Writer) error {
	if executeError := repoDbFile.templates.ExecuteTemplate(output, filesTemplateNameConstant, filesTemplateData{Files: files.Files}); executeError != nil {
		return fmt.Errorf(templateRenderErrorTemplateConstant, filesEntryLabelConstant, name, executeError)
	}
	return nil
}
