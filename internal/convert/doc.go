// Package convert translates between the text entries stored in repository
// databases (desc and files) and their models.
//
// Parsing is line based: a %SECTION% header starts a section and every
// following line until the next header is one of its values. Rendering goes
// through embedded text/template templates so the produced entries match the
// layout written by repo-add.
package convert
