// Package models describes the data carried by repository databases: the
// per-package desc and files entries, the pkgbase centric JSON documents
// produced from them, and the validation rules both have to satisfy.
package models
