// Package defaults holds the constants shared by the repository database
// readers and writers: desc/files section names and their JSON keys, member
// and database types, supported compressions and archive entry ownership.
package defaults
