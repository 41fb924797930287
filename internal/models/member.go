package models

import "github.com/Cyberx9901/arch-repo-management/internal/defaults"

// RepoDbMemberData is a desc or files member read from a repository database.
type RepoDbMemberData struct {
	MemberType defaults.RepoDbMemberType
	Name       string
	Data       []byte
}
