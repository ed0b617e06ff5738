package github

import (
	"fmt"
	"strings"
)

// Repo identifies a repository by owner and name.
type Repo struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

func (r Repo) String() string {
	return r.Owner + "/" + r.Repo
}

// ParseRepo splits an "owner/name" reference into a Repo.
func ParseRepo(s string) (Repo, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Repo{}, fmt.Errorf("invalid repository %q, expected owner/name format", s)
	}
	return Repo{Owner: parts[0], Repo: parts[1]}, nil
}
