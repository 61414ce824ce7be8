// Package viewstate applies server responses to locally cached view
// models. The functions are pure so mutation handlers can patch page
// state without a re-fetch, and so the patch semantics are testable
// apart from rendering.
package viewstate

import (
	"strings"

	"github.com/ranirkini2004/Open-Hub-API/internal/backend"
)

// AddProject appends a newly imported project to the owned list. A
// project with the same repo_url is never added twice.
func AddProject(list []backend.Project, p backend.Project) []backend.Project {
	for _, existing := range list {
		if existing.RepoURL == p.RepoURL {
			return list
		}
	}
	return append(list, p)
}

// RemoveProject drops the project with the given id. Removing an
// absent id is a no-op.
func RemoveProject(list []backend.Project, id int) []backend.Project {
	out := list[:0]
	for _, p := range list {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// RemoveRequest drops the join request with the given id from the
// pending list. Resolving the same id twice leaves the list unchanged
// the second time.
func RemoveRequest(list []backend.JoinRequest, id int) []backend.JoinRequest {
	out := list[:0]
	for _, r := range list {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// RemoveRepo drops an import candidate once its repository has been
// imported, so it does not reappear in the importable list.
func RemoveRepo(list []backend.Repo, repoURL string) []backend.Repo {
	out := list[:0]
	for _, r := range list {
		if r.RepoURL != repoURL {
			out = append(out, r)
		}
	}
	return out
}

// FilterImported removes candidates whose repo_url is already owned.
func FilterImported(repos []backend.Repo, owned []backend.Project) []backend.Repo {
	if len(owned) == 0 {
		return repos
	}
	ownedURLs := make(map[string]struct{}, len(owned))
	for _, p := range owned {
		ownedURLs[p.RepoURL] = struct{}{}
	}
	out := repos[:0]
	for _, r := range repos {
		if _, ok := ownedURLs[r.RepoURL]; !ok {
			out = append(out, r)
		}
	}
	return out
}

// ApplyProfileUpdate overlays submitted form values onto a profile so
// the page after save shows exactly what was submitted.
func ApplyProfileUpdate(p backend.Profile, upd backend.ProfileUpdate) backend.Profile {
	p.Bio = upd.Bio
	p.Skills = upd.Skills
	p.Linkedin = upd.Linkedin
	p.FullName = upd.FullName
	p.Department = upd.Department
	p.Year = upd.Year
	p.DiscordHandle = upd.DiscordHandle
	return p
}

// SkillChips splits the comma-joined skills string into trimmed chips.
func SkillChips(skills string) []string {
	if strings.TrimSpace(skills) == "" {
		return nil
	}
	parts := strings.Split(skills, ",")
	chips := make([]string, 0, len(parts))
	for _, part := range parts {
		if chip := strings.TrimSpace(part); chip != "" {
			chips = append(chips, chip)
		}
	}
	return chips
}
