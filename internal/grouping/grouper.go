package grouping

import (
	"os"
	"path/filepath"
	"strings"

	"cubby/internal/textutil"
)

// Kind selects which kind of bucket member a lookup concerns. Files and
// folders group separately even when they share a bucket.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

// Grouper answers group-membership questions for extension buckets on disk.
type Grouper struct {
	policy Policy
}

// New returns a Grouper driven by the given policy.
func New(policy Policy) *Grouper {
	return &Grouper{policy: policy}
}

// Policy returns the policy the grouper was built with.
func (g *Grouper) Policy() Policy { return g.policy }

// FindGroup returns the existing group folder under bucketDir that name
// belongs to. Candidates are limited to populated, non-stopword groups; a
// name that matches no candidate stays ungrouped rather than seeding a new
// group by itself.
func (g *Grouper) FindGroup(name string, kind Kind, bucketDir string) (string, bool) {
	stem := name
	if kind == KindFile {
		stem = strings.TrimSuffix(name, filepath.Ext(name))
	}
	candidates := g.candidateGroups(bucketDir, kind)
	if len(candidates) == 0 {
		return "", false
	}
	for _, group := range candidates {
		if strongMatch(stem, group) {
			return group, true
		}
	}
	token := g.policy.BusinessPrefix(stem)
	if token == "" {
		return "", false
	}
	for _, group := range candidates {
		lowered := strings.ToLower(group)
		if strings.HasPrefix(token, lowered) || strings.HasPrefix(lowered, token) {
			return group, true
		}
	}
	return "", false
}

// strongMatch reports whether the stem names the group directly: an exact
// case-insensitive match, the group as a separated prefix or suffix, or the
// group appearing as a whole word.
func strongMatch(stem, group string) bool {
	if strings.EqualFold(stem, group) {
		return true
	}
	loweredStem := strings.ToLower(stem)
	loweredGroup := strings.ToLower(group)
	for _, sep := range []string{"-", "_"} {
		if strings.HasPrefix(loweredStem, loweredGroup+sep) {
			return true
		}
		if strings.HasSuffix(loweredStem, sep+loweredGroup) {
			return true
		}
	}
	return textutil.ContainsWord(stem, group)
}

// candidateGroups lists the subdirectories of bucketDir that could absorb a
// member of the given kind, in lexical order. Hidden directories, stopword
// names, and groups with no member of the kind are skipped.
func (g *Grouper) candidateGroups(bucketDir string, kind Kind) []string {
	entries, err := os.ReadDir(bucketDir)
	if err != nil {
		return nil
	}
	var groups []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if g.policy.IsStopword(name) {
			continue
		}
		if !g.populated(filepath.Join(bucketDir, name), kind) {
			continue
		}
		groups = append(groups, name)
	}
	return groups
}

func (g *Grouper) populated(groupDir string, kind Kind) bool {
	entries, err := os.ReadDir(groupDir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if kind == KindFolder {
			if entry.IsDir() {
				return true
			}
			continue
		}
		if !entry.IsDir() {
			return true
		}
	}
	return false
}
