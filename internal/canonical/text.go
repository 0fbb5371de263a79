// Package canonical builds the deterministic textual representation of
// an entity used as embedding-model input. The field order is fixed per
// entity kind; reproducible embeddings across refreshes depend on it.
package canonical

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mentormatch/matching/internal/models"
)

var ErrEmptyContent = errors.New("no textual content available to build embedding payload")

// BuildText serializes an entity to canonical text. It fails with
// models.ErrUnknownEntityKind for an entity outside the closed variant
// set and with ErrEmptyContent when every field is empty after trimming.
func BuildText(e models.Entity) (string, error) {
	var b builder
	switch r := e.(type) {
	case models.StudentRecord:
		studentPieces(&b, r)
	case *models.StudentRecord:
		studentPieces(&b, *r)
	case models.SupervisorRecord:
		supervisorPieces(&b, r)
	case *models.SupervisorRecord:
		supervisorPieces(&b, *r)
	case models.TopicRecord:
		topicPieces(&b, r)
	case *models.TopicRecord:
		topicPieces(&b, *r)
	case models.RoleRecord:
		rolePieces(&b, r)
	case *models.RoleRecord:
		rolePieces(&b, *r)
	default:
		return "", fmt.Errorf("%w: %T", models.ErrUnknownEntityKind, e)
	}

	text := b.join()
	if text == "" {
		return "", ErrEmptyContent
	}
	return text, nil
}

func studentPieces(b *builder, r models.StudentRecord) {
	b.text(r.FullName)
	b.text(r.Email)
	b.text(r.Username)
	b.text(r.Program)
	b.list(r.Skills)
	b.list(r.SkillsToLearn)
	b.text(r.Interests)
	b.text(r.Achievements)
	b.text(r.PreferredTeamTrack)
	b.text(r.TeamRole)
	b.text(r.TeamNeeds)
	b.text(r.TeamHas)
	b.text(r.DevTrack)
	b.text(r.ScienceTrack)
	b.text(r.StartupTrack)
	b.text(r.CV)
	b.text(r.Requirements)
	b.text(r.FinalWorkPref)
}

func supervisorPieces(b *builder, r models.SupervisorRecord) {
	b.text(r.FullName)
	b.text(r.Email)
	b.text(r.Username)
	b.text(r.Position)
	b.text(r.Degree)
	b.count(r.Capacity)
	b.text(r.Interests)
	b.text(r.Requirements)
}

func topicPieces(b *builder, r models.TopicRecord) {
	b.text(r.Title)
	b.text(r.Description)
	b.text(r.ExpectedOutcomes)
	b.text(r.RequiredSkills)
	b.text(r.Direction)
	b.text(r.AuthorName)
	b.text(string(r.SeekingRole))
}

func rolePieces(b *builder, r models.RoleRecord) {
	b.text(r.Name)
	b.text(r.Description)
	b.text(r.RequiredSkills)
	b.count(r.Capacity)
	if t := r.Topic; t != nil {
		// A role's matchability should reflect its topic's context.
		b.text(t.Direction)
		b.text(string(t.SeekingRole))
		b.text(t.Title)
		b.text(t.Description)
		b.text(t.ExpectedOutcomes)
		b.text(t.RequiredSkills)
		b.text(t.AuthorName)
	}
}

// builder accumulates surviving field values in declaration order.
type builder struct {
	pieces []string
}

// text appends a scalar value, trimmed; empty values are dropped.
func (b *builder) text(s string) {
	s = strings.TrimSpace(s)
	if s != "" {
		b.pieces = append(b.pieces, s)
	}
}

// list flattens a slice into one space-joined piece, skipping empties.
func (b *builder) list(items []string) {
	kept := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it != "" {
			kept = append(kept, it)
		}
	}
	if len(kept) > 0 {
		b.pieces = append(b.pieces, strings.Join(kept, " "))
	}
}

// count appends a positive integer; zero means the column was never set.
func (b *builder) count(n int) {
	if n > 0 {
		b.pieces = append(b.pieces, fmt.Sprintf("%d", n))
	}
}

func (b *builder) join() string {
	return strings.Join(b.pieces, "\n")
}
