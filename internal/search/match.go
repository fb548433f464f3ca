package search

import (
	"strings"
	"time"
)

// Entry is the read-only view of one catalog row that the in-memory
// evaluator needs. The database package compiles predicates to SQL instead;
// this form backs unit tests and small in-process filters.
type Entry struct {
	Name         string
	Description  string
	OriginalName string
	Folder       string
	Tags         []string
	Albums       []string
	Camera       string
	Lens         string
	AICaption    string
	AILabels     string
	SizeBytes    int64
	Width        int
	Height       int
	UploadedAt   time.Time
	TakenAt      *time.Time
}

// Matches evaluates a predicate against a single entry.
func Matches(p Predicate, e *Entry) bool {
	switch v := p.(type) {
	case MatchAll:
		return true
	case MatchNone:
		return false
	case And:
		for _, child := range v.Preds {
			if !Matches(child, e) {
				return false
			}
		}
		return true
	case Or:
		for _, child := range v.Preds {
			if Matches(child, e) {
				return true
			}
		}
		return false
	case TimeRange:
		ts := e.UploadedAt
		if v.Field == TimeTaken {
			if e.TakenAt == nil {
				return false
			}
			ts = *e.TakenAt
		}
		return !ts.Before(v.Start) && !ts.After(v.End)
	case SizeAtLeast:
		return e.SizeBytes >= v.Bytes
	case SizeAtMost:
		return e.SizeBytes <= v.Bytes
	case MinPixels:
		return int64(e.Width)*int64(e.Height) >= v.Pixels
	case MinWidth:
		return e.Width >= v.Width
	case MinHeight:
		return e.Height >= v.Height
	case AlbumLike:
		if containsFold(e.Folder, v.Title) {
			return true
		}
		for _, title := range e.Albums {
			if containsFold(title, v.Title) {
				return true
			}
		}
		return false
	case GearLike:
		return containsFold(e.Camera, v.Text) || containsFold(e.Lens, v.Text)
	case Keyword:
		for _, field := range []string{
			e.Name, e.Description, e.OriginalName, e.Folder,
			e.AICaption, e.AILabels,
		} {
			if containsFold(field, v.Term) {
				return true
			}
		}
		for _, tag := range e.Tags {
			if containsFold(tag, v.Term) {
				return true
			}
		}
		for _, title := range e.Albums {
			if containsFold(title, v.Term) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// containsFold reports whether substr occurs in s, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
