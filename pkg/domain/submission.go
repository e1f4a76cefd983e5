package domain

import "time"

// SubmissionMetadata is the bounded metadata stored next to a submission.
type SubmissionMetadata struct {
	VisitedSectionIDs []string `json:"visitedSectionIds,omitempty" bson:"visitedSectionIds,omitempty" mapstructure:"visitedSectionIds"`
	SubmittedAt       string   `json:"submittedAt,omitempty" bson:"submittedAt,omitempty" mapstructure:"submittedAt"`
}

// Submission is a sanitized answer set persisted against a snapshot version.
type Submission struct {
	ID              string             `json:"id" bson:"_id"`
	IntakeID        string             `json:"intakeId" bson:"intakeId"`
	SnapshotVersion int                `json:"snapshotVersion" bson:"snapshotVersion"`
	Answers         map[string]any     `json:"answers" bson:"answers"`
	Metadata        SubmissionMetadata `json:"metadata" bson:"metadata"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}

// Clone returns a deep copy of the submission.
func (s Submission) Clone() Submission {
	out := s
	if s.Answers != nil {
		out.Answers = make(map[string]any, len(s.Answers))
		for k, v := range s.Answers {
			out.Answers[k] = cloneValue(v)
		}
	}
	out.Metadata.VisitedSectionIDs = cloneStrings(s.Metadata.VisitedSectionIDs)
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, item := range x {
			m[k] = cloneValue(item)
		}
		return m
	case []any:
		list := make([]any, len(x))
		for i, item := range x {
			list[i] = cloneValue(item)
		}
		return list
	case []string:
		return cloneStrings(x)
	default:
		return v
	}
}
