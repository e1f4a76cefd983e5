package domain

import "time"

// Mode selects how the public viewer presents the sections.
type Mode string

const (
	// ModeGuided shows one section at a time, driven by the routing resolver.
	ModeGuided Mode = "guided"
	// ModeDocument renders every section in list order.
	ModeDocument Mode = "document"
)

// Metadata describes the intake; it never participates in graph validation.
type Metadata struct {
	Title           string            `json:"title" yaml:"title" bson:"title"`
	Description     string            `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
	TimeEstimate    string            `json:"timeEstimate,omitempty" yaml:"timeEstimate,omitempty" bson:"timeEstimate,omitempty"`
	CompletionTitle string            `json:"completionTitle,omitempty" yaml:"completionTitle,omitempty" bson:"completionTitle,omitempty"`
	CompletionBody  string            `json:"completionBody,omitempty" yaml:"completionBody,omitempty" bson:"completionBody,omitempty"`
	Mode            Mode              `json:"mode" yaml:"mode" bson:"mode"`
	Theme           map[string]string `json:"theme,omitempty" yaml:"theme,omitempty" bson:"theme,omitempty"`
}

// Clone returns a deep copy of the metadata.
func (m Metadata) Clone() Metadata {
	out := m
	if m.Theme != nil {
		out.Theme = make(map[string]string, len(m.Theme))
		for k, v := range m.Theme {
			out.Theme[k] = v
		}
	}
	return out
}

// Draft is the live, mutable authoring state of an intake.
type Draft struct {
	IntakeID  string    `json:"intakeId" yaml:"intakeId" bson:"intakeId"`
	Metadata  Metadata  `json:"metadata" yaml:"metadata" bson:"metadata"`
	Sections  []Section `json:"sections" yaml:"sections" bson:"sections"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Clone returns a deep copy of the draft.
func (d Draft) Clone() Draft {
	out := d
	out.Metadata = d.Metadata.Clone()
	out.Sections = CloneSections(d.Sections)
	return out
}

// Snapshot is the published, immutable copy of a draft.
// It is only ever replaced as a whole, never mutated in place.
type Snapshot struct {
	IntakeID    string    `json:"intakeId" bson:"intakeId"`
	Version     int       `json:"version" bson:"version"`
	PublishedAt time.Time `json:"publishedAt" bson:"publishedAt"`
	Metadata    Metadata  `json:"metadata" bson:"metadata"`
	Sections    []Section `json:"sections" bson:"sections"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Metadata = s.Metadata.Clone()
	out.Sections = CloneSections(s.Sections)
	return out
}

// NewSnapshot freezes a draft into a snapshot with the given version.
func NewSnapshot(d Draft, version int, at time.Time) Snapshot {
	frozen := d.Clone()
	return Snapshot{
		IntakeID:    d.IntakeID,
		Version:     version,
		PublishedAt: at,
		Metadata:    frozen.Metadata,
		Sections:    frozen.Sections,
	}
}
