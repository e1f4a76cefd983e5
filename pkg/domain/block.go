package domain

// BlockKind discriminates the closed set of block variants.
type BlockKind string

// Presentation kinds never produce an answer.
const (
	KindContext BlockKind = "context"
	KindHeading BlockKind = "heading"
	KindDivider BlockKind = "divider"
	KindImage   BlockKind = "image"
	KindVideo   BlockKind = "video"
	KindQuote   BlockKind = "quote"
)

// Answer kinds produce a value in a submission.
const (
	KindQuestion       BlockKind = "question"
	KindImageChoice    BlockKind = "image_choice"
	KindLinkCollection BlockKind = "link_collection"
	KindMoodboard      BlockKind = "moodboard"
	KindBucketSort     BlockKind = "bucket_sort"
	KindCallBooking    BlockKind = "call_booking"
)

// InputType refines a question block.
type InputType string

const (
	InputText        InputType = "text"
	InputTextarea    InputType = "textarea"
	InputEmail       InputType = "email"
	InputPhone       InputType = "phone"
	InputURL         InputType = "url"
	InputDate        InputType = "date"
	InputNumber      InputType = "number"
	InputSlider      InputType = "slider"
	InputSelect      InputType = "select"
	InputMultiSelect InputType = "multi_select"
)

// ImageOption is one selectable image of an image choice, moodboard or bucket sort block.
type ImageOption struct {
	ID       string `json:"id" yaml:"id" bson:"id"`
	ImageURL string `json:"imageUrl" yaml:"imageUrl" bson:"imageUrl"`
	Label    string `json:"label,omitempty" yaml:"label,omitempty" bson:"label,omitempty"`
}

// Block is one content or question unit inside a section.
// Kind-specific fields are only meaningful for the kinds that declare them.
type Block struct {
	ID       string    `json:"id" yaml:"id" bson:"id"`
	Kind     BlockKind `json:"kind" yaml:"kind" bson:"kind"`
	Label    string    `json:"label,omitempty" yaml:"label,omitempty" bson:"label,omitempty"`
	Required bool      `json:"required,omitempty" yaml:"required,omitempty" bson:"required,omitempty"`

	// Question configuration
	InputType InputType `json:"inputType,omitempty" yaml:"inputType,omitempty" bson:"inputType,omitempty"`
	Options   []string  `json:"options,omitempty" yaml:"options,omitempty" bson:"options,omitempty"`
	Min       *float64  `json:"min,omitempty" yaml:"min,omitempty" bson:"min,omitempty"`
	Max       *float64  `json:"max,omitempty" yaml:"max,omitempty" bson:"max,omitempty"`

	// Image based configuration (image_choice, moodboard, bucket_sort)
	ImageOptions []ImageOption `json:"imageOptions,omitempty" yaml:"imageOptions,omitempty" bson:"imageOptions,omitempty"`
	Multi        bool          `json:"multi,omitempty" yaml:"multi,omitempty" bson:"multi,omitempty"`
	Buckets      []string      `json:"buckets,omitempty" yaml:"buckets,omitempty" bson:"buckets,omitempty"`

	// Content holds presentation text, or the media URL for image/video blocks.
	Content string `json:"content,omitempty" yaml:"content,omitempty" bson:"content,omitempty"`
}

// ProducesAnswer reports whether the block kind expects a respondent value.
// Unknown kinds are treated as answer producing so that forward-compatible
// kinds are carried through submissions instead of being dropped.
func (b Block) ProducesAnswer() bool {
	switch b.Kind {
	case KindContext, KindHeading, KindDivider, KindImage, KindVideo, KindQuote:
		return false
	default:
		return true
	}
}

// DisplayName returns the label used in messages, falling back to the id.
func (b Block) DisplayName() string {
	if b.Label != "" {
		return b.Label
	}
	return b.ID
}

// HasOption reports whether value is one of the declared option strings.
func (b Block) HasOption(value string) bool {
	for _, opt := range b.Options {
		if opt == value {
			return true
		}
	}
	return false
}

// HasImageOption reports whether id is one of the declared image option ids.
func (b Block) HasImageOption(id string) bool {
	for _, opt := range b.ImageOptions {
		if opt.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	out := b
	out.Options = cloneStrings(b.Options)
	out.Buckets = cloneStrings(b.Buckets)
	if b.ImageOptions != nil {
		out.ImageOptions = make([]ImageOption, len(b.ImageOptions))
		copy(out.ImageOptions, b.ImageOptions)
	}
	if b.Min != nil {
		v := *b.Min
		out.Min = &v
	}
	if b.Max != nil {
		v := *b.Max
		out.Max = &v
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
