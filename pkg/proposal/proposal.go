package proposal

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Proposal is a candidate rule list per section id.
type Proposal map[string][]domain.Rule

// SectionIDs returns the proposed section ids, sorted.
func (p Proposal) SectionIDs() []string {
	ids := make([]string, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Generator produces a routing proposal from a summary.
type Generator interface {
	Propose(ctx context.Context, summary Summary) (Proposal, error)
}

// Decode converts loosely typed data (decoded JSON, MCP tool arguments) into
// a Proposal. Scalars are weakly typed so a numeric "value" becomes its
// string form and booleans become "true" or "false". Unexpected rule fields
// are ignored.
func Decode(raw map[string]any) (Proposal, error) {
	out := Proposal{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       boolToString,
		Result:           &out,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("malformed proposal: %w", err)
	}
	return out, nil
}

func boolToString(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if b, ok := data.(bool); ok && to.Kind() == reflect.String {
		return strconv.FormatBool(b), nil
	}
	return data, nil
}
