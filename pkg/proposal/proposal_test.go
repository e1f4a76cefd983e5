package proposal

import (
	"testing"

	"github.com/aretw0/intake/internal/validator"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graph() []domain.Section {
	return []domain.Section{
		{
			ID:    "a",
			Title: "Plan",
			Blocks: []domain.Block{
				{ID: "intro", Kind: domain.KindContext, Content: "internal pricing notes"},
				{ID: "plan", Kind: domain.KindQuestion, Label: "Plan", InputType: domain.InputSelect, Options: []string{"Basic", "Pro"}, Required: true},
				{ID: "team", Kind: domain.KindQuestion, Label: "Team size", InputType: domain.InputNumber},
				{ID: "style", Kind: domain.KindImageChoice, Label: "Style", ImageOptions: []domain.ImageOption{
					{ID: "warm", ImageURL: "https://cdn.example.com/warm.png"},
					{ID: "cold", ImageURL: "https://cdn.example.com/cold.png"},
				}},
			},
			Rules: []domain.Rule{{ID: "old", Operator: domain.OpAny, NextSectionID: "b"}},
		},
		{ID: "b", Title: "Basics", Description: "secret", Rules: []domain.Rule{{ID: "b1", Operator: domain.OpAny, NextSectionID: "c"}}},
		{ID: "c", Title: "Done"},
	}
}

func TestSummarize_Redacts(t *testing.T) {
	got := Summarize(graph())

	want := Summary{Sections: []SectionSummary{
		{ID: "a", Title: "Plan", Blocks: []BlockSummary{
			{ID: "plan", Label: "Plan", Kind: domain.KindQuestion, InputType: domain.InputSelect, Options: []string{"Basic", "Pro"}},
			{ID: "team", Label: "Team size", Kind: domain.KindQuestion, InputType: domain.InputNumber},
			{ID: "style", Label: "Style", Kind: domain.KindImageChoice, Options: []string{"warm", "cold"}},
		}},
		{ID: "b", Title: "Basics", Blocks: []BlockSummary{}},
		{ID: "c", Title: "Done", Blocks: []BlockSummary{}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize_DoesNotAlias(t *testing.T) {
	sections := graph()
	got := Summarize(sections)
	got.Sections[0].Blocks[0].Options[0] = "Free"
	assert.Equal(t, "Basic", sections[0].Blocks[1].Options[0])
}

func TestCheck(t *testing.T) {
	summary := Summarize(graph())

	tests := []struct {
		name  string
		input Proposal
		codes []string
	}{
		{
			name: "valid",
			input: Proposal{"a": {
				{ID: "r1", Operator: domain.OpEquals, FromBlockID: "plan", Value: "Pro", NextSectionID: "c"},
				{ID: "r2", Operator: domain.OpEquals, FromBlockID: "style", Value: "warm", NextSectionID: "c"},
				{ID: "r3", Operator: domain.OpEquals, FromBlockID: "team", Value: "12", NextSectionID: "c"},
				{ID: "r4", Operator: domain.OpAny, NextSectionID: "b"},
			}},
		},
		{
			name:  "unknown section",
			input: Proposal{"zz": {{ID: "r1", Operator: domain.OpAny, NextSectionID: "c"}}},
			codes: []string{CodeUnknownSection},
		},
		{
			name:  "unknown target",
			input: Proposal{"a": {{ID: "r1", Operator: domain.OpAny, NextSectionID: "nowhere"}}},
			codes: []string{CodeUnknownTarget},
		},
		{
			name:  "unknown block",
			input: Proposal{"a": {{ID: "r1", Operator: domain.OpEquals, FromBlockID: "ghost", Value: "x", NextSectionID: "c"}}},
			codes: []string{CodeUnknownBlock},
		},
		{
			name:  "presentation block is not summarized",
			input: Proposal{"a": {{ID: "r1", Operator: domain.OpEquals, FromBlockID: "intro", Value: "x", NextSectionID: "c"}}},
			codes: []string{CodeUnknownBlock},
		},
		{
			name:  "block of another section",
			input: Proposal{"b": {{ID: "r1", Operator: domain.OpEquals, FromBlockID: "plan", Value: "Pro", NextSectionID: "c"}}},
			codes: []string{CodeUnknownBlock},
		},
		{
			name:  "option is case sensitive",
			input: Proposal{"a": {{ID: "r1", Operator: domain.OpEquals, FromBlockID: "plan", Value: "pro", NextSectionID: "c"}}},
			codes: []string{CodeUnknownOption},
		},
		{
			name:  "image option id",
			input: Proposal{"a": {{ID: "r1", Operator: domain.OpEquals, FromBlockID: "style", Value: "https://cdn.example.com/warm.png", NextSectionID: "c"}}},
			codes: []string{CodeUnknownOption},
		},
		{
			name:  "unknown operator",
			input: Proposal{"a": {{ID: "r1", Operator: "contains", FromBlockID: "plan", Value: "Pro", NextSectionID: "c"}}},
			codes: []string{CodeUnknownOperator},
		},
		{
			name: "reports every bad rule",
			input: Proposal{
				"a": {{Operator: domain.OpAny, NextSectionID: "x"}},
				"q": {{Operator: domain.OpAny, NextSectionID: "c"}},
			},
			codes: []string{CodeUnknownTarget, CodeUnknownSection},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Check(summary, tt.input)
			var codes []string
			for _, issue := range issues {
				assert.Equal(t, validator.SeverityError, issue.Severity)
				codes = append(codes, issue.Code)
			}
			assert.Equal(t, tt.codes, codes)
		})
	}
}

func TestCheck_MessageNamesRule(t *testing.T) {
	issues := Check(Summarize(graph()), Proposal{"a": {{Operator: domain.OpAny, NextSectionID: "x"}}})
	require.Len(t, issues, 1)
	assert.Equal(t, `section "a", rule #1: unknown target section "x"`, issues[0].Message)
	assert.Equal(t, "a", issues[0].SectionID)
}

func TestMerge(t *testing.T) {
	sections := graph()
	merged := Merge(sections, Proposal{"a": {
		{Operator: domain.OpEquals, FromBlockID: "plan", Value: "Pro", NextSectionID: "c"},
		{ID: "keep", Operator: domain.OpAny, NextSectionID: "b"},
	}})

	require.Len(t, merged, 3)
	assert.Equal(t, []domain.Rule{
		{ID: "a-rule-1", Operator: domain.OpEquals, FromBlockID: "plan", Value: "Pro", NextSectionID: "c"},
		{ID: "keep", Operator: domain.OpAny, NextSectionID: "b"},
	}, merged[0].Rules)
	assert.Equal(t, sections[1].Rules, merged[1].Rules)

	// Input untouched
	assert.Equal(t, "old", sections[0].Rules[0].ID)
	merged[1].Rules[0].NextSectionID = "a"
	assert.Equal(t, "c", sections[1].Rules[0].NextSectionID)
}

func TestMerge_EmptyListMakesTerminal(t *testing.T) {
	merged := Merge(graph(), Proposal{"b": {}})
	assert.True(t, merged[1].IsTerminal())
}

func TestDecode(t *testing.T) {
	raw := map[string]any{
		"a": []any{
			map[string]any{"id": "r1", "operator": "equals", "fromBlockId": "team", "value": 12.0, "nextSectionId": "c", "reason": "big teams"},
			map[string]any{"operator": "equals", "fromBlockId": "call", "value": true, "nextSectionId": "c"},
			map[string]any{"operator": "any", "nextSectionId": "b"},
		},
	}

	p, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, Proposal{"a": {
		{ID: "r1", Operator: domain.OpEquals, FromBlockID: "team", Value: "12", NextSectionID: "c"},
		{Operator: domain.OpEquals, FromBlockID: "call", Value: "true", NextSectionID: "c"},
		{Operator: domain.OpAny, NextSectionID: "b"},
	}}, p)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(map[string]any{"a": "not a list"})
	assert.Error(t, err)
}
