package pipeline

import (
	"context"
)

// Summary is the verification snapshot taken after all stages complete. It
// mirrors the row counts a consumer of the store would see.
type Summary struct {
	Members           int64            `json:"members"`
	MembersByCategory map[string]int64 `json:"members_by_category"`
	ExpertiseTerms    int64            `json:"expertise_terms"`
	Outputs           int64            `json:"outputs"`
	OutputTags        int64            `json:"output_tags"`
	Collaborations    int64            `json:"collaborations"`
	Grants            int64            `json:"grants"`
	FundingSources    int64            `json:"funding_sources"`
	OutputGrantLinks  int64            `json:"output_grant_links"`
}

func (p *Pipeline) buildSummary(ctx context.Context) (Summary, error) {
	var s Summary
	var err error
	if s.Members, err = p.members.Count(ctx, nil); err != nil {
		return s, err
	}
	if s.MembersByCategory, err = p.members.CountByCategory(ctx, nil); err != nil {
		return s, err
	}
	if s.ExpertiseTerms, err = p.expertise.Count(ctx, nil); err != nil {
		return s, err
	}
	if s.Outputs, err = p.outputs.Count(ctx, nil); err != nil {
		return s, err
	}
	if s.OutputTags, err = p.tags.Count(ctx, nil); err != nil {
		return s, err
	}
	if s.Collaborations, err = p.collabs.Count(ctx, nil); err != nil {
		return s, err
	}
	if s.Grants, err = p.grants.Count(ctx, nil); err != nil {
		return s, err
	}
	if s.FundingSources, err = p.funders.Count(ctx, nil); err != nil {
		return s, err
	}
	if s.OutputGrantLinks, err = p.links.Count(ctx, nil); err != nil {
		return s, err
	}
	return s, nil
}
