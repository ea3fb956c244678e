package pipeline

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

type searchBizResponse struct {
	List []struct {
		Nickname string `json:"nickname"`
		FakeID   string `json:"fakeid"`
	} `json:"list"`
	BaseResp struct {
		Ret    int    `json:"ret"`
		ErrMsg string `json:"err_msg"`
	} `json:"base_resp"`
}

// lookupPublisher resolves a display name to its internal fakeid via
// the searchbiz endpoint (spec.md §4.5 step 1).
func (p *Pipeline) lookupPublisher(ctx context.Context, displayName string) (models.PublisherRef, error) {
	query := url.Values{
		"action": {"search_biz"},
		"scene":  {"1"},
		"begin":  {"0"},
		"count":  {"10"},
		"query":  {displayName},
	}

	var resp searchBizResponse
	if err := p.client.GetJSON(ctx, "/cgi-bin/searchbiz", query, &resp); err != nil {
		return models.PublisherRef{}, err
	}

	if len(resp.List) == 0 {
		return models.PublisherRef{}, models.NewBadPayloadError(
			fmt.Sprintf("未找到公众号: %s", displayName), nil)
	}

	hit := resp.List[0]
	return models.PublisherRef{
		DisplayName:  displayName,
		InternalID:   hit.FakeID,
		ResolvedName: hit.Nickname,
	}, nil
}
