package search

import (
	"reflect"
	"testing"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

// TestWildcardURLPattern is E2E-6.
func TestWildcardURLPattern(t *testing.T) {
	records := []models.PostRecord{
		{Publisher: "A", Title: "t", URL: "https://mp.weixin.qq.com/s/a", PublishedAt: 1,
			Body: `see https://pan.example.cn/s/abc123, and (https://pan.example.cn/s/xyz).`},
	}

	results, err := Search(records, "https://pan.example.cn/s/*")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 matching record, got %d", len(results))
	}

	want := []string{"https://pan.example.cn/s/abc123", "https://pan.example.cn/s/xyz"}
	if !reflect.DeepEqual(results[0].Matches, want) {
		t.Fatalf("matches = %v, want %v", results[0].Matches, want)
	}
}

func TestGenericModeCaseInsensitive(t *testing.T) {
	records := []models.PostRecord{
		{Publisher: "A", Title: "t", URL: "https://x/1", PublishedAt: 1, Body: "Quarterly REVENUE up"},
		{Publisher: "B", Title: "t", URL: "https://x/2", PublishedAt: 1, Body: "Office closed Monday"},
	}

	results, err := Search(records, "revenue")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 matching record, got %d", len(results))
	}
	if results[0].Matches[0] != "REVENUE" {
		t.Fatalf("expected literal substring preserved, got %q", results[0].Matches[0])
	}
}

func TestZeroMatchRecordsOmitted(t *testing.T) {
	records := []models.PostRecord{
		{Publisher: "A", Title: "t", URL: "https://x/1", PublishedAt: 1, Body: "nothing here"},
	}
	results, err := Search(records, "missing*pattern")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestDistinctMatchesDeduped(t *testing.T) {
	records := []models.PostRecord{
		{Publisher: "A", Title: "t", URL: "https://x/1", PublishedAt: 1, Body: "foo foo foo bar"},
	}
	results, err := Search(records, "foo")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || len(results[0].Matches) != 1 {
		t.Fatalf("expected 1 distinct match, got %+v", results)
	}
}

func TestEscapedMetacharacterIsLiteral(t *testing.T) {
	records := []models.PostRecord{
		{Publisher: "A", Title: "t", URL: "https://x/1", PublishedAt: 1, Body: "price: 5*3=15, lookup a?b"},
	}
	results, err := Search(records, `a\?b`)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Matches[0] != "a?b" {
		t.Fatalf("expected literal 'a?b' match, got %+v", results)
	}
}
