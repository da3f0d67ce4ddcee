package report

import (
	"sort"

	"github.com/amosWeiskopf/auditsmith/internal/models"
	"github.com/amosWeiskopf/auditsmith/pkg/dataforseo"
)

// charsPerWord approximates word counts from raw content length.
const charsPerWord = 6

// requiredMetadata are the fields every page is expected to declare.
var requiredMetadata = []string{"title", "description", "charset", "og:title"}

// maxTopKeywords caps the keyword list in the content report.
const maxTopKeywords = 10

// buildContent reduces page and duplicate-tag data into the content
// view: word counts, quality signals, duplicate clusters, metadata
// gaps and top keywords.
func buildContent(pages []dataforseo.PageItem, duplicates []dataforseo.DuplicateTagItem) models.ContentReport {
	content := models.ContentReport{
		WordCounts:       make(map[string]int, len(pages)),
		DuplicateContent: []models.DuplicateCluster{},
		MissingMetadata:  []models.MetadataGap{},
		TopKeywords:      []models.KeywordDensity{},
	}

	var wordSum, readabilitySum, qualitySum float64
	maxDensity := make(map[string]float64)

	for _, page := range pages {
		words := int(page.ContentLength / charsPerWord)
		content.WordCounts[page.URL] = words
		wordSum += float64(words)
		readabilitySum += page.ReadabilityScore
		qualitySum += page.OnPageScore

		if gap := metadataGap(page); len(gap.Missing) > 0 {
			content.MissingMetadata = append(content.MissingMetadata, gap)
		}

		for keyword, density := range page.KeywordDensity {
			if density > maxDensity[keyword] {
				maxDensity[keyword] = density
			}
		}
	}

	if len(pages) > 0 {
		n := float64(len(pages))
		content.AverageWordCount = wordSum / n
		content.ReadabilityScore = readabilitySum / n
		content.QualityScore = qualitySum / n
	}

	sort.Slice(content.MissingMetadata, func(i, j int) bool {
		return content.MissingMetadata[i].URL < content.MissingMetadata[j].URL
	})

	for _, dup := range duplicates {
		if dup.TagType != "content" || len(dup.Pages) <= 1 {
			continue
		}
		cluster := models.DuplicateCluster{
			Pages:      append([]string(nil), dup.Pages...),
			Similarity: dup.Similarity,
		}
		sort.Strings(cluster.Pages)
		content.DuplicateContent = append(content.DuplicateContent, cluster)
	}
	sort.Slice(content.DuplicateContent, func(i, j int) bool {
		return content.DuplicateContent[i].Pages[0] < content.DuplicateContent[j].Pages[0]
	})

	content.TopKeywords = topKeywords(maxDensity)
	return content
}

// metadataGap checks the four required metadata fields for one page.
func metadataGap(page dataforseo.PageItem) models.MetadataGap {
	gap := models.MetadataGap{URL: page.URL}
	present := map[string]bool{
		"title":       page.Meta.Title != "",
		"description": page.Meta.Description != "",
		"charset":     page.Meta.Charset != "",
		"og:title":    page.Meta.SocialMediaTags["og:title"] != "",
	}
	for _, field := range requiredMetadata {
		if !present[field] {
			gap.Missing = append(gap.Missing, field)
		}
	}
	return gap
}

// topKeywords takes the per-keyword maximum density, sorted
// descending, capped at maxTopKeywords. Ties break alphabetically so
// the output is deterministic.
func topKeywords(maxDensity map[string]float64) []models.KeywordDensity {
	keywords := make([]models.KeywordDensity, 0, len(maxDensity))
	for keyword, density := range maxDensity {
		keywords = append(keywords, models.KeywordDensity{Keyword: keyword, Density: density})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Density == keywords[j].Density {
			return keywords[i].Keyword < keywords[j].Keyword
		}
		return keywords[i].Density > keywords[j].Density
	})
	if len(keywords) > maxTopKeywords {
		keywords = keywords[:maxTopKeywords]
	}
	return keywords
}
