package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amosWeiskopf/auditsmith/internal/models"
)

func TestCategoryForCheck(t *testing.T) {
	cases := []struct {
		checkID string
		want    models.Category
	}{
		{"high_loading_time", models.CategoryPerformance},
		{"no_viewport_meta", models.CategoryMobile},
		{"small_font_sizes", models.CategoryMobile},
		{"no_https", models.CategorySecurity},
		{"ssl_certificate_expired", models.CategorySecurity},
		{"canonical_chain", models.CategoryTechnical},
		{"is_4xx", models.CategoryTechnical},
		{"broken_resources", models.CategoryTechnical},
		{"no_title", models.CategoryContent},
		{"no_description", models.CategoryContent},
		{"duplicate_h1", models.CategoryContent},
		{"no_favicon", models.CategoryContent},
		{"something_unheard_of", models.CategoryOther},
	}
	for _, tc := range cases {
		t.Run(tc.checkID, func(t *testing.T) {
			assert.Equal(t, tc.want, CategoryForCheck(tc.checkID))
		})
	}
}

func TestSeverityForCheck(t *testing.T) {
	sev, ok := severityForCheck("is_5xx")
	assert.True(t, ok)
	assert.Equal(t, models.SeverityCritical, sev)

	sev, ok = severityForCheck("no_favicon")
	assert.True(t, ok)
	assert.Equal(t, models.SeverityInfo, sev)

	_, ok = severityForCheck("not_a_known_check")
	assert.False(t, ok)
}

func TestCatalogSeveritiesAreValid(t *testing.T) {
	valid := map[models.Severity]bool{}
	for _, sev := range models.Severities {
		valid[sev] = true
	}
	for checkID, info := range checkCatalog {
		assert.True(t, valid[info.Severity], "check %s has unknown severity %q", checkID, info.Severity)
		assert.NotEmpty(t, info.Title, "check %s has no title", checkID)
		assert.NotEmpty(t, info.Recommendations, "check %s has no recommendations", checkID)
	}
}

func TestMobileChecksScoring(t *testing.T) {
	all := models.MobileChecks{
		HasViewport: true, ResponsiveImages: true, LegibleFontSizes: true,
		TapTargetsSized: true, NoHorizontalScroll: true, NoInterstitials: true,
	}
	assert.Equal(t, 100.0, all.Score())

	none := models.MobileChecks{}
	assert.Equal(t, 0.0, none.Score())

	half := models.MobileChecks{HasViewport: true, LegibleFontSizes: true, NoInterstitials: true}
	assert.Equal(t, 50.0, half.Score())
}
