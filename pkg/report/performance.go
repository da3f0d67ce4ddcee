package report

import (
	"github.com/amosWeiskopf/auditsmith/internal/models"
	"github.com/amosWeiskopf/auditsmith/pkg/dataforseo"
)

// speedScore grades time-to-interactive on a simple threshold ladder.
func speedScore(ttiMs float64) int {
	switch {
	case ttiMs > 5000:
		return 50
	case ttiMs > 3000:
		return 70
	case ttiMs > 1000:
		return 90
	default:
		return 100
	}
}

// buildPerformance derives the per-page and site-wide performance
// view: speed scores, load breakdowns, averaged Core Web Vitals and
// the mobile-optimization score.
func buildPerformance(pages []dataforseo.PageItem) models.PerformanceReport {
	perf := models.PerformanceReport{
		SpeedScores: make(map[string]int, len(pages)),
		LoadTimes:   make(map[string]models.LoadTimeBreakdown, len(pages)),
		PageVitals:  make(map[string]models.CoreWebVitals),
	}
	if len(pages) == 0 {
		return perf
	}

	var vitalsSum models.CoreWebVitals
	vitalsCount := 0
	var mobileSum float64

	for _, page := range pages {
		perf.SpeedScores[page.URL] = speedScore(page.Timing.TimeToInteractive)
		perf.LoadTimes[page.URL] = models.LoadTimeBreakdown{
			ConnectionMs:  page.Timing.ConnectionTime,
			TTFBMs:        page.Timing.WaitingTime,
			DownloadMs:    page.Timing.DownloadTime,
			DOMCompleteMs: page.Timing.DOMComplete,
			InteractiveMs: page.Timing.TimeToInteractive,
		}

		if page.Vitals != nil {
			v := vitalsFromVendor(*page.Vitals)
			perf.PageVitals[page.URL] = v
			vitalsSum.LCP += v.LCP
			vitalsSum.FID += v.FID
			vitalsSum.CLS += v.CLS
			vitalsSum.TTFB += v.TTFB
			vitalsSum.FCP += v.FCP
			vitalsSum.SpeedIndex += v.SpeedIndex
			vitalsSum.TTI += v.TTI
			vitalsCount++
		}

		mobileSum += mobileChecksFor(page).Score()
	}

	if vitalsCount > 0 {
		n := float64(vitalsCount)
		perf.AverageVitals = models.CoreWebVitals{
			LCP:        vitalsSum.LCP / n,
			FID:        vitalsSum.FID / n,
			CLS:        vitalsSum.CLS / n,
			TTFB:       vitalsSum.TTFB / n,
			FCP:        vitalsSum.FCP / n,
			SpeedIndex: vitalsSum.SpeedIndex / n,
			TTI:        vitalsSum.TTI / n,
		}
	}
	perf.MobileScore = mobileSum / float64(len(pages))
	return perf
}

func vitalsFromVendor(v dataforseo.WebVitals) models.CoreWebVitals {
	return models.CoreWebVitals{
		LCP:        v.LCP,
		FID:        v.FID,
		CLS:        v.CLS,
		TTFB:       v.TTFB,
		FCP:        v.FCP,
		SpeedIndex: v.SpeedIndex,
		TTI:        v.TTI,
	}
}

// mobileChecksFor derives the six mobile signals from the page's
// failure-flavored vendor checks: an absent check means the signal is
// satisfied.
func mobileChecksFor(page dataforseo.PageItem) models.MobileChecks {
	return models.MobileChecks{
		HasViewport:        !page.Checks[mobileCheckIDs.viewport],
		ResponsiveImages:   !page.Checks[mobileCheckIDs.responsiveImages],
		LegibleFontSizes:   !page.Checks[mobileCheckIDs.fontSizes],
		TapTargetsSized:    !page.Checks[mobileCheckIDs.tapTargets],
		NoHorizontalScroll: !page.Checks[mobileCheckIDs.horizontalScroll],
		NoInterstitials:    !page.Checks[mobileCheckIDs.interstitials],
	}
}
