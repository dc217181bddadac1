package auditing

import (
	"github.com/adscope/ad-audit-api/internal/domain"
)

// Every rule maps its measured gap to a bounded 0-100 penalty score. The
// evaluate functions are pure: metrics in, score and findings out, no I/O.

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// scoreLinearRatio gives full credit at or above the minimum and scales
// linearly with actual/minimum below it.
func scoreLinearRatio(actual, minimum float64) float64 {
	if minimum <= 0 || actual >= minimum {
		return 100
	}
	return 100 * clamp01(actual/minimum)
}

func evaluateCTRThreshold(totals *domain.MetricTotals, params *domain.CTRThresholdParams) (float64, map[string]any) {
	ctr := totals.CTR()
	score := scoreLinearRatio(ctr, params.MinCTR)

	return score, map[string]any{
		"ctr":         ctr,
		"min_ctr":     params.MinCTR,
		"impressions": totals.Impressions,
		"clicks":      totals.Clicks,
	}
}

// evaluateFrequencyThreshold penalizes over-exposure linearly across the
// overage band: frequency at max scores 100, at max*(1+overage_cap) or
// beyond scores 0.
func evaluateFrequencyThreshold(totals *domain.MetricTotals, params *domain.FrequencyThresholdParams) (float64, map[string]any) {
	frequency := totals.Frequency

	score := 100.0
	if params.MaxFrequency > 0 && frequency > params.MaxFrequency {
		overageCap := params.OverageCap
		if overageCap <= 0 {
			overageCap = 1
		}
		overage := (frequency - params.MaxFrequency) / (params.MaxFrequency * overageCap)
		score = 100 * clamp01(1-overage)
	}

	return score, map[string]any{
		"frequency":     frequency,
		"max_frequency": params.MaxFrequency,
	}
}

// evaluateTrackingHealth scores conversion rate and click volume separately
// and keeps the worse of the two.
func evaluateTrackingHealth(totals *domain.MetricTotals, params *domain.TrackingHealthParams) (float64, map[string]any) {
	convRate := totals.ConversionRate()

	convScore := scoreLinearRatio(convRate, params.MinConvRate)
	clickScore := scoreLinearRatio(float64(totals.Clicks), float64(params.MinClicks))

	score := convScore
	if clickScore < score {
		score = clickScore
	}

	return score, map[string]any{
		"conv_rate":     convRate,
		"min_conv_rate": params.MinConvRate,
		"clicks":        totals.Clicks,
		"min_clicks":    params.MinClicks,
		"conversions":   totals.Conversions,
	}
}

// evaluateBudgetConcentration penalizes the excess share of the top-N
// spenders against the headroom left above max_share.
func evaluateBudgetConcentration(topShare float64, params *domain.BudgetConcentrationParams) (float64, map[string]any) {
	score := 100.0
	if topShare > params.MaxShare {
		excess := topShare - params.MaxShare
		headroom := 1 - params.MaxShare
		if headroom <= 0 {
			score = 0
		} else {
			score = 100 * clamp01(1-excess/headroom)
		}
	}

	return score, map[string]any{
		"top_n":     params.TopN,
		"top_share": topShare,
		"max_share": params.MaxShare,
	}
}

// evaluateCreativeDiversity penalizes the single worst shortfall against the
// configured per-type minimum spend shares.
func evaluateCreativeDiversity(videoShare, imageShare float64, params *domain.CreativeDiversityParams) (float64, map[string]any) {
	shortfall := 0.0
	if gap := params.MinVideoShare - videoShare; gap > shortfall {
		shortfall = gap
	}
	if gap := params.MinImageShare - imageShare; gap > shortfall {
		shortfall = gap
	}

	score := 100 * (1 - clamp01(shortfall))

	return score, map[string]any{
		"video_share":     videoShare,
		"image_share":     imageShare,
		"min_video_share": params.MinVideoShare,
		"min_image_share": params.MinImageShare,
	}
}

// evaluatePacingVsTarget gives full credit while |1 - actual/target| stays
// within tolerance and decays linearly to zero at tol_cap.
func evaluatePacingVsTarget(spend, target float64, params *domain.PacingVsTargetParams) (float64, map[string]any) {
	findings := map[string]any{
		"spend":        spend,
		"target_spend": target,
		"tolerance":    params.Tolerance,
		"tol_cap":      params.TolCap,
	}

	if target <= 0 {
		return 0, findings
	}

	deviation := spend/target - 1
	if deviation < 0 {
		deviation = -deviation
	}
	findings["deviation"] = deviation

	if deviation <= params.Tolerance {
		return 100, findings
	}

	score := 100 * clamp01(1-(deviation-params.Tolerance)/(params.TolCap-params.Tolerance))
	return score, findings
}
