package quant

import "QuantPulse/internal/domain/models"

// minRecoveryObservations is the shortest history worth scanning for
// drawdown episodes.
const minRecoveryObservations = 20

// AnalyzeRecovery measures the drawdown-recovery distribution of a
// price series: every episode where price fell more than thresholdPct
// below its running high, and how many periods each took to reclaim it.
// An episode still open at the end of the series counts against the
// recovery rate but contributes no recovery time.
func AnalyzeRecovery(closes []float64, thresholdPct float64) models.RecoveryStats {
	if len(closes) < minRecoveryObservations {
		return models.RecoveryStats{
			ThresholdPct: thresholdPct,
			Method:       models.MethodInsufficientData,
		}
	}

	var recoveryTimes []float64
	inEpisode := false
	episodeStart := 0
	high := closes[0]

	for i, c := range closes {
		if c > high {
			high = c
		}
		drawdown := (c - high) / high
		switch {
		case !inEpisode && drawdown <= -thresholdPct:
			inEpisode = true
			episodeStart = i
		case inEpisode && drawdown >= 0:
			recoveryTimes = append(recoveryTimes, float64(i-episodeStart))
			inEpisode = false
		}
	}

	total := len(recoveryTimes)
	if inEpisode {
		total++
	}

	if len(recoveryTimes) == 0 {
		return models.RecoveryStats{
			ThresholdPct: thresholdPct,
			EpisodeCount: total,
			Method:       models.MethodNoRecoveries,
		}
	}

	return models.RecoveryStats{
		ThresholdPct: thresholdPct,
		EpisodeCount: total,
		MedianDays:   percentile(recoveryTimes, 50),
		MeanDays:     mean(recoveryTimes),
		CILowDays:    percentile(recoveryTimes, 2.5),
		CIHighDays:   percentile(recoveryTimes, 97.5),
		RecoveryRate: round3(float64(len(recoveryTimes)) / float64(total)),
		Method:       models.MethodEmpirical,
	}
}
