package quant

import (
	"math"

	"QuantPulse/internal/domain/models"
)

// alpha is the significance level for the two-sample factor test.
const alpha = 0.05

// minSampleSize is the floor below which no test is attempted.
const minSampleSize = 2

// CheckFactorSignificance tests whether a trading factor produces a
// statistically different mean outcome under favorable vs. unfavorable
// conditions. Both inputs are unordered samples of outcomes (returns).
//
// The test is a Welch two-sample t-test (unequal variances assumed);
// effect size is a Cohen's-d standardized mean difference with pooled
// standard deviation, positive when favorable outcomes exceed
// unfavorable ones.
func CheckFactorSignificance(factorName string, favorable, unfavorable []float64) models.SignificanceResult {
	n1, n2 := len(favorable), len(unfavorable)
	sizes := [2]int{n1, n2}

	if n1 < minSampleSize || n2 < minSampleSize {
		return models.SignificanceResult{
			FactorName:  factorName,
			PValue:      1,
			Significant: false,
			SampleSizes: sizes,
			Method:      models.MethodInsufficientData,
		}
	}

	m1, m2 := mean(favorable), mean(unfavorable)
	v1, v2 := sampleVariance(favorable), sampleVariance(unfavorable)
	diff := m1 - m2

	pooled := math.Sqrt((v1 + v2) / 2)
	effect := 0.0
	if pooled > 0 {
		effect = diff / pooled
	}

	pValue := welchPValue(diff, v1, v2, n1, n2)

	return models.SignificanceResult{
		FactorName:      factorName,
		FavorableMean:   round4(m1),
		UnfavorableMean: round4(m2),
		EffectSize:      round3(effect),
		PValue:          round4(pValue),
		Significant:     pValue < alpha,
		SampleSizes:     sizes,
		Method:          models.MethodTwoSampleTTest,
	}
}

// welchPValue computes the two-sided p-value for a difference in means
// under unequal variances, guarding the zero-variance degenerate cases:
// identical constant samples carry no evidence (p=1); constant samples
// with different means are perfectly separated (p=0).
func welchPValue(diff, v1, v2 float64, n1, n2 int) float64 {
	se2 := v1/float64(n1) + v2/float64(n2)
	if se2 == 0 {
		if diff == 0 {
			return 1
		}
		return 0
	}

	t := diff / math.Sqrt(se2)

	// Welch-Satterthwaite degrees of freedom.
	a := v1 / float64(n1)
	b := v2 / float64(n2)
	df := (a + b) * (a + b) / (a*a/float64(n1-1) + b*b/float64(n2-1))

	return tTestPValue(t, df)
}
