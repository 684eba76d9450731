package quant

import (
	"math"
	"sort"
)

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleVariance returns the unbiased (n-1) variance, or 0 when fewer
// than two observations are available.
func sampleVariance(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	m := mean(xs)
	sum2 := 0.0
	for _, x := range xs {
		d := x - m
		sum2 += d * d
	}
	v := sum2 / float64(n-1)
	if v < 0 {
		v = 0
	}
	return v
}

func sampleStdDev(xs []float64) float64 {
	return math.Sqrt(sampleVariance(xs))
}

// pctChanges computes period-over-period percentage changes
// (c[i]-c[i-1])/c[i-1]. Returns len(closes)-1 values, nil if fewer than
// two closes.
func pctChanges(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (closes[i]-prev)/prev)
	}
	return out
}

// percentile returns the p-th percentile (0..100) of xs with linear
// interpolation between ranks. xs is copied, not mutated.
func percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// tTestPValue returns the two-sided p-value of a t statistic with df
// degrees of freedom: P(|T| >= |t|) = I_{df/(df+t^2)}(df/2, 1/2).
func tTestPValue(t, df float64) float64 {
	if df <= 0 {
		return 1
	}
	return regIncBeta(df/2, 0.5, df/(df+t*t))
}

// regIncBeta computes the regularized incomplete beta function I_x(a,b)
// via the continued fraction expansion (modified Lentz).
func regIncBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	// Symmetry keeps the continued fraction in its convergent region.
	if x > (a+1)/(a+b+2) {
		return 1 - regIncBeta(b, a, 1-x)
	}

	lga, _ := math.Lgamma(a)
	lgb, _ := math.Lgamma(b)
	lgab, _ := math.Lgamma(a + b)
	front := math.Exp(lgab-lga-lgb+a*math.Log(x)+b*math.Log(1-x)) / a

	const (
		eps     = 1e-12
		tiny    = 1e-30
		maxIter = 300
	)
	f, c, d := 1.0, 1.0, 0.0
	for i := 0; i <= maxIter; i++ {
		m := float64(i / 2)
		var num float64
		switch {
		case i == 0:
			num = 1
		case i%2 == 0:
			num = m * (b - m) * x / ((a + 2*m - 1) * (a + 2*m))
		default:
			num = -(a + m) * (a + b + m) * x / ((a + 2*m) * (a + 2*m + 1))
		}
		d = 1 + num*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		d = 1 / d
		c = 1 + num/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		f *= c * d
		if math.Abs(1-c*d) < eps {
			break
		}
	}
	v := front * (f - 1)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }

func round3(x float64) float64 { return math.Round(x*1e3) / 1e3 }

func round4(x float64) float64 { return math.Round(x*1e4) / 1e4 }
