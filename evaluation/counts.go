// SPDX-License-Identifier: MIT

package evaluation

// Counts is the confusion table of one relation kind.
type Counts struct {
	TP int `json:"tp" yaml:"tp"`
	FP int `json:"fp" yaml:"fp"`
	FN int `json:"fn" yaml:"fn"`
	TN int `json:"tn" yaml:"tn"`
}

// Total returns the number of classified pairs.
func (c Counts) Total() int { return c.TP + c.FP + c.FN + c.TN }

// add classifies one pair.
func (c *Counts) add(discovered, truth bool) {
	switch {
	case discovered && truth:
		c.TP++
	case discovered:
		c.FP++
	case truth:
		c.FN++
	default:
		c.TN++
	}
}

// Precision is TP/(TP+FP), or 0 when nothing was asserted.
func (c Counts) Precision() float64 { return ratio(c.TP, c.TP+c.FP) }

// Recall is TP/(TP+FN), or 0 when the truth holds nothing.
func (c Counts) Recall() float64 { return ratio(c.TP, c.TP+c.FN) }

// Accuracy is (TP+TN)/Total, or 0 for an empty table.
func (c Counts) Accuracy() float64 { return ratio(c.TP+c.TN, c.Total()) }

// F1 is the harmonic mean of precision and recall, or 0 when both are 0.
func (c Counts) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}

	return 2 * p * r / (p + r)
}

// Rates bundles the derived ratios for serialisation.
type Rates struct {
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`
	Accuracy  float64 `json:"accuracy" yaml:"accuracy"`
}

// Rates returns all derived ratios.
func (c Counts) Rates() Rates {
	return Rates{Precision: c.Precision(), Recall: c.Recall(), F1: c.F1(), Accuracy: c.Accuracy()}
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}

	return float64(num) / float64(den)
}
