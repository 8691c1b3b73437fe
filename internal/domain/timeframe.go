package domain

// Timeframe identifies one of the four milestone horizons of a plan.
// The declaration order is the cascade direction.
type Timeframe string

const (
	TimeframeOneMonth    Timeframe = "1_month"
	TimeframeThreeMonths Timeframe = "3_months"
	TimeframeOneYear     Timeframe = "1_year"
	TimeframeFiveYears   Timeframe = "5_years"
)

var timeframeOrder = []Timeframe{
	TimeframeOneMonth,
	TimeframeThreeMonths,
	TimeframeOneYear,
	TimeframeFiveYears,
}

var defaultTimelineWeeks = map[Timeframe]int{
	TimeframeOneMonth:    4,
	TimeframeThreeMonths: 12,
	TimeframeOneYear:     52,
	TimeframeFiveYears:   260,
}

// Timeframes returns the four timeframes in canonical order.
func Timeframes() []Timeframe {
	out := make([]Timeframe, len(timeframeOrder))
	copy(out, timeframeOrder)
	return out
}

// ParseTimeframe validates s against the canonical set.
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(s)
	if !tf.Valid() {
		return "", &InvalidTimeframeError{Value: s}
	}
	return tf, nil
}

// ParseTimeframes validates every name, keeping the caller's order.
func ParseTimeframes(names []string) ([]Timeframe, error) {
	out := make([]Timeframe, 0, len(names))
	for _, n := range names {
		tf, err := ParseTimeframe(n)
		if err != nil {
			return nil, err
		}
		out = append(out, tf)
	}
	return out, nil
}

func (tf Timeframe) Valid() bool {
	return tf.Index() >= 0
}

// Index returns the position of tf in the canonical order, or -1.
func (tf Timeframe) Index() int {
	for i, t := range timeframeOrder {
		if t == tf {
			return i
		}
	}
	return -1
}

// Downstream returns every timeframe strictly after tf. It is empty for
// 5_years and for invalid values.
func (tf Timeframe) Downstream() []Timeframe {
	i := tf.Index()
	if i < 0 {
		return nil
	}
	out := make([]Timeframe, 0, len(timeframeOrder)-i-1)
	return append(out, timeframeOrder[i+1:]...)
}

// DefaultTimelineWeeks is the duration used when generation omits one.
func (tf Timeframe) DefaultTimelineWeeks() int {
	return defaultTimelineWeeks[tf]
}

func (tf Timeframe) String() string { return string(tf) }
