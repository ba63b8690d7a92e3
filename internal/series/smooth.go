package series

import "math"

// MovingAverage returns the simple moving average of the y values over at
// most window samples. The first window-1 outputs average over the samples
// seen so far. A zero window yields nothing.
func MovingAverage(points []Point, window int) []Point {
	if window <= 0 {
		return nil
	}
	out := make([]Point, len(points))
	var sum float64
	for i, p := range points {
		sum += p.Y
		if i >= window {
			sum -= points[i-window].Y
		}
		count := min(window, i+1)
		out[i] = Point{X: p.X, Y: sum / float64(count)}
	}
	return out
}

// ExponentialMA seeds with the first y value and then applies
// ema = alpha*y + (1-alpha)*ema.
func ExponentialMA(points []Point, alpha float64) []Point {
	if len(points) == 0 {
		return nil
	}
	out := make([]Point, len(points))
	ema := points[0].Y
	out[0] = points[0]
	for i := 1; i < len(points); i++ {
		ema = alpha*points[i].Y + (1-alpha)*ema
		out[i] = Point{X: points[i].X, Y: ema}
	}
	return out
}

// Smooth applies method with the given window. EMA uses alpha = 2/(window+1).
func Smooth(points []Point, window int, method Smoothing) []Point {
	if method == EMA {
		return ExponentialMA(points, 2/(float64(window)+1))
	}
	return MovingAverage(points, window)
}

// TrendLine fits a least-squares line and returns its endpoints at the first
// and last x. Fewer than two points yield nothing.
func TrendLine(points []Point) []Point {
	if len(points) < 2 {
		return nil
	}
	return TrendLineFromSlope(points, slope(points))
}

// slope is the least-squares slope of points; 0 when all x are equal.
func slope(points []Point) float64 {
	mx, my := means(points)
	var num, den float64
	for _, p := range points {
		num += (p.X - mx) * (p.Y - my)
		den += (p.X - mx) * (p.X - mx)
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// daysPerMonth is the month length used to extend a date axis.
const daysPerMonth = 30

// MonthlySlope is the least-squares change in y per month of a date-axis
// series, or per workout on an index axis. Fewer than two points yield
// false.
func MonthlySlope(points []Point, axis XAxis) (float64, bool) {
	if len(points) < 2 {
		return 0, false
	}
	m := slope(points)
	if axis == Date {
		m *= daysPerMonth
	}
	return m, true
}

// Forecast projects the last point monthsAhead months forward at
// slopePerMonth and returns the last point and the projection. A date axis
// advances 30 days per month, an index axis one step per month. Empty
// input or a non-finite projection yields nothing.
func Forecast(points []Point, slopePerMonth, monthsAhead float64, axis XAxis) []Point {
	if len(points) == 0 {
		return nil
	}
	last := points[len(points)-1]
	y := last.Y + slopePerMonth*monthsAhead
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return nil
	}
	dx := monthsAhead
	if axis == Date {
		dx *= daysPerMonth
	}
	return []Point{last, {X: last.X + dx, Y: y}}
}

// TrendLineFromSlope passes a line with the given slope through the mean of
// points and returns its endpoints.
func TrendLineFromSlope(points []Point, slope float64) []Point {
	if len(points) < 2 {
		return nil
	}
	mx, my := means(points)
	intercept := my - slope*mx
	first, last := points[0].X, points[len(points)-1].X
	return []Point{
		{X: first, Y: slope*first + intercept},
		{X: last, Y: slope*last + intercept},
	}
}

func means(points []Point) (float64, float64) {
	var sx, sy float64
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(points))
	return sx / n, sy / n
}
