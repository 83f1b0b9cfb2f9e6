package chart

import (
	"bytes"
	"fmt"
)

const (
	lineWidth    = 800.0
	lineHeight   = 400.0
	reportWidth  = 900.0
	marginLeft   = 60.0
	marginRight  = 20.0
	marginTop    = 40.0
	marginBottom = 40.0

	barHeight = 22.0
	barGap    = 8.0
)

const (
	colorHealthy  = "#3a7d44"
	colorStressed = "#c94f1d"
	colorAlerted  = "#b3261e"
	colorAxis     = "#555555"
	colorGrid     = "#dddddd"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	showGrid bool
}

// WithGrid draws horizontal gridlines behind the series.
func WithGrid() SVGOption { return func(r *svgRenderer) { r.showGrid = true } }

// RenderLineSVG draws a zone's NDVI history as a line chart with the
// stage threshold as a dashed reference line.
func RenderLineSVG(s Series, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	lo, hi := s.valueRange()
	plotW := lineWidth - marginLeft - marginRight
	plotH := lineHeight - marginTop - marginBottom

	x := func(i int) float64 {
		if len(s.Points) <= 1 {
			return marginLeft + plotW/2
		}
		return marginLeft + plotW*float64(i)/float64(len(s.Points)-1)
	}
	y := func(v float64) float64 {
		return marginTop + plotH*(1-(v-lo)/(hi-lo))
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		lineWidth, lineHeight, lineWidth, lineHeight)
	fmt.Fprintf(&buf, `<rect width="100%%" height="100%%" fill="white"/>`+"\n")
	fmt.Fprintf(&buf, `<text x="%.0f" y="24" font-family="sans-serif" font-size="16" fill="black">NDVI — %s</text>`+"\n",
		marginLeft, escape(s.Zone))

	if r.showGrid {
		for _, v := range []float64{0.2, 0.4, 0.6, 0.8} {
			if v < lo || v > hi {
				continue
			}
			fmt.Fprintf(&buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n",
				marginLeft, y(v), lineWidth-marginRight, y(v), colorGrid)
		}
	}

	// Axes.
	fmt.Fprintf(&buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n",
		marginLeft, marginTop, marginLeft, lineHeight-marginBottom, colorAxis)
	fmt.Fprintf(&buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n",
		marginLeft, lineHeight-marginBottom, lineWidth-marginRight, lineHeight-marginBottom, colorAxis)
	fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="11" fill="%s" text-anchor="end">%.2f</text>`+"\n",
		marginLeft-6, y(hi)+4, colorAxis, hi)
	fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="11" fill="%s" text-anchor="end">%.2f</text>`+"\n",
		marginLeft-6, y(lo)+4, colorAxis, lo)

	// Threshold reference.
	fmt.Fprintf(&buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-dasharray="6 4"/>`+"\n",
		marginLeft, y(s.Threshold), lineWidth-marginRight, y(s.Threshold), colorStressed)

	if len(s.Points) > 0 {
		var points bytes.Buffer
		for i, p := range s.Points {
			if i > 0 {
				points.WriteByte(' ')
			}
			fmt.Fprintf(&points, "%.1f,%.1f", x(i), y(p.Value))
		}
		fmt.Fprintf(&buf, `<polyline points="%s" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
			points.String(), colorHealthy)
		for i, p := range s.Points {
			fmt.Fprintf(&buf, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>`+"\n", x(i), y(p.Value), colorHealthy)
		}
		first, last := s.Points[0], s.Points[len(s.Points)-1]
		fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="11" fill="%s">%s</text>`+"\n",
			marginLeft, lineHeight-12, colorAxis, first.Date.Format("2006-01-02"))
		fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="11" fill="%s" text-anchor="end">%s</text>`+"\n",
			lineWidth-marginRight, lineHeight-12, colorAxis, last.Date.Format("2006-01-02"))
	} else {
		fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="14" fill="%s">no observations yet</text>`+"\n",
			lineWidth/2-70, lineHeight/2, colorAxis)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderReportSVG draws one sweep as a horizontal bar per zone, colored
// by whether the zone clears its stage threshold.
func RenderReportSVG(rep Report) []byte {
	height := marginTop + marginBottom + float64(len(rep.Bars))*(barHeight+barGap)
	plotW := reportWidth - 260 - marginRight

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		reportWidth, height, reportWidth, height)
	fmt.Fprintf(&buf, `<rect width="100%%" height="100%%" fill="white"/>`+"\n")

	title := rep.Title
	if title == "" {
		title = "NDVI sweep"
	}
	fmt.Fprintf(&buf, `<text x="20" y="24" font-family="sans-serif" font-size="16" fill="black">%s — %s</text>`+"\n",
		escape(title), rep.Date.Format("2006-01-02"))

	for i, b := range rep.Bars {
		top := marginTop + float64(i)*(barHeight+barGap)
		w := plotW * clamp01(b.NDVI)
		fmt.Fprintf(&buf, `<text x="250" y="%.1f" font-family="sans-serif" font-size="12" fill="black" text-anchor="end">%s</text>`+"\n",
			top+barHeight-7, escape(b.Zone))
		fmt.Fprintf(&buf, `<rect x="260" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			top, w, barHeight, barColor(b))
		fmt.Fprintf(&buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="black" stroke-dasharray="3 3"/>`+"\n",
			260+plotW*clamp01(b.Expected), top-2, 260+plotW*clamp01(b.Expected), top+barHeight+2)
		fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="11" fill="%s">%.2f</text>`+"\n",
			260+w+6, top+barHeight-7, colorAxis, b.NDVI)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func barColor(b Bar) string {
	switch {
	case b.Alerted:
		return colorAlerted
	case b.healthy():
		return colorHealthy
	default:
		return colorStressed
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func escape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
