package chart

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
)

type rgb struct{ r, g, b float64 }

var (
	rgbHealthy  = rgb{0.23, 0.49, 0.27}
	rgbStressed = rgb{0.79, 0.31, 0.11}
	rgbAlerted  = rgb{0.70, 0.15, 0.12}
	rgbAxis     = rgb{0.33, 0.33, 0.33}
)

func setColor(dc *gg.Context, c rgb) { dc.SetRGB(c.r, c.g, c.b) }

// RenderLinePNG rasterizes a zone's NDVI history line chart.
func RenderLinePNG(s Series) ([]byte, error) {
	dc := gg.NewContext(int(lineWidth), int(lineHeight))
	dc.SetRGB(1, 1, 1)
	dc.Clear()

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

	dc.SetRGB(0, 0, 0)
	dc.DrawString("NDVI - "+s.Zone, marginLeft, 24)

	// Axes.
	setColor(dc, rgbAxis)
	dc.SetLineWidth(1)
	dc.DrawLine(marginLeft, marginTop, marginLeft, lineHeight-marginBottom)
	dc.DrawLine(marginLeft, lineHeight-marginBottom, lineWidth-marginRight, lineHeight-marginBottom)
	dc.Stroke()
	dc.DrawStringAnchored(fmt.Sprintf("%.2f", hi), marginLeft-6, y(hi), 1, 0.35)
	dc.DrawStringAnchored(fmt.Sprintf("%.2f", lo), marginLeft-6, y(lo), 1, 0.35)

	// Threshold reference.
	setColor(dc, rgbStressed)
	dc.SetDash(6, 4)
	dc.DrawLine(marginLeft, y(s.Threshold), lineWidth-marginRight, y(s.Threshold))
	dc.Stroke()
	dc.SetDash()

	if len(s.Points) > 0 {
		setColor(dc, rgbHealthy)
		dc.SetLineWidth(2)
		for i, p := range s.Points {
			if i == 0 {
				dc.MoveTo(x(i), y(p.Value))
			} else {
				dc.LineTo(x(i), y(p.Value))
			}
		}
		dc.Stroke()
		for i, p := range s.Points {
			dc.DrawCircle(x(i), y(p.Value), 3)
			dc.Fill()
		}

		setColor(dc, rgbAxis)
		first, last := s.Points[0], s.Points[len(s.Points)-1]
		dc.DrawString(first.Date.Format("2006-01-02"), marginLeft, lineHeight-12)
		dc.DrawStringAnchored(last.Date.Format("2006-01-02"), lineWidth-marginRight, lineHeight-12, 1, 0)
	} else {
		setColor(dc, rgbAxis)
		dc.DrawStringAnchored("no observations yet", lineWidth/2, lineHeight/2, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderReportPNG rasterizes the sweep bar report for Telegram delivery.
func RenderReportPNG(rep Report) ([]byte, error) {
	height := marginTop + marginBottom + float64(len(rep.Bars))*(barHeight+barGap)
	plotW := reportWidth - 260 - marginRight

	dc := gg.NewContext(int(reportWidth), int(height))
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	title := rep.Title
	if title == "" {
		title = "NDVI sweep"
	}
	dc.SetRGB(0, 0, 0)
	dc.DrawString(fmt.Sprintf("%s - %s", title, rep.Date.Format("2006-01-02")), 20, 24)

	for i, b := range rep.Bars {
		top := marginTop + float64(i)*(barHeight+barGap)
		w := plotW * clamp01(b.NDVI)

		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(b.Zone, 250, top+barHeight/2, 1, 0.35)

		c := rgbHealthy
		if b.Alerted {
			c = rgbAlerted
		} else if !b.healthy() {
			c = rgbStressed
		}
		setColor(dc, c)
		dc.DrawRectangle(260, top, w, barHeight)
		dc.Fill()

		dc.SetRGB(0, 0, 0)
		dc.SetDash(3, 3)
		tx := 260 + plotW*clamp01(b.Expected)
		dc.DrawLine(tx, top-2, tx, top+barHeight+2)
		dc.Stroke()
		dc.SetDash()

		setColor(dc, rgbAxis)
		dc.DrawString(fmt.Sprintf("%.2f", b.NDVI), 260+w+6, top+barHeight-7)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
