package draw

// step draws one section starting at cursor y and returns the next cursor.
type step func(c Canvas, l *layout, y float64) float64

// steps run top to bottom in this order.
var steps = []struct {
	name string
	draw step
}{
	{"header", drawHeader},
	{"metadata", drawMetadata},
	{"parties", drawParties},
	{"table", drawTable},
	{"totals", drawTotals},
	{"payment", drawPayment},
	{"footer", drawFooter},
}

const (
	margin       = 15.0
	bannerHeight = 40.0
	logoSize     = 20.0
	sectionGap   = 8.0
	rowHeight    = 8.0
	lineHeight   = 5.0
)

func contentRight(c Canvas) float64 {
	w, _ := c.PageSize()

	return w - margin
}

func textRight(c Canvas, right, y float64, s string) {
	c.Text(right-c.TextWidth(s), y, s)
}

func textCenter(c Canvas, center, y float64, s string) {
	c.Text(center-c.TextWidth(s)/2, y, s)
}

func drawHeader(c Canvas, l *layout, _ float64) float64 {
	pageW, _ := c.PageSize()

	c.SetFillColor(l.primary)
	c.Rect(0, 0, pageW, bannerHeight, true, false)

	x := margin

	if l.hasLogo {
		c.SetFillColor(l.primary.Tint(0.8))
		c.Rect(margin, (bannerHeight-logoSize)/2, logoSize, logoSize, true, false)
		c.SetTextColor(l.primary)
		c.SetFont(FontBold, 7)
		textCenter(c, margin+logoSize/2, bannerHeight/2+1, "LOGO")

		x += logoSize + 5
	}

	c.SetTextColor(white)
	c.SetFont(FontBold, 18)
	c.Text(x, 17, l.company)

	c.SetFont(FontRegular, 9)

	lineY := 24.0

	for _, contact := range []string{l.companyEmail, l.companyPhone} {
		if contact == "" {
			continue
		}

		c.Text(x, lineY, contact)
		lineY += lineHeight
	}

	c.SetFont(FontBold, 24)
	textRight(c, contentRight(c), 25, "INVOICE")

	return bannerHeight + sectionGap
}

func drawMetadata(c Canvas, l *layout, y float64) float64 {
	const (
		boxW = 75.0
		boxH = 24.0
	)

	right := contentRight(c)
	x := right - boxW

	c.SetFillColor(panelFill)
	c.SetDrawColor(border)
	c.SetLineWidth(0.3)
	c.Rect(x, y, boxW, boxH, true, true)

	entries := [][2]string{
		{"Invoice Number:", l.number},
		{"Issue Date:", l.issueDate},
		{"Due Date:", l.dueDate},
	}

	lineY := y + 7

	for _, e := range entries {
		c.SetTextColor(muted)
		c.SetFont(FontBold, 9)
		c.Text(x+4, lineY, e[0])

		c.SetTextColor(ink)
		c.SetFont(FontRegular, 9)
		textRight(c, right-4, lineY, e[1])

		lineY += 6
	}

	return y + boxH + sectionGap
}

func drawParties(c Canvas, l *layout, y float64) float64 {
	const panelH = 32.0

	right := contentRight(c)
	mid := (margin + right) / 2
	panelW := mid - margin - 3

	panels := []struct {
		x     float64
		title string
		lines []string
	}{
		{margin, "From", []string{l.company, l.companyEmail, l.companyPhone, l.website}},
		{mid + 3, "Bill To", []string{l.customerName, l.customerEmail, l.customerPhone}},
	}

	c.SetDrawColor(border)
	c.SetLineWidth(0.3)

	for _, p := range panels {
		c.SetFillColor(panelFill)
		c.Rect(p.x, y, panelW, panelH, true, true)

		c.SetTextColor(l.primary)
		c.SetFont(FontBold, 10)
		c.Text(p.x+4, y+7, p.title)

		c.SetTextColor(ink)

		lineY := y + 13

		for i, line := range p.lines {
			if line == "" {
				continue
			}

			if i == 0 {
				c.SetFont(FontBold, 10)
			} else {
				c.SetFont(FontRegular, 9)
			}

			c.Text(p.x+4, lineY, line)
			lineY += lineHeight
		}
	}

	c.SetDrawColor(border)
	c.Line(mid, y+4, mid, y+panelH-4)

	return y + panelH + sectionGap
}

// column right edges of the line-item table.
const (
	colQty    = 125.0
	colRate   = 160.0
	descWidth = 90.0
)

func drawTable(c Canvas, l *layout, y float64) float64 {
	right := contentRight(c)
	width := right - margin

	c.SetFillColor(l.accent)
	c.Rect(margin, y, width, rowHeight+1, true, false)

	c.SetTextColor(white)
	c.SetFont(FontBold, 10)

	headerY := y + 6
	c.Text(margin+3, headerY, "Description")
	textRight(c, colQty, headerY, "Qty")
	textRight(c, colRate, headerY, "Rate")
	textRight(c, right-3, headerY, "Amount")

	y += rowHeight + 1

	tint := l.accent.Tint(0.9)

	c.SetFont(FontRegular, 9)

	for i, r := range l.rows {
		lines := wrap(c, r.description, descWidth)
		h := rowHeight + float64(len(lines)-1)*lineHeight

		if i%2 == 1 {
			c.SetFillColor(tint)
			c.Rect(margin, y, width, h, true, false)
		}

		c.SetTextColor(ink)

		textY := y + 5.5
		for j, line := range lines {
			c.Text(margin+3, textY+float64(j)*lineHeight, line)
		}

		textRight(c, colQty, textY, r.quantity)
		textRight(c, colRate, textY, r.rate)
		textRight(c, right-3, textY, r.amount)

		y += h
	}

	c.SetDrawColor(border)
	c.SetLineWidth(0.3)
	c.Line(margin, y, right, y)

	return y + sectionGap/2
}

func drawTotals(c Canvas, l *layout, y float64) float64 {
	const labelX = 125.0

	right := contentRight(c)

	type line struct {
		label, value string
	}

	lines := []line{{"Subtotal:", l.subtotal}}

	if l.hasTax {
		lines = append(lines, line{l.taxLabel + ":", l.tax})
	}

	if l.hasDiscount {
		lines = append(lines, line{"Discount:", l.discount})
	}

	c.SetTextColor(ink)
	c.SetFont(FontRegular, 10)

	for _, ln := range lines {
		y += 6
		c.Text(labelX, y, ln.label)
		textRight(c, right-3, y, ln.value)
	}

	y += 4

	c.SetFillColor(l.accent)
	c.Rect(labelX-3, y, right-labelX+3, 10, true, false)

	c.SetTextColor(white)
	c.SetFont(FontBold, 12)
	c.Text(labelX, y+7, "Total:")
	textRight(c, right-3, y+7, l.total)

	return y + 10 + sectionGap
}

func drawPayment(c Canvas, l *layout, y float64) float64 {
	right := contentRight(c)

	c.SetTextColor(ink)
	c.SetFont(FontBold, 12)
	c.Text(margin, y+5, "Payment Information")

	y += 12

	c.SetFont(FontBold, 10)
	c.Text(margin, y, "Status:")

	c.SetTextColor(l.statusColor)
	c.Text(margin+c.TextWidth("Status: "), y, l.status)

	if l.paymentLink != "" {
		y += 6

		c.SetTextColor(ink)
		c.SetFont(FontRegular, 9)
		c.Text(margin, y, "Pay online: ")

		c.SetTextColor(l.primary)
		c.Text(margin+c.TextWidth("Pay online: "), y, l.paymentLink)
	}

	y += 5

	c.SetFont(FontRegular, 9)

	lines := wrap(c, l.terms, right-margin-8)
	boxH := float64(len(lines))*lineHeight + 11

	c.SetFillColor(panelFill)
	c.SetDrawColor(border)
	c.SetLineWidth(0.3)
	c.Rect(margin, y, right-margin, boxH, true, true)

	c.SetTextColor(ink)
	c.SetFont(FontBold, 9)
	c.Text(margin+4, y+6, "Terms & Conditions")

	c.SetTextColor(muted)
	c.SetFont(FontRegular, 9)

	for i, line := range lines {
		c.Text(margin+4, y+11+float64(i)*lineHeight, line)
	}

	return y + boxH + sectionGap
}

const footerHeight = 25.0

func drawFooter(c Canvas, l *layout, y float64) float64 {
	pageW, pageH := c.PageSize()
	right := contentRight(c)

	top := pageH - footerHeight
	if y > top {
		top = y
	}

	c.SetDrawColor(border)
	c.SetLineWidth(0.3)
	c.Line(margin, top, right, top)

	c.SetTextColor(muted)
	c.SetFont(FontItalic, 9)
	textCenter(c, pageW/2, top+7, "Thank you for your business with "+l.company+"!")

	c.SetFont(FontRegular, 8)
	textRight(c, right, top+13, "Page 1 of 1")

	if l.companyEmail != "" {
		c.Text(margin, top+13, "Questions? Contact "+l.companyEmail)
	}

	return top + footerHeight
}
