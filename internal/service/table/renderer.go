package table

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/park285/holdem-trainer/internal/domain"
	"github.com/park285/holdem-trainer/internal/util"
	"github.com/park285/holdem-trainer/pkg/pokerdto"
)

// RenderOptions carries the presentation-only state the snapshot does not:
// which seat the sequencer is highlighting, which seats it shows folded, and
// the strings the HUD panels display.
type RenderOptions struct {
	Title       string
	Status      string
	Highlighted domain.Position
	Folded      []domain.Position
}

type Renderer interface {
	RenderPNG(ctx context.Context, state *pokerdto.GameState, opts RenderOptions) ([]byte, error)
}

type feltRenderer struct{}

func NewFeltRenderer() Renderer { return &feltRenderer{} }

const (
	canvasWidth  = 960
	canvasHeight = 640

	tableMarginX = 40
	tableTop     = 118
	tableBottom  = 600

	seatWidth  = 172
	seatHeight = 76
	seatRadius = 12

	cardWidth    = 44
	cardHeight   = 62
	cardRadius   = 6
	cardGap      = 6
	seatCardSize = 22

	hudPanelHeight = 40
	hudRadius      = 12
	hudPaddingX    = 24
	hudTop         = 18
	statusTop      = 68
	statusHeight   = 32
)

var (
	backgroundColor = color.NRGBA{R: 18, G: 20, B: 30, A: 255}
	railColor       = color.NRGBA{R: 62, G: 40, B: 30, A: 255}
	feltColor       = color.NRGBA{R: 24, G: 92, B: 56, A: 255}
	feltRingColor   = color.NRGBA{R: 18, G: 70, B: 44, A: 255}

	hudPanelColor   = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudStatusColor  = color.NRGBA{R: 32, G: 35, B: 52, A: 245}
	hudShadowColor  = color.NRGBA{A: 50}
	textPrimary     = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	textSecondary   = color.NRGBA{R: 176, G: 183, B: 212, A: 255}
	potTextColor    = color.NRGBA{R: 255, G: 224, B: 138, A: 255}
	winnerTextColor = color.NRGBA{R: 140, G: 222, B: 156, A: 255}

	seatPanelColor  = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	seatLivePanel   = color.NRGBA{R: 38, G: 43, B: 66, A: 250}
	highlightRing   = color.NRGBA{R: 255, G: 196, B: 72, A: 255}
	foldShroudColor = color.NRGBA{R: 8, G: 9, B: 13, A: 150}

	cardFaceColor  = color.NRGBA{R: 248, G: 248, B: 244, A: 255}
	cardBackColor  = color.NRGBA{R: 36, G: 62, B: 124, A: 255}
	cardBackInlay  = color.NRGBA{R: 58, G: 94, B: 170, A: 255}
	redSuitColor   = color.NRGBA{R: 196, G: 30, B: 58, A: 255}
	blackSuitColor = color.NRGBA{R: 24, G: 27, B: 36, A: 255}

	buttonDiscColor = color.NRGBA{R: 234, G: 235, B: 239, A: 255}
)

// Seat panel centers as fractions of the table rect, fixed clockwise layout.
var seatAnchors = map[domain.Position][2]float64{
	domain.UTG: {0.26, 0.07},
	domain.MP:  {0.74, 0.07},
	domain.CO:  {0.955, 0.50},
	domain.BTN: {0.74, 0.93},
	domain.SB:  {0.26, 0.93},
	domain.BB:  {0.045, 0.50},
}

func (r *feltRenderer) RenderPNG(ctx context.Context, state *pokerdto.GameState, opts RenderOptions) ([]byte, error) {
	if state == nil {
		return nil, fmt.Errorf("game state is nil")
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	tableRect := image.Rect(tableMarginX, tableTop, canvasWidth-tableMarginX, tableBottom)

	if err := drawHUD(img, state, opts); err != nil {
		return nil, err
	}
	drawFelt(img, tableRect)
	if err := drawCenter(img, state, tableRect); err != nil {
		return nil, err
	}
	if err := drawSeats(img, state, opts, tableRect); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawHUD(img *image.RGBA, state *pokerdto.GameState, opts RenderOptions) error {
	face, err := captionFace()
	if err != nil {
		return err
	}
	drawer := &font.Drawer{Dst: img, Face: face}

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Hand Reading Trainer"
	}
	street := strings.ToUpper(strings.TrimSpace(state.Street))
	if street == "" {
		street = "PREFLOP"
	}

	titleWidth := drawer.MeasureString(title).Round() + hudPaddingX*2
	if titleWidth < 280 {
		titleWidth = 280
	}
	streetWidth := drawer.MeasureString(street).Round() + hudPaddingX*2
	if streetWidth < 130 {
		streetWidth = 130
	}

	titleRect := image.Rect(tableMarginX, hudTop, tableMarginX+titleWidth, hudTop+hudPanelHeight)
	streetRect := image.Rect(canvasWidth-tableMarginX-streetWidth, hudTop, canvasWidth-tableMarginX, hudTop+hudPanelHeight)

	drawRoundedPanel(img, titleRect.Add(image.Pt(0, 5)), hudRadius, hudShadowColor)
	drawRoundedPanel(img, streetRect.Add(image.Pt(0, 5)), hudRadius, hudShadowColor)
	drawRoundedPanel(img, titleRect, hudRadius, hudPanelColor)
	drawRoundedPanel(img, streetRect, hudRadius, hudPanelColor)
	drawCenteredString(drawer, titleRect, truncateWithEllipsis(face, title, titleRect.Dx()-hudPaddingX*2), textPrimary)
	drawCenteredString(drawer, streetRect, street, textSecondary)

	status := strings.TrimSpace(opts.Status)
	if status == "" {
		return nil
	}
	statusWidth := drawer.MeasureString(status).Round() + hudPaddingX*2
	if statusWidth < 200 {
		statusWidth = 200
	}
	maxStatus := canvasWidth - tableMarginX*2
	if statusWidth > maxStatus {
		statusWidth = maxStatus
	}
	left := (canvasWidth - statusWidth) / 2
	statusRect := image.Rect(left, statusTop, left+statusWidth, statusTop+statusHeight)
	drawRoundedPanel(img, statusRect, hudRadius, hudStatusColor)
	drawCenteredString(drawer, statusRect, truncateWithEllipsis(face, status, statusRect.Dx()-hudPaddingX*2), textSecondary)
	return nil
}

func drawFelt(img *image.RGBA, tableRect image.Rectangle) {
	center := image.Pt(tableRect.Min.X+tableRect.Dx()/2, tableRect.Min.Y+tableRect.Dy()/2)
	rx := tableRect.Dx()/2 - seatWidth/2 - 6
	ry := tableRect.Dy()/2 - seatHeight/2 - 4
	fillEllipse(img, center, rx+14, ry+14, railColor)
	fillEllipse(img, center, rx, ry, feltRingColor)
	fillEllipse(img, center, rx-8, ry-8, feltColor)
}

func drawCenter(img *image.RGBA, state *pokerdto.GameState, tableRect image.Rectangle) error {
	face, err := titleFace()
	if err != nil {
		return err
	}
	drawer := &font.Drawer{Dst: img, Face: face}
	center := image.Pt(tableRect.Min.X+tableRect.Dx()/2, tableRect.Min.Y+tableRect.Dy()/2)

	pot := "POT " + util.FormatChips(state.Pot)
	potRect := image.Rect(center.X-150, center.Y-cardHeight/2-44, center.X+150, center.Y-cardHeight/2-8)
	drawCenteredString(drawer, potRect, pot, potTextColor)

	if state.HandComplete && strings.TrimSpace(state.Winner) != "" {
		caption, err := captionFace()
		if err != nil {
			return err
		}
		winDrawer := &font.Drawer{Dst: img, Face: caption}
		winRect := image.Rect(center.X-150, center.Y+cardHeight/2+10, center.X+150, center.Y+cardHeight/2+36)
		drawCenteredString(winDrawer, winRect, strings.ToUpper(state.Winner)+" WINS", winnerTextColor)
	}

	cards := state.CommunityCards
	if len(cards) == 0 {
		return nil
	}
	if len(cards) > 5 {
		cards = cards[:5]
	}
	rowWidth := len(cards)*cardWidth + (len(cards)-1)*cardGap
	x := center.X - rowWidth/2
	y := center.Y - cardHeight/2
	for _, c := range cards {
		rect := image.Rect(x, y, x+cardWidth, y+cardHeight)
		if err := drawCard(img, rect, domain.Card(c)); err != nil {
			return err
		}
		x += cardWidth + cardGap
	}
	return nil
}

func drawSeats(img *image.RGBA, state *pokerdto.GameState, opts RenderOptions, tableRect image.Rectangle) error {
	folded := make(map[domain.Position]bool, len(opts.Folded))
	for _, p := range opts.Folded {
		folded[p] = true
	}
	for _, pos := range domain.Positions() {
		rect := seatRect(pos, tableRect)
		player, ok := state.Players[string(pos)]
		if !ok {
			player = pokerdto.PlayerState{Position: string(pos)}
		}
		if err := drawSeat(img, rect, pos, player, opts.Highlighted == pos, folded[pos] || player.Folded); err != nil {
			return err
		}
		if pos == domain.BTN {
			if err := drawDealerButton(img, rect); err != nil {
				return err
			}
		}
	}
	return nil
}

// drawDealerButton marks the button seat with the classic "D" disc, tucked
// against the seat's top-left corner.
func drawDealerButton(img *image.RGBA, seat image.Rectangle) error {
	face, err := captionFace()
	if err != nil {
		return err
	}
	center := image.Pt(seat.Min.X+4, seat.Min.Y-4)
	drawDisc(img, center, 12, buttonDiscColor)
	drawer := &font.Drawer{Dst: img, Face: face}
	drawCenteredString(drawer, image.Rect(center.X-12, center.Y-12, center.X+12, center.Y+12), "D", blackSuitColor)
	return nil
}

func seatRect(pos domain.Position, tableRect image.Rectangle) image.Rectangle {
	anchor := seatAnchors[pos]
	cx := tableRect.Min.X + int(anchor[0]*float64(tableRect.Dx()))
	cy := tableRect.Min.Y + int(anchor[1]*float64(tableRect.Dy()))
	rect := image.Rect(cx-seatWidth/2, cy-seatHeight/2, cx+seatWidth/2, cy+seatHeight/2)

	// clamp to canvas
	if rect.Min.X < 4 {
		rect = rect.Add(image.Pt(4-rect.Min.X, 0))
	}
	if rect.Max.X > canvasWidth-4 {
		rect = rect.Add(image.Pt(canvasWidth-4-rect.Max.X, 0))
	}
	if rect.Min.Y < 4 {
		rect = rect.Add(image.Pt(0, 4-rect.Min.Y))
	}
	if rect.Max.Y > canvasHeight-4 {
		rect = rect.Add(image.Pt(0, canvasHeight-4-rect.Max.Y))
	}
	return rect
}

func drawSeat(img *image.RGBA, rect image.Rectangle, pos domain.Position, player pokerdto.PlayerState, highlighted, folded bool) error {
	face, err := captionFace()
	if err != nil {
		return err
	}
	drawer := &font.Drawer{Dst: img, Face: face}

	if highlighted {
		drawRoundedPanel(img, rect.Inset(-3), seatRadius+3, highlightRing)
	}
	panel := seatPanelColor
	if player.IsActive {
		panel = seatLivePanel
	}
	drawRoundedPanel(img, rect, seatRadius, panel)

	label := string(pos)
	if tag := strings.TrimSpace(player.Label); tag != "" && tag != label {
		label += " · " + tag
	}
	textLeft := rect.Min.X + 12
	drawLeftString(drawer, textLeft, rect.Min.Y+22, truncateWithEllipsis(face, label, rect.Dx()-24), textPrimary)
	drawLeftString(drawer, textLeft, rect.Min.Y+42, util.FormatChips(player.Stack), textSecondary)
	if player.CurrentBet > 0 {
		drawLeftString(drawer, textLeft, rect.Min.Y+62, "bet "+util.FormatChips(player.CurrentBet), potTextColor)
	} else if player.AllIn {
		drawLeftString(drawer, textLeft, rect.Min.Y+62, "ALL IN", potTextColor)
	}

	if len(player.HoleCards) >= 2 {
		miniW := cardWidth * 3 / 4
		miniH := cardHeight * 3 / 4
		top := rect.Min.Y + (rect.Dy()-miniH)/2
		right := rect.Max.X - 10
		second := image.Rect(right-miniW, top, right, top+miniH)
		first := second.Sub(image.Pt(miniW-10, -4))
		if err := drawMiniCard(img, first, domain.Card(player.HoleCards[0])); err != nil {
			return err
		}
		if err := drawMiniCard(img, second, domain.Card(player.HoleCards[1])); err != nil {
			return err
		}
	}

	if folded {
		drawRoundedPanel(img, rect, seatRadius, foldShroudColor)
	}
	return nil
}

func drawCard(img *image.RGBA, rect image.Rectangle, card domain.Card) error {
	if card.Hidden() || !card.Valid() {
		drawCardBack(img, rect)
		return nil
	}
	drawRoundedPanel(img, rect, cardRadius, cardFaceColor)

	face, err := cardFace()
	if err != nil {
		return err
	}
	drawer := &font.Drawer{Dst: img, Face: face}
	clr := suitColor(card.Suit())
	rankRect := image.Rect(rect.Min.X, rect.Min.Y+2, rect.Max.X, rect.Min.Y+26)
	drawCenteredString(drawer, rankRect, rankLabel(card.Rank()), clr)

	glyphSize := rect.Dx() * 5 / 9
	glyph, err := suitImage(card.Suit(), glyphSize)
	if err != nil {
		return err
	}
	gx := rect.Min.X + (rect.Dx()-glyphSize)/2
	gy := rect.Max.Y - glyphSize - 5
	imagedraw.Draw(img, image.Rect(gx, gy, gx+glyphSize, gy+glyphSize), glyph, image.Point{}, imagedraw.Over)
	return nil
}

func drawMiniCard(img *image.RGBA, rect image.Rectangle, card domain.Card) error {
	if card.Hidden() || !card.Valid() {
		drawCardBack(img, rect)
		return nil
	}
	drawRoundedPanel(img, rect, cardRadius-1, cardFaceColor)

	face, err := captionFace()
	if err != nil {
		return err
	}
	drawer := &font.Drawer{Dst: img, Face: face}
	clr := suitColor(card.Suit())
	rankRect := image.Rect(rect.Min.X, rect.Min.Y+1, rect.Max.X, rect.Min.Y+19)
	drawCenteredString(drawer, rankRect, rankLabel(card.Rank()), clr)

	glyph, err := suitImage(card.Suit(), seatCardSize)
	if err != nil {
		return err
	}
	gx := rect.Min.X + (rect.Dx()-seatCardSize)/2
	gy := rect.Max.Y - seatCardSize - 3
	imagedraw.Draw(img, image.Rect(gx, gy, gx+seatCardSize, gy+seatCardSize), glyph, image.Point{}, imagedraw.Over)
	return nil
}

func drawCardBack(img *image.RGBA, rect image.Rectangle) {
	drawRoundedPanel(img, rect, cardRadius, cardBackColor)
	inner := rect.Inset(5)
	if !inner.Empty() {
		drawRoundedPanel(img, inner, cardRadius-2, cardBackInlay)
	}
}

func rankLabel(rank byte) string {
	if rank == 'T' {
		return "10"
	}
	return string(rank)
}

func suitColor(suit byte) color.NRGBA {
	if suit == 'h' || suit == 'd' {
		return redSuitColor
	}
	return blackSuitColor
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}
	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}
	ellipsis := "..."
	if drawer.MeasureString(ellipsis).Round() > maxWidth {
		return ""
	}
	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}

func drawRoundedPanel(img *image.RGBA, rect image.Rectangle, radius int, clr color.Color) {
	if img == nil || rect.Empty() {
		return
	}
	if radius < 0 {
		radius = 0
	}
	maxRadius := rect.Dx() / 2
	if r := rect.Dy() / 2; r < maxRadius {
		maxRadius = r
	}
	if radius > maxRadius {
		radius = maxRadius
	}
	fill := image.NewUniform(clr)
	if radius == 0 {
		imagedraw.Draw(img, rect, fill, image.Point{}, imagedraw.Over)
		return
	}

	core := image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y)
	if core.Dx() > 0 {
		imagedraw.Draw(img, core, fill, image.Point{}, imagedraw.Over)
	}
	left := image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Min.X+radius, rect.Max.Y-radius)
	if left.Dx() > 0 {
		imagedraw.Draw(img, left, fill, image.Point{}, imagedraw.Over)
	}
	right := image.Rect(rect.Max.X-radius, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius)
	if right.Dx() > 0 {
		imagedraw.Draw(img, right, fill, image.Point{}, imagedraw.Over)
	}

	corners := []image.Point{
		{rect.Min.X + radius, rect.Min.Y + radius},
		{rect.Max.X - radius - 1, rect.Min.Y + radius},
		{rect.Min.X + radius, rect.Max.Y - radius - 1},
		{rect.Max.X - radius - 1, rect.Max.Y - radius - 1},
	}
	for _, center := range corners {
		drawDisc(img, center, radius, clr)
	}
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	if drawer == nil {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := rect.Min.X + (rect.Dx()-width)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawLeftString(drawer *font.Drawer, x, baseline int, text string, clr color.Color) {
	if drawer == nil || text == "" {
		return
	}
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func fillEllipse(img *image.RGBA, center image.Point, rx, ry int, clr color.Color) {
	if img == nil || rx <= 0 || ry <= 0 {
		return
	}
	rx2 := float64(rx) * float64(rx)
	ry2 := float64(ry) * float64(ry)
	for y := -ry; y <= ry; y++ {
		for x := -rx; x <= rx; x++ {
			if float64(x*x)/rx2+float64(y*y)/ry2 > 1 {
				continue
			}
			blendPixel(img, center.X+x, center.Y+y, clr)
		}
	}
}

func drawDisc(img *image.RGBA, center image.Point, radius int, clr color.Color) {
	if radius <= 0 {
		blendPixel(img, center.X, center.Y, clr)
		return
	}
	rSquared := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y > rSquared {
				continue
			}
			blendPixel(img, center.X+x, center.Y+y, clr)
		}
	}
}

func blendPixel(img *image.RGBA, x, y int, clr color.Color) {
	if img == nil {
		return
	}
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}

	sr, sg, sb, sa := clr.RGBA()
	srcA := float64(sa) / 65535.0
	if srcA <= 0 {
		return
	}
	srcR := float64(sr) / 65535.0
	srcG := float64(sg) / 65535.0
	srcB := float64(sb) / 65535.0

	dst := img.RGBAAt(x, y)
	dstA := float64(dst.A) / 255.0
	var dstR, dstG, dstB float64
	if dstA > 0 {
		inv := 1.0 / dstA
		dstR = float64(dst.R) / 255.0 * inv
		dstG = float64(dst.G) / 255.0 * inv
		dstB = float64(dst.B) / 255.0 * inv
	}

	outA := srcA + dstA*(1-srcA)
	if outA <= 0 {
		img.SetRGBA(x, y, color.RGBA{})
		return
	}
	outR := (srcR*srcA + dstR*dstA*(1-srcA)) / outA
	outG := (srcG*srcA + dstG*dstA*(1-srcA)) / outA
	outB := (srcB*srcA + dstB*dstA*(1-srcA)) / outA

	img.SetRGBA(x, y, color.RGBA{
		R: floatToUint8(outR * outA * 255.0),
		G: floatToUint8(outG * outA * 255.0),
		B: floatToUint8(outB * outA * 255.0),
		A: floatToUint8(outA * 255.0),
	})
}

func floatToUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
