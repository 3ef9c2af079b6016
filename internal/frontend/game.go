package frontend

import (
	"fmt"
	"strings"

	"github.com/janpfeifer/GoPyramid/internal/game"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// CardBackImage is shown for the face-down reserve placeholder.
const CardBackImage = "https://deckofcardsapi.com/static/img/back.png"

// Game renders the pyramid, the reserve stacks and the game controls.
type Game struct {
	app.Compo
	State    *game.GameState
	GameOver bool
	Removed  []string
	Error    string
	Drawing  bool

	onUpdate func()
}

func (g *Game) OnAppUpdate(ctx app.Context) {
	klog.Infof("Game component: App update available, not reloading not to interrupt the game...")
}

func (g *Game) OnMount(ctx app.Context) {
	klog.Infof("Game component: OnMount called")
	g.sync()
	g.onUpdate = func() {
		klog.V(1).Infof("Game component: Notify received")
		ctx.Dispatch(func(ctx app.Context) {
			g.sync()
			if State.GameID != "" {
				if err := ctx.LocalStorage().Set(GameIDKey, State.GameID); err != nil {
					klog.Errorf("Game component: failed to save game id: %v", err)
				}
			}
		})
	}
	State.Listeners["game"] = g.onUpdate
}

func (g *Game) OnDismount() {
	klog.Infof("Game component: OnDismount called")
	delete(State.Listeners, "game")
}

func (g *Game) OnNav(ctx app.Context) {
	klog.Infof("Game component: OnNav called")
	g.sync()
	if State.Conn != nil {
		return
	}

	var gameID string
	if err := ctx.LocalStorage().Get(GameIDKey, &gameID); err != nil {
		klog.Warningf("Game component: no saved game id: %v", err)
	}
	klog.Infof("Game component: Connecting, saved game ID: %q", gameID)
	if err := State.ConnectWS(gameID); err != nil {
		g.Error = fmt.Sprintf("Failed to connect to the server: %v", err)
		klog.Errorf("Game component: Error connecting: %v", err)
	}
}

// sync copies the shared client state into the component.
func (g *Game) sync() {
	g.State = State.Game
	g.GameOver = State.GameOver
	g.Removed = State.Removed
	g.Error = State.Error
	g.Drawing = State.Drawing
}

func (g *Game) onCardClick(cardID string) app.EventHandler {
	return func(ctx app.Context, e app.Event) {
		if g.State == nil || g.GameOver {
			return
		}
		if err := State.SendSelect(cardID); err != nil {
			g.Error = err.Error()
		}
	}
}

func (g *Game) onDraw(ctx app.Context, e app.Event) {
	e.PreventDefault()
	if err := State.SendDraw(); err != nil {
		g.Error = err.Error()
	}
	g.Drawing = State.Drawing
}

func (g *Game) onNewGame(ctx app.Context, e app.Event) {
	e.PreventDefault()
	if err := State.SendNew(); err != nil {
		g.Error = err.Error()
	}
}

// cardClasses returns the CSS classes of a visible card: "selectable" only
// highlights, every visible card takes clicks.
func cardClasses(c game.Card, armedID string) []string {
	classes := []string{"card"}
	if c.Selectable {
		classes = append(classes, "selectable")
	}
	if armedID != "" && armedID == c.ID {
		classes = append(classes, "armed")
	}
	return classes
}

// Covered cards are clickable too: the server clears the armed card on a locked click.
func (g *Game) renderCard(c game.Card) app.UI {
	if c.Removed {
		return app.Div().Class("card", "card-empty")
	}
	return app.Img().
		Class(cardClasses(c, g.State.Selection.CardID)...).
		Src(c.Image).
		Alt(c.ID).
		Title(c.ID).
		OnClick(g.onCardClick(c.ID))
}

func (g *Game) renderPyramid() app.UI {
	rows := make([]app.UI, 0, game.PyramidRows)
	for _, row := range g.State.Pyramid {
		cards := make([]app.UI, 0, len(row))
		for _, c := range row {
			cards = append(cards, g.renderCard(c))
		}
		rows = append(rows, app.Div().Class("pyramid-row").Body(cards...))
	}
	return app.Div().Class("pyramid").Body(rows...)
}

func (g *Game) renderReserve() app.UI {
	stacks := make([]app.UI, 0, game.ReserveStacks)
	for i := range game.ReserveStacks {
		var body app.UI
		if top := g.State.Reserve.Top(i); top >= 0 {
			body = g.renderCard(g.State.Reserve[i][top])
		} else {
			body = app.Div().Class("card", "card-empty")
		}
		stacks = append(stacks, app.Div().Class("reserve-stack").Body(
			body,
			app.Small().Text(fmt.Sprintf("%d", len(g.State.Reserve[i]))),
		))
	}

	drawLabel := fmt.Sprintf("Draw %d", game.DrawCount)
	if g.Drawing {
		drawLabel = "Drawing..."
	}
	deck := app.Div().Class("reserve-stack").Body(
		app.Img().Class("card").Src(CardBackImage).Alt("deck"),
		app.Button().
			Disabled(g.Drawing || !g.State.HasCardsLeftToDraw || g.GameOver).
			Aria("busy", fmt.Sprintf("%t", g.Drawing)).
			OnClick(g.onDraw).
			Text(drawLabel),
	)
	return app.Div().Class("reserve").Body(append([]app.UI{deck}, stacks...)...)
}

func (g *Game) renderBanner() app.UI {
	switch {
	case g.State.HasWon:
		return app.Article().Class("banner", "banner-won").Body(
			app.H3().Text("You cleared the pyramid!"),
			app.P().Text(fmt.Sprintf("%d moves.", g.State.Moves)),
			app.Button().OnClick(g.onNewGame).Text("Play again"),
		)
	case g.GameOver:
		return app.Article().Class("banner", "banner-over").Body(
			app.H3().Text("No more moves"),
			app.Button().OnClick(g.onNewGame).Text("New game"),
		)
	}
	return nil
}

func (g *Game) Render() app.UI {
	if State == nil {
		return app.Main().Class("container").Body(
			app.Div().Aria("busy", "true").Text("Loading..."),
		)
	}

	var errorBox app.UI
	if g.Error != "" {
		errorBox = app.P().Class("error").Style("color", "red").Text(g.Error)
	}

	var content app.UI
	if g.State == nil {
		content = app.Div().Aria("busy", "true").Text("Dealing cards...")
	} else {
		var highlight app.UI
		if len(g.Removed) > 0 {
			highlight = app.P().Class("last-move").Text("Removed: " + strings.Join(g.Removed, " "))
		}
		content = app.Div().Class("board").Body(
			g.renderPyramid(),
			g.renderReserve(),
			highlight,
			g.renderBanner(),
		)
	}

	return app.Main().Class("container").Body(
		&TopBar{ShowNewGame: true},
		errorBox,
		content,
	)
}
