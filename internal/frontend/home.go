package frontend

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// Home is the landing page component
type Home struct {
	app.Compo
	savedGameID string
}

func (h *Home) OnNav(ctx app.Context) {
	klog.V(1).Infof("Home: OnNav called, Path=%s", app.Window().URL().Path)
	if err := ctx.LocalStorage().Get(GameIDKey, &h.savedGameID); err != nil {
		klog.Warningf("Home: failed to read saved game id: %v", err)
	}
}

func (h *Home) OnAppUpdate(ctx app.Context) {
	klog.Infof("Home component: App update available, reloading...")
	ctx.Reload()
}

func (h *Home) onContinue(ctx app.Context, e app.Event) {
	e.PreventDefault()
	ctx.Navigate("/game")
}

func (h *Home) onNewGame(ctx app.Context, e app.Event) {
	e.PreventDefault()
	// Forget the saved game, the server deals a fresh one on join.
	ctx.LocalStorage().Del(GameIDKey)
	if State.Conn != nil {
		if err := State.SendNew(); err != nil {
			klog.Errorf("Home: %v", err)
		}
	}
	ctx.Navigate("/game")
}

func (h *Home) Render() app.UI {
	buttons := []app.UI{
		app.Button().OnClick(h.onNewGame).Text("New game"),
	}
	if h.savedGameID != "" {
		buttons = append(buttons, app.Button().Class("secondary").OnClick(h.onContinue).Text("Continue game"))
	}

	return app.Main().Class("container").Body(
		&TopBar{},
		app.Article().Body(
			app.Header().Body(
				app.H2().Text("Pyramid Solitaire"),
			),
			app.P().Text("28 cards are dealt face up in a pyramid of 7 rows. "+
				"Remove pairs of uncovered cards adding up to 13: Jacks count 11, Queens 12, and Kings are removed on their own."),
			app.P().Text("When you run out of moves, draw 3 cards onto the reserve stacks. "+
				"Clear the whole pyramid to win."),
			app.Div().Class("grid").Body(buttons...),
		),
	)
}
