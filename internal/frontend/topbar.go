package frontend

import (
	"fmt"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

type TopBar struct {
	app.Compo
	ShowNewGame bool
}

func (t *TopBar) onNewGame(ctx app.Context, e app.Event) {
	e.PreventDefault()
	if err := State.SendNew(); err != nil {
		klog.Errorf("TopBar: %v", err)
	}
}

func (t *TopBar) onBannerClick(ctx app.Context, e app.Event) {
	ctx.Navigate("/")
}

func (t *TopBar) Render() app.UI {
	var actions []app.UI
	if State != nil && State.Game != nil {
		actions = append(actions,
			app.Li().Body(app.Span().Text(fmt.Sprintf("Moves: %d", State.Game.Moves))),
			app.Li().Body(app.Span().Text(fmt.Sprintf("Deck: %d", State.Game.Remaining))),
		)
	}
	if t.ShowNewGame {
		actions = append(actions, app.Li().Body(app.A().Href("#").OnClick(t.onNewGame).Text("New game")))
	}

	return app.Nav().Body(
		app.Ul().Body(
			app.Li().Body(
				app.Strong().
					Style("cursor", "pointer").
					OnClick(t.onBannerClick).
					Text("GoPyramid"),
			),
		),
		app.Ul().Body(actions...),
	)
}
