package app

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// draw compõe as texturas das views na janela.
func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(30, 30, 40, 255))

	for i, v := range a.views.Views() {
		if i < len(a.surfaces) {
			a.surfaces[i].DrawAt(int32(v.X), 0)
		}
		if i > 0 {
			_, h := v.Viewport.Size()
			rl.DrawLine(int32(v.X), 0, int32(v.X), int32(h), rl.NewColor(60, 60, 70, 255))
		}
		a.drawViewStatus(i)
	}

	switch a.State {
	case StateLoading:
		a.drawLoading()
	case StatePaused:
		a.drawPaused()
	}

	a.drawHUD()
	rl.EndDrawing()
}

// drawViewStatus mostra o erro da última busca de uma view, se houver.
func (a *App) drawViewStatus(i int) {
	v := a.views.Views()[i]
	if v.LastErr == nil {
		return
	}
	msg := "Cena indisponível"
	if v.Loaded {
		msg = "Falha ao atualizar (última cena mantida)"
	}
	rl.DrawText(msg, int32(v.X)+10, 10, 16, rl.Orange)
}

// drawHUD desenha a interface de debug.
func (a *App) drawHUD() {
	if !a.Config.ShowDebugInfo {
		return
	}

	width := int32(300)
	height := int32(60 + 20*int32(len(a.views.Views())))
	x := int32(rl.GetScreenWidth()) - width - 10
	y := int32(10)

	rl.DrawRectangle(x, y, width, height, rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(x, y, width, height, rl.NewColor(50, 50, 50, 255))

	fps := rl.GetFPS()
	fpsColor := rl.Green
	if fps < 30 {
		fpsColor = rl.Red
	} else if fps < 50 {
		fpsColor = rl.Yellow
	}
	rl.DrawText(fmt.Sprintf("FPS: %d", fps), x+10, y+10, 20, fpsColor)

	cache := a.views.Cache()
	rl.DrawText(fmt.Sprintf("Materiais: %d", cache.AppearanceCount()), x+150, y+14, 14, rl.LightGray)

	for i, v := range a.views.Views() {
		drawn := 0
		if i < len(a.surfaces) {
			drawn = a.surfaces[i].LastCount
		}
		w, h := v.Viewport.Size()
		line := fmt.Sprintf("View %d: %s %dx%d, %d objetos", v.ID, v.Viewport.State(), w, h, drawn)
		rl.DrawText(line, x+10, y+40+int32(i)*20, 14, rl.White)
	}
}

func (a *App) drawLoading() {
	text := "Carregando cenas..."
	tw := rl.MeasureText(text, 24)
	rl.DrawText(text, (int32(rl.GetScreenWidth())-tw)/2, int32(rl.GetScreenHeight())/2, 24, rl.Gold)
}

func (a *App) drawPaused() {
	sw, sh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	rl.DrawRectangle(0, 0, sw, sh, rl.NewColor(0, 0, 0, 120))
	text := "PAUSADO (ESC para continuar)"
	tw := rl.MeasureText(text, 24)
	rl.DrawText(text, (sw-tw)/2, sh/2, 24, rl.Gold)
}
