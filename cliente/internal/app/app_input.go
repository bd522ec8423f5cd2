package app

import (
	"log"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// updateControls envia o mouse para os controles da view sob o cursor.
// O arraste continua na view onde começou, mesmo saindo dela.
func (a *App) updateControls() {
	mouse := rl.GetMousePosition()

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		a.dragging = a.views.ViewAt(int(mouse.X), int(mouse.Y))
	}
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		a.dragging = nil
	}

	if a.dragging != nil {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			_, h := a.dragging.Viewport.Size()
			if h > 0 {
				k := 2 * math.Pi * a.Config.RotateSpeed / float32(h)
				a.dragging.Viewport.Controls().Rotate(delta.X*k, delta.Y*k)
			}
		}
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		if v := a.views.ViewAt(int(mouse.X), int(mouse.Y)); v != nil {
			factor := a.Config.ZoomSpeed
			if wheel < 0 {
				factor = 1 / factor
			}
			v.Viewport.Controls().Zoom(factor)
			// Sem amortecimento o zoom precisa de um Update explícito
			if !v.Viewport.Controls().NeedsUpdate() {
				v.Viewport.Controls().Update()
			}
		}
	}
}

// updateInput processa entradas de teclado gerais.
func (a *App) updateInput() {
	if rl.IsKeyPressed(rl.KeyF3) {
		a.Config.ShowDebugInfo = !a.Config.ShowDebugInfo
	}

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
		a.views.RequestResize(rl.GetScreenWidth(), rl.GetScreenHeight())
	}

	if rl.IsKeyPressed(rl.KeyR) {
		a.reload()
	}

	// Auto-rotação em todas as views
	if rl.IsKeyPressed(rl.KeyT) {
		a.Config.AutoRotate = !a.Config.AutoRotate
		for _, v := range a.views.Views() {
			v.Viewport.Controls().AutoRotate = a.Config.AutoRotate
		}
		log.Printf("[App] Auto-rotação: %v", a.Config.AutoRotate)
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		switch a.State {
		case StateViewing:
			a.State = StatePaused
			log.Println("[App] Pausado")
		case StatePaused:
			a.State = StateViewing
			log.Println("[App] Retomando")
		}
	}
}
