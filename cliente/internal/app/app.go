package app

import (
	"context"
	"log"
	"time"

	"EasyVis/cliente/internal/client"
	"EasyVis/cliente/internal/render"
	"EasyVis/cliente/internal/scene"
	"EasyVis/cliente/internal/views"
	"EasyVis/shared/config"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// AppState representa os estados possíveis da aplicação.
type AppState int

const (
	StateLoading AppState = iota // Aguardando as primeiras cenas
	StateViewing                 // Visualizando
	StatePaused                  // Pausado (nenhuma view avança)
)

// App é a aplicação principal do EasyVis.
type App struct {
	Config *config.Config
	State  AppState

	device   *render.Device
	surfaces []*render.Surface
	views    *views.Set
	net      *client.SceneClient

	// Arraste do mouse: view que recebeu o clique
	dragging *views.View

	frameCount int
}

// New cria uma nova instância da aplicação.
func New(cfg *config.Config) *App {
	return &App{
		Config: cfg,
		State:  StateLoading,
	}
}

// Run abre a janela e roda o loop principal até ela ser fechada.
func (a *App) Run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro fatal: %v", r)
			panic(r)
		}
	}()

	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(a.Config.WindowWidth, a.Config.WindowHeight, a.Config.WindowTitle)
	rl.SetTraceLogLevel(rl.LogWarning)

	if a.Config.Fullscreen {
		rl.ToggleFullscreen()
	}
	rl.SetTargetFPS(a.Config.TargetFPS)
	rl.SetExitKey(0)

	log.Println("[EasyVis] Janela inicializada com sucesso")
	log.Printf("[EasyVis] Resolução: %dx%d", a.Config.WindowWidth, a.Config.WindowHeight)

	device, err := render.NewDevice()
	if err != nil {
		log.Printf("[App] ERRO CRÍTICO: %v", err)
		rl.CloseWindow()
		return
	}
	a.device = device

	var fetcher views.Fetcher
	if a.Config.Source == config.SourceRemote {
		a.net = client.NewSceneClient(a.Config.ServerURL, time.Duration(a.Config.FetchTimeoutMs)*time.Millisecond)
		a.net.UseProtobuf = a.Config.UseProtobuf
		fetcher = a.net
		go a.ping()
	}

	newSurface := func(int) scene.Surface {
		s := render.NewSurface(a.device, a.Config.ClearAlpha)
		a.surfaces = append(a.surfaces, s)
		return s
	}
	a.views = views.NewSet(a.device, newSurface, fetcher,
		rl.GetScreenWidth(), rl.GetScreenHeight(), views.OptionsFromConfig(a.Config))

	if err := a.views.Load(); err != nil {
		log.Printf("[App] Cena não carregada: %v", err)
	}

	for !rl.WindowShouldClose() {
		a.update()
		a.draw()
	}

	a.shutdown()
	rl.CloseWindow()
}

// update avança um quadro de lógica.
func (a *App) update() {
	a.frameCount++
	a.updateInput()

	if rl.IsWindowResized() {
		a.views.RequestResize(rl.GetScreenWidth(), rl.GetScreenHeight())
	}

	switch a.State {
	case StateLoading:
		a.views.Frame(time.Now())
		if a.anyLoaded() {
			a.State = StateViewing
		}
	case StateViewing:
		a.updateControls()
		a.views.Frame(time.Now())
	case StatePaused:
		// Só os resultados das buscas e o resize continuam
		a.views.Apply()
	}
}

func (a *App) anyLoaded() bool {
	for _, v := range a.views.Views() {
		if v.Loaded {
			return true
		}
	}
	return false
}

// reload busca as cenas de novo (tecla R).
func (a *App) reload() {
	log.Println("[App] Recarregando cenas...")
	if err := a.views.Load(); err != nil {
		log.Printf("[App] Cena não carregada: %v", err)
	}
}

// shutdown realiza a limpeza de recursos na ordem: views (instâncias e
// superfícies), cache compartilhado e por fim o shader.
func (a *App) shutdown() {
	log.Println("[App] Finalizando aplicação...")

	a.views.Dispose()
	a.device.Dispose()

	if err := a.Config.Save(); err != nil {
		log.Printf("[EasyVis] Erro ao salvar configurações: %v", err)
	}
}

// ping confirma que o servidor responde antes da primeira busca.
func (a *App) ping() {
	if a.net == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.net.WaitReady(ctx, 3, time.Second); err != nil {
		log.Printf("[Network] Servidor %s indisponível: %v", a.net.BaseURL(), err)
	}
}
