// Package views implementa o driver dos viewports sem depender da Raylib:
// divide a janela entre as views, busca as cenas (estáticas, de arquivo ou do
// servidor) e decide quando cada viewport reconstrói, avança ou renderiza.
package views

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"EasyVis/cliente/internal/scene"
	"EasyVis/shared/config"
	"EasyVis/shared/scenedata"
	"EasyVis/shared/util"
)

// Rotação aplicada a cada grupo por quadro no regime contínuo.
const continuousSpin = 0.01

// Fetcher busca a cena de uma view no colaborador remoto.
type Fetcher interface {
	FetchScene(ctx context.Context, viewID int) (*scenedata.Scene, error)
}

// SurfaceFactory cria a superfície de saída de uma view.
type SurfaceFactory func(viewID int) scene.Surface

// Options configura o conjunto de views.
type Options struct {
	Views          int
	Source         string
	SceneFile      string
	StaticPoints   int
	Continuous     bool
	FetchTimeout   time.Duration
	ResizeThrottle time.Duration
	Viewport       scene.Options
	Logger         *log.Logger
}

// OptionsFromConfig monta as opções a partir da configuração do cliente.
func OptionsFromConfig(cfg *config.Config) Options {
	vp := scene.DefaultOptions()
	vp.Fov = cfg.FOV
	vp.Near = cfg.Near
	vp.Far = cfg.Far
	vp.MinDistance = cfg.MinDistance
	vp.MaxDistance = cfg.MaxDistance
	vp.EnableDamping = cfg.EnableDamping
	vp.DampingFactor = cfg.DampingFactor
	vp.AutoRotate = cfg.AutoRotate
	vp.AutoRotateSpeed = cfg.AutoRotateSpeed

	return Options{
		Views:          cfg.Views,
		Source:         cfg.Source,
		SceneFile:      cfg.SceneFile,
		StaticPoints:   cfg.StaticPoints,
		Continuous:     cfg.Continuous,
		FetchTimeout:   time.Duration(cfg.FetchTimeoutMs) * time.Millisecond,
		ResizeThrottle: time.Duration(cfg.ResizeThrottleMs) * time.Millisecond,
		Viewport:       vp,
	}
}

// View é um viewport e sua posição na janela.
type View struct {
	ID       int
	Viewport *scene.Viewport
	Surface  scene.Surface
	X        int

	LastErr error // Última falha ao obter a cena (nil depois de um sucesso)
	Loaded  bool  // Já recebeu ao menos uma cena
}

type fetchResult struct {
	scene *scenedata.Scene
	err   error
}

// Set é o contexto do driver: um ResourceCache compartilhado e uma view por
// superfície. Todos os métodos rodam na thread principal, exceto as buscas
// remotas, que só entregam resultados pela fila.
type Set struct {
	opts    Options
	logger  *log.Logger
	cache   *scene.ResourceCache
	fetcher Fetcher
	views   []*View

	results *util.LatestQueue[int, fetchResult]
	pending map[int]bool
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	width, height int
	resizeWanted  bool
	wantW, wantH  int
	lastResize    time.Time

	disposed bool
}

// NewSet cria o cache e as views, já dimensionadas para width x height.
// fetcher só é usado com a fonte remota e pode ser nil nas demais.
func NewSet(device scene.Device, surfaces SurfaceFactory, fetcher Fetcher, width, height int, opts Options) *Set {
	if opts.Views < 1 {
		opts.Views = 1
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Viewport.Logger == nil {
		opts.Viewport.Logger = opts.Logger
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Set{
		opts:    opts,
		logger:  opts.Logger,
		cache:   scene.NewResourceCache(device, opts.Logger),
		fetcher: fetcher,
		results: util.NewLatestQueue[int, fetchResult](),
		pending: make(map[int]bool),
		ctx:     ctx,
		cancel:  cancel,
		width:   width,
		height:  height,
	}

	vw, vh := s.viewSize(width, height)
	for i := 0; i < opts.Views; i++ {
		surface := surfaces(i)
		s.views = append(s.views, &View{
			ID:       i,
			Viewport: scene.NewViewport(surface, vw, vh, opts.Viewport),
			Surface:  surface,
			X:        i * vw,
		})
	}

	// Regime estático: só renderiza quando os controles mudam a câmera
	if !opts.Continuous {
		for _, v := range s.views {
			vp := v.Viewport
			vp.Controls().OnChange = vp.Render
		}
	}

	s.logger.Printf("[Views] %d views de %dx%d (fonte: %s, contínuo: %v)", len(s.views), vw, vh, opts.Source, opts.Continuous)
	return s
}

// viewSize divide a largura igualmente entre as views.
func (s *Set) viewSize(width, height int) (int, int) {
	return width / s.opts.Views, height
}

// Views retorna as views em ordem.
func (s *Set) Views() []*View { return s.views }

// Cache retorna o cache compartilhado.
func (s *Set) Cache() *scene.ResourceCache { return s.cache }

// Size retorna o tamanho da área total aplicado por último.
func (s *Set) Size() (int, int) { return s.width, s.height }

// Load obtém as cenas conforme a fonte configurada. Na fonte remota só
// dispara as buscas; os resultados chegam em Apply.
func (s *Set) Load() error {
	switch s.opts.Source {
	case config.SourceRemote:
		if s.fetcher == nil {
			return fmt.Errorf("fonte remota sem cliente configurado")
		}
		for _, v := range s.views {
			s.Fetch(v.ID)
		}
		return nil

	case config.SourceFile:
		sc, err := scenedata.LoadFile(s.opts.SceneFile)
		if err != nil {
			s.logger.Printf("[Views] Erro ao carregar cena de %s: %v", s.opts.SceneFile, err)
			for _, v := range s.views {
				v.LastErr = err
			}
			return err
		}
		s.RebuildAll(sc)
		return nil

	case config.SourceStatic, "":
		s.RebuildAll(scenedata.Generate(s.opts.StaticPoints))
		return nil
	}
	return fmt.Errorf("fonte de cena desconhecida %q", s.opts.Source)
}

// RebuildAll reconstrói todas as views com a mesma cena.
func (s *Set) RebuildAll(sc *scenedata.Scene) {
	for _, v := range s.views {
		s.rebuild(v, sc)
	}
}

// Rebuild reconstrói uma view.
func (s *Set) Rebuild(viewID int, sc *scenedata.Scene) error {
	v := s.view(viewID)
	if v == nil {
		return fmt.Errorf("view %d inexistente", viewID)
	}
	s.rebuild(v, sc)
	return nil
}

func (s *Set) rebuild(v *View, sc *scenedata.Scene) {
	groups := scene.BuildScene(sc, s.cache)
	v.Viewport.Rebuild(groups, scene.DefaultLights())
	v.Loaded = true
	v.LastErr = nil
}

// Fetch dispara uma busca única e assíncrona da cena da view. Uma busca já
// em andamento para a mesma view não é repetida.
func (s *Set) Fetch(viewID int) {
	if s.disposed || s.fetcher == nil || s.pending[viewID] {
		return
	}
	s.pending[viewID] = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.results.Put(viewID, fetchResult{err: fmt.Errorf("panic na busca: %v", r)})
			}
		}()

		ctx := s.ctx
		if s.opts.FetchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.opts.FetchTimeout)
			defer cancel()
		}

		sc, err := s.fetcher.FetchScene(ctx, viewID)
		s.results.Put(viewID, fetchResult{scene: sc, err: err})
	}()
}

// Pending informa se ainda há busca em andamento para a view.
func (s *Set) Pending(viewID int) bool {
	return s.pending[viewID]
}

// Wait bloqueia até todas as buscas em andamento terminarem.
func (s *Set) Wait() {
	s.wg.Wait()
}

// Apply consome os resultados das buscas. Falhas só vão para o log: a view
// mantém a última cena boa (ou continua vazia). Retorna quantas views foram
// reconstruídas.
func (s *Set) Apply() int {
	rebuilt := 0
	for _, e := range s.results.Drain() {
		id, res := e.Key, e.Value
		delete(s.pending, id)

		v := s.view(id)
		if v == nil || s.disposed {
			continue
		}
		if res.err != nil {
			v.LastErr = res.err
			s.logger.Printf("[Views] Cena da view %d indisponível, rebuild ignorado: %v", id, res.err)
			continue
		}
		s.rebuild(v, res.scene)
		rebuilt++
	}
	return rebuilt
}

// RequestResize registra o novo tamanho da janela. A aplicação acontece em
// Frame, no máximo uma vez por ResizeThrottle.
func (s *Set) RequestResize(width, height int) {
	if width == s.width && height == s.height && !s.resizeWanted {
		return
	}
	s.resizeWanted = true
	s.wantW, s.wantH = width, height
}

// Resize aplica imediatamente o tamanho da janela a todas as views.
func (s *Set) Resize(width, height int) {
	s.resizeWanted = false
	if height <= 0 || width <= 0 {
		s.logger.Printf("[Views] Resize ignorado: tamanho inválido %dx%d", width, height)
		return
	}
	s.width, s.height = width, height

	vw, vh := s.viewSize(width, height)
	for i, v := range s.views {
		v.X = i * vw
		v.Viewport.Resize(vw, vh)
	}
}

// Frame executa um passo do loop principal: aplica resultados, resize
// pendente e o regime de animação.
func (s *Set) Frame(now time.Time) {
	if s.disposed {
		return
	}

	s.Apply()

	if s.resizeWanted && now.Sub(s.lastResize) >= s.opts.ResizeThrottle {
		s.lastResize = now
		s.Resize(s.wantW, s.wantH)
	}

	for _, v := range s.views {
		if v.Viewport.State() != scene.Active {
			continue
		}
		if s.opts.Continuous {
			for _, g := range v.Viewport.Groups() {
				g.Rotation[1] += continuousSpin
			}
			v.Viewport.Tick()
			v.Viewport.Render()
		} else {
			// OnChange renderiza quando a câmera se move
			v.Viewport.Controls().Update()
		}
	}
}

// ViewAt retorna a view sob o ponto (x, y) da janela, ou nil.
func (s *Set) ViewAt(x, y int) *View {
	if y < 0 || y >= s.height {
		return nil
	}
	for _, v := range s.views {
		w, _ := v.Viewport.Size()
		if x >= v.X && x < v.X+w {
			return v
		}
	}
	return nil
}

func (s *Set) view(id int) *View {
	if id < 0 || id >= len(s.views) {
		return nil
	}
	return s.views[id]
}

// Dispose cancela as buscas, descarta os viewports e libera o cache.
func (s *Set) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.cancel()
	s.wg.Wait()
	s.results.Reset()

	for _, v := range s.views {
		v.Viewport.Dispose()
	}
	s.cache.Release()
	s.logger.Println("[Views] Views descartadas")
}
