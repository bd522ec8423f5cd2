package main

import (
	"flag"
	"io"
	"log"
	"os"
	"runtime"

	"EasyVis/cliente/internal/app"
	"EasyVis/shared/config"
)

func main() {
	// Raylib/OpenGL exige rodar na thread principal do SO
	runtime.LockOSThread()

	// Flags de linha de comando
	serverURL := flag.String("server", "", "URL do servidor EasyVis (padrão: http://127.0.0.1:3000)")
	source := flag.String("source", "", "Fonte das cenas: static, file ou remote")
	sceneFile := flag.String("scene", "", "Arquivo de cena JSON/YAML (implica -source file)")
	views := flag.Int("views", 0, "Número de viewports lado a lado")
	continuous := flag.Bool("continuous", false, "Loop de animação contínuo")
	protobuf := flag.Bool("protobuf", false, "Pedir cenas em protobuf ao servidor")
	fullscreen := flag.Bool("fullscreen", false, "Iniciar em tela cheia")
	debug := flag.Bool("debug", false, "Mostrar informações de debug")
	width := flag.Int("width", 0, "Largura da janela")
	height := flag.Int("height", 0, "Altura da janela")
	flag.Parse()

	// Log em arquivo e no console
	log.SetFlags(log.Ltime | log.Lshortfile)
	f, err := os.OpenFile("debug_easyvis.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err == nil {
		defer f.Close()
		log.SetOutput(io.MultiWriter(os.Stdout, f))
		log.Println("--- INICIANDO EASYVIS ---")
	}

	log.Println("╔══════════════════════════════════════╗")
	log.Println("║           EasyVis v0.1.0             ║")
	log.Println("║  Visualizador 3D de esferas e caixas ║")
	log.Println("╚══════════════════════════════════════╝")

	// Carregar configurações
	cfg := config.Load()

	// Aplicar flags de linha de comando (sobrescrevem o config salvo)
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *source != "" {
		cfg.Source = *source
	}
	if *sceneFile != "" {
		cfg.SceneFile = *sceneFile
		cfg.Source = config.SourceFile
	}
	if *views > 0 {
		cfg.Views = *views
	}
	if *continuous {
		cfg.Continuous = true
	}
	if *protobuf {
		cfg.UseProtobuf = true
	}
	if *fullscreen {
		cfg.Fullscreen = true
	}
	if *debug {
		cfg.ShowDebugInfo = true
	}
	if *width > 0 {
		cfg.WindowWidth = int32(*width)
	}
	if *height > 0 {
		cfg.WindowHeight = int32(*height)
	}

	application := app.New(cfg)
	application.Run()
}
