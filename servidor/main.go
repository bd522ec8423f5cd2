package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"EasyVis/servidor/internal/store"
	"EasyVis/shared/config"
)

const defaultMainPage = "Main page not set up"

func main() {
	// Caminhos relativos (saves/, tmp/) a partir do diretório do executável
	if exePath, err := os.Executable(); err == nil {
		os.Chdir(filepath.Dir(exePath))
	}

	port := flag.Int("port", 0, "Porta HTTP (padrão: config ou 3000)")
	noStore := flag.Bool("nostore", false, "Não abrir o banco; toda cena é gerada")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Uso: %s [flags] <arquivo html da página principal>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lshortfile)

	// Log no console e em arquivo ao mesmo tempo
	logOut := io.Writer(os.Stdout)
	if err := os.MkdirAll("tmp", 0755); err == nil {
		logFile, err := os.OpenFile("tmp/server.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			defer logFile.Close()
			logOut = io.MultiWriter(os.Stdout, logFile)
			log.SetOutput(logOut)
		}
	}
	log.Println("╔══════════════════════════════════════╗")
	log.Println("║        EasyVis SERVER v0.1.0         ║")
	log.Println("╚══════════════════════════════════════╝")

	cfg := config.Load()
	if *port > 0 {
		cfg.ServerPort = *port
	}
	if p := os.Getenv("PORT"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			cfg.ServerPort = n
		}
	}
	if flag.NArg() > 0 {
		cfg.MainPage = flag.Arg(0)
	}

	mainPage := []byte(defaultMainPage)
	if cfg.MainPage != "" {
		data, err := os.ReadFile(cfg.MainPage)
		if err != nil {
			log.Fatalf("Erro ao ler página principal: %v", err)
		}
		mainPage = data
	}

	var st SceneStore
	if !*noStore {
		s, err := store.Open(cfg.DBPath)
		if err != nil {
			log.Printf("Aviso: banco indisponível, servindo apenas cenas geradas: %v", err)
		} else {
			defer s.Close()
			st = s
		}
	}

	if cfg.Compression {
		log.Println("Usando compressão.")
	}

	srv := NewServer(st, mainPage, cfg.StaticDir)
	addr := fmt.Sprintf("127.0.0.1:%d", cfg.ServerPort)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("╔══════════════════════════════════════════════════════════════╗")
		log.Printf("║ ERRO CRÍTICO: Não foi possível abrir a porta %d.           ║", cfg.ServerPort)
		log.Printf("║ Provavelmente há outra instância do servidor rodando.        ║")
		log.Printf("╚══════════════════════════════════════════════════════════════╝")
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}

	httpSrv := &http.Server{
		Handler:           srv.Handler(cfg.Compression, logOut),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Sinais (ex.: rodando como pid 1 em um container)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Println("Servidor recebeu sinal de término")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	log.Printf("Servidor EasyVis iniciado em http://%s", addr)
	if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Erro fatal no servidor HTTP: %v", err)
	}
	log.Println("Servidor finalizado")
}
