package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"EasyVis/shared/config"
)

func exe(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

func main() {
	mainPage := flag.String("page", "", "Página principal servida em /")
	wait := flag.Duration("wait", 10*time.Second, "Tempo máximo de espera pelo servidor")
	flag.Parse()

	fmt.Println("╔══════════════════════════════════════╗")
	fmt.Println("║          EasyVis Launcher            ║")
	fmt.Println("╚══════════════════════════════════════╝")

	cfg := config.Load()

	// 1. Servidor em segundo plano
	fmt.Println("[1/2] Iniciando Servidor...")
	args := []string{}
	if *mainPage != "" {
		args = append(args, *mainPage)
	}
	serverPath, err := filepath.Abs(filepath.Join("servidor", exe("server")))
	if err != nil {
		log.Fatalf("Erro ao resolver caminho do servidor: %v", err)
	}
	serverCmd := exec.Command(serverPath, args...)
	serverCmd.Dir = "servidor"
	serverCmd.Stdout = os.Stdout
	serverCmd.Stderr = os.Stderr
	if err := serverCmd.Start(); err != nil {
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}

	// 2. Aguardar o servidor responder
	url := fmt.Sprintf("http://127.0.0.1:%d/scenes", cfg.ServerPort)
	fmt.Printf("Aguardando servidor em %s...\n", url)
	if !waitServer(url, *wait) {
		serverCmd.Process.Kill()
		log.Fatalf("Servidor não respondeu em %v", *wait)
	}

	// 3. Cliente buscando as cenas no servidor
	fmt.Println("[2/2] Abrindo Cliente...")
	clientPath, err := filepath.Abs(filepath.Join("cliente", exe("client")))
	if err != nil {
		log.Fatalf("Erro ao resolver caminho do cliente: %v", err)
	}
	clientCmd := exec.Command(clientPath, "-source", config.SourceRemote,
		"-server", fmt.Sprintf("http://127.0.0.1:%d", cfg.ServerPort))
	clientCmd.Dir = "cliente"

	if err := clientCmd.Run(); err != nil {
		fmt.Printf("ERRO: cliente terminou com falha (%s): %v\n", clientPath, err)
	}

	fmt.Println("Cliente fechado; encerrando servidor.")
	serverCmd.Process.Signal(os.Interrupt)
	serverCmd.Wait()
}

func waitServer(url string, limit time.Duration) bool {
	c := &http.Client{Timeout: time.Second}
	deadline := time.Now().Add(limit)
	for time.Now().Before(deadline) {
		resp, err := c.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(250 * time.Millisecond)
	}
	return false
}
