package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Cores para o terminal (ANSI)
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

var pause *bool

func main() {
	fmt.Println(ColorCyan + "╔══════════════════════════════════════╗" + ColorReset)
	fmt.Println(ColorCyan + "║       EasyVis Native Builder         ║" + ColorReset)
	fmt.Println(ColorCyan + "╚══════════════════════════════════════╝" + ColorReset)

	skipTests := flag.Bool("notest", false, "Pular os testes")
	pause = flag.Bool("pause", runtime.GOOS == "windows", "Esperar Enter ao final")
	flag.Parse()

	start := time.Now()

	// 0. Configurar Ambiente
	setupEnvironment()

	// 1. Testes dos pacotes sem janela (o cliente Raylib fica de fora)
	if !*skipTests {
		if err := runTests(); err != nil {
			fatal(err)
		}
	}

	// 2. Compilar Servidor (SQLite exige CGO)
	if err := buildComponent("SERVIDOR (CGO + Static)", "servidor", "servidor/"+exe("server"), true, staticFlags("-s -w")); err != nil {
		fatal(err)
	}

	// 3. Compilar Cliente
	clientFlags := staticFlags("-s -w")
	if runtime.GOOS == "windows" {
		clientFlags += " -H=windowsgui"
	}
	if err := buildComponent("CLIENTE (CGO + Raylib)", "cliente", "cliente/"+exe("client"), true, clientFlags); err != nil {
		fatal(err)
	}

	// 4. Compilar Launcher
	if err := buildComponent("LAUNCHER (Pure Go)", "launcher", exe("EasyVis"), false, "-s -w"); err != nil {
		fatal(err)
	}

	fmt.Printf("\n"+ColorCyan+"Build finalizada com sucesso em %v!"+ColorReset+"\n", time.Since(start).Round(time.Second))
	fmt.Println(ColorYellow + "Dica: Execute o '" + exe("EasyVis") + "' para abrir servidor e cliente." + ColorReset)

	if *pause {
		fmt.Println("\nPressione Enter para sair...")
		fmt.Scanln()
	}
}

// Pacotes testáveis sem janela nem GPU.
var testPackages = []string{
	"./shared/...",
	"./servidor/...",
	"./cliente/internal/scene/...",
	"./cliente/internal/camera",
	"./cliente/internal/client",
	"./cliente/internal/views",
}

func runTests() error {
	fmt.Println(ColorYellow + "\n[+] Rodando testes..." + ColorReset)
	os.Setenv("CGO_ENABLED", "1")

	cmd := exec.Command("go", append([]string{"test"}, testPackages...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("testes falharam: %v", err)
	}
	fmt.Println(ColorGreen + "  - Testes OK" + ColorReset)
	return nil
}

func exe(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// staticFlags só liga o link estático no Windows (MSYS2).
func staticFlags(base string) string {
	if runtime.GOOS == "windows" {
		return "-extldflags=-static " + base
	}
	return base
}

func setupEnvironment() {
	fmt.Println(ColorYellow + "\n[0/4] Configurando ambiente de compilação..." + ColorReset)

	// Adicionar MSYS2 ao PATH se estiver no Windows
	if runtime.GOOS == "windows" {
		msysPath := `C:\msys64\mingw64\bin`
		currentPath := os.Getenv("PATH")
		if !strings.Contains(currentPath, msysPath) {
			os.Setenv("PATH", msysPath+";"+currentPath)
			fmt.Printf("  - PATH atualizado: %s adicionado.\n", msysPath)
		}
		os.Setenv("CC", "gcc")
		fmt.Println("  - Compilador C: gcc (MSYS2)")
	}
}

func buildComponent(name, dir, output string, useCgo bool, ldflags string) error {
	fmt.Printf(ColorYellow+"\n[+] Compilando %s..."+ColorReset+"\n", name)

	cgoValue := "0"
	if useCgo {
		cgoValue = "1"
	}
	os.Setenv("CGO_ENABLED", cgoValue)

	args := []string{"build", "-ldflags", ldflags, "-o", output, "./" + dir}
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("falha ao compilar %s: %v", name, err)
	}

	fmt.Printf(ColorGreen+"  - %s compilado com sucesso -> %s"+ColorReset+"\n", name, output)
	return nil
}

func fatal(err error) {
	fmt.Printf("\n"+ColorRed+"[ERRO FATAL] %v"+ColorReset+"\n", err)
	if pause != nil && *pause {
		fmt.Println("Pressione Enter para sair...")
		fmt.Scanln()
	}
	os.Exit(1)
}
