package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Fontes de cena aceitas pelo cliente.
const (
	SourceStatic = "static" // Cena gerada localmente (eixos + esfera de contorno)
	SourceFile   = "file"   // Cena lida de um arquivo JSON/YAML
	SourceRemote = "remote" // Uma cena por viewport, buscada no servidor
)

// Config armazena as configurações do EasyVis.
type Config struct {
	// Janela
	WindowWidth  int32  `json:"window_width"`
	WindowHeight int32  `json:"window_height"`
	WindowTitle  string `json:"window_title"`
	Fullscreen   bool   `json:"fullscreen"`
	TargetFPS    int32  `json:"target_fps"`

	// Cliente
	ServerURL        string  `json:"server_url"`
	Views            int     `json:"views"`
	Source           string  `json:"source"`
	SceneFile        string  `json:"scene_file"`
	StaticPoints     int     `json:"static_points"`  // Pontos da esfera de contorno na cena estática
	Continuous       bool    `json:"continuous"`     // Loop de animação (Tick + Render a cada frame)
	UseProtobuf      bool    `json:"use_protobuf"`   // Pede application/x-protobuf ao servidor
	FetchTimeoutMs   int     `json:"fetch_timeout_ms"`
	ResizeThrottleMs int     `json:"resize_throttle_ms"`
	ClearAlpha       float32 `json:"clear_alpha"`

	// Câmera
	FOV             float32 `json:"fov"`
	Near            float32 `json:"near"`
	Far             float32 `json:"far"`
	MinDistance     float32 `json:"min_distance"`
	MaxDistance     float32 `json:"max_distance"`
	EnableDamping   bool    `json:"enable_damping"`
	DampingFactor   float32 `json:"damping_factor"`
	AutoRotate      bool    `json:"auto_rotate"`
	AutoRotateSpeed float32 `json:"auto_rotate_speed"`
	RotateSpeed     float32 `json:"rotate_speed"`
	ZoomSpeed       float32 `json:"zoom_speed"`

	// Servidor
	ServerPort  int    `json:"server_port"`
	MainPage    string `json:"main_page"`
	Compression bool   `json:"compression"`
	StaticDir   string `json:"static_dir"`
	DBPath      string `json:"db_path"`

	// Debug
	ShowDebugInfo bool `json:"show_debug_info"`
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *Config {
	return &Config{
		WindowWidth:  1280,
		WindowHeight: 720,
		WindowTitle:  "EasyVis",
		Fullscreen:   false,
		TargetFPS:    60,

		ServerURL:        "http://127.0.0.1:3000",
		Views:            2,
		Source:           SourceStatic,
		StaticPoints:     100,
		Continuous:       false,
		FetchTimeoutMs:   5000,
		ResizeThrottleMs: 100,
		ClearAlpha:       0.25,

		FOV:             60.0,
		Near:            1.0,
		Far:             1000.0,
		MinDistance:     10.0,
		MaxDistance:     500.0,
		EnableDamping:   true,
		DampingFactor:   0.25,
		AutoRotate:      false,
		AutoRotateSpeed: 2.0,
		RotateSpeed:     1.0,
		ZoomSpeed:       0.95,

		ServerPort:  3000,
		Compression: true,
		StaticDir:   ".",
		DBPath:      filepath.Join("saves", "scenes.db"),

		ShowDebugInfo: false,
	}
}

// configPath retorna o caminho do arquivo de configuração.
func configPath() string {
	execDir, err := os.Executable()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(filepath.Dir(execDir), "config.json")
}

// Load carrega as configurações do config.json ao lado do executável.
// Se o arquivo não existir, retorna as configurações padrão.
func Load() *Config {
	return LoadFrom(configPath())
}

// LoadFrom carrega as configurações de um arquivo JSON específico.
// Campos ausentes mantêm o valor padrão; JSON inválido devolve a configuração padrão.
func LoadFrom(path string) *Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig()
	}

	return cfg
}

// Save salva as configurações no config.json ao lado do executável.
func (c *Config) Save() error {
	return c.SaveTo(configPath())
}

// SaveTo salva as configurações em um arquivo JSON.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
