package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"EasyVis/servidor/internal/store"
	"EasyVis/shared/proto/scenepb"
	"EasyVis/shared/scenedata"
)

// maxSceneBody limita o corpo de um PUT /scene/{n}.
const maxSceneBody = 32 << 20

// SceneStore é o armazenamento usado pelas rotas de cena.
type SceneStore interface {
	Get(viewID int) (*scenedata.Scene, error)
	Put(viewID int, s *scenedata.Scene) error
	Delete(viewID int) error
	List() ([]int, error)
}

// Server responde às rotas do EasyVis.
type Server struct {
	store     SceneStore
	mainPage  []byte
	staticDir string
}

// NewServer cria o servidor. store pode ser nil: nesse caso toda cena é gerada.
func NewServer(st SceneStore, mainPage []byte, staticDir string) *Server {
	return &Server{store: st, mainPage: mainPage, staticDir: staticDir}
}

// Routes registra as rotas em um novo ServeMux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("OPTIONS /", s.handleOptions)
	mux.HandleFunc("GET /{$}", s.handleMainPage)
	mux.HandleFunc("GET /scene/{n}", s.handleGetScene)
	mux.HandleFunc("PUT /scene/{n}", s.handlePutScene)
	mux.HandleFunc("DELETE /scene/{n}", s.handleDeleteScene)
	mux.HandleFunc("GET /scenes", s.handleListScenes)
	if s.staticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir))))
	}
	mux.HandleFunc("/", s.handleDefault)

	return mux
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Methods", "GET,PUT,DELETE,OPTIONS")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleMainPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.mainPage)
}

// handleGetScene devolve a cena armazenada da view ou, se não houver, uma cena
// gerada com ((n*n)+1)*50 pontos de contorno.
func (s *Server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	id, ok := viewID(w, r)
	if !ok {
		return
	}

	var sc *scenedata.Scene
	if s.store != nil {
		stored, err := s.store.Get(id)
		switch {
		case err == nil:
			sc = stored
		case errors.Is(err, store.ErrNotFound):
		default:
			log.Printf("[Server] Erro ao ler cena %d: %v", id, err)
			http.Error(w, "erro interno", http.StatusInternalServerError)
			return
		}
	}
	if sc == nil {
		n, err := scenedata.PointsForView(id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		sc = scenedata.Generate(n)
	}

	writeScene(w, r, sc)
}

func (s *Server) handlePutScene(w http.ResponseWriter, r *http.Request) {
	id, ok := viewID(w, r)
	if !ok {
		return
	}
	if s.store == nil {
		http.Error(w, "armazenamento desativado", http.StatusServiceUnavailable)
		return
	}

	sc, err := readScene(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.Put(id, sc); err != nil {
		if errors.Is(err, scenedata.ErrMalformed) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("[Server] Erro ao salvar cena %d: %v", id, err)
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}

	log.Printf("[Server] Cena %d salva (%d registros)", id, sc.Count())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteScene(w http.ResponseWriter, r *http.Request) {
	id, ok := viewID(w, r)
	if !ok {
		return
	}
	if s.store == nil {
		http.Error(w, "armazenamento desativado", http.StatusServiceUnavailable)
		return
	}

	err := s.store.Delete(id)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, store.ErrNotFound):
		s.handleDefault(w, r)
	default:
		log.Printf("[Server] Erro ao remover cena %d: %v", id, err)
		http.Error(w, "erro interno", http.StatusInternalServerError)
	}
}

func (s *Server) handleListScenes(w http.ResponseWriter, r *http.Request) {
	ids := []int{}
	if s.store != nil {
		var err error
		if ids, err = s.store.List(); err != nil {
			log.Printf("[Server] Erro ao listar cenas: %v", err)
			http.Error(w, "erro interno", http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]int{"scenes": ids})
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	io.WriteString(w, "Missing!")
}

func viewID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("n"))
	if err != nil || id < 0 {
		http.Error(w, "id de view inválido", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// wantsProtobuf informa se o cliente pediu application/x-protobuf.
func wantsProtobuf(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mt == scenepb.ContentType {
			return true
		}
	}
	return false
}

func writeScene(w http.ResponseWriter, r *http.Request, sc *scenedata.Scene) {
	if wantsProtobuf(r) {
		w.Header().Set("Content-Type", scenepb.ContentType)
		w.Write(scenepb.Marshal(sc))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sc); err != nil {
		log.Printf("[Server] Erro ao serializar cena: %v", err)
	}
}

func readScene(w http.ResponseWriter, r *http.Request) (*scenedata.Scene, error) {
	body := http.MaxBytesReader(w, r.Body, maxSceneBody)
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == scenepb.ContentType {
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, err
		}
		return scenepb.Unmarshal(data)
	}
	return scenedata.DecodeJSON(body)
}
