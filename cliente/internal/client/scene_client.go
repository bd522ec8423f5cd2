package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"EasyVis/shared/proto/scenepb"
	"EasyVis/shared/scenedata"
)

// ErrStatus é devolvido quando o servidor responde fora da faixa 2xx.
var ErrStatus = errors.New("resposta inesperada do servidor")

// maxBody limita o tamanho de uma resposta aceita.
const maxBody = 64 << 20

// SceneClient busca e publica cenas no servidor EasyVis.
type SceneClient struct {
	baseURL     string
	http        *http.Client
	UseProtobuf bool
}

// NewSceneClient cria um cliente para baseURL (ex.: http://127.0.0.1:3000).
// timeout <= 0 usa o padrão de 5s.
func NewSceneClient(baseURL string, timeout time.Duration) *SceneClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SceneClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL retorna o endereço do servidor.
func (c *SceneClient) BaseURL() string {
	return c.baseURL
}

// FetchScene faz GET /scene/{viewID}. Falha de transporte, status fora de 2xx
// ou payload malformado viram erro; quem chama decide só registrar no log.
func (c *SceneClient) FetchScene(ctx context.Context, viewID int) (*scenedata.Scene, error) {
	url := fmt.Sprintf("%s/scene/%d", c.baseURL, viewID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.UseProtobuf {
		req.Header.Set("Accept", scenepb.ContentType)
	} else {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}

	body := io.LimitReader(resp.Body, maxBody)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), scenepb.ContentType) {
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("GET %s: %w", url, err)
		}
		return scenepb.Unmarshal(data)
	}
	return scenedata.DecodeJSON(body)
}

// PutScene grava a cena da view no servidor.
func (c *SceneClient) PutScene(ctx context.Context, viewID int, s *scenedata.Scene) error {
	url := fmt.Sprintf("%s/scene/%d", c.baseURL, viewID)

	var (
		body        []byte
		contentType string
	)
	if c.UseProtobuf {
		body, contentType = scenepb.Marshal(s), scenepb.ContentType
	} else {
		data, err := json.Marshal(s)
		if err != nil {
			return err
		}
		body, contentType = data, "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req)
}

// DeleteScene remove a cena armazenada da view.
func (c *SceneClient) DeleteScene(ctx context.Context, viewID int) error {
	url := fmt.Sprintf("%s/scene/%d", c.baseURL, viewID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	return c.do(req)
}

// ListScenes retorna os ids das cenas armazenadas no servidor.
func (c *SceneClient) ListScenes(ctx context.Context) ([]int, error) {
	url := c.baseURL + "/scenes"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}

	var out struct {
		Scenes []int `json:"scenes"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&out); err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	return out.Scenes, nil
}

// WaitReady tenta alcançar o servidor até attempts vezes, esperando interval
// entre as tentativas.
func (c *SceneClient) WaitReady(ctx context.Context, attempts int, interval time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		log.Printf("[Network] Tentativa de conexão %d/%d em %s...", i+1, attempts, c.baseURL)
		if _, err = c.ListScenes(ctx); err == nil {
			return nil
		}
		log.Printf("[Network] Servidor ainda não está pronto: %v. Aguardando...", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return err
}

func (c *SceneClient) do(req *http.Request) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	return nil
}
