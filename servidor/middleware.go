package main

import (
	"compress/gzip"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// noCache impede cache no cliente.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Cache-Control", "no-cache,no-store,max-age=0,must-revalidate,proxy-revalidate")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "-1")
		next.ServeHTTP(w, r)
	})
}

type gzipResponseWriter struct {
	http.ResponseWriter
	zw          *gzip.Writer
	wroteHeader bool
	bodyless    bool
}

// bodyAllowed segue a RFC 9110: 204 e 304 não têm corpo.
func bodyAllowed(status int) bool {
	return status != http.StatusNoContent && status != http.StatusNotModified
}

func (g *gzipResponseWriter) WriteHeader(status int) {
	// 1xx são provisórios; a resposta final ainda vem
	if status >= 100 && status < 200 {
		g.ResponseWriter.WriteHeader(status)
		return
	}
	if g.wroteHeader {
		return
	}
	g.wroteHeader = true
	if bodyAllowed(status) {
		g.Header().Del("Content-Length")
	} else {
		g.bodyless = true
		g.Header().Del("Content-Encoding")
	}
	g.ResponseWriter.WriteHeader(status)
}

func (g *gzipResponseWriter) Write(b []byte) (int, error) {
	if !g.wroteHeader {
		g.WriteHeader(http.StatusOK)
	}
	if g.bodyless {
		return g.ResponseWriter.Write(b)
	}
	if g.zw == nil {
		g.zw = gzip.NewWriter(g.ResponseWriter)
	}
	return g.zw.Write(b)
}

// finish fecha o stream gzip; respostas sem corpo ficam intactas.
func (g *gzipResponseWriter) finish() error {
	if g.bodyless {
		return nil
	}
	if g.zw == nil {
		if !g.wroteHeader {
			g.WriteHeader(http.StatusOK)
		}
		g.zw = gzip.NewWriter(g.ResponseWriter)
	}
	return g.zw.Close()
}

// compress aplica gzip quando o cliente aceita.
func compress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")
		gw := &gzipResponseWriter{ResponseWriter: w}
		next.ServeHTTP(gw, r)
		if err := gw.finish(); err != nil {
			log.Printf("[HTTP] Erro ao finalizar gzip de %s: %v", r.URL.Path, err)
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// logRequests registra cada requisição depois de respondida.
func logRequests(out io.Writer, next http.Handler) http.Handler {
	logger := log.New(out, "", log.Ltime)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		logger.Printf("[HTTP] %s %s %d %dB %s < %s", r.Method, r.URL.RequestURI(), rec.status, rec.bytes,
			time.Since(start).Round(time.Microsecond), r.RemoteAddr)
	})
}

// Handler monta a pilha de middlewares em volta das rotas.
func (s *Server) Handler(compression bool, logOut io.Writer) http.Handler {
	var h http.Handler = s.Routes()
	if compression {
		h = compress(h)
	}
	h = noCache(h)
	if logOut != nil {
		h = logRequests(logOut, h)
	}
	return h
}
