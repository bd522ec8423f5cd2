package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"EasyVis/shared/proto/scenepb"
	"EasyVis/shared/scenedata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSceneJSON(t *testing.T) {
	var gotPath, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"structures":{"axes":[{"type":"cuboid","color":16711680,"scale":[2,2,2],"xyz":[0,0,0]}]}}`)
	}))
	defer srv.Close()

	c := NewSceneClient(srv.URL+"/", time.Second)
	s, err := c.FetchScene(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, "/scene/3", gotPath)
	assert.Equal(t, "application/json", gotAccept)
	require.Len(t, s.Structures["axes"], 1)
	assert.Equal(t, uint32(0xff0000), *s.Structures["axes"][0].Color)
}

func TestFetchSceneProtobuf(t *testing.T) {
	want := scenedata.Generate(10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, scenepb.ContentType, r.Header.Get("Accept"))
		w.Header().Set("Content-Type", scenepb.ContentType)
		w.Write(scenepb.Marshal(want))
	}))
	defer srv.Close()

	c := NewSceneClient(srv.URL, time.Second)
	c.UseProtobuf = true
	s, err := c.FetchScene(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, want.Count(), s.Count())
}

func TestFetchSceneFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not found", http.StatusNotFound, "Missing!", ErrStatus},
		{"server error", http.StatusInternalServerError, "", ErrStatus},
		{"malformed json", http.StatusOK, `{"structures":`, scenedata.ErrMalformed},
		{"invalid tuple", http.StatusOK, `{"structures":{"a":[{"xyz":[1,2]}]}}`, scenedata.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewSceneClient(srv.URL, time.Second).FetchScene(context.Background(), 0)
			assert.True(t, errors.Is(err, tt.wantErr), "erro: %v", err)
		})
	}
}

func TestFetchSceneUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewSceneClient(url, time.Second).FetchScene(context.Background(), 0)
	assert.Error(t, err)
}

func TestFetchSceneCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSceneClient(srv.URL, time.Second).FetchScene(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPutDeleteAndList(t *testing.T) {
	stored := map[string][]byte{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut:
			data, _ := io.ReadAll(r.Body)
			stored[r.URL.Path] = data
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodDelete:
			if _, ok := stored[r.URL.Path]; !ok {
				http.NotFound(w, r)
				return
			}
			delete(stored, r.URL.Path)
		case r.URL.Path == "/scenes":
			json.NewEncoder(w).Encode(map[string][]int{"scenes": {2}})
		}
	}))
	defer srv.Close()

	c := NewSceneClient(srv.URL, time.Second)
	ctx := context.Background()

	require.NoError(t, c.PutScene(ctx, 2, scenedata.Generate(5)))
	assert.Contains(t, stored, "/scene/2")

	ids, err := c.ListScenes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, ids)

	require.NoError(t, c.DeleteScene(ctx, 2))
	assert.ErrorIs(t, c.DeleteScene(ctx, 2), ErrStatus)
}

func TestWaitReadyGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewSceneClient(srv.URL, time.Second).WaitReady(context.Background(), 2, time.Millisecond)
	assert.ErrorIs(t, err, ErrStatus)
}
