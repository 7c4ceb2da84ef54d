package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"comanda-dashboard-backend/config"
	"comanda-dashboard-backend/internal/cart"
	"comanda-dashboard-backend/internal/notification"
	"comanda-dashboard-backend/internal/state"
	"comanda-dashboard-backend/internal/upstream"
	"comanda-dashboard-backend/internal/worker"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type call struct {
	Route string
	Body  map[string]any
}

type reply struct {
	status int
	body   string
}

// posRemote is a canned POS API keyed by "METHOD /path".
type posRemote struct {
	mu     sync.Mutex
	routes map[string]reply
	calls  []call
}

func (p *posRemote) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path
	c := call{Route: route}
	if b, _ := io.ReadAll(r.Body); len(b) > 0 {
		_ = json.Unmarshal(b, &c.Body)
	}

	p.mu.Lock()
	p.calls = append(p.calls, c)
	rep, ok := p.routes[route]
	p.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rep.status)
	_, _ = io.WriteString(w, rep.body)
}

func (p *posRemote) set(route string, status int, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.routes[route] = reply{status: status, body: body}
}

func (p *posRemote) callsTo(route string) []call {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []call
	for _, c := range p.calls {
		if c.Route == route {
			out = append(out, c)
		}
	}
	return out
}

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(worker.Task) {}

type testServer struct {
	remote  *posRemote
	root    *state.Root
	handler *Handler
	router  *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	remote := &posRemote{routes: map[string]reply{
		"GET /checkpads": {http.StatusOK, `[
			{"id":1,"identifier":"1","model":"Mesa","authorName":"Carlos","hasOrder":1},
			{"id":2,"identifier":"2","model":"Barraca","authorName":"Bia"},
			{"id":3,"identifier":"3","model":"Mesa"}
		]`},
		"GET /ordersheets": {http.StatusOK, `[{"id":11,"subtotal":2500,"customerName":"Ana","checkpad":{"id":1,"identifier":"1","model":"Mesa"}}]`},
		"GET /areas":       {http.StatusOK, `[{"id":1,"name":"Salão","maxIdleTime":30,"maxIdleTimeEnabled":1}]`},
	}}
	server := httptest.NewServer(remote)
	t.Cleanup(server.Close)

	client := upstream.New(config.UpstreamConfig{BaseURL: server.URL, Timeout: 2 * time.Second}, zap.NewNop())
	root := state.NewRoot(client, nopDispatcher{}, state.TabOptions{}, zap.NewNop())
	root.Refresh(context.Background())

	h := NewHandler(Deps{
		Root: root,
		Catalog: cart.NewCatalog([]config.MenuItem{
			{ID: "p1", Name: "Picanha na pedra", Price: 144.99, Category: "Assados"},
			{ID: "b1", Name: "Coca-cola lata", Price: 7.99, Category: "Bebidas"},
		}),
		Carts:         cart.NewRegistry(time.Minute),
		Subscriptions: notification.NewSubscriptions(),
		WebPush:       &webpush.Options{VAPIDPublicKey: "BPublicKey"},
		SearchWindow:  20 * time.Millisecond,
		SessionTTL:    time.Minute,
		Logger:        zap.NewNop(),
	})
	t.Cleanup(h.Close)

	cfg := config.ServerConfig{RateLimitPerSec: 1000, RateLimitBurst: 1000, CacheTTLSeconds: 60}
	return &testServer{remote: remote, root: root, handler: h, router: NewRouter(h, cfg, zap.NewNop())}
}

// do sends a request with an optional JSON body and decodes a JSON response into out when given.
func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}
