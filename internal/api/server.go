package api

import (
	"database/sql"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"collection/internal/blob"
	"collection/internal/catalog"
	"collection/internal/logger"
	"collection/internal/metrics"
)

// Server: зависимости HTTP-слоя. Всё состояние, в Postgres и blob store.
type Server struct {
	Engines      []*catalog.Engine // по одному на иерархию
	Reference    *catalog.Reference
	Blob         blob.Store // nil, загрузка логотипов отключена
	Metrics      *metrics.Metrics
	DB           *sql.DB // для /healthz
	Log          *logger.Logger
	ReferenceDir string
	CORSOrigins  []string

	mu      sync.Mutex
	entropy io.Reader
}

// NewServer собирает движки для всех иерархий поверх одного пула.
func NewServer(db *sql.DB, log *logger.Logger, m *metrics.Metrics, store blob.Store) *Server {
	if log == nil {
		log = logger.Nop()
	}
	deps := catalog.Deps{DB: db, Log: log}
	if m != nil {
		deps.Hooks = m
	}
	s := &Server{
		Reference: catalog.NewReference(deps),
		Blob:      store,
		Metrics:   m,
		DB:        db,
		Log:       log,
		entropy:   ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
	for _, h := range catalog.Hierarchies() {
		s.Engines = append(s.Engines, catalog.NewEngine(deps, h))
	}
	return s
}

// newID: ULID для X-Request-ID. Monotonic entropy не потокобезопасна, поэтому под mu.
func (s *Server) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entropy == nil {
		s.entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	}
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}
