package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/sponsortrack/internal/connectivity"
	"github.com/aidar/sponsortrack/internal/repository"
	"github.com/aidar/sponsortrack/internal/repository/file"
)

type statusFunc func() connectivity.Status

func (f statusFunc) Status() connectivity.Status { return f() }

func TestDataSource(t *testing.T) {
	tests := []struct {
		name       string
		status     connectivity.Status
		handler    http.HandlerFunc
		wantSource string
		wantDB     string
	}{
		{
			name:   "online on explicit WriteHeader",
			status: connectivity.Status{Connected: true, State: connectivity.StateConnected, Source: repository.SourceMongo},
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusCreated)
			},
			wantSource: repository.SourceMongo,
			wantDB:     DBOnline,
		},
		{
			name:   "offline on implicit header",
			status: connectivity.Status{State: connectivity.StateDisconnected, Source: repository.SourceFile},
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[]`))
			},
			wantSource: repository.SourceFile,
			wantDB:     DBOffline,
		},
		{
			name:   "disabled primary",
			status: connectivity.Status{State: connectivity.StateDisabled, Source: repository.SourceFile},
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			},
			wantSource: repository.SourceFile,
			wantDB:     DBOffline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := tt.status
			h := DataSource(statusFunc(func() connectivity.Status { return status }))(tt.handler)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sponsors", nil))

			assert.Equal(t, tt.wantSource, rec.Header().Get(HeaderDataSource))
			assert.Equal(t, tt.wantDB, rec.Header().Get(HeaderDBStatus))
		})
	}
}

func TestDataSource_StatusReadAtFirstWrite(t *testing.T) {
	connected := false
	conn := statusFunc(func() connectivity.Status {
		if connected {
			return connectivity.Status{Connected: true, Source: repository.SourcePostgres}
		}
		return connectivity.Status{Source: repository.SourceFile}
	})

	// обработчик переподключается до записи ответа
	h := DataSource(conn)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		connected = true
		w.WriteHeader(http.StatusOK)
		connected = false
		_, _ = w.Write([]byte("{}"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, repository.SourcePostgres, rec.Header().Get(HeaderDataSource))
	assert.Equal(t, DBOnline, rec.Header().Get(HeaderDBStatus))
}

// remoteStore файловое хранилище, которое выдает себя за MongoDB
type remoteStore struct {
	*file.Store
}

func (s remoteStore) Name() string                { return repository.SourceMongo }
func (s remoteStore) Ping(context.Context) error  { return nil }
func (s remoteStore) Close(context.Context) error { return nil }

func TestDataSource_ReportsStoreThatServedRequest(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fallback, err := file.Open(t.TempDir(), logger)
	require.NoError(t, err)
	primary, err := file.Open(t.TempDir(), logger)
	require.NoError(t, err)

	var up atomic.Bool
	dial := func(context.Context) (connectivity.Primary, error) {
		if !up.Load() {
			return nil, errors.New("connection refused")
		}
		return remoteStore{Store: primary}, nil
	}

	conn := connectivity.NewManager(dial, fallback, connectivity.Options{RetryInterval: time.Hour}, nil, logger)
	require.Error(t, conn.Connect(context.Background()))

	// БД поднимается после выбора хранилища, но до записи ответа
	h := DataSource(conn)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := conn.Store(r.Context())
		assert.Equal(t, repository.SourceFile, store.Name())

		up.Store(true)
		require.NoError(t, conn.Connect(r.Context()))
		require.True(t, conn.Connected())

		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sponsors", nil))

	assert.Equal(t, repository.SourceFile, rec.Header().Get(HeaderDataSource))
	assert.Equal(t, DBOffline, rec.Header().Get(HeaderDBStatus))

	// следующий запрос уже обслуживает основная БД
	rec = httptest.NewRecorder()
	DataSource(conn)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn.Store(r.Context())
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sponsors", nil))

	assert.Equal(t, repository.SourceMongo, rec.Header().Get(HeaderDataSource))
	assert.Equal(t, DBOnline, rec.Header().Get(HeaderDBStatus))
}
