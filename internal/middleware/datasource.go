package middleware

import (
	"net/http"

	"github.com/aidar/sponsortrack/internal/connectivity"
)

// Заголовки с источником данных ответа
const (
	HeaderDataSource = "X-Data-Source"
	HeaderDBStatus   = "X-DB-Status"
)

// Значения X-DB-Status
const (
	DBOnline  = "online"
	DBOffline = "offline"
)

// StatusProvider сообщает текущее состояние подключения к БД
type StatusProvider interface {
	Status() connectivity.Status
}

// DataSource добавляет X-Data-Source и X-DB-Status к каждому ответу.
// Если обработчик брал хранилище, заголовки описывают именно его.
// Иначе (например, health) берется текущее состояние подключения на момент
// первой записи ответа.
func DataSource(conn StatusProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, sel := connectivity.WithSelection(r.Context())
			next.ServeHTTP(&sourceWriter{ResponseWriter: w, conn: conn, sel: sel}, r.WithContext(ctx))
		})
	}
}

type sourceWriter struct {
	http.ResponseWriter
	conn        StatusProvider
	sel         *connectivity.Selection
	wroteHeader bool
}

func (w *sourceWriter) setHeaders() {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	source, online, ok := w.sel.Get()
	if !ok {
		status := w.conn.Status()
		source, online = status.Source, status.Connected
	}

	dbStatus := DBOffline
	if online {
		dbStatus = DBOnline
	}

	h := w.Header()
	h.Set(HeaderDataSource, source)
	h.Set(HeaderDBStatus, dbStatus)
}

func (w *sourceWriter) WriteHeader(code int) {
	w.setHeaders()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sourceWriter) Write(b []byte) (int, error) {
	w.setHeaders()
	return w.ResponseWriter.Write(b)
}

// Unwrap нужен http.ResponseController
func (w *sourceWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
