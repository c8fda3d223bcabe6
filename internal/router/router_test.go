package router

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mlagdao/benguetstays/internal/booking"
	"github.com/mlagdao/benguetstays/internal/config"
	"github.com/mlagdao/benguetstays/internal/handler"
	"github.com/mlagdao/benguetstays/internal/repository"
)

// The response cache marks everything it touches with an X-Cache
// header, so the header doubles as a wiring check: search must carry
// it, the availability calendar must not.  Both backends point at
// closed ports; the handlers fail, but the middleware decision is made
// before any backend is reached.
func TestCalendarRouteBypassesResponseCache(t *testing.T) {
	db, err := sql.Open("mysql", "nobody:nothing@tcp(127.0.0.1:1)/none?parseTime=true")
	if err != nil {
		t.Fatalf("open db handle: %v", err)
	}
	defer db.Close()

	props := repository.NewPropertyRepo(db)
	books := repository.NewBookingRepo(db)
	engine := booking.NewService(props, books)

	cfg := config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		TTL:         time.Minute,
		KeyStrategy: "route_query",
		Prefix:      "cache",
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		ReadTimeout: 100 * time.Millisecond,
	})
	defer rdb.Close()

	e := echo.New()
	RegisterPublic(e, handler.NewPublicHandler(props, engine), cfg, rdb)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/properties", nil))
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("search X-Cache = %q, want MISS", got)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/properties/1/booked-dates", nil))
	if got := rec.Header().Get("X-Cache"); got != "" {
		t.Errorf("booked-dates X-Cache = %q, want no cache header", got)
	}
}
