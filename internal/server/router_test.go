package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlust-cottage/booking-api/config"
	"github.com/wanderlust-cottage/booking-api/internal/models"
	"github.com/wanderlust-cottage/booking-api/internal/services"
	"github.com/wanderlust-cottage/booking-api/pkg/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testLoc = time.FixedZone("EET", 2*60*60)

func testConfig(backend string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			AppEnv:         "test",
			AllowedOrigins: []string{"*"},
			MaxBodyBytes:   64 * 1024,
		},
		RateLimit: config.RateLimitConfig{
			Backend:       backend,
			Requests:      5,
			WindowSeconds: 60,
		},
		Observability: config.ObservabilityConfig{ServiceName: "booking-api-test"},
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return NewRouter(Deps{
		Config:         testConfig(ratelimit.BackendMemory),
		InquiryService: services.NewInquiryService(services.InquiryDeps{Location: testLoc}),
		InquiryLimiter: ratelimit.NewMemoryLimiter(ratelimit.Window{Limit: 5, Period: time.Minute}, nil),
	})
}

func scenarioA() map[string]any {
	today := time.Now().In(testLoc)
	return map[string]any{
		"name":        "Ion Popescu",
		"email":       "ion@example.com",
		"phone":       "0712345678",
		"guests":      4,
		"checkIn":     today.AddDate(0, 0, 10).Format("2006-01-02"),
		"checkOut":    today.AddDate(0, 0, 13).Format("2006-01-02"),
		"preferences": "",
		"honeypot":    "",
	}
}

func postBooking(t *testing.T, router http.Handler, path, ip string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://wanderlust-cottage.com")
	req.RemoteAddr = ip + ":52000"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestBooking_ScenarioA_Success(t *testing.T) {
	router := newTestRouter(t)

	w := postBooking(t, router, "/api/booking", "203.0.113.7", scenarioA())

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, services.MsgAccepted, body["message"])
	assert.True(t, strings.HasPrefix(body["bookingId"], "TEMP-"), body["bookingId"])
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestBooking_ScenarioB_CheckOutEqualsCheckIn(t *testing.T) {
	router := newTestRouter(t)
	req := scenarioA()
	req["checkOut"] = req["checkIn"]

	w := postBooking(t, router, "/api/booking", "203.0.113.7", req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, services.MsgCheckOutInvalid, decode(t, w)["error"])
}

func TestBooking_ScenarioC_Honeypot(t *testing.T) {
	router := newTestRouter(t)
	req := scenarioA()
	req["honeypot"] = "x"

	w := postBooking(t, router, "/api/booking", "203.0.113.7", req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Cerere trimisă"}`, w.Body.String())
}

func TestBooking_ScenarioD_InvalidEmail(t *testing.T) {
	router := newTestRouter(t)
	req := scenarioA()
	req["email"] = "not-an-email"

	w := postBooking(t, router, "/api/booking", "203.0.113.7", req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, services.MsgInvalidEmail, decode(t, w)["error"])
}

func TestBooking_ScenarioE_RateLimited(t *testing.T) {
	router := newTestRouter(t)

	for i := 1; i <= 5; i++ {
		w := postBooking(t, router, "/api/booking", "203.0.113.7", scenarioA())
		require.Equal(t, http.StatusOK, w.Code, "request %d", i)
	}

	w := postBooking(t, router, "/api/booking", "203.0.113.7", scenarioA())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Prea multe cereri. Vă rugăm încercați din nou mai târziu.", decode(t, w)["error"])

	w = postBooking(t, router, "/api/booking", "198.51.100.1", scenarioA())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBooking_RateLimitCountsRejectedRequests(t *testing.T) {
	router := newTestRouter(t)
	bad := scenarioA()
	bad["email"] = "not-an-email"

	for i := 0; i < 5; i++ {
		postBooking(t, router, "/api/booking", "203.0.113.7", bad)
	}

	w := postBooking(t, router, "/api/booking", "203.0.113.7", scenarioA())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestBooking_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	router := NewRouter(Deps{
		Config:         testConfig(ratelimit.BackendRedis),
		InquiryService: services.NewInquiryService(services.InquiryDeps{Location: testLoc}),
		InquiryLimiter: ratelimit.NewRedisLimiter(client, ratelimit.Window{Limit: 5, Period: time.Minute}, "booking-api:ratelimit:"),
	})

	codes := make([]int, 0, 6)
	for i := 0; i < 6; i++ {
		codes = append(codes, postBooking(t, router, "/api/v1/booking", "203.0.113.7", scenarioA()).Code)
	}

	assert.Equal(t, []int{200, 200, 200, 200, 200, 429}, codes)
	assert.True(t, mr.Exists("booking-api:ratelimit:203.0.113.7"))
}

func TestBooking_MissingFields(t *testing.T) {
	router := newTestRouter(t)

	for _, field := range []string{"name", "email", "phone", "guests", "checkIn", "checkOut"} {
		t.Run(field, func(t *testing.T) {
			req := scenarioA()
			delete(req, field)

			w := postBooking(t, router, "/api/booking", fmt.Sprintf("192.0.2.%d", len(field)), req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, services.MsgMissingFields, decode(t, w)["error"])
		})
	}
}

func TestBooking_GuestsAsString(t *testing.T) {
	router := newTestRouter(t)
	req := scenarioA()
	req["guests"] = "4"

	w := postBooking(t, router, "/api/booking", "203.0.113.7", req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBooking_Preflight(t *testing.T) {
	router := newTestRouter(t)

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/booking", http.NoBody)
		req.Header.Set("Origin", "https://wanderlust-cottage.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("without origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/booking", http.NoBody))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "POST, OPTIONS", w.Header().Get("Allow"))
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
	})
}

func TestBooking_GuestsOutOfRange(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name   string
		guests any
		want   string
	}{
		{"negative", -3, services.MsgInvalidGuests},
		{"negative string", "-1", services.MsgInvalidGuests},
		{"overflow", 1e20, "Cerere invalidă."},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := scenarioA()
			req["guests"] = tt.guests

			w := postBooking(t, router, "/api/booking", fmt.Sprintf("192.0.2.%d", 100+i), req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, decode(t, w)["error"])
		})
	}
}

type panickingService struct{}

func (panickingService) SubmitInquiry(context.Context, *models.InquiryRequest, string) (*models.InquiryResponse, error) {
	panic("unexpected nil map")
}

func TestBooking_PanicBecomes500(t *testing.T) {
	router := NewRouter(Deps{
		Config:         testConfig(ratelimit.BackendMemory),
		InquiryService: panickingService{},
		InquiryLimiter: ratelimit.NewMemoryLimiter(ratelimit.Window{Limit: 5, Period: time.Minute}, nil),
	})

	w := postBooking(t, router, "/api/booking", "203.0.113.7", scenarioA())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "A apărut o eroare la procesarea cererii. Vă rugăm încercați din nou.", decode(t, w)["error"])
}

func TestHealthcheckAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/healthcheck", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)

	postBooking(t, router, "/api/booking", "203.0.113.7", scenarioA())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/metrics", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "booking_inquiry_submissions_total")
}
