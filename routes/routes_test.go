package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"catering-backend/controllers"
	"catering-backend/models"
	"catering-backend/services"
	"catering-backend/utils"
)

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	db      *gorm.DB
	uploads string
}

type envelope struct {
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.RegisterValidators()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.MenuItem{}, &models.MenuPackage{}, &models.Booking{}, &models.Review{}))

	loc := utils.LoadLocation("Asia/Bangkok")
	dir := t.TempDir()
	uploads := services.NewUploadService(dir)
	users := services.NewUserService(db)
	auth := services.NewAuthService(db, "route-secret", time.Hour)
	bookings := services.NewBookingService(db, services.NewSyncNotificationService(services.LogNotifier{}, loc), loc, 2)

	r := SetupRouter(Handlers{
		Auth:     controllers.NewAuthController(auth, users),
		Users:    controllers.NewUserController(users),
		Menus:    controllers.NewMenuController(services.NewMenuService(db), uploads),
		Packages: controllers.NewPackageController(services.NewPackageService(db), uploads),
		Bookings: controllers.NewBookingController(bookings, uploads),
		Reviews:  controllers.NewReviewController(services.NewReviewService(db)),
		Admin:    controllers.NewAdminController(services.NewAdminService(db, loc)),
	}, auth, Options{UploadDir: dir})

	require.NoError(t, users.EnsureDefaultAdmin(services.UserInput{
		Username: "admin", Email: "admin@catering.local", Phone: "0800000000", Password: "admin123",
	}))
	return &testServer{t: t, router: r, db: db, uploads: dir}
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return s.send(req, token)
}

func (s *testServer) send(req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (s *testServer) login(identifier, password string) string {
	s.t.Helper()
	w, env := s.do("POST", "/api/auth/login", "", gin.H{"identifier": identifier, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &res))
	return res.Token
}

func (s *testServer) register(username, phone string) string {
	s.t.Helper()
	w, _ := s.do("POST", "/api/auth/register", "", gin.H{
		"first_name": username,
		"username":   username,
		"email":      username + "@example.com",
		"phone":      phone,
		"password":   "secret123",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return s.login(username, "secret123")
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// seedCatalog creates menus and a package through the admin API.
func (s *testServer) seedCatalog(admin string, menus int) (uint, []uint) {
	s.t.Helper()
	ids := make([]uint, 0, menus)
	for i := 1; i <= menus; i++ {
		w, env := s.do("POST", "/api/menus", admin, gin.H{
			"code": fmt.Sprintf("m%02d", i), "name": fmt.Sprintf("เมนู %d", i), "category": "maincourse",
		})
		require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
		ids = append(ids, decode[models.MenuItem](s.t, env).ID)
	}
	w, env := s.do("POST", "/api/menu-packages", admin, gin.H{
		"name":            "Gold",
		"price_per_table": "2000",
		"max_selections":  8,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.MenuPackage](s.t, env).ID, ids
}

func bookingBody(pkgID uint, menuIDs []uint, tables int) gin.H {
	sets := make([]gin.H, 0, len(menuIDs))
	for _, id := range menuIDs {
		sets = append(sets, gin.H{"menu_id": id, "quantity": 1})
	}
	return gin.H{
		"package_id":     pkgID,
		"event_datetime": time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		"table_count":    tables,
		"location":       gin.H{"address": "สวนลุมพินี", "latitude": 13.73, "longitude": 100.54},
		"menu_sets":      sets,
	}
}

func TestAuthAndRoleGuards(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do("GET", "/api/bookings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "auth.tokenMissing", env.Code)
	assert.NotEmpty(t, env.Message)

	w, env = s.do("GET", "/api/bookings", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "auth.tokenInvalid", env.Code)

	customer := s.register("somchai", "0812345678")
	w, env = s.do("POST", "/api/menus", customer, gin.H{"code": "X", "name": "x", "category": "soup"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "auth.forbidden", env.Code)

	w, env = s.do("GET", "/api/auth/me", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "somchai", decode[models.User](t, env).Username)
	assert.NotContains(t, w.Body.String(), "password")

	w, _ = s.do("POST", "/api/auth/register", "", gin.H{
		"first_name": "x", "username": "bad", "email": "bad@example.com", "phone": "12345", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do("POST", "/api/auth/register", "", gin.H{
		"first_name": "x", "username": "somchai", "email": "other@example.com", "phone": "0899999999", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "user.usernameExists", env.Code)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin", "admin123")
	pkgID, menuIDs := s.seedCatalog(admin, 12)
	customer := s.register("somchai", "0812345678")

	w, env := s.do("POST", "/api/bookings/quote", customer, gin.H{"package_id": pkgID, "table_count": 10, "menu_sets": bookingBody(pkgID, menuIDs[:10], 10)["menu_sets"]})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	q := decode[services.Quote](t, env)
	assert.Equal(t, "24000", q.TotalPrice.String())

	w, env = s.do("POST", "/api/bookings", customer, bookingBody(pkgID, menuIDs[:11], 10))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "booking.selectionExceeded", env.Code)
	assert.Contains(t, env.Message, "10")

	w, env = s.do("POST", "/api/bookings", customer, bookingBody(pkgID, menuIDs[:8], 10))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	b := decode[models.Booking](t, env)
	assert.Regexp(t, `^BK-\d{8}\d{4}$`, b.BookingCode)
	assert.Equal(t, "20000", b.TotalPrice.String())
	assert.Equal(t, "6000", b.DepositRequired.String())

	w, _ = s.do("POST", "/api/bookings", admin, bookingBody(pkgID, menuIDs[:8], 10))
	assert.Equal(t, http.StatusForbidden, w.Code, "only customers place bookings")

	// customers cannot change payment status
	w, _ = s.do("PUT", fmt.Sprintf("/api/bookings/%d/status", b.ID), customer, gin.H{"status": "deposit-paid"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do("PUT", fmt.Sprintf("/api/bookings/%d/status", b.ID), admin, gin.H{"status": "paid"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// multipart status update with a slip
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("status", "deposit-paid"))
	require.NoError(t, mw.WriteField("amount", "6000"))
	require.NoError(t, mw.WriteField("payment_type", "deposit"))
	part, err := mw.CreateFormFile("slip", "slip.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest("PUT", fmt.Sprintf("/api/bookings/%d/status", b.ID), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, env = s.send(req, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	paid := decode[models.Booking](t, env)
	assert.Equal(t, models.StatusDepositPaid, paid.PaymentStatus)
	require.Len(t, paid.Payments, 1)
	slip := paid.Payments[0].Slip
	assert.True(t, strings.HasPrefix(slip, "/uploads/payment-slips/"), slip)
	_, err = os.Stat(filepath.Join(s.uploads, "payment-slips", filepath.Base(slip)))
	assert.NoError(t, err)

	// once a deposit is paid the customer can no longer cancel
	w, env = s.do("POST", fmt.Sprintf("/api/bookings/%d/cancel", b.ID), customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "booking.cancelNotAllowed", env.Code)

	w, env = s.do("GET", fmt.Sprintf("/api/bookings/%d", b.ID), customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusDepositPaid, decode[models.Booking](t, env).PaymentStatus)

	w, env = s.do("GET", "/api/bookings/availability", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	avail := decode[services.Availability](t, env)
	assert.Equal(t, 1, avail.Counts[utils.DateKey(b.EventDatetime, utils.LoadLocation("Asia/Bangkok"))])

	w, env = s.do("POST", "/api/reviews", customer, gin.H{"booking_id": b.ID, "rating": 5, "comment": "อร่อย"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = s.do("DELETE", fmt.Sprintf("/api/bookings/%d", b.ID), admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = s.do("GET", fmt.Sprintf("/api/bookings/%d", b.ID), admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "booking.notFound", env.Code)
}

func TestSlipRemovedWhenStatusUpdateFails(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin", "admin123")
	pkgID, menuIDs := s.seedCatalog(admin, 2)
	customer := s.register("somchai", "0812345678")

	w, env := s.do("POST", "/api/bookings", customer, bookingBody(pkgID, menuIDs, 1))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	b := decode[models.Booking](t, env)
	w, _ = s.do("POST", fmt.Sprintf("/api/bookings/%d/cancel", b.ID), customer, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("status", "deposit-paid"))
	require.NoError(t, mw.WriteField("amount", "600"))
	require.NoError(t, mw.WriteField("payment_type", "deposit"))
	part, err := mw.CreateFormFile("slip", "slip.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest("PUT", fmt.Sprintf("/api/bookings/%d/status", b.ID), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w, env = s.send(req, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "booking.invalidTransition", env.Code)

	entries, _ := os.ReadDir(filepath.Join(s.uploads, "payment-slips"))
	assert.Empty(t, entries)
}

func TestExportEndpoint(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin", "admin123")

	req := httptest.NewRequest("GET", "/api/admin/bookings/export", nil)
	w, _ := s.send(req, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")

	w, env := s.do("GET", "/api/admin/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[services.Dashboard](t, env)
	assert.Contains(t, d.StatusCounts, models.StatusPendingDeposit)
}

func TestDateRangeIncludesEndDay(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin", "admin123")
	pkgID, menuIDs := s.seedCatalog(admin, 2)
	customer := s.register("somchai", "0812345678")

	bkk := utils.LoadLocation("Asia/Bangkok")
	day := time.Now().In(bkk).AddDate(0, 0, 5)
	event := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, bkk)
	key := event.Format("2006-01-02")

	body := bookingBody(pkgID, menuIDs, 1)
	body["event_datetime"] = event.Format(time.RFC3339)
	w, _ := s.do("POST", "/api/bookings", customer, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"single day", "from=" + key + "&to=" + key, 1},
		{"ends on the day", "to=" + key, 1},
		{"ends the day before", "to=" + event.AddDate(0, 0, -1).Format("2006-01-02"), 0},
		{"starts the day after", "from=" + event.AddDate(0, 0, 1).Format("2006-01-02"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := s.do("GET", "/api/bookings/availability?"+tt.query, "", nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, decode[services.Availability](t, env).Counts[key])

			w, env = s.do("GET", "/api/bookings?"+tt.query, admin, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Len(t, decode[[]models.Booking](t, env), tt.want)
		})
	}
}

func TestMenuImageReplace(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin", "admin123")
	_, menuIDs := s.seedCatalog(admin, 1)

	upload := func() string {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("image", "dish.png")
		require.NoError(t, err)
		require.NoError(t, png.Encode(part, image.NewRGBA(image.Rect(0, 0, 2, 2))))
		require.NoError(t, mw.Close())
		req := httptest.NewRequest("POST", fmt.Sprintf("/api/menus/%d/image", menuIDs[0]), &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w, env := s.send(req, admin)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return decode[models.MenuItem](t, env).Image
	}

	first := upload()
	require.NotEmpty(t, first)
	second := upload()
	assert.NotEqual(t, first, second)

	_, err := os.Stat(filepath.Join(s.uploads, "menus", filepath.Base(second)))
	assert.NoError(t, err, "the stored image stays on disk")
	_, err = os.Stat(filepath.Join(s.uploads, "menus", filepath.Base(first)))
	assert.True(t, os.IsNotExist(err), "the replaced image is removed")
}
