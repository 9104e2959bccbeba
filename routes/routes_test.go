package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"

	"github.com/junaidrashid-git/bistro-boss-api/auth"
	paymentControllers "github.com/junaidrashid-git/bistro-boss-api/controllers/payment"
	"github.com/junaidrashid-git/bistro-boss-api/middleware"
	"github.com/junaidrashid-git/bistro-boss-api/models"
	"github.com/junaidrashid-git/bistro-boss-api/payments"
	"github.com/junaidrashid-git/bistro-boss-api/store/memory"
)

const (
	adminEmail = "admin@bistro.io"
	guestEmail = "guest@bistro.io"
)

type fakeGateway struct {
	amount   int64
	currency string
	err      error
}

func (g *fakeGateway) CreatePaymentIntent(_ context.Context, amount int64, currency string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if amount <= 0 {
		return "", payments.ErrInvalidAmount
	}
	g.amount, g.currency = amount, currency
	return "pi_123_secret_456", nil
}

type testServer struct {
	router  *gin.Engine
	store   *memory.Store
	issuer  *auth.Issuer
	gateway *fakeGateway
	feed    *paymentControllers.Feed
	adminID string
	guestID string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &testServer{
		store:   memory.New(),
		issuer:  auth.NewIssuer("test-secret", time.Hour),
		gateway: &fakeGateway{},
		feed:    paymentControllers.NewFeed(zap.NewNop()),
	}
	t.Cleanup(s.feed.Close)

	ctx := context.Background()
	res, err := s.store.InsertUser(ctx, &models.User{Name: "Admin", Email: adminEmail})
	require.NoError(t, err)
	s.adminID = res.InsertedID
	_, err = s.store.SetUserRole(ctx, s.adminID, models.RoleAdmin)
	require.NoError(t, err)

	res, err = s.store.InsertUser(ctx, &models.User{Name: "Guest", Email: guestEmail})
	require.NoError(t, err)
	s.guestID = res.InsertedID

	s.store.SeedMenu(
		models.MenuItem{ID: "m1", Name: "Margherita", Category: "pizza", Price: 10},
		models.MenuItem{ID: "m2", Name: "Lemonade", Category: "drink", Price: 3},
	)
	s.store.SeedReviews(models.Review{Name: "Jane", Details: "Great pizza", Rating: 5})

	s.router = gin.New()
	SetupRoutes(s.router, Deps{
		Store:    s.store,
		Gateway:  s.gateway,
		Issuer:   s.issuer,
		Feed:     s.feed,
		Metrics:  middleware.NewMetrics(),
		Currency: "usd",
	})

	return s
}

func (s *testServer) token(t *testing.T, email string) string {
	t.Helper()
	token, err := s.issuer.Issue(map[string]any{"email": email})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestRoot(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bistro Boss server is running", w.Body.String())

	w = s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCredentialGatedRoutes(t *testing.T) {
	s := newTestServer(t)

	expired := auth.NewIssuer("test-secret", -time.Minute)
	expiredToken, err := expired.Issue(map[string]any{"email": adminEmail})
	require.NoError(t, err)

	misSigned, err := auth.NewIssuer("wrong-secret", time.Hour).Issue(map[string]any{"email": adminEmail})
	require.NoError(t, err)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users"},
		{http.MethodGet, "/users/admin/" + adminEmail},
		{http.MethodPost, "/menu"},
		{http.MethodDelete, "/menu/m1"},
		{http.MethodGet, "/menu/export"},
		{http.MethodGet, "/carts?email=" + adminEmail},
		{http.MethodPost, "/create-payment-intent"},
		{http.MethodPost, "/payments"},
		{http.MethodGet, "/payments/" + adminEmail},
		{http.MethodGet, "/admin-stats"},
		{http.MethodGet, "/order-stats"},
		{http.MethodDelete, "/users/" + s.guestID},
	}

	for _, rt := range routes {
		for name, token := range map[string]string{"missing": "", "expired": expiredToken, "mis-signed": misSigned} {
			t.Run(rt.method+" "+rt.path+" "+name, func(t *testing.T) {
				w := s.do(t, rt.method, rt.path, token, nil)
				assert.Equal(t, http.StatusUnauthorized, w.Code)
			})
		}
	}
}

func TestAdminGatedRoutes(t *testing.T) {
	s := newTestServer(t)
	guest := s.token(t, guestEmail)
	admin := s.token(t, adminEmail)

	routes := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/users", nil},
		{http.MethodPost, "/menu", models.MenuItem{Name: "Tiramisu", Category: "dessert", Price: 6}},
		{http.MethodGet, "/menu/export", nil},
		{http.MethodGet, "/admin-stats", nil},
		{http.MethodGet, "/order-stats", nil},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := s.do(t, rt.method, rt.path, guest, rt.body)
			assert.Equal(t, http.StatusForbidden, w.Code)

			w = s.do(t, rt.method, rt.path, admin, rt.body)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestCreateUser(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	w := s.do(t, http.MethodPost, "/users", "", models.User{Name: "New", Email: "new@bistro.io"})
	require.Equal(t, http.StatusOK, w.Code)
	created := decode[models.InsertResult](t, w)
	assert.True(t, created.Acknowledged)
	assert.NotEmpty(t, created.InsertedID)

	before, err := s.store.Counts(ctx)
	require.NoError(t, err)

	// duplicate email: sentinel message, no insert
	w = s.do(t, http.MethodPost, "/users", "", models.User{Name: "Again", Email: "new@bistro.io"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "user already exists", body["message"])
	assert.Nil(t, body["insertedId"])

	after, err := s.store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.Users, after.Users)
}

func TestCreateUserCannotGrantRole(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/users", "", map[string]string{"email": "sneaky@bistro.io", "role": "admin"})
	require.Equal(t, http.StatusOK, w.Code)

	u, err := s.store.FindUserByEmail(context.Background(), "sneaky@bistro.io")
	require.NoError(t, err)
	assert.False(t, u.IsAdmin())
}

func TestCheckAdmin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/users/admin/"+adminEmail, s.token(t, adminEmail), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]bool{"admin": true}, decode[map[string]bool](t, w))

	w = s.do(t, http.MethodGet, "/users/admin/"+guestEmail, s.token(t, guestEmail), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]bool{"admin": false}, decode[map[string]bool](t, w))

	// asking about someone else
	w = s.do(t, http.MethodGet, "/users/admin/"+adminEmail, s.token(t, guestEmail), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMakeAdmin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPatch, "/users/admin/"+s.guestID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, decode[models.UpdateResult](t, w))

	// the promoted user now passes the admin gate
	w = s.do(t, http.MethodGet, "/admin-stats", s.token(t, guestEmail), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMenuAndReviews(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, adminEmail)

	w := s.do(t, http.MethodGet, "/menu", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.MenuItem](t, w), 2)

	w = s.do(t, http.MethodPost, "/menu", admin, models.MenuItem{Name: "Tiramisu", Category: "dessert", Price: 6.5})
	require.Equal(t, http.StatusOK, w.Code)
	created := decode[models.InsertResult](t, w)

	w = s.do(t, http.MethodDelete, "/menu/"+created.InsertedID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[models.DeleteResult](t, w).DeletedCount)

	w = s.do(t, http.MethodGet, "/reviews", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	reviews := decode[[]models.Review](t, w)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Jane", reviews[0].Name)
}

func TestMenuExport(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/menu/export", s.token(t, adminEmail), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "menu.xlsx")

	file, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	rows := file.Sheets[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "Name", rows[0].Cells[1].Value)
	assert.Equal(t, "Margherita", rows[1].Cells[1].Value)
	assert.Equal(t, "drink", rows[2].Cells[2].Value)
}

func TestMenuImport(t *testing.T) {
	s := newTestServer(t)

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Menu")
	require.NoError(t, err)
	for _, values := range [][]string{
		{"ID", "Name", "Category", "Price", "Recipe", "Image"},
		{"", "Tiramisu", "dessert", "6.5", "Mascarpone and coffee", "tiramisu.jpg"},
		{"", "", "dessert", "4", "", ""},
		{"", "Soup", "soup", "not-a-price", "", ""},
	} {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}

	var upload bytes.Buffer
	mw := multipart.NewWriter(&upload)
	part, err := mw.CreateFormFile("file", "menu.xlsx")
	require.NoError(t, err)
	require.NoError(t, file.Write(part))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/menu/import", &upload)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token(t, adminEmail))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[map[string]any](t, w)
	assert.EqualValues(t, 1, body["created_count"])
	assert.EqualValues(t, 2, body["skipped_count"])

	menu, err := s.store.ListMenu(context.Background())
	require.NoError(t, err)
	require.Len(t, menu, 3)
	assert.Equal(t, "Tiramisu", menu[2].Name)
	assert.Equal(t, 6.5, menu[2].Price)

	w = s.do(t, http.MethodPost, "/menu/import", s.token(t, adminEmail), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCarts(t *testing.T) {
	s := newTestServer(t)
	guest := s.token(t, guestEmail)

	// no email: empty list
	w := s.do(t, http.MethodGet, "/carts", guest, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = s.do(t, http.MethodPost, "/carts", "", models.CartItem{MenuItemID: "m1", Email: guestEmail, Name: "Margherita", Price: 10})
	require.Equal(t, http.StatusOK, w.Code)
	added := decode[models.InsertResult](t, w)

	w = s.do(t, http.MethodGet, "/carts?email="+guestEmail, guest, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode[[]models.CartItem](t, w)
	require.Len(t, items, 1)
	assert.Equal(t, added.InsertedID, items[0].ID)

	// someone else's cart
	w = s.do(t, http.MethodGet, "/carts?email="+guestEmail, s.token(t, adminEmail), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, "/carts/"+added.InsertedID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[models.DeleteResult](t, w).DeletedCount)

	w = s.do(t, http.MethodGet, "/carts?email="+guestEmail, guest, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreatePaymentIntent(t *testing.T) {
	s := newTestServer(t)
	guest := s.token(t, guestEmail)

	w := s.do(t, http.MethodPost, "/create-payment-intent", guest, map[string]float64{"price": 19.99})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"clientSecret": "pi_123_secret_456"}, decode[map[string]string](t, w))
	assert.Equal(t, int64(1999), s.gateway.amount)
	assert.Equal(t, "usd", s.gateway.currency)

	w = s.do(t, http.MethodPost, "/create-payment-intent", guest, map[string]float64{"price": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.gateway.err = errors.New("card network down")
	w = s.do(t, http.MethodPost, "/create-payment-intent", guest, map[string]float64{"price": 5})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// nothing is written by the intent step
	counts, err := s.store.Counts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, counts.Payments)
}

func TestSettlePayment(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	guest := s.token(t, guestEmail)

	var cartIDs []string
	for _, id := range []string{"m1", "m2", "m1"} {
		res, err := s.store.InsertCartItem(ctx, &models.CartItem{MenuItemID: id, Email: guestEmail})
		require.NoError(t, err)
		cartIDs = append(cartIDs, res.InsertedID)
	}

	w := s.do(t, http.MethodPost, "/payments", guest, paymentControllers.PaymentRequest{
		Price:         13,
		TransactionID: "pi_123",
		CartIDs:       cartIDs[:2],
		MenuItemIDs:   []string{"m1", "m2"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[struct {
		InsertResult models.InsertResult `json:"insertResult"`
		DeleteResult models.DeleteResult `json:"deleteResult"`
	}](t, w)
	assert.NotEmpty(t, body.InsertResult.InsertedID)
	assert.Equal(t, int64(2), body.DeleteResult.DeletedCount)

	// exactly one payment, owned by the caller
	paid, err := s.store.ListPayments(ctx, guestEmail)
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, "pi_123", paid[0].TransactionID)
	assert.Equal(t, models.PaymentStatusPending, paid[0].Status)

	// settled cart items are gone, the third one stays
	left, err := s.store.ListCartItems(ctx, guestEmail)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, cartIDs[2], left[0].ID)

	w = s.do(t, http.MethodGet, "/payments/"+guestEmail, guest, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Payment](t, w), 1)

	w = s.do(t, http.MethodGet, "/payments/"+guestEmail, s.token(t, adminEmail), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStats(t *testing.T) {
	s := newTestServer(t)
	guest := s.token(t, guestEmail)
	admin := s.token(t, adminEmail)

	for _, p := range []paymentControllers.PaymentRequest{
		{Price: 13, TransactionID: "pi_1", MenuItemIDs: []string{"m1", "m2"}},
		{Price: 10.5, TransactionID: "pi_2", MenuItemIDs: []string{"m1"}},
	} {
		w := s.do(t, http.MethodPost, "/payments", guest, p)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := s.do(t, http.MethodGet, "/admin-stats", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[models.AdminStats](t, w)
	assert.Equal(t, int64(2), summary.Users)
	assert.Equal(t, int64(2), summary.MenuItems)
	assert.Equal(t, int64(2), summary.Orders)
	assert.InDelta(t, 23.5, summary.Revenue, 1e-9)

	w = s.do(t, http.MethodGet, "/order-stats", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.ElementsMatch(t, []models.CategoryStats{
		{Category: "pizza", Count: 2, Total: 20},
		{Category: "drink", Count: 1, Total: 3},
	}, decode[[]models.CategoryStats](t, w))
}

func TestPaymentFeed(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.token(t, adminEmail))

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/payments/feed"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return s.feed.Clients() == 1 }, time.Second, 10*time.Millisecond)

	w := s.do(t, http.MethodPost, "/payments", s.token(t, guestEmail), paymentControllers.PaymentRequest{
		Price:         10,
		TransactionID: "pi_feed",
		MenuItemIDs:   []string{"m1"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got models.Payment
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "pi_feed", got.TransactionID)
	assert.Equal(t, guestEmail, got.Email)
}

func TestPaymentFeedRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.token(t, guestEmail))

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/payments/feed"
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
