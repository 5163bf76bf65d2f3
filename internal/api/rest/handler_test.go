package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-paywall/internal/adapter"
	"github.com/feral-file/ff-paywall/internal/api/middleware"
	"github.com/feral-file/ff-paywall/internal/api/rest"
	"github.com/feral-file/ff-paywall/internal/api/rest/dto"
	"github.com/feral-file/ff-paywall/internal/availability"
	"github.com/feral-file/ff-paywall/internal/checkout"
	"github.com/feral-file/ff-paywall/internal/domain"
	"github.com/feral-file/ff-paywall/internal/ipn"
	"github.com/feral-file/ff-paywall/internal/mocks"
	"github.com/feral-file/ff-paywall/internal/paypal"
	"github.com/feral-file/ff-paywall/internal/store"
	"github.com/feral-file/ff-paywall/internal/store/schema"
)

const testAPIKey = "test-api-key"

type testHandlerMocks struct {
	ctrl      *gomock.Controller
	ipn       *mocks.MockIPNHandler
	checkout  *mocks.MockCheckoutService
	resolver  *mocks.MockResolver
	evaluator *mocks.MockEvaluator
	store     *mocks.MockStore
}

func setupTestHandler(t *testing.T) *testHandlerMocks {
	ctrl := gomock.NewController(t)
	return &testHandlerMocks{
		ctrl:      ctrl,
		ipn:       mocks.NewMockIPNHandler(ctrl),
		checkout:  mocks.NewMockCheckoutService(ctrl),
		resolver:  mocks.NewMockResolver(ctrl),
		evaluator: mocks.NewMockEvaluator(ctrl),
		store:     mocks.NewMockStore(ctrl),
	}
}

func (tm *testHandlerMocks) handler(io adapter.IO) rest.Handler {
	if io == nil {
		io = adapter.NewIO()
	}
	return rest.NewHandler(rest.Config{WWWRoot: "https://lms.example.com"}, rest.Dependencies{
		IPN:       tm.ipn,
		Checkout:  tm.checkout,
		Resolver:  tm.resolver,
		Evaluator: tm.evaluator,
		Store:     tm.store,
		IO:        io,
	})
}

// newTestRouter wires the routes the way the server does. A non-zero userID
// marks the visitor as logged in.
func newTestRouter(t *testing.T, h rest.Handler, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	tmpl, err := rest.LoadTemplates()
	require.NoError(t, err)
	router.SetHTMLTemplate(tmpl)

	if userID != 0 {
		router.Use(func(c *gin.Context) {
			c.Set(string(middleware.CURRENT_USER_ID_KEY), userID)
			c.Next()
		})
	}

	rest.SetupRoutes(router, h, middleware.AuthConfig{APIKeys: []string{testAPIKey}})
	return router
}

func serve(router *gin.Engine, method, target string, body string, authorized bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if authorized {
		req.Header.Set("Authorization", "ApiKey "+testAPIKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func testResource() *availability.Resource {
	return &availability.Resource{
		Context:   &schema.Context{ID: 1000, ContextLevel: domain.ContextLevelModule, InstanceID: 100, CourseID: 10},
		Condition: &availability.PayPalCondition{Currency: "USD", Cost: decimal.RequireFromString("10"), ItemName: "Intro course"},
	}
}

func TestHealthCheck(t *testing.T) {
	tm := setupTestHandler(t)
	router := newTestRouter(t, tm.handler(nil), 0)

	w := serve(router, http.MethodGet, "/health", "", false)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"ff-paywall-api"}`, w.Body.String())
}

func TestIPN(t *testing.T) {
	const body = "payment_status=Completed&txn_id=TX1&custom=7-1000-0"

	t.Run("forwards the notification and answers an empty 200", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 0)

		tm.ipn.EXPECT().Handle(gomock.Any(), ipn.Request{
			Method: http.MethodPost,
			Body:   []byte(body),
		}).Return(ipn.Outcome{Result: ipn.ResultAccepted, State: ipn.StateProvisionalCleared})

		w := serve(router, http.MethodPost, checkout.IPNPath, body, false)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("other methods reach the handler with their query", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 0)

		tm.ipn.EXPECT().Handle(gomock.Any(), ipn.Request{
			Method:   http.MethodGet,
			RawQuery: "txn_id=TX1",
			Body:     []byte{},
		}).Return(ipn.Outcome{Result: ipn.ResultAborted, State: ipn.StateReceived})

		w := serve(router, http.MethodGet, checkout.IPNPath+"?txn_id=TX1", "", false)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("processing outlives a cancelled request", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 0)

		tm.ipn.EXPECT().Handle(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ ipn.Request) ipn.Outcome {
			assert.NoError(t, ctx.Err())
			return ipn.Outcome{Result: ipn.ResultAccepted}
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req := httptest.NewRequest(http.MethodPost, checkout.IPNPath, strings.NewReader(body)).WithContext(ctx)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("a panic still answers 200", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 0)

		tm.ipn.EXPECT().Handle(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, ipn.Request) ipn.Outcome {
			panic("boom")
		})

		w := serve(router, http.MethodPost, checkout.IPNPath, body, false)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("unreadable body is dropped", func(t *testing.T) {
		tm := setupTestHandler(t)
		io := mocks.NewMockIO(tm.ctrl)
		router := newTestRouter(t, tm.handler(io), 0)

		io.EXPECT().ReadAll(gomock.Any(), int64(rest.DEFAULT_MAX_IPN_BODY_SIZE)).Return(nil, errors.New("connection reset"))

		w := serve(router, http.MethodPost, checkout.IPNPath, body, false)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestView(t *testing.T) {
	user := &schema.User{ID: 7, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}

	t.Run("guest gets a login prompt", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 0)

		tm.checkout.EXPECT().Prepare(gomock.Any(), checkout.Request{ContextID: 1000}).Return(&checkout.Page{
			Kind:     checkout.PageLogin,
			ItemName: "Intro course",
			Currency: "USD",
			Cost:     "10.00",
			LoginURL: "https://lms.example.com/login/",
		}, nil)

		w := serve(router, http.MethodGet, availability.ViewPath+"?contextid=1000", "", false)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `href="https://lms.example.com/login/"`)
		assert.Contains(t, w.Body.String(), "USD 10.00")
		assert.Contains(t, w.Body.String(), checkout.MessagePaymentRequired)
	})

	t.Run("logged in user gets the checkout form", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 7)

		tm.store.EXPECT().GetUserByID(gomock.Any(), int64(7)).Return(user, nil)
		tm.checkout.EXPECT().Prepare(gomock.Any(), checkout.Request{ContextID: 2000, SectionID: 200, Token: "abc", User: user}).Return(&checkout.Page{
			Kind:        checkout.PagePayment,
			ItemName:    "Intro course",
			Currency:    "USD",
			Cost:        "10.00",
			CheckoutURL: "https://www.paypal.com/cgi-bin/webscr",
			Fields: []paypal.Field{
				{Key: "cmd", Value: "_xclick"},
				{Key: "custom", Value: "7-2000-200"},
			},
		}, nil)

		w := serve(router, http.MethodGet, availability.ViewPath+"?contextid=2000&sectionid=200&token=abc", "", false)

		body := w.Body.String()
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, body, `action="https://www.paypal.com/cgi-bin/webscr"`)
		assert.Contains(t, body, `name="cmd" value="_xclick"`)
		assert.Contains(t, body, `name="custom" value="7-2000-200"`)
		assert.Contains(t, body, checkout.LabelSendPayment)
		assert.Less(t, strings.Index(body, `name="cmd"`), strings.Index(body, `name="custom"`))
	})

	t.Run("pending page with reminder", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 7)

		tm.store.EXPECT().GetUserByID(gomock.Any(), int64(7)).Return(user, nil)
		tm.checkout.EXPECT().Prepare(gomock.Any(), gomock.Any()).Return(&checkout.Page{Kind: checkout.PagePending, Reminder: true}, nil)

		w := serve(router, http.MethodGet, availability.ViewPath+"?contextid=1000", "", false)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), checkout.MessagePaymentPending)
		assert.Contains(t, w.Body.String(), checkout.MessageWaitReminder)
	})

	t.Run("paid user is redirected", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 7)

		tm.store.EXPECT().GetUserByID(gomock.Any(), int64(7)).Return(user, nil)
		tm.checkout.EXPECT().Prepare(gomock.Any(), gomock.Any()).Return(&checkout.Page{
			Kind:        checkout.PageRedirect,
			RedirectURL: "https://lms.example.com/course/view.php?id=10#module-100",
		}, nil)

		w := serve(router, http.MethodGet, availability.ViewPath+"?contextid=1000", "", false)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "https://lms.example.com/course/view.php?id=10#module-100", w.Header().Get("Location"))
	})

	t.Run("deleted user is treated as a guest", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 7)

		tm.store.EXPECT().GetUserByID(gomock.Any(), int64(7)).Return(nil, nil)
		tm.checkout.EXPECT().Prepare(gomock.Any(), checkout.Request{ContextID: 1000}).Return(&checkout.Page{Kind: checkout.PageLogin}, nil)

		w := serve(router, http.MethodGet, availability.ViewPath+"?contextid=1000", "", false)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantText   string
	}{
		{"missing context", fmt.Errorf("%w: 1000", domain.ErrContextNotFound), http.StatusNotFound, "Context not found"},
		{"missing condition", domain.ErrConditionNotFound, http.StatusNotFound, "PayPal condition not found"},
		{"invalid condition", fmt.Errorf("%w: cost", domain.ErrInvalidCondition), http.StatusNotFound, "PayPal condition not found"},
		{"storage failure", errors.New("connection refused"), http.StatusInternalServerError, "Failed to resolve resource"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTestHandler(t)
			router := newTestRouter(t, tm.handler(nil), 0)

			tm.checkout.EXPECT().Prepare(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			w := serve(router, http.MethodGet, availability.ViewPath+"?contextid=1000", "", false)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantText)
		})
	}

	t.Run("missing contextid", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 0)

		w := serve(router, http.MethodGet, availability.ViewPath, "", false)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid parameters")
	})

	t.Run("user lookup failure", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 7)

		tm.store.EXPECT().GetUserByID(gomock.Any(), int64(7)).Return(nil, errors.New("connection refused"))

		w := serve(router, http.MethodGet, availability.ViewPath+"?contextid=1000", "", false)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestCheckAvailability(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 0)

		w := serve(router, http.MethodGet, "/api/v1/availability/paypal/check?contextid=1000&userid=7", "", false)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("reports availability", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 0)

		tm.resolver.EXPECT().Resolve(gomock.Any(), int64(1000), int64(0)).Return(testResource(), nil)
		tm.evaluator.EXPECT().IsAvailable(gomock.Any(), true, availability.ContextInfo{ContextID: 1000}, int64(7)).Return(false, nil)

		w := serve(router, http.MethodGet, "/api/v1/availability/paypal/check?contextid=1000&userid=7&negate=true", "", true)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"available":false}`, w.Body.String())
	})

	t.Run("negation follows the condition tree", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 0)

		res := testResource()
		res.Negated = true
		tm.resolver.EXPECT().Resolve(gomock.Any(), int64(1000), int64(0)).Return(res, nil)
		tm.evaluator.EXPECT().IsAvailable(gomock.Any(), true, availability.ContextInfo{ContextID: 1000}, int64(7)).Return(true, nil)

		w := serve(router, http.MethodGet, "/api/v1/availability/paypal/check?contextid=1000&userid=7", "", true)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"available":true}`, w.Body.String())
	})

	t.Run("explicit negate wins over the tree", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 0)

		res := testResource()
		res.Negated = true
		tm.resolver.EXPECT().Resolve(gomock.Any(), int64(1000), int64(0)).Return(res, nil)
		tm.evaluator.EXPECT().IsAvailable(gomock.Any(), false, gomock.Any(), int64(7)).Return(false, nil)

		w := serve(router, http.MethodGet, "/api/v1/availability/paypal/check?contextid=1000&userid=7&negate=false", "", true)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing userid", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 0)

		w := serve(router, http.MethodGet, "/api/v1/availability/paypal/check?contextid=1000", "", true)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("unknown condition", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 0)

		tm.resolver.EXPECT().Resolve(gomock.Any(), int64(1000), int64(0)).Return(nil, domain.ErrConditionNotFound)

		w := serve(router, http.MethodGet, "/api/v1/availability/paypal/check?contextid=1000&userid=7", "", true)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("evaluation failure", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 0)

		tm.resolver.EXPECT().Resolve(gomock.Any(), int64(1000), int64(0)).Return(testResource(), nil)
		tm.evaluator.EXPECT().IsAvailable(gomock.Any(), false, gomock.Any(), int64(7)).Return(false, errors.New("connection refused"))

		w := serve(router, http.MethodGet, "/api/v1/availability/paypal/check?contextid=1000&userid=7", "", true)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestDescribeAvailability(t *testing.T) {
	tm := setupTestHandler(t)
	router := newTestRouter(t, tm.handler(nil), 0)

	description := `you make a <a href="https://lms.example.com/availability/condition/paypal/view.php?contextid=1000">payment with PayPal</a>`
	tm.resolver.EXPECT().Resolve(gomock.Any(), int64(1000), int64(0)).Return(testResource(), nil)
	tm.evaluator.EXPECT().Describe(true, false, availability.ContextInfo{ContextID: 1000}).Return(description)

	w := serve(router, http.MethodGet, "/api/v1/availability/paypal/describe?contextid=1000&full=true", "", true)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.DescriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, description, resp.Description)
}

func TestDescribeAvailability_NegatedCondition(t *testing.T) {
	tm := setupTestHandler(t)
	router := newTestRouter(t, tm.handler(nil), 0)

	res := testResource()
	res.Negated = true
	tm.resolver.EXPECT().Resolve(gomock.Any(), int64(1000), int64(0)).Return(res, nil)
	tm.evaluator.EXPECT().Describe(false, true, availability.ContextInfo{ContextID: 1000}).Return("you have not made a payment with PayPal")

	w := serve(router, http.MethodGet, "/api/v1/availability/paypal/describe?contextid=1000", "", true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"description":"you have not made a payment with PayPal"}`, w.Body.String())
}

func TestListTransactions(t *testing.T) {
	course10, course20 := int64(10), int64(20)
	short10, short20 := "INTRO", "ADV"
	updated := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	rows := []store.TransactionReportRow{
		{ID: 3, ItemName: "Intro course", UserID: 7, ContextID: 1000, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
			CourseID: &course10, CourseShortName: &short10, PaymentStatus: domain.PaymentStatusCompleted, TxnID: "TX3", TimeUpdated: updated},
		{ID: 2, ItemName: "Advanced", UserID: 8, ContextID: 2000, SectionID: 200, FirstName: "Alan", LastName: "Turing",
			CourseID: &course20, CourseShortName: &short20, PaymentStatus: domain.PaymentStatusPending, PendingReason: "echeck", TxnID: "TX2", TimeUpdated: updated},
		{ID: 1, ItemName: "Gone", UserID: 9, ContextID: 3000, PaymentStatus: domain.PaymentStatusToBeVerified, TimeUpdated: updated},
	}

	t.Run("default page", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 0)

		tm.store.EXPECT().ListTransactions(gomock.Any(), store.TransactionListQuery{Limit: 25}).Return(rows, uint64(3), nil)

		w := serve(router, http.MethodGet, "/api/v1/transactions?courseid=10", "", true)

		require.Equal(t, http.StatusOK, w.Code)
		var resp dto.TransactionListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		assert.Equal(t, uint64(3), resp.Total)
		assert.Equal(t, 25, resp.Limit)
		require.Len(t, resp.Items, 3)

		assert.Equal(t, "INTRO / Intro course", resp.Items[0].Item)
		assert.False(t, resp.Items[0].Dimmed)
		assert.Equal(t, dto.BadgeSuccess, resp.Items[0].Badge)
		assert.Equal(t, "Ada Lovelace", resp.Items[0].FullName)
		assert.Equal(t, "https://lms.example.com/user/view.php?course=10&id=7", resp.Items[0].ProfileURL)

		assert.Equal(t, "ADV / Advanced", resp.Items[1].Item)
		assert.True(t, resp.Items[1].Dimmed)
		assert.Equal(t, dto.BadgeInfo, resp.Items[1].Badge)
		assert.Equal(t, "https://lms.example.com/availability/condition/paypal/view.php?contextid=2000&sectionid=200", resp.Items[1].ItemURL)

		assert.Equal(t, "Gone", resp.Items[2].Item)
		assert.Empty(t, resp.Items[2].ItemURL)
		assert.Equal(t, dto.BadgeWarning, resp.Items[2].Badge)
	})

	t.Run("custom page", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 0)

		tm.store.EXPECT().ListTransactions(gomock.Any(), store.TransactionListQuery{Limit: 100, Offset: 200}).Return(nil, uint64(3), nil)

		w := serve(router, http.MethodGet, "/api/v1/transactions?limit=100&offset=200", "", true)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"items":[],"total":3,"limit":100,"offset":200}`, w.Body.String())
	})

	t.Run("unsupported page size", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 0)

		w := serve(router, http.MethodGet, "/api/v1/transactions?limit=30", "", true)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		tm := setupTestHandler(t)
		router := newTestRouter(t, tm.handler(nil), 0)

		tm.store.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, uint64(0), errors.New("connection refused"))

		w := serve(router, http.MethodGet, "/api/v1/transactions", "", true)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
