package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/gardenpro/landscape-api/internal/config"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body httperr.HTTPError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body %q: %v", w.Body.String(), err)
	}
	return body.Error
}

func TestParamValidation(t *testing.T) {
	r := gin.New()
	ap := NewAppointmentHandler(nil, AppointmentUseCases{}, 0)
	crew := NewCrewHandler(nil, nil, nil, nil, nil, nil, nil)
	r.GET("/appointments/:id", ap.Get)
	r.DELETE("/appointments/:id/crew/:userId", crew.RemoveMember)
	r.PUT("/professionals/:id/assign/:appointmentId", crew.Assign)

	cases := []struct {
		name   string
		method string
		path   string
		msg    string
	}{
		{"non numeric id", http.MethodGet, "/appointments/abc", "Invalid id"},
		{"zero id", http.MethodGet, "/appointments/0", "Invalid id"},
		{"bad crew user", http.MethodDelete, "/appointments/1/crew/x", "Invalid userId"},
		{"bad appointment on assign", http.MethodPut, "/professionals/3/assign/-1", "Invalid appointmentId"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, tc.method, tc.path, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			if msg := errorOf(t, w); msg != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, msg)
			}
		})
	}
}

func TestAppointmentUpdateRejectsBadBodies(t *testing.T) {
	r := gin.New()
	h := NewAppointmentHandler(nil, AppointmentUseCases{}, 0)
	r.PUT("/appointments/:id", h.Update)

	t.Run("empty body", func(t *testing.T) {
		w := do(r, http.MethodPut, "/appointments/1", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("not an object", func(t *testing.T) {
		w := do(r, http.MethodPut, "/appointments/1", `["date"]`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("wrong field type", func(t *testing.T) {
		w := do(r, http.MethodPut, "/appointments/1", `{"serviceId":"two"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestAvailabilityRejectsBadServiceID(t *testing.T) {
	r := gin.New()
	h := NewAppointmentHandler(nil, AppointmentUseCases{}, 0)
	r.GET("/appointments/availability", h.Availability)

	w := do(r, http.MethodGet, "/appointments/availability?date=2024-06-10&serviceId=lawn", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	r := gin.New()
	h := NewAuthHandler(nil, &config.Config{JWTSecret: "s", JWTExpireHours: 1})
	h.checkDomain = func(email string) bool { return !strings.HasSuffix(email, "@nomail.test") }
	r.POST("/auth/register", h.Register)

	cases := []struct {
		name string
		body string
		msg  string
	}{
		{"missing password", `{"name":"Dana","email":"dana@example.com"}`, "Please provide name, email and password"},
		{"bad email", `{"name":"Dana","email":"dana","password":"secret1"}`, "Please add a valid email"},
		{"dead domain", `{"name":"Dana","email":"dana@nomail.test","password":"secret1"}`, "Email domain does not accept mail"},
		{"short password", `{"name":"Dana","email":"dana@example.com","password":"abc"}`, "Password must be at least 6 characters"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/auth/register", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			if msg := errorOf(t, w); msg != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, msg)
			}
		})
	}
}

func TestPaymentReportDates(t *testing.T) {
	r := gin.New()
	h := NewPaymentHandler(nil, nil, nil, nil, nil)
	r.GET("/payments/report", h.Report)

	for _, q := range []string{"from=June", "from=2024-06-01&to=2024-13-01", "from=2024-06-10&to=2024-06-01"} {
		w := do(r, http.MethodGet, "/payments/report?"+q, "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, w.Code)
		}
	}
}

func TestAuditLogsRejectsUnknownFilter(t *testing.T) {
	r := gin.New()
	h := NewAuditLogsHandler(nil)
	r.GET("/audit-logs", h.List)

	if w := do(r, http.MethodGet, "/audit-logs?metadata=x", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/audit-logs?action=estimate_created&from=yesterday", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestFormUploads(t *testing.T) {
	r := gin.New()
	var got int
	var gotErr error
	r.POST("/upload", func(c *gin.Context) {
		files, err := formUploads(c, "photos", 10)
		got, gotErr = len(files), err
		c.Status(http.StatusNoContent)
	})

	send := func(fields map[string]string) {
		body := &bytes.Buffer{}
		mw := multipart.NewWriter(body)
		for name, content := range fields {
			fw, _ := mw.CreateFormFile(name, "yard.jpg")
			_, _ = fw.Write([]byte(content))
		}
		_ = mw.Close()
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	send(map[string]string{"photos[]": "small"})
	if gotErr != nil || got != 1 {
		t.Fatalf("expected one upload from photos[], got %d (%v)", got, gotErr)
	}

	send(map[string]string{"photos": "this file is too large"})
	if !httperr.IsBusiness(gotErr, httperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", gotErr)
	}

	w := do(r, http.MethodPost, "/upload", `{}`)
	if w.Code != http.StatusNoContent || !httperr.IsBusiness(gotErr, httperr.KindValidation) {
		t.Fatalf("expected validation error without multipart body, got %v", gotErr)
	}
}

func TestServiceRequestApply(t *testing.T) {
	str := func(s string) *string { return &s }
	num := func(n int) *int { return &n }
	price := decimal.NewFromInt(-1)

	bad := []ServiceRequest{
		{Category: str("Snow Removal")},
		{Duration: num(0)},
		{BasePrice: &price},
		{PriceUnit: str("per_tree")},
	}
	for i, req := range bad {
		var s models.Service
		if err := req.apply(&s); !httperr.IsBusiness(err, httperr.KindValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}

	s := models.Service{Name: "Mowing", Duration: 30}
	ok := ServiceRequest{Category: str(models.CategoryLawnMaintenance), Duration: num(45)}
	if err := ok.apply(&s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != "Mowing" || s.Duration != 45 || s.Category != models.CategoryLawnMaintenance {
		t.Fatalf("unexpected merge result %+v", s)
	}
}

func TestSettingsRequestApply(t *testing.T) {
	t.Run("merges business hours", func(t *testing.T) {
		s := models.DefaultBusinessSetting()
		req := SettingsRequest{BusinessHours: map[string]models.DayHours{
			"Saturday": {Open: "09:00", Close: "13:00"},
		}}
		if err := req.apply(&s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		hours := s.BusinessHours.Data()
		if hours["saturday"].Closed || hours["saturday"].Open != "09:00" {
			t.Fatalf("expected saturday to open at 09:00, got %+v", hours["saturday"])
		}
		if hours["monday"].Open != "08:00" {
			t.Fatalf("expected monday to be kept, got %+v", hours["monday"])
		}
	})

	t.Run("rejects inverted hours", func(t *testing.T) {
		s := models.DefaultBusinessSetting()
		req := SettingsRequest{BusinessHours: map[string]models.DayHours{
			"monday": {Open: "17:00", Close: "08:00"},
		}}
		if err := req.apply(&s); !httperr.IsBusiness(err, httperr.KindValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("rejects unknown day and bad currency", func(t *testing.T) {
		s := models.DefaultBusinessSetting()
		bad := SettingsRequest{BusinessHours: map[string]models.DayHours{"funday": {Closed: true}}}
		if err := bad.apply(&s); !httperr.IsBusiness(err, httperr.KindValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
		cur := "dollars"
		if err := (&SettingsRequest{Currency: &cur}).apply(&s); !httperr.IsBusiness(err, httperr.KindValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestCustomerProfileApply(t *testing.T) {
	cu := models.NewPlaceholderCustomer(5)
	days := 20
	if err := (&CustomerProfileRequest{ReminderDaysBefore: &days}).apply(&cu); !httperr.IsBusiness(err, httperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	city, sms := "Springfield", true
	if err := (&CustomerProfileRequest{City: &city, NotifyBySms: &sms}).apply(&cu); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cu.City != "Springfield" || !cu.NotifyBySms || cu.Street != "N/A" {
		t.Fatalf("unexpected profile %+v", cu)
	}
}

func TestApproveRequestName(t *testing.T) {
	cases := []struct{ body, want string }{
		{`{"packageName":"Premium"}`, "Premium"},
		{`{"approvedPackage":"Basic"}`, "Basic"},
		{`{"packageName":"Standard","approvedPackage":"Basic"}`, "Standard"},
		{`{}`, ""},
	}
	for _, tc := range cases {
		var req approveRequest
		if err := json.Unmarshal([]byte(tc.body), &req); err != nil {
			t.Fatalf("invalid body %s: %v", tc.body, err)
		}
		if got := req.name(); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.body, tc.want, got)
		}
	}
}
