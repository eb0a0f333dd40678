package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/devxxclaire/MyFinanceHub/internal/auth"
	"github.com/devxxclaire/MyFinanceHub/internal/core"
	"github.com/devxxclaire/MyFinanceHub/internal/journal"
	"github.com/devxxclaire/MyFinanceHub/internal/notify"
	"github.com/devxxclaire/MyFinanceHub/internal/services"
	"github.com/devxxclaire/MyFinanceHub/internal/session"
)

// fakeStore backs every persistence interface the server needs.
type fakeStore struct {
	mu       sync.Mutex
	nextID   int64
	users    map[string]string // username -> hash
	emails   map[string]string
	expenses map[int64]core.Expense
	incomes  map[int64]core.Income
	budgets  map[string]core.Budget
	logins   []time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[string]string{},
		emails:   map[string]string{},
		expenses: map[int64]core.Expense{},
		incomes:  map[int64]core.Income{},
		budgets:  map[string]core.Budget{},
	}
}

func (f *fakeStore) CreateUser(_ context.Context, username, hash, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[username]; ok {
		return &core.ConflictError{Entity: "user", Reason: "username already taken"}
	}
	f.users[username] = hash
	f.emails[username] = email
	return nil
}

func (f *fakeStore) GetCredential(_ context.Context, username string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hash, ok := f.users[username]
	if !ok {
		return "", &core.NotFoundError{Entity: "user"}
	}
	return hash, nil
}

func (f *fakeStore) UpdatePassword(_ context.Context, username, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[username]; !ok {
		return &core.NotFoundError{Entity: "user"}
	}
	f.users[username] = hash
	return nil
}

func (f *fakeStore) UserEmail(_ context.Context, username string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[username]; !ok {
		return "", &core.NotFoundError{Entity: "user"}
	}
	return f.emails[username], nil
}

func (f *fakeStore) InsertExpense(_ context.Context, e core.Expense) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	e.ID = f.nextID
	f.expenses[e.ID] = e
	return e.ID, nil
}

func (f *fakeStore) ListExpenses(_ context.Context, username string, r core.DateRange) ([]core.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Expense
	for _, e := range f.expenses {
		if e.Username == username && r.Contains(e.Date) {
			out = append(out, e)
		}
	}
	sortExpenses(out)
	return out, nil
}

func (f *fakeStore) UpdateExpense(_ context.Context, e core.Expense) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.expenses[e.ID]
	if !ok || cur.Username != e.Username {
		return &core.NotFoundError{Entity: "expense", ID: e.ID}
	}
	f.expenses[e.ID] = e
	return nil
}

func (f *fakeStore) DeleteExpense(_ context.Context, username string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.expenses[id]
	if !ok || cur.Username != username {
		return &core.NotFoundError{Entity: "expense", ID: id}
	}
	delete(f.expenses, id)
	return nil
}

func (f *fakeStore) InsertIncome(_ context.Context, in core.Income) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	in.ID = f.nextID
	f.incomes[in.ID] = in
	return in.ID, nil
}

func (f *fakeStore) ListIncomes(_ context.Context, username string, r core.DateRange) ([]core.Income, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Income
	for _, in := range f.incomes {
		if in.Username == username && r.Contains(in.Date) {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateIncome(_ context.Context, in core.Income) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.incomes[in.ID]
	if !ok || cur.Username != in.Username {
		return &core.NotFoundError{Entity: "income", ID: in.ID}
	}
	f.incomes[in.ID] = in
	return nil
}

func (f *fakeStore) DeleteIncome(_ context.Context, username string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.incomes[id]
	if !ok || cur.Username != username {
		return &core.NotFoundError{Entity: "income", ID: id}
	}
	delete(f.incomes, id)
	return nil
}

func budgetKey(b core.Budget) string {
	return fmt.Sprintf("%s|%s|%d|%d", b.Username, b.Category, b.Year, b.Month)
}

func (f *fakeStore) ReplaceBudget(_ context.Context, b core.Budget) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.budgets[budgetKey(b)] = b
	return nil
}

func (f *fakeStore) ListBudgets(_ context.Context, username string, month time.Month, year int) ([]core.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Budget
	for _, b := range f.budgets {
		if b.Username == username && b.Month == month && b.Year == year {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertLogin(_ context.Context, username string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, at)
	return nil
}

func (f *fakeStore) RecentLogins(_ context.Context, username string, limit int) ([]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Time, len(f.logins))
	copy(out, f.logins)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func sortExpenses(expenses []core.Expense) {
	for i := 1; i < len(expenses); i++ {
		for j := i; j > 0; j-- {
			a, b := expenses[j-1], expenses[j]
			if b.Date.Before(a.Date) || (a.Date == b.Date && b.ID < a.ID) {
				expenses[j-1], expenses[j] = b, a
			}
		}
	}
}

type fakePublisher struct {
	mu       sync.Mutex
	requests []*notify.SummaryRequest
	err      error
}

func (p *fakePublisher) PublishSummaryRequest(_ context.Context, req *notify.SummaryRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.requests = append(p.requests, req)
	return nil
}

type testEnv struct {
	ts        *httptest.Server
	store     *fakeStore
	publisher *fakePublisher
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()

	store := newFakeStore()
	publisher := &fakePublisher{}
	tax := core.NewTaxonomy(core.CategoryModeFixed, nil)

	sessions := session.NewManager(100, time.Minute)
	t.Cleanup(sessions.Close)

	srv := NewServer(
		opts,
		auth.NewService(store, nil),
		services.NewLedgerService(store, tax, nil),
		services.NewInsightsService(store, nil),
		journal.New(store, nil),
		sessions,
		publisher,
		store,
		store,
		nil,
	)
	t.Cleanup(func() { srv.limiter.Stop() })

	ts := httptest.NewServer(srv.Server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, store: store, publisher: publisher}
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) (*http.Response, []byte) {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.ts.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, []byte(buf.String())
}

func (e *testEnv) registerAndLogin(t *testing.T, username, password string) string {
	t.Helper()
	resp, body := e.do(t, "POST", "/api/register", "",
		fmt.Sprintf(`{"username":%q,"password":%q,"email":"%s@example.com"}`, username, password, username))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d: %s", resp.StatusCode, body)
	}

	resp, body = e.do(t, "POST", "/api/login", "",
		fmt.Sprintf(`{"username":%q,"password":%q}`, username, password))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d: %s", resp.StatusCode, body)
	}
	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return lr.Token
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t, Options{})

	resp, _ := env.do(t, "GET", "/api/expenses", "", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", resp.StatusCode)
	}

	resp, _ = env.do(t, "GET", "/api/expenses", "deadbeef", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d, want 401", resp.StatusCode)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.registerAndLogin(t, "alice", "Passw0rd!")

	// Wrong password and unknown user answer identically.
	respWrong, bodyWrong := env.do(t, "POST", "/api/login", "", `{"username":"alice","password":"nope"}`)
	respUnknown, bodyUnknown := env.do(t, "POST", "/api/login", "", `{"username":"ghost","password":"nope"}`)
	if respWrong.StatusCode != http.StatusUnauthorized || respUnknown.StatusCode != http.StatusUnauthorized {
		t.Fatalf("statuses = %d, %d, want 401 for both", respWrong.StatusCode, respUnknown.StatusCode)
	}
	if string(bodyWrong) != string(bodyUnknown) {
		t.Fatalf("error bodies differ: %s vs %s", bodyWrong, bodyUnknown)
	}
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.registerAndLogin(t, "alice", "Passw0rd!")

	resp, _ := env.do(t, "POST", "/api/register", "", `{"username":"alice","password":"Passw0rd!"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", resp.StatusCode)
	}
}

func TestExpenseLifecycle(t *testing.T) {
	env := newTestEnv(t, Options{})
	token := env.registerAndLogin(t, "alice", "Passw0rd!")

	resp, body := env.do(t, "POST", "/api/expenses", token,
		`{"category":"Food","amount":"200","date":"2024-05-01","description":"groceries"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, body)
	}
	var created map[string]int64
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	id := created["id"]

	resp, body = env.do(t, "POST", "/api/expenses", token,
		`{"category":"Transportation","amount":"50.5","date":"2024-05-15","description":""}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("second create status = %d: %s", resp.StatusCode, body)
	}

	resp, body = env.do(t, "GET", "/api/expenses?from=2024-05-01&to=2024-05-31", token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d: %s", resp.StatusCode, body)
	}
	var listed struct {
		Expenses []expenseItem `json:"expenses"`
	}
	if err := json.Unmarshal(body, &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed.Expenses) != 2 {
		t.Fatalf("listed %d expenses, want 2", len(listed.Expenses))
	}
	if listed.Expenses[0].Index != 1 || listed.Expenses[1].Index != 2 {
		t.Fatalf("display indices = %d, %d", listed.Expenses[0].Index, listed.Expenses[1].Index)
	}
	if listed.Expenses[0].Category != "Food" {
		t.Fatalf("ascending date order expected, first category = %s", listed.Expenses[0].Category)
	}

	resp, _ = env.do(t, "PUT", fmt.Sprintf("/api/expenses/%d", id), token,
		`{"category":"Food","amount":"210","date":"2024-05-02","description":"groceries"}`)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("update status = %d", resp.StatusCode)
	}

	resp, _ = env.do(t, "DELETE", fmt.Sprintf("/api/expenses/%d", id), token, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp, _ = env.do(t, "DELETE", fmt.Sprintf("/api/expenses/%d", id), token, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("double delete status = %d, want 404", resp.StatusCode)
	}
}

func TestExpenseValidationMapsTo422(t *testing.T) {
	env := newTestEnv(t, Options{})
	token := env.registerAndLogin(t, "alice", "Passw0rd!")

	tests := []struct {
		name string
		body string
	}{
		{"unknown category", `{"category":"Yachts","amount":"10","date":"2024-05-01","description":""}`},
		{"negative amount", `{"category":"Food","amount":"-1","date":"2024-05-01","description":""}`},
		{"missing date", `{"category":"Food","amount":"10","description":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(t, "POST", "/api/expenses", token, tt.body)
			if resp.StatusCode != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422: %s", resp.StatusCode, body)
			}
		})
	}
}

func TestOwnershipIsolation(t *testing.T) {
	env := newTestEnv(t, Options{})
	aliceToken := env.registerAndLogin(t, "alice", "Passw0rd!")
	bobToken := env.registerAndLogin(t, "bob", "Passw0rd!")

	resp, body := env.do(t, "POST", "/api/expenses", aliceToken,
		`{"category":"Food","amount":"200","date":"2024-05-01","description":""}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, body)
	}
	var created map[string]int64
	_ = json.Unmarshal(body, &created)

	resp, _ = env.do(t, "DELETE", fmt.Sprintf("/api/expenses/%d", created["id"]), bobToken, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign delete status = %d, want 404", resp.StatusCode)
	}

	resp, body = env.do(t, "GET", "/api/expenses", bobToken, "")
	var listed struct {
		Expenses []expenseItem `json:"expenses"`
	}
	_ = json.Unmarshal(body, &listed)
	if len(listed.Expenses) != 0 {
		t.Fatalf("bob sees %d foreign expenses", len(listed.Expenses))
	}
}

func TestBudgetsAndSummary(t *testing.T) {
	env := newTestEnv(t, Options{})
	token := env.registerAndLogin(t, "alice", "Passw0rd!")

	seed := []string{
		`{"category":"Food","amount":"200","date":"2024-05-01","description":""}`,
		`{"category":"Transportation","amount":"50.5","date":"2024-05-15","description":""}`,
	}
	for _, b := range seed {
		if resp, body := env.do(t, "POST", "/api/expenses", token, b); resp.StatusCode != http.StatusCreated {
			t.Fatalf("seed expense: %d %s", resp.StatusCode, body)
		}
	}
	if resp, body := env.do(t, "POST", "/api/incomes", token,
		`{"amount":"2000","date":"2024-05-28","description":"salary"}`); resp.StatusCode != http.StatusCreated {
		t.Fatalf("seed income: %d %s", resp.StatusCode, body)
	}
	if resp, _ := env.do(t, "PUT", "/api/budgets", token,
		`{"category":"Food","amount":"200","year":2024,"month":5}`); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("set budget failed: %d", resp.StatusCode)
	}

	resp, body := env.do(t, "GET", "/api/summary?year=2024&month=5", token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary status = %d: %s", resp.StatusCode, body)
	}
	var summary struct {
		ExpenseTotal string `json:"expense_total"`
		IncomeTotal  string `json:"income_total"`
		NetSavings   string `json:"net_savings"`
		TopCategory  string `json:"top_category"`
		Budgets      []struct {
			Category string  `json:"category"`
			Ratio    float64 `json:"ratio"`
		} `json:"budgets"`
	}
	if err := json.Unmarshal(body, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.ExpenseTotal != "250.5" {
		t.Fatalf("expense total = %s, want 250.5", summary.ExpenseTotal)
	}
	if summary.NetSavings != "1749.5" {
		t.Fatalf("net savings = %s, want 1749.5", summary.NetSavings)
	}
	if summary.TopCategory != "Food" {
		t.Fatalf("top category = %s", summary.TopCategory)
	}
	if len(summary.Budgets) != 1 || summary.Budgets[0].Ratio != 1.0 {
		t.Fatalf("budget progress = %+v", summary.Budgets)
	}

	resp, body = env.do(t, "GET", "/api/budgets?year=2024&month=5", token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("budgets status = %d: %s", resp.StatusCode, body)
	}
	var budgets struct {
		Budgets []budgetItem `json:"budgets"`
	}
	if err := json.Unmarshal(body, &budgets); err != nil {
		t.Fatalf("decode budgets: %v", err)
	}
	if len(budgets.Budgets) != 1 || budgets.Budgets[0].Category != "Food" {
		t.Fatalf("budgets = %+v", budgets.Budgets)
	}
}

func TestEmailSummaryPublishes(t *testing.T) {
	env := newTestEnv(t, Options{})
	token := env.registerAndLogin(t, "alice", "Passw0rd!")

	if resp, _ := env.do(t, "PUT", "/api/period", token, `{"year":2024,"month":5}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("set period failed")
	}

	resp, body := env.do(t, "POST", "/api/summary/email", token, `{}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("email summary status = %d: %s", resp.StatusCode, body)
	}

	env.publisher.mu.Lock()
	defer env.publisher.mu.Unlock()
	if len(env.publisher.requests) != 1 {
		t.Fatalf("published %d requests, want 1", len(env.publisher.requests))
	}
	req := env.publisher.requests[0]
	if req.Username != "alice" || req.Recipient != "alice@example.com" {
		t.Fatalf("request = %+v", req)
	}
	if req.Year != 2024 || req.Month != time.May {
		t.Fatalf("request period = %d-%d, want session period", req.Year, req.Month)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t, Options{})
	token := env.registerAndLogin(t, "alice", "Passw0rd!")

	if resp, _ := env.do(t, "POST", "/api/logout", token, ""); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout failed")
	}
	resp, _ := env.do(t, "GET", "/api/expenses", token, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("revoked token status = %d, want 401", resp.StatusCode)
	}
}

func TestLoginRateLimited(t *testing.T) {
	env := newTestEnv(t, Options{LoginRatePerMinute: 2})

	for i := 0; i < 2; i++ {
		resp, _ := env.do(t, "POST", "/api/login", "", `{"username":"ghost","password":"nope"}`)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d status = %d, want 401", i+1, resp.StatusCode)
		}
	}
	resp, _ := env.do(t, "POST", "/api/login", "", `{"username":"ghost","password":"nope"}`)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("third attempt status = %d, want 429", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After header")
	}
}

func TestExportExpensesCSV(t *testing.T) {
	env := newTestEnv(t, Options{})
	token := env.registerAndLogin(t, "alice", "Passw0rd!")

	if resp, _ := env.do(t, "POST", "/api/expenses", token,
		`{"category":"Food","amount":"200","date":"2024-05-01","description":"groceries"}`); resp.StatusCode != http.StatusCreated {
		t.Fatalf("seed expense failed")
	}

	resp, body := env.do(t, "GET", "/api/export/expenses.csv", token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %s", ct)
	}
	want := "#,date,category,amount,description\n1,2024-05-01,Food,200.00,groceries\n"
	if string(body) != want {
		t.Fatalf("csv body:\n%s\nwant:\n%s", body, want)
	}
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t, Options{})

	resp, _ := env.do(t, "GET", "/healthz", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}
	resp, _ = env.do(t, "GET", "/readyz", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("readyz status = %d", resp.StatusCode)
	}
}
