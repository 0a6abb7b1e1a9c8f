package usecase_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/inventory"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
)

// ── In-memory ProductRepository stub ─────────────────────────────────────────

type stubProductRepo struct {
	products map[string]*entity.Product
	setCalls int
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*entity.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) SetStatus(_ context.Context, id, status string) error {
	r.setCalls++
	r.products[id].Status = status
	return nil
}

func (r *stubProductRepo) AdjustStock(_ context.Context, id, op string, qty int) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	p.StockCurrent, _ = inventory.ApplyStockAdjustment(p.StockCurrent, op, qty)
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubProductRepo) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.IsActive() && p.IsLowStock() {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StockCurrent < out[j].StockCurrent })
	return out, nil
}

func (r *stubProductRepo) Categories(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range r.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *stubProductRepo) UpdateImage(_ context.Context, id, url string) error {
	r.products[id].ImageURL = url
	return nil
}

// ── In-memory SupplierRepository stub ────────────────────────────────────────

type stubSupplierRepo struct {
	suppliers  map[string]*entity.Supplier
	lastFilter repository.SupplierFilter
	setCalls   int
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[string]*entity.Supplier)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	cp := *s
	r.suppliers[s.ID] = &cp
	return nil
}

func (r *stubSupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	cp := *s
	r.suppliers[s.ID] = &cp
	return nil
}

func (r *stubSupplierRepo) SetStatus(_ context.Context, id, status string) error {
	r.setCalls++
	r.suppliers[id].Status = status
	return nil
}

func (r *stubSupplierRepo) List(_ context.Context, f repository.SupplierFilter) ([]*entity.Supplier, error) {
	r.lastFilter = f
	var out []*entity.Supplier
	for _, s := range r.suppliers {
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// ── Users / permissions stubs ────────────────────────────────────────────────

type stubUserRepo struct {
	users map[string]*entity.User
}

func (r *stubUserRepo) Create(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}
func (r *stubUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.users[id], nil
}
func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r *stubUserRepo) Update(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}
func (r *stubUserRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.users[id].Status = status
	return nil
}
func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.users[id].PasswordHash = hash
	r.users[id].MustChangePassword = false
	return nil
}
func (r *stubUserRepo) List(_ context.Context, _ repository.UserFilter) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

type stubPermissionRepo struct {
	byUser      map[string][]string
	byProfile   map[string][]string
	userLookups int
}

func (r *stubPermissionRepo) ListProfiles(context.Context) ([]*entity.Profile, error) { return nil, nil }
func (r *stubPermissionRepo) GetProfile(_ context.Context, id string) (*entity.Profile, error) {
	if _, ok := r.byProfile[id]; !ok {
		return nil, nil
	}
	return &entity.Profile{ID: id}, nil
}
func (r *stubPermissionRepo) CreateProfile(context.Context, *entity.Profile) error { return nil }
func (r *stubPermissionRepo) ListPermissions(context.Context) ([]*entity.Permission, error) {
	return nil, nil
}
func (r *stubPermissionRepo) CodesForUser(_ context.Context, userID string) ([]string, error) {
	r.userLookups++
	return r.byUser[userID], nil
}
func (r *stubPermissionRepo) CodesForProfile(_ context.Context, profileID string) ([]string, error) {
	return r.byProfile[profileID], nil
}
func (r *stubPermissionRepo) ReplaceForUser(_ context.Context, userID string, ids []string) error {
	r.byUser[userID] = ids
	return nil
}
func (r *stubPermissionRepo) ReplaceForProfile(_ context.Context, profileID string, ids []string) error {
	r.byProfile[profileID] = ids
	return nil
}

// ── Notifier / audit / LLM fakes ─────────────────────────────────────────────

type notification struct {
	event string
	data  map[string]interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (n *recordingNotifier) Notify(event string, data map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{event: event, data: data})
}

func (n *recordingNotifier) count(event string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e.event == event {
			c++
		}
	}
	return c
}

type fakeLLM struct {
	system   string
	question string
	answer   string
	err      error
}

func (f *fakeLLM) Ask(ctx context.Context, system, question string) (string, error) {
	f.system, f.question = system, question
	if _, ok := ctx.Deadline(); !ok {
		panic("el asistente debe llamar al LLM con timeout")
	}
	return f.answer, f.err
}
