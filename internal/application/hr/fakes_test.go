package hr_test

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
)

// memStores un memStore por código de empresa.
type memStores struct {
	mu     sync.Mutex
	stores map[string]*memStore
}

func newMemStores() *memStores { return &memStores{stores: map[string]*memStore{}} }

func (m *memStores) Store(_ context.Context, code string) (repository.TenantStore, error) {
	if code == "" {
		return nil, domain.ErrMissingCompanyCode
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stores[code]
	if !ok {
		s = &memStore{
			employees:    memTable[entity.Employee]{rows: map[string]*entity.Employee{}},
			contracts:    memTable[entity.PayrollContract]{rows: map[string]*entity.PayrollContract{}},
			offboardings: memTable[entity.Offboarding]{rows: map[string]*entity.Offboarding{}},
			actions:      memTable[entity.DisciplinaryAction]{rows: map[string]*entity.DisciplinaryAction{}},
		}
		m.stores[code] = s
	}
	return s, nil
}

type memStore struct {
	employees    memTable[entity.Employee]
	contracts    memTable[entity.PayrollContract]
	offboardings memTable[entity.Offboarding]
	actions      memTable[entity.DisciplinaryAction]
}

func (s *memStore) Employees() repository.EmployeeRepository { return employeeRepo{&s.employees} }
func (s *memStore) Contracts() repository.PayrollContractRepository {
	return contractRepo{&s.contracts}
}
func (s *memStore) Offboardings() repository.OffboardingRepository {
	return offboardingRepo{&s.offboardings}
}
func (s *memStore) DisciplinaryActions() repository.DisciplinaryActionRepository {
	return actionRepo{&s.actions}
}

func (s *memStore) CompleteOffboarding(ctx context.Context, o *entity.Offboarding) error {
	if err := s.Offboardings().Update(ctx, o); err != nil {
		return err
	}
	e, _ := s.Employees().GetByID(ctx, o.EmployeeID)
	if e == nil {
		return domain.NewError(domain.ErrNotFound, "empleado no encontrado")
	}
	e.Status = entity.EmployeeStatusInactive
	return s.Employees().Update(ctx, e)
}

func (s *memStore) Close() {}

// memTable tabla genérica en memoria indexada por ID.
type memTable[T any] struct {
	mu   sync.Mutex
	rows map[string]*T
}

func (t *memTable[T]) put(id string, v *T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := *v
	t.rows[id] = &cp
}

func (t *memTable[T]) get(id string) *T {
	t.mu.Lock()
	defer t.mu.Unlock()
	if v, ok := t.rows[id]; ok {
		cp := *v
		return &cp
	}
	return nil
}

func (t *memTable[T]) all(keep func(*T) bool) []*T {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []*T
	for _, v := range t.rows {
		if keep(v) {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out
}

func (t *memTable[T]) update(id string, v *T) error {
	if t.get(id) == nil {
		return domain.NewError(domain.ErrNotFound, "no encontrado")
	}
	t.put(id, v)
	return nil
}

func (t *memTable[T]) remove(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return domain.NewError(domain.ErrNotFound, "no encontrado")
	}
	delete(t.rows, id)
	return nil
}

type employeeRepo struct{ t *memTable[entity.Employee] }

func (r employeeRepo) Create(_ context.Context, e *entity.Employee) error {
	for _, x := range r.t.all(func(*entity.Employee) bool { return true }) {
		if x.EmployeeCode == e.EmployeeCode || x.Email == e.Email {
			return domain.NewError(domain.ErrConflict, "empleado duplicado")
		}
	}
	r.t.put(e.ID, e)
	return nil
}
func (r employeeRepo) GetByID(_ context.Context, id string) (*entity.Employee, error) {
	return r.t.get(id), nil
}
func (r employeeRepo) List(_ context.Context, o repository.ListOptions) ([]*entity.Employee, error) {
	return r.t.all(func(e *entity.Employee) bool { return o.Status == "" || e.Status == o.Status }), nil
}
func (r employeeRepo) Update(_ context.Context, e *entity.Employee) error { return r.t.update(e.ID, e) }
func (r employeeRepo) Delete(_ context.Context, id string) error         { return r.t.remove(id) }

type contractRepo struct{ t *memTable[entity.PayrollContract] }

func (r contractRepo) Create(_ context.Context, c *entity.PayrollContract) error {
	r.t.put(c.ID, c)
	return nil
}
func (r contractRepo) GetByID(_ context.Context, id string) (*entity.PayrollContract, error) {
	return r.t.get(id), nil
}
func (r contractRepo) List(_ context.Context, o repository.ListOptions) ([]*entity.PayrollContract, error) {
	return r.t.all(func(c *entity.PayrollContract) bool { return o.EmployeeID == "" || c.EmployeeID == o.EmployeeID }), nil
}
func (r contractRepo) Update(_ context.Context, c *entity.PayrollContract) error {
	return r.t.update(c.ID, c)
}
func (r contractRepo) Delete(_ context.Context, id string) error { return r.t.remove(id) }

type offboardingRepo struct{ t *memTable[entity.Offboarding] }

func (r offboardingRepo) Create(_ context.Context, o *entity.Offboarding) error {
	r.t.put(o.ID, o)
	return nil
}
func (r offboardingRepo) GetByID(_ context.Context, id string) (*entity.Offboarding, error) {
	return r.t.get(id), nil
}
func (r offboardingRepo) List(_ context.Context, o repository.ListOptions) ([]*entity.Offboarding, error) {
	return r.t.all(func(x *entity.Offboarding) bool { return o.EmployeeID == "" || x.EmployeeID == o.EmployeeID }), nil
}
func (r offboardingRepo) Update(_ context.Context, o *entity.Offboarding) error {
	return r.t.update(o.ID, o)
}

type actionRepo struct{ t *memTable[entity.DisciplinaryAction] }

func (r actionRepo) Create(_ context.Context, a *entity.DisciplinaryAction) error {
	r.t.put(a.ID, a)
	return nil
}
func (r actionRepo) GetByID(_ context.Context, id string) (*entity.DisciplinaryAction, error) {
	return r.t.get(id), nil
}
func (r actionRepo) List(_ context.Context, o repository.ListOptions) ([]*entity.DisciplinaryAction, error) {
	return r.t.all(func(a *entity.DisciplinaryAction) bool { return o.EmployeeID == "" || a.EmployeeID == o.EmployeeID }), nil
}
func (r actionRepo) Update(_ context.Context, a *entity.DisciplinaryAction) error {
	return r.t.update(a.ID, a)
}
func (r actionRepo) Delete(_ context.Context, id string) error { return r.t.remove(id) }

// memStorage almacenamiento de archivos en memoria.
type memStorage struct {
	mu    sync.Mutex
	files map[string][]byte
	types map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string][]byte{}, types: map[string]string{}}
}

func (s *memStorage) Put(_ context.Context, key, contentType string, r io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = data
	s.types[key] = contentType
	return "/uploads/" + key, nil
}

func (s *memStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[key]
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, "archivo no encontrado")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	delete(s.types, key)
	return nil
}
