// Package memstore is a test fake: it keeps profiles, contracts and jobs in
// memory behind the same method sets as the gorm repositories. Transactions
// snapshot the data and restore it when the unit of work fails. Balances are
// rounded to model.MoneyScale, as the numeric column does on write.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/contract-payments/internal/model"
)

type txKey struct{}

type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	profiles  map[uint]model.Profile
	contracts map[uint]model.Contract
	jobs      map[uint]model.Job

	Profiles  *Profiles
	Contracts *Contracts
	Jobs      *Jobs
	Reports   *Reports
}

func New() *Store {
	s := &Store{
		profiles:  make(map[uint]model.Profile),
		contracts: make(map[uint]model.Contract),
		jobs:      make(map[uint]model.Job),
	}
	s.Profiles = &Profiles{s: s}
	s.Contracts = &Contracts{s: s}
	s.Jobs = &Jobs{s: s}
	s.Reports = &Reports{s: s}
	return s
}

func (s *Store) AddProfile(p model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
}

func (s *Store) AddContract(c model.Contract) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contracts[c.ID] = c
}

func (s *Store) AddJob(j model.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j.Contract = nil
	s.jobs[j.ID] = j
}

func (s *Store) Profile(id uint) model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles[id]
}

func (s *Store) Job(id uint) model.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobs[id]
}

// WithinTransaction serializes units of work, which is stricter than row
// locks but gives the same observable guarantees.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	profiles := copyMap(s.profiles)
	contracts := copyMap(s.contracts)
	jobs := copyMap(s.jobs)
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, struct{}{})); err != nil {
		s.mu.Lock()
		s.profiles, s.contracts, s.jobs = profiles, contracts, jobs
		s.mu.Unlock()
		return err
	}
	return nil
}

func copyMap[V any](in map[uint]V) map[uint]V {
	out := make(map[uint]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type Profiles struct{ s *Store }

func (r *Profiles) GetByID(_ context.Context, id uint) (*model.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *Profiles) LockByIDs(_ context.Context, ids ...uint) ([]model.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]model.Profile, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if p, ok := r.s.profiles[id]; ok && !seen[id] {
			seen[id] = true
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *Profiles) AddBalance(_ context.Context, id uint, delta decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Balance = p.Balance.Add(delta).Round(model.MoneyScale)
	r.s.profiles[id] = p
	return nil
}

type Contracts struct{ s *Store }

func (r *Contracts) GetByID(_ context.Context, id uint) (*model.Contract, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.contracts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *Contracts) ListActiveByProfile(_ context.Context, profileID uint) ([]model.Contract, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]model.Contract, 0)
	for _, c := range r.s.contracts {
		if c.HasParty(profileID) && c.Status != model.ContractStatusTerminated {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type Jobs struct{ s *Store }

func (r *Jobs) ListUnpaidByContractor(_ context.Context, contractorID uint) ([]model.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]model.Job, 0)
	for _, j := range r.s.jobs {
		if j.Paid {
			continue
		}
		if c, ok := r.s.contracts[j.ContractID]; ok && c.ContractorID == contractorID {
			result = append(result, j)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *Jobs) GetWithContract(_ context.Context, id uint) (*model.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.withContract(id)
}

func (r *Jobs) LockWithContract(_ context.Context, id uint) (*model.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.withContract(id)
}

func (r *Jobs) withContract(id uint) (*model.Job, error) {
	j, ok := r.s.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c, ok := r.s.contracts[j.ContractID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	j.Contract = &c
	return &j, nil
}

func (r *Jobs) MarkPaid(_ context.Context, id uint, paidAt time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.jobs[id]
	if !ok || j.Paid {
		return false, nil
	}
	j.Paid = true
	j.PaymentDate = &paidAt
	r.s.jobs[id] = j
	return true, nil
}

func (r *Jobs) SumUnpaidByClient(_ context.Context, clientID uint) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, j := range r.s.jobs {
		if j.Paid {
			continue
		}
		if c, ok := r.s.contracts[j.ContractID]; ok && c.ClientID == clientID {
			total = total.Add(j.Price)
		}
	}
	return total, nil
}

type Reports struct{ s *Store }

func (r *Reports) BestProfession(_ context.Context, from, to time.Time) (*model.ProfessionEarnings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	totals := make(map[string]decimal.Decimal)
	for _, j := range r.s.jobs {
		c, ok := r.paidInRange(j, from, to)
		if !ok {
			continue
		}
		profession := r.s.profiles[c.ContractorID].Profession
		totals[profession] = totals[profession].Add(j.Price)
	}
	if len(totals) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var best *model.ProfessionEarnings
	for profession, total := range totals {
		if best == nil || total.GreaterThan(best.Total) ||
			(total.Equal(best.Total) && profession < best.Profession) {
			best = &model.ProfessionEarnings{Profession: profession, Total: total}
		}
	}
	return best, nil
}

func (r *Reports) BestClients(_ context.Context, from, to time.Time, limit int) ([]model.ClientPayments, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	totals := make(map[uint]decimal.Decimal)
	for _, j := range r.s.jobs {
		c, ok := r.paidInRange(j, from, to)
		if !ok {
			continue
		}
		totals[c.ClientID] = totals[c.ClientID].Add(j.Price)
	}

	result := make([]model.ClientPayments, 0, len(totals))
	for id, paid := range totals {
		result = append(result, model.ClientPayments{
			ID:       id,
			FullName: r.s.profiles[id].FullName(),
			Paid:     paid,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Paid.Equal(result[j].Paid) {
			return result[i].Paid.GreaterThan(result[j].Paid)
		}
		return result[i].ID < result[j].ID
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *Reports) paidInRange(j model.Job, from, to time.Time) (model.Contract, bool) {
	if !j.Paid || j.PaymentDate == nil {
		return model.Contract{}, false
	}
	if j.PaymentDate.Before(from) || !j.PaymentDate.Before(to) {
		return model.Contract{}, false
	}
	c, ok := r.s.contracts[j.ContractID]
	return c, ok
}
